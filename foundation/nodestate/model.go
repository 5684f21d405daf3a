package nodestate

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/abcchain/abc/foundation/peer"
)

// Default values used when a fresh state record is bootstrapped.
const (
	DefaultVersion    = "00000001"
	DefaultDifficulty = 4
	DefaultReward     = 100
)

// versionLength is the fixed size of the protocol version string.
const versionLength = 8

// Wallet represents the single wallet owned by this node.
type Wallet struct {
	Address string `json:"address"`
	Amount  int64  `json:"amount"`
}

// State represents everything the node persists about itself. The fields
// are declared in lexical order of their json names so the encoded record
// has a stable key order.
type State struct {
	Difficulty uint16               `json:"difficulty"`
	Height     uint64               `json:"height"`
	LastBlock  string               `json:"last_block"`
	Peers      map[string]peer.Peer `json:"peers"`
	Reward     float64              `json:"reward"`
	Version    string               `json:"version"`
	Wallet     Wallet               `json:"wallet"`
}

// Copy returns a deep copy of the state so callers can't reach the
// store's peer map.
func (s State) Copy() State {
	peers := make(map[string]peer.Peer, len(s.Peers))
	for id, p := range s.Peers {
		peers[id] = p
	}
	s.Peers = peers

	return s
}

// Validate checks the state holds a usable record.
func (s State) Validate() error {
	if len(s.Version) != versionLength {
		return fmt.Errorf("version %q must be %d characters", s.Version, versionLength)
	}

	if s.Difficulty == 0 {
		return errors.New("difficulty must be positive")
	}

	if !(s.Reward > 0) || math.IsInf(s.Reward, 0) {
		return fmt.Errorf("reward %v must be a positive number", s.Reward)
	}

	if s.Wallet.Address == "" {
		return errors.New("wallet address is missing")
	}

	for id, p := range s.Peers {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("peer %q: %w", id, err)
		}
	}

	return nil
}

// =============================================================================

// Defaults represents the chain settings applied at bootstrap.
type Defaults struct {
	Version    string
	Difficulty uint16
	Reward     float64
	Peers      map[string]peer.Peer
}

// DefaultPeers returns the seed peers every fresh node starts with.
func DefaultPeers() map[string]peer.Peer {
	return map[string]peer.Peer{
		"1": peer.New("127.0.0.1", 3390),
		"2": peer.New("localhost", 3390),
	}
}

// fill replaces any zero value with the built in default.
func (d Defaults) fill() Defaults {
	if d.Version == "" {
		d.Version = DefaultVersion
	}

	if d.Difficulty == 0 {
		d.Difficulty = DefaultDifficulty
	}

	if d.Reward == 0 {
		d.Reward = DefaultReward
	}

	if len(d.Peers) == 0 {
		d.Peers = DefaultPeers()
	}

	return d
}

// =============================================================================

// DeriveAddress hashes the string encoding of a public key into the
// lower case hex address of the wallet.
func DeriveAddress(pubKey string) string {
	sum := sha256.Sum256([]byte(pubKey))
	return hex.EncodeToString(sum[:])
}

// Bootstrap constructs the state for a node that has never run before.
func Bootstrap(pubKey string, d Defaults) State {
	d = d.fill()

	s := State{
		Difficulty: d.Difficulty,
		Height:     0,
		LastBlock:  "",
		Reward:     d.Reward,
		Version:    d.Version,
		Wallet: Wallet{
			Address: DeriveAddress(pubKey),
			Amount:  0,
		},
		Peers: d.Peers,
	}

	return s.Copy()
}

// =============================================================================

// Encode marshals the state into the human readable record format.
func Encode(s State) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, err
	}

	return append(data, '\n'), nil
}

// Decode parses a record and validates the result.
func Decode(data []byte) (State, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return State{}, errors.New("empty record")
	}

	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return State{}, err
	}

	if s.Peers == nil {
		s.Peers = make(map[string]peer.Peer)
	}

	if err := s.Validate(); err != nil {
		return State{}, err
	}

	return s, nil
}
