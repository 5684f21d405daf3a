package nodestate

import (
	"github.com/abcchain/abc/foundation/peer"
)

// Field names accepted by Field.
const (
	FieldDifficulty = "difficulty"
	FieldHeight     = "height"
	FieldLastBlock  = "last_block"
	FieldPeers      = "peers"
	FieldReward     = "reward"
	FieldVersion    = "version"
	FieldWallet     = "wallet"
)

// All returns a copy of the full state.
func (s *Store) All() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state.Copy()
}

// Field returns the value of the named field. The bool is false when the
// name doesn't match any field.
func (s *Store) Field(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch key {
	case FieldDifficulty:
		return s.state.Difficulty, true
	case FieldHeight:
		return s.state.Height, true
	case FieldLastBlock:
		return s.state.LastBlock, true
	case FieldPeers:
		return s.state.Copy().Peers, true
	case FieldReward:
		return s.state.Reward, true
	case FieldVersion:
		return s.state.Version, true
	case FieldWallet:
		return s.state.Wallet, true
	}

	return nil, false
}

// Wallet returns a copy of the wallet.
func (s *Store) Wallet() Wallet {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state.Wallet
}

// Balance returns the spendable amount in the wallet.
func (s *Store) Balance() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state.Wallet.Amount
}

// Peers returns a set loaded with the registered peers.
func (s *Store) Peers() *peer.PeerSet {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ps := peer.NewPeerSet()
	for id, p := range s.state.Peers {
		ps.Add(id, p)
	}

	return ps
}

// Dirty reports whether the in memory state holds changes that failed
// to reach storage.
func (s *Store) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.dirty
}
