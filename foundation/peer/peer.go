// Package peer maintains the peer related information such as the set
// of known peers and their addresses.
package peer

import (
	"errors"
	"net"
	"sort"
	"strconv"
	"sync"
)

// Peer represents information about a Node in the network.
type Peer struct {
	IP   string `json:"ip"`
	Port uint16 `json:"port"`
}

// New contructs a new peer value.
func New(ip string, port uint16) Peer {
	return Peer{
		IP:   ip,
		Port: port,
	}
}

// Parse constructs a peer from a host:port string.
func Parse(hostPort string) (Peer, error) {
	host, portStr, err := net.SplitHostPort(hostPort)
	if err != nil {
		return Peer{}, err
	}

	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return Peer{}, err
	}

	p := New(host, uint16(port))
	if err := p.Validate(); err != nil {
		return Peer{}, err
	}

	return p, nil
}

// Host returns the host:port form of the peer address.
func (p Peer) Host() string {
	return net.JoinHostPort(p.IP, strconv.Itoa(int(p.Port)))
}

// Match validates if the specified host matches this node.
func (p Peer) Match(host string) bool {
	return p.Host() == host
}

// Validate checks the peer can be dialed.
func (p Peer) Validate() error {
	if p.IP == "" {
		return errors.New("ip is missing")
	}

	if p.Port == 0 {
		return errors.New("port is missing")
	}

	return nil
}

// =============================================================================

// PeerSet represents the data representation to maintain a set of known
// peers keyed by an opaque identifier.
type PeerSet struct {
	mu  sync.RWMutex
	set map[string]Peer
}

// NewPeerSet constructs a new info set to manage node peer information.
func NewPeerSet() *PeerSet {
	return &PeerSet{
		set: make(map[string]Peer),
	}
}

// Add adds a new node to the set. It returns false if the id is taken.
func (ps *PeerSet) Add(id string, peer Peer) bool {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	_, exists := ps.set[id]
	if !exists {
		ps.set[id] = peer
		return true
	}

	return false
}

// Remove removes a node from the set.
func (ps *PeerSet) Remove(id string) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	delete(ps.set, id)
}

// Len returns the number of peers in the set.
func (ps *PeerSet) Len() int {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	return len(ps.set)
}

// Copy returns a list of the known peers ordered by id, leaving out any
// peer matching host.
func (ps *PeerSet) Copy(host string) []Peer {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	ids := make([]string, 0, len(ps.set))
	for id := range ps.set {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var peers []Peer
	for _, id := range ids {
		peer := ps.set[id]
		if !peer.Match(host) {
			peers = append(peers, peer)
		}
	}

	return peers
}

// Map returns a copy of the set keyed by id.
func (ps *PeerSet) Map() map[string]Peer {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	m := make(map[string]Peer, len(ps.set))
	for id, peer := range ps.set {
		m[id] = peer
	}

	return m
}
