package nodestate

import (
	"errors"
	"fmt"
	"math"

	"github.com/abcchain/abc/foundation/peer"
)

// IncrementHeight adds one to the chain height.
func (s *Store) IncrementHeight() (uint64, error) {
	state, err := s.mutate(func(st *State) error {
		st.Height++
		return nil
	})

	s.evHandler("nodestate: increment height: height[%d]", state.Height)

	return state.Height, err
}

// UpdatePreviousHash records the hash of the latest accepted block.
func (s *Store) UpdatePreviousHash(hash string) (State, error) {
	if hash == "" {
		return s.All(), ErrEmptyHash
	}

	state, err := s.mutate(func(st *State) error {
		st.LastBlock = hash
		return nil
	})

	s.evHandler("nodestate: update previous hash: last_block[%s]", state.LastBlock)

	return state, err
}

// CommitBlock records an accepted block. The height and the last block
// hash change together and are written once.
func (s *Store) CommitBlock(hash string) (State, error) {
	if hash == "" {
		return s.All(), ErrEmptyHash
	}

	state, err := s.mutate(func(st *State) error {
		st.Height++
		st.LastBlock = hash
		return nil
	})

	s.evHandler("nodestate: commit block: height[%d] last_block[%s]", state.Height, state.LastBlock)

	return state, err
}

// AddBalance adds the amount to the wallet and returns the new balance.
func (s *Store) AddBalance(amount int64) (int64, error) {
	state, err := s.mutate(func(st *State) error {
		if !canAdd(st.Wallet.Amount, amount) {
			return ErrBalanceOverflow
		}
		st.Wallet.Amount += amount
		return nil
	})

	if errors.Is(err, ErrBalanceOverflow) {
		return state.Wallet.Amount, err
	}

	s.evHandler("nodestate: add balance: amount[%d] balance[%d]", amount, state.Wallet.Amount)

	return state.Wallet.Amount, err
}

// SubtractBalance takes the amount from the wallet and returns the new
// balance. The balance is allowed to go negative.
func (s *Store) SubtractBalance(amount int64) (int64, error) {
	state, err := s.mutate(func(st *State) error {
		if !canSubtract(st.Wallet.Amount, amount) {
			return ErrBalanceOverflow
		}
		st.Wallet.Amount -= amount
		return nil
	})

	if errors.Is(err, ErrBalanceOverflow) {
		return state.Wallet.Amount, err
	}

	s.evHandler("nodestate: subtract balance: amount[%d] balance[%d]", amount, state.Wallet.Amount)

	return state.Wallet.Amount, err
}

// UpdatePeers replaces the peer registry.
func (s *Store) UpdatePeers(peers map[string]peer.Peer) (State, error) {
	if len(peers) == 0 {
		return s.All(), ErrNoPeers
	}

	for id, p := range peers {
		if err := p.Validate(); err != nil {
			return s.All(), fmt.Errorf("peer %q: %w", id, err)
		}
	}

	state, err := s.mutate(func(st *State) error {
		st.Peers = make(map[string]peer.Peer, len(peers))
		for id, p := range peers {
			st.Peers[id] = p
		}
		return nil
	})

	s.evHandler("nodestate: update peers: count[%d]", len(state.Peers))

	return state, err
}

// AddPeer registers or replaces a single peer.
func (s *Store) AddPeer(id string, p peer.Peer) (State, error) {
	if err := p.Validate(); err != nil {
		return s.All(), fmt.Errorf("peer %q: %w", id, err)
	}

	state, err := s.mutate(func(st *State) error {
		st.Peers[id] = p
		return nil
	})

	s.evHandler("nodestate: add peer: id[%s] host[%s]", id, p.Host())

	return state, err
}

// RemovePeer drops a peer from the registry. The last peer can't be removed.
func (s *Store) RemovePeer(id string) (State, error) {
	state, err := s.mutate(func(st *State) error {
		if _, exists := st.Peers[id]; !exists {
			return ErrUnknownPeer
		}
		if len(st.Peers) == 1 {
			return ErrNoPeers
		}
		delete(st.Peers, id)
		return nil
	})
	if errors.Is(err, ErrUnknownPeer) || errors.Is(err, ErrNoPeers) {
		return state, err
	}

	s.evHandler("nodestate: remove peer: id[%s]", id)

	return state, err
}

// Save writes the full in memory state to storage.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.save()
}

// =============================================================================

// canAdd reports whether balance+amount fits in an int64.
func canAdd(balance int64, amount int64) bool {
	if amount > 0 {
		return balance <= math.MaxInt64-amount
	}
	return balance >= math.MinInt64-amount
}

// canSubtract reports whether balance-amount fits in an int64.
func canSubtract(balance int64, amount int64) bool {
	if amount > 0 {
		return balance >= math.MinInt64+amount
	}
	return balance <= math.MaxInt64+amount
}

// mutate applies the change and persists the result while holding the
// write lock. A change that returns an error must leave the state as it
// found it. A successful change stays in memory even when the write fails.
func (s *Store) mutate(change func(st *State) error) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := change(&s.state); err != nil {
		return s.state.Copy(), err
	}
	err := s.save()

	return s.state.Copy(), err
}

// save encodes and writes the state. The caller must hold the write lock.
func (s *Store) save() error {
	data, err := Encode(s.state)
	if err != nil {
		s.dirty = true
		return fmt.Errorf("%w: encoding: %w", ErrPersist, err)
	}

	if err := s.storage.Write(data); err != nil {
		s.dirty = true
		s.evHandler("nodestate: save: ERROR: %s", err)
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}

	s.dirty = false

	return nil
}
