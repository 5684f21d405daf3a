// Package nodestate is the durable store for the node's chain metadata,
// wallet and peer registry. Every change is written to the backing record
// before the call that made it returns.
package nodestate

import (
	"errors"
	"fmt"
	"sync"
)

// Set of error variables for the store.
var (
	ErrNotFound    = errors.New("state record not found")
	ErrPersist     = errors.New("unable to persist state")
	ErrEmptyHash   = errors.New("block hash can't be empty")
	ErrNoPeers     = errors.New("at least one peer is required")
	ErrUnknownPeer = errors.New("peer does not exist")

	ErrBalanceOverflow = errors.New("balance out of range")
)

// EventHandler defines a function that is called when events
// occur in the processing of the node state.
type EventHandler func(v string, args ...any)

// Storage interface represents the behavior required to be implemented by any
// package providing support for reading and writing the state record.
type Storage interface {
	Read() ([]byte, error)
	Write(data []byte) error
	Close() error
}

// PublicKeyProvider supplies the string encoding of the node's public key.
type PublicKeyProvider interface {
	PublicKeyString() (string, error)
}

// =============================================================================

// Config represents the configuration required to open the store.
type Config struct {
	Storage   Storage
	PublicKey PublicKeyProvider
	Defaults  Defaults
	EvHandler EventHandler
}

// Store owns the in memory state and its backing record. Construct one
// value per process and share the pointer.
type Store struct {
	mu        sync.RWMutex
	state     State
	dirty     bool
	storage   Storage
	evHandler EventHandler
}

// New loads the state record from storage. If there is no usable record a
// fresh one is bootstrapped from the public key and persisted.
func New(cfg Config) (*Store, error) {
	if cfg.Storage == nil {
		return nil, errors.New("storage is required")
	}

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	s := Store{
		storage:   cfg.Storage,
		evHandler: ev,
	}

	state, err := load(cfg.Storage)
	if err == nil {
		s.state = state
		ev("nodestate: load: height[%d] last_block[%s]", state.Height, state.LastBlock)
		return &s, nil
	}

	// Any problem with the existing record means we start over.
	if !errors.Is(err, ErrNotFound) {
		ev("nodestate: load: discarding record: %s", err)
	}

	if cfg.PublicKey == nil {
		return nil, errors.New("public key provider is required to bootstrap")
	}

	pubKey, err := cfg.PublicKey.PublicKeyString()
	if err != nil {
		return nil, fmt.Errorf("reading public key: %w", err)
	}

	// A record that can't be decoded again would be thrown away on the
	// next start.
	s.state = Bootstrap(pubKey, cfg.Defaults)
	if err := s.state.Validate(); err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	if err := s.save(); err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	ev("nodestate: bootstrap: address[%s]", s.state.Wallet.Address)

	return &s, nil
}

// Close releases the backing storage. Any unsaved change is written first.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var saveErr error
	if s.dirty {
		saveErr = s.save()
	}

	if err := s.storage.Close(); err != nil {
		return err
	}

	return saveErr
}

// load reads and decodes the record held by storage.
func load(strg Storage) (State, error) {
	data, err := strg.Read()
	if err != nil {
		return State{}, err
	}

	state, err := Decode(data)
	if err != nil {
		return State{}, fmt.Errorf("decoding record: %w", err)
	}

	return state, nil
}
