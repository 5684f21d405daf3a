// Package keys provides the node's ECDSA key pair and the public key string
// the wallet address is derived from.
package keys

import (
	"crypto/ecdsa"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/crypto"
)

// Key holds the private key for the node. This implements the
// nodestate.PublicKeyProvider interface.
type Key struct {
	privateKey *ecdsa.PrivateKey
}

// Load reads a hex encoded private key from the specified file.
func Load(path string) (Key, error) {
	privateKey, err := crypto.LoadECDSA(path)
	if err != nil {
		return Key{}, err
	}

	return Key{privateKey: privateKey}, nil
}

// Generate creates a new private key and saves it to the specified file.
func Generate(path string) (Key, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return Key{}, err
	}

	privateKey, err := crypto.GenerateKey()
	if err != nil {
		return Key{}, err
	}

	if err := crypto.SaveECDSA(path, privateKey); err != nil {
		return Key{}, err
	}

	return Key{privateKey: privateKey}, nil
}

// LoadOrGenerate loads the key at path, creating one if the file
// doesn't exist.
func LoadOrGenerate(path string) (Key, bool, error) {
	key, err := Load(path)
	switch {
	case err == nil:
		return key, false, nil
	case !errors.Is(err, fs.ErrNotExist):
		return Key{}, false, fmt.Errorf("loading key: %w", err)
	}

	key, err = Generate(path)
	if err != nil {
		return Key{}, false, fmt.Errorf("generating key: %w", err)
	}

	return key, true, nil
}

// FromHex constructs a key from a hex encoded private key.
func FromHex(hexKey string) (Key, error) {
	privateKey, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return Key{}, err
	}

	return Key{privateKey: privateKey}, nil
}

// PublicKeyString returns the hex encoding of the uncompressed public key.
func (k Key) PublicKeyString() (string, error) {
	if k.privateKey == nil {
		return "", errors.New("key not loaded")
	}

	return hex.EncodeToString(crypto.FromECDSAPub(&k.privateKey.PublicKey)), nil
}

// Account returns the ethereum style account for the key.
func (k Key) Account() string {
	if k.privateKey == nil {
		return ""
	}

	return crypto.PubkeyToAddress(k.privateKey.PublicKey).Hex()
}

// =============================================================================

// Static is a public key string supplied directly by the caller. This
// implements the nodestate.PublicKeyProvider interface.
type Static string

// PublicKeyString returns the key string.
func (s Static) PublicKeyString() (string, error) {
	if s == "" {
		return "", errors.New("empty public key")
	}

	return string(s), nil
}
