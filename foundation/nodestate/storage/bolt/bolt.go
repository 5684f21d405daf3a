// Package bolt implements the ability to read and write the state record
// inside a bbolt database file.
package bolt

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/abcchain/abc/foundation/nodestate"
	"go.etcd.io/bbolt"
)

var (
	bucketName = []byte("nodestate")
	recordKey  = []byte("state")
)

// Bolt represents the serialization implementation for reading and storing
// the state record in a bbolt database. This implements the nodestate.Storage
// interface.
type Bolt struct {
	db *bbolt.DB
}

// New opens or creates the database at the specified path.
func New(path string) (*Bolt, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	// The timeout stops a second process from hanging on the file lock.
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Bolt{db: db}, nil
}

// Close closes the database file.
func (b *Bolt) Close() error {
	return b.db.Close()
}

// Read returns the contents of the record.
func (b *Bolt) Read() ([]byte, error) {
	var data []byte

	err := b.db.View(func(tx *bbolt.Tx) error {
		bkt := tx.Bucket(bucketName)
		if bkt == nil {
			return nodestate.ErrNotFound
		}

		v := bkt.Get(recordKey)
		if v == nil {
			return nodestate.ErrNotFound
		}

		// The value is only valid for the life of the transaction.
		data = append([]byte(nil), v...)
		return nil
	})

	return data, err
}

// Write replaces the record in a single transaction.
func (b *Bolt) Write(data []byte) error {
	if len(data) == 0 {
		return errors.New("empty record")
	}

	return b.db.Update(func(tx *bbolt.Tx) error {
		bkt, err := tx.CreateBucketIfNotExists(bucketName)
		if err != nil {
			return err
		}

		return bkt.Put(recordKey, data)
	})
}
