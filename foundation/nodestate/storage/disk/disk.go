// Package disk implements the ability to read and write the state record
// as a single json file.
package disk

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/abcchain/abc/foundation/nodestate"
)

// Disk represents the serialization implementation for reading and storing
// the state record in a file on disk. This implements the nodestate.Storage
// interface.
type Disk struct {
	path string
}

// New constructs a Disk value for use. The directory holding the file is
// created if needed.
func New(path string) (*Disk, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	return &Disk{path: path}, nil
}

// Path returns the location of the record.
func (d *Disk) Path() string {
	return d.path
}

// Close in this implementation has nothing to do since the file is
// written and closed on every call to Write.
func (d *Disk) Close() error {
	return nil
}

// Read returns the contents of the record.
func (d *Disk) Read() ([]byte, error) {
	data, err := os.ReadFile(d.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nodestate.ErrNotFound
		}
		return nil, err
	}

	return data, nil
}

// Write replaces the record. The data goes to a temporary file in the same
// directory which is then renamed over the record, so readers see either
// the old record or the new one.
func (d *Disk) Write(data []byte) error {
	f, err := os.CreateTemp(filepath.Dir(d.path), filepath.Base(d.path)+".*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()

	// Remove the temporary file on any failure.
	written := false
	defer func() {
		if !written {
			os.Remove(tmp)
		}
	}()

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write: %w", err)
	}

	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("sync: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}

	if err := os.Rename(tmp, d.path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	written = true

	if err := syncDir(filepath.Dir(d.path)); err != nil {
		return fmt.Errorf("sync dir: %w", err)
	}

	return nil
}

// syncDir flushes the directory entry so the rename survives a crash.
func syncDir(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()

	return f.Sync()
}
