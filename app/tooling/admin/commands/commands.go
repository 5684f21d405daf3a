// Package commands contains the functionality for the admin tooling.
package commands

import (
	"fmt"

	"github.com/abcchain/abc/foundation/nodestate"
	"github.com/abcchain/abc/foundation/nodestate/storage/bolt"
	"github.com/abcchain/abc/foundation/nodestate/storage/disk"
)

// ErrHelp provides context that help was given.
var ErrHelp = fmt.Errorf("provided help")

// open constructs the backing record for the named backend.
func open(backend string, path string) (nodestate.Storage, error) {
	switch backend {
	case "disk":
		return disk.New(path)
	case "bolt":
		return bolt.New(path)
	}

	return nil, fmt.Errorf("unknown backend %q", backend)
}
