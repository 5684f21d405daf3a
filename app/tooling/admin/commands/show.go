package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/abcchain/abc/foundation/nodestate"
)

// Show prints the state record held by a backend. The record is decoded
// first so a corrupt record is reported instead of printed.
func Show(args []string, w io.Writer) error {
	if len(args) != 4 {
		fmt.Fprintln(w, "usage: admin show <backend> <path>")
		return ErrHelp
	}

	strg, err := open(args[2], args[3])
	if err != nil {
		return err
	}
	defer strg.Close()

	data, err := strg.Read()
	if err != nil {
		if errors.Is(err, nodestate.ErrNotFound) {
			return fmt.Errorf("no state record at %s", args[3])
		}
		return err
	}

	state, err := nodestate.Decode(data)
	if err != nil {
		return fmt.Errorf("corrupt state record: %w", err)
	}

	out, err := nodestate.Encode(state)
	if err != nil {
		return err
	}

	_, err = w.Write(out)
	return err
}
