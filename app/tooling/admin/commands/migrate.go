package commands

import (
	"fmt"

	"github.com/abcchain/abc/foundation/nodestate"
	"go.uber.org/zap"
)

// Migrate copies the state record from one backend to another. The
// destination is overwritten.
func Migrate(args []string, log *zap.SugaredLogger) error {
	if len(args) != 6 {
		fmt.Println("usage: admin migrate <from-backend> <from-path> <to-backend> <to-path>")
		return ErrHelp
	}

	from, err := open(args[2], args[3])
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	defer from.Close()

	data, err := from.Read()
	if err != nil {
		return fmt.Errorf("reading source: %w", err)
	}

	state, err := nodestate.Decode(data)
	if err != nil {
		return fmt.Errorf("corrupt source record: %w", err)
	}

	to, err := open(args[4], args[5])
	if err != nil {
		return fmt.Errorf("opening destination: %w", err)
	}
	defer to.Close()

	out, err := nodestate.Encode(state)
	if err != nil {
		return err
	}

	if err := to.Write(out); err != nil {
		return fmt.Errorf("writing destination: %w", err)
	}

	log.Infow("migrate", "from", args[3], "to", args[5], "height", state.Height, "address", state.Wallet.Address)

	return nil
}
