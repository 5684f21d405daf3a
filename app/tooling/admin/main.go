// This program performs administrative tasks on a stopped node's state record.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/abcchain/abc/app/tooling/admin/commands"
	"github.com/abcchain/abc/foundation/logger"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("ADMIN")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {
	log.Infow("admin", "version", build)

	if err := processCommands(os.Args, log); err != nil {
		if errors.Is(err, commands.ErrHelp) {
			return nil
		}
		return err
	}

	return nil
}

// processCommands handles the execution of the commands specified on
// the command line.
func processCommands(args []string, log *zap.SugaredLogger) error {
	if len(args) < 2 {
		return errors.New("usage: admin show <backend> <path> | migrate <from-backend> <from-path> <to-backend> <to-path>")
	}

	switch args[1] {
	case "show":
		if err := commands.Show(args, os.Stdout); err != nil {
			return fmt.Errorf("showing state: %w", err)
		}
	case "migrate":
		if err := commands.Migrate(args, log); err != nil {
			return fmt.Errorf("migrating state: %w", err)
		}
	default:
		return fmt.Errorf("unknown command %q", args[1])
	}

	return nil
}
