package cmd

import (
	"fmt"

	"github.com/abcchain/abc/foundation/keys"
	"github.com/abcchain/abc/foundation/nodestate"
	"github.com/spf13/cobra"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Print the wallet address for the specific key",
	RunE:  accountRun,
}

func init() {
	rootCmd.AddCommand(accountCmd)
}

func accountRun(cmd *cobra.Command, args []string) error {
	key, err := keys.Load(getPrivateKeyPath())
	if err != nil {
		return err
	}

	pubKey, err := key.PublicKeyString()
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), nodestate.DeriveAddress(pubKey))

	return nil
}
