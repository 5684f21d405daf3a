package cmd

import (
	"fmt"

	"github.com/abcchain/abc/foundation/keys"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate new key pair",
	RunE:  generateRun,
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

func generateRun(cmd *cobra.Command, args []string) error {
	path := getPrivateKeyPath()

	key, err := keys.Generate(path)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Key saved to:", path)
	fmt.Fprintln(cmd.OutOrStdout(), "Account:", key.Account())

	return nil
}
