package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Print your balance.",
	RunE:  balanceRun,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}

func balanceRun(cmd *cobra.Command, args []string) error {
	data, err := get("/v1/node/balance")
	if err != nil {
		return err
	}

	var bal struct {
		Address string `json:"address"`
		Amount  int64  `json:"amount"`
	}
	if err := json.Unmarshal(data, &bal); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), bal.Amount)

	return nil
}
