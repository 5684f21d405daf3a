package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print the info of the node, ie block height, peers etc.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return show(cmd.OutOrStdout(), "/v1/node/state")
	},
}

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Print the wallet address and amount.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showField(cmd, "wallet")
	},
}

var peersCmd = &cobra.Command{
	Use:   "peers",
	Short: "Print peer info.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return show(cmd.OutOrStdout(), "/v1/node/peers")
	},
}

var fieldCmd = &cobra.Command{
	Use:   "field <name>",
	Short: "Print a single field of the node state.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return showField(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(walletCmd)
	rootCmd.AddCommand(peersCmd)
	rootCmd.AddCommand(fieldCmd)
}

// showField prints only the value of the named field.
func showField(cmd *cobra.Command, name string) error {
	data, err := get("/v1/node/state/" + name)
	if err != nil {
		return err
	}

	var f struct {
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}

	return printJSON(cmd.OutOrStdout(), f.Value)
}
