package cmd

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

type balance struct {
	Address string `json:"address"`
	Balance uint64 `json:"balance"`
}

var balanceCmd = &cobra.Command{
	Use:   "balance [address]",
	Short: "Print the balance of an address, the node account by default",
	Args:  cobra.MaximumNArgs(1),
	RunE:  balanceRun,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}

func balanceRun(cmd *cobra.Command, args []string) error {
	path := "/v1/balances"
	if len(args) == 1 {
		path += "/" + args[0]
	}

	var bal balance
	if err := call(http.MethodGet, path, nil, &bal); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d\n", bal.Address, bal.Balance)
	return nil
}
