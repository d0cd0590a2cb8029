package cmd

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

type account struct {
	Address string `json:"address"`
}

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Print the address of the node account",
	RunE:  accountRun,
}

var accountCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create the node account protected by the password",
	RunE:  accountCreateRun,
}

func init() {
	rootCmd.AddCommand(accountCmd)
	accountCmd.AddCommand(accountCreateCmd)
}

func accountRun(cmd *cobra.Command, args []string) error {
	var acct account
	if err := call(http.MethodGet, "/v1/accounts", nil, &acct); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), acct.Address)
	return nil
}

func accountCreateRun(cmd *cobra.Command, args []string) error {
	in := struct {
		Password string `json:"password"`
	}{
		Password: password,
	}

	var acct account
	if err := call(http.MethodPost, "/v1/accounts", in, &acct); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), acct.Address)
	return nil
}
