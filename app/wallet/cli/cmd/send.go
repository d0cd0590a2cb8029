package cmd

import (
	"net/http"

	"github.com/spf13/cobra"
)

var (
	to    string
	value uint64
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Transfer value from the node account",
	RunE:  sendRun,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&to, "to", "t", "", "Address of the receiver.")
	sendCmd.Flags().Uint64VarP(&value, "value", "v", 0, "Value to send.")
}

func sendRun(cmd *cobra.Command, args []string) error {
	in := struct {
		Password string `json:"password"`
		To       string `json:"to"`
		Amount   uint64 `json:"amount"`
	}{
		Password: password,
		To:       to,
		Amount:   value,
	}

	var tx map[string]any
	if err := call(http.MethodPost, "/v1/tx/transfer", in, &tx); err != nil {
		return err
	}

	return printJSON(cmd.OutOrStdout(), tx)
}
