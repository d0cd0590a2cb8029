package cmd

import (
	"net/http"

	"github.com/spf13/cobra"
)

var emitAmount uint64

var emitCmd = &cobra.Command{
	Use:   "emit",
	Short: "Issue value to the node account in the genesis block",
	RunE:  emitRun,
}

func init() {
	rootCmd.AddCommand(emitCmd)
	emitCmd.Flags().Uint64VarP(&emitAmount, "value", "v", 0, "Value to issue.")
}

func emitRun(cmd *cobra.Command, args []string) error {
	in := struct {
		Password string `json:"password"`
		Amount   uint64 `json:"amount"`
	}{
		Password: password,
		Amount:   emitAmount,
	}

	var tx map[string]any
	if err := call(http.MethodPost, "/v1/genesis", in, &tx); err != nil {
		return err
	}

	return printJSON(cmd.OutOrStdout(), tx)
}
