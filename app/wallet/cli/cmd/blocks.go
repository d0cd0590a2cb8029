package cmd

import (
	"net/http"

	"github.com/spf13/cobra"
)

var blocksCmd = &cobra.Command{
	Use:   "blocks",
	Short: "Print the chain held by the node",
	RunE:  blocksRun,
}

var mempoolCmd = &cobra.Command{
	Use:   "mempool",
	Short: "Print the transactions waiting to be mined",
	RunE:  mempoolRun,
}

func init() {
	rootCmd.AddCommand(blocksCmd)
	rootCmd.AddCommand(mempoolCmd)
}

func blocksRun(cmd *cobra.Command, args []string) error {
	var blocks []map[string]any
	if err := call(http.MethodGet, "/v1/blocks/list", nil, &blocks); err != nil {
		return err
	}

	return printJSON(cmd.OutOrStdout(), blocks)
}

func mempoolRun(cmd *cobra.Command, args []string) error {
	var txs []map[string]any
	if err := call(http.MethodGet, "/v1/tx/uncommitted/list", nil, &txs); err != nil {
		return err
	}

	return printJSON(cmd.OutOrStdout(), txs)
}
