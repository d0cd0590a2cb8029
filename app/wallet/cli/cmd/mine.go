package cmd

import (
	"bufio"
	"fmt"
	"net/http"
	"net/url"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var poll time.Duration

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Control the mining loop of the node",
}

var mineStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start mining and follow its progress until interrupted",
	RunE:  mineStartRun,
}

var mineStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop mining",
	RunE:  mineStopRun,
}

var mineStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the state of the mining loop",
	RunE:  mineStatusRun,
}

func init() {
	rootCmd.AddCommand(mineCmd)
	mineCmd.AddCommand(mineStartCmd, mineStopCmd, mineStatusCmd)
	mineStartCmd.Flags().DurationVar(&poll, "poll", 0, "Wait between attempts when there is nothing to mine.")
}

func mineStartRun(cmd *cobra.Command, args []string) error {
	path := "/v1/mining/start"
	if poll > 0 {
		path += "?" + url.Values{"poll": {poll.String()}}.Encode()
	}

	// Interrupting the client closes the stream, which stops mining.
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, nodeURL+path, nil)
	if err != nil {
		return err
	}

	var client http.Client
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		fmt.Fprintln(cmd.OutOrStdout(), scanner.Text())
	}

	if ctx.Err() != nil {
		return nil
	}

	return scanner.Err()
}

func mineStopRun(cmd *cobra.Command, args []string) error {
	return mineState(cmd, http.MethodPost, "/v1/mining/stop")
}

func mineStatusRun(cmd *cobra.Command, args []string) error {
	return mineState(cmd, http.MethodGet, "/v1/mining/status")
}

func mineState(cmd *cobra.Command, method string, path string) error {
	var out struct {
		State string `json:"state"`
	}
	if err := call(method, path, nil, &out); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), out.State)
	return nil
}
