// Package cmd contains the wallet commands.
package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var (
	nodeURL     string
	password    string
	keyName     string
	keyPath     string
	httpTimeout = defaultTimeout
)

const (
	keyExtension = ".ecdsa"
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&nodeURL, "url", "u", "http://localhost:8080", "Url of the node.")
	rootCmd.PersistentFlags().StringVarP(&password, "password", "w", "", "Password of the node account.")
	rootCmd.PersistentFlags().StringVarP(&keyName, "key", "k", "private.ecdsa", "Name of the private key file.")
	rootCmd.PersistentFlags().StringVarP(&keyPath, "key-path", "p", "zblock/keys/", "Path to the directory with private keys.")
	rootCmd.PersistentFlags().DurationVar(&httpTimeout, "timeout", defaultTimeout, "Timeout for node requests.")
}

var rootCmd = &cobra.Command{
	Use:          "wallet",
	Short:        "Client for the ledger node",
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func getPrivateKeyPath() string {
	name := keyName
	if !strings.HasSuffix(name, keyExtension) {
		name += keyExtension
	}

	return filepath.Join(keyPath, name)
}
