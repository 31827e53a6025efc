// Package main provides the wingman command: the screenshot server the
// desktop UI talks to, and a small client for driving it from a terminal.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/entrhq/wingman/pkg/client"
	"github.com/entrhq/wingman/pkg/config"
)

const version = "0.1.0"

var (
	configPath string
	serverAddr string
)

var rootCmd = &cobra.Command{
	Use:   "wingman",
	Short: "Screenshot assistant backend",
	Long: `Wingman captures screenshots into a bounded queue, sends them to a
vision-capable model and streams the extracted problem and its solution to
a desktop UI over a loopback HTTP API.

Run 'wingman serve' to start the server; the other commands are a client
for a running server.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Initialize(configPath); err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "wingman v%s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default is $HOME/.wingman/config.json)")
	rootCmd.PersistentFlags().StringVar(&serverAddr, "addr", "", "server address (default is server.listen_addr from config)")
	rootCmd.AddCommand(versionCmd)
}

// resolveAddr picks the server address: flag, then config, then the default.
func resolveAddr() string {
	if serverAddr != "" {
		return serverAddr
	}
	if s := config.GetServer(); s != nil && s.GetListenAddr() != "" {
		return s.GetListenAddr()
	}
	return config.DefaultListenAddr
}

func newClient() *client.Client {
	return client.New(resolveAddr())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}
