// Package cli defines the cobra commands of the smartchat terminal client.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	backendURL  string
	storeDriver string
	width       int
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "smartchat",
	Short: "Chat with the SmartChat backend from a terminal",
	Long: `smartchat keeps up to a few chat sessions on disk (or in the configured
store) and relays each message to the SmartChat backend proxy.

Run without a subcommand to start an interactive chat.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runInteractive,
}

// Execute runs the root command. Called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&backendURL, "backend", "", "backend proxy URL (overrides widget.backend_url)")
	rootCmd.PersistentFlags().StringVar(&storeDriver, "store", "", "session store driver (overrides widget.store.driver)")
	rootCmd.PersistentFlags().IntVar(&width, "width", 80, "wrap chat bubbles at this many columns, 0 disables wrapping")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "log at the configured level instead of warnings only")

	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(selectCmd)
	rootCmd.AddCommand(clearCmd)
}
