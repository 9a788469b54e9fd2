package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Rrens/smartchat/internal/terminal"
)

var sendCmd = &cobra.Command{
	Use:   "send <message>",
	Short: "Send one message in the active session and print the reply",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context(), terminal.NewSurface(cmd.OutOrStdout(), width))
		if err != nil {
			return err
		}
		defer s.Close()

		return s.app.Relay.Send(cmd.Context(), strings.Join(args, " "))
	},
}

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Start a new session, dropping the oldest when the limit is reached",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context(), nil)
		if err != nil {
			return err
		}
		defer s.Close()

		id, err := s.app.Manager.CreateSession(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), id)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "sessions"},
	Short:   "List saved sessions, oldest first",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context(), nil)
		if err != nil {
			return err
		}
		defer s.Close()

		terminal.PrintSessions(cmd.OutOrStdout(), s.app.Manager.Sessions(), s.app.Manager.ActiveID())
		return nil
	},
}

var selectCmd = &cobra.Command{
	Use:   "select <number|id>",
	Short: "Make a saved session the active one and show its history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context(), terminal.NewSurface(cmd.OutOrStdout(), width))
		if err != nil {
			return err
		}
		defer s.Close()

		return s.app.Select(cmd.Context(), args[0])
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every saved session and start a fresh one",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context(), nil)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.app.Manager.ClearAll(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "All sessions cleared.")
		return nil
	},
}
