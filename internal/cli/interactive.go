package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/Rrens/smartchat/internal/terminal"
	"github.com/Rrens/smartchat/internal/widget"
)

const prompt = "you> "

const helpText = `Commands:
  /new              start a new session
  /list             list saved sessions
  /select <n|id>    switch to a session
  /clear            delete all sessions and start over
  /help             show this help
  /quit             exit
Anything else is sent as a message.`

// lineReader wraps liner with a history file
type lineReader struct {
	line        *liner.State
	historyFile string
}

func newLineReader() *lineReader {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	r := &lineReader{line: line}
	if dir, err := os.UserConfigDir(); err == nil {
		r.historyFile = filepath.Join(dir, "smartchat", "history")
		if f, err := os.Open(r.historyFile); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
	}
	return r
}

func (r *lineReader) Read() (string, error) {
	input, err := r.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		r.line.AppendHistory(input)
	}
	return input, nil
}

func (r *lineReader) Close() error {
	if r.historyFile != "" {
		if err := os.MkdirAll(filepath.Dir(r.historyFile), 0o700); err == nil {
			if f, err := os.OpenFile(r.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600); err == nil {
				r.line.WriteHistory(f)
				f.Close()
			}
		}
	}
	return r.line.Close()
}

func runInteractive(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	s, err := openSession(ctx, terminal.NewSurface(out, width))
	if err != nil {
		return err
	}
	defer s.Close()

	reader := newLineReader()
	defer reader.Close()

	st := terminal.DefaultStyles()
	fmt.Fprintln(out, st.Muted.Render("Connected to "+s.cfg.Widget.BackendURL+". Type /help for commands."))

	for {
		input, err := reader.Read()
		if err != nil {
			// Ctrl+C at the prompt or EOF
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(out)
				return nil
			}
			return err
		}

		quit, err := dispatch(ctx, s.app, out, input)
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), st.Muted.Render("error: "+err.Error()))
		}
		if quit {
			return nil
		}
	}
}

// dispatch runs one line. Ctrl+C while a reply is on its way cancels the turn
// without leaving the chat.
func dispatch(ctx context.Context, app *widget.App, out io.Writer, input string) (bool, error) {
	turnCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	cmd, err := app.Dispatch(turnCtx, input)
	if err != nil {
		if errors.Is(err, context.Canceled) && ctx.Err() == nil {
			return false, nil
		}
		return false, err
	}

	switch cmd {
	case widget.CmdList:
		terminal.PrintSessions(out, app.Manager.Sessions(), app.Manager.ActiveID())
	case widget.CmdHelp:
		fmt.Fprintln(out, helpText)
	case widget.CmdQuit:
		return true, nil
	}
	return false, nil
}
