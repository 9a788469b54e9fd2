// Package widget assembles the chat client core and maps user input onto it.
package widget

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Rrens/smartchat/internal/domain"
	"github.com/Rrens/smartchat/internal/relay"
	"github.com/Rrens/smartchat/internal/render"
	"github.com/Rrens/smartchat/internal/session"
)

// Options are the tunables of the client core
type Options struct {
	MaxSessions int
	RevealDelay time.Duration
}

// App is one chat widget: sessions, renderer and relay sharing a surface
type App struct {
	Manager  *session.Manager
	Renderer *render.Renderer
	Relay    *relay.Relay
}

// New wires the client core. A nil surface draws nothing, for commands that
// only inspect or change stored sessions.
func New(store domain.KVStore, surface render.Surface, chat relay.Chatter, opts Options) *App {
	if surface == nil {
		surface = discardSurface{}
	}

	renderer := render.NewRenderer(surface, opts.RevealDelay)
	manager := session.NewManager(
		session.NewStore(store),
		session.WithCapacity(opts.MaxSessions),
		session.WithView(renderer),
	)

	return &App{
		Manager:  manager,
		Renderer: renderer,
		Relay:    relay.New(chat, manager, renderer),
	}
}

// Open restores the persisted sessions
func (a *App) Open(ctx context.Context) error {
	return a.Manager.Open(ctx)
}

// Command is a parsed line of user input
type Command int

const (
	CmdSend Command = iota
	CmdNew
	CmdList
	CmdSelect
	CmdClear
	CmdHelp
	CmdQuit
)

// Parse splits input into a command and its argument. Anything that is not a
// known slash command is a message to send.
func Parse(input string) (Command, string) {
	text := strings.TrimSpace(input)
	if !strings.HasPrefix(text, "/") {
		return CmdSend, text
	}

	name, arg, _ := strings.Cut(text, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(name) {
	case "/new":
		return CmdNew, ""
	case "/list", "/sessions":
		return CmdList, ""
	case "/select", "/load":
		return CmdSelect, arg
	case "/clear":
		return CmdClear, ""
	case "/help", "/?":
		return CmdHelp, ""
	case "/quit", "/exit":
		return CmdQuit, ""
	default:
		return CmdSend, text
	}
}

// Dispatch runs one line of input. List, help and quit have no effect on the
// app and are returned for the caller to handle.
func (a *App) Dispatch(ctx context.Context, input string) (Command, error) {
	cmd, arg := Parse(input)

	switch cmd {
	case CmdSend:
		return cmd, a.Relay.Send(ctx, arg)
	case CmdNew:
		_, err := a.Manager.CreateSession(ctx)
		return cmd, err
	case CmdSelect:
		return cmd, a.Select(ctx, arg)
	case CmdClear:
		return cmd, a.Manager.ClearAll(ctx)
	default:
		return cmd, nil
	}
}

// Select activates a session by id or by its 1-based position in the list
func (a *App) Select(ctx context.Context, ref string) error {
	if ref == "" {
		return fmt.Errorf("%w: empty reference", domain.ErrSessionNotFound)
	}

	if n, err := strconv.Atoi(ref); err == nil {
		sessions := a.Manager.Sessions()
		if n < 1 || n > len(sessions) {
			return fmt.Errorf("%w: no session at position %d", domain.ErrSessionNotFound, n)
		}
		ref = sessions[n-1].ID
	}

	return a.Manager.SelectSession(ctx, ref)
}

type discardSurface struct{}

func (discardSurface) Clear()                                          {}
func (discardSurface) Append(domain.MessageRole, string) render.Bubble { return discardBubble{} }
func (discardSurface) ShowTyping()                                     {}
func (discardSurface) HideTyping()                                     {}
func (discardSurface) SetInputLocked(bool)                             {}

type discardBubble struct{}

func (discardBubble) Update(string) {}
