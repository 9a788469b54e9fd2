package relay

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Rrens/smartchat/internal/domain"
	"github.com/Rrens/smartchat/internal/render"
)

const (
	errorPrefix       = "⚠️ Error: "
	NoResponseText    = "No response"
	ConnectionFailure = "⚠️ Server connection failed. Please check backend."
)

var ErrTurnInProgress = errors.New("a chat turn is already in progress")

// Chatter fetches one reply from the backend proxy
type Chatter interface {
	Chat(ctx context.Context, text string) (string, error)
}

// Conversation stores the messages of the active session
type Conversation interface {
	AppendMessage(ctx context.Context, role domain.MessageRole, text string) error
}

// Relay runs chat turns one at a time
type Relay struct {
	chat     Chatter
	conv     Conversation
	renderer *render.Renderer
	turn     render.Turn
}

func New(chat Chatter, conv Conversation, renderer *render.Renderer) *Relay {
	return &Relay{chat: chat, conv: conv, renderer: renderer}
}

// State returns the phase of the current turn
func (r *Relay) State() render.TurnState {
	return r.turn.State()
}

// Send runs one chat turn for text. Blank text is ignored. Failures of the
// proxy are shown on the surface and never stored; the returned error covers
// only storage failures, a cancelled reveal and ErrTurnInProgress.
func (r *Relay) Send(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if !r.turn.Begin() {
		return ErrTurnInProgress
	}

	surface := r.renderer.Surface()

	if err := r.conv.AppendMessage(ctx, domain.RoleUser, text); err != nil {
		r.advance(render.Idle)
		return err
	}
	r.renderer.Instant(domain.RoleUser, text)
	surface.SetInputLocked(true)
	defer func() {
		surface.SetInputLocked(false)
		r.advance(render.Idle)
	}()

	r.advance(render.AwaitingReply)
	surface.ShowTyping()
	reply, err := r.chat.Chat(ctx, text)
	surface.HideTyping()

	if err != nil {
		r.advance(render.ErrorShown)
		r.renderer.Instant(domain.RoleAssistant, errorText(err))
		log.Warn().Err(err).Msg("chat turn failed")
		return nil
	}

	if reply == "" {
		r.advance(render.ErrorShown)
		r.renderer.Instant(domain.RoleAssistant, errorPrefix+NoResponseText)
		return nil
	}

	r.advance(render.Revealing)
	revealErr := r.renderer.Reveal(ctx, domain.RoleAssistant, reply)

	// stored even when the reveal was cut short
	if err := r.conv.AppendMessage(context.WithoutCancel(ctx), domain.RoleAssistant, reply); err != nil {
		return err
	}
	return revealErr
}

func errorText(err error) string {
	var proxyErr *ProxyError
	if errors.As(err, &proxyErr) {
		if proxyErr.Message == "" {
			return errorPrefix + NoResponseText
		}
		return errorPrefix + proxyErr.Message
	}
	return ConnectionFailure
}

func (r *Relay) advance(to render.TurnState) {
	if err := r.turn.Transition(to); err != nil {
		log.Error().Err(err).Msg("turn state out of sync")
	}
}
