package render

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/Rrens/smartchat/internal/domain"
	"github.com/Rrens/smartchat/internal/format"
)

// DefaultRevealDelay is the pause between revealed characters
const DefaultRevealDelay = 12 * time.Millisecond

var ErrRevealInProgress = errors.New("reveal already in progress")

// Renderer formats messages and writes them to a Surface
type Renderer struct {
	surface   Surface
	delay     time.Duration
	revealing atomic.Bool
}

// NewRenderer creates a renderer. A zero delay reveals without pausing.
func NewRenderer(surface Surface, delay time.Duration) *Renderer {
	if delay < 0 {
		delay = 0
	}
	return &Renderer{surface: surface, delay: delay}
}

// Surface returns the surface the renderer draws on
func (r *Renderer) Surface() Surface {
	return r.surface
}

// Clear empties the surface
func (r *Renderer) Clear() {
	r.surface.Clear()
}

// Instant appends the fully formatted message
func (r *Renderer) Instant(role domain.MessageRole, text string) {
	r.surface.Append(role, format.Text(text))
}

// Reveal shows text in one bubble, growing it one rune per step. Only one
// reveal may run at a time. When ctx is cancelled the bubble is completed
// with the full text and ctx.Err() is returned.
func (r *Renderer) Reveal(ctx context.Context, role domain.MessageRole, text string) error {
	if !r.revealing.CompareAndSwap(false, true) {
		return ErrRevealInProgress
	}
	defer r.revealing.Store(false)

	bubble := r.surface.Append(role, "")
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	var tick <-chan time.Time
	if r.delay > 0 {
		ticker := time.NewTicker(r.delay)
		defer ticker.Stop()
		tick = ticker.C
	}

	for i := 1; i <= len(runes); i++ {
		bubble.Update(format.Text(string(runes[:i])))
		if i == len(runes) {
			break
		}

		if tick == nil {
			if err := ctx.Err(); err != nil {
				bubble.Update(format.Text(text))
				return err
			}
			continue
		}

		select {
		case <-ctx.Done():
			bubble.Update(format.Text(text))
			return ctx.Err()
		case <-tick:
		}
	}

	return nil
}

// Revealing reports whether a reveal is running
func (r *Renderer) Revealing() bool {
	return r.revealing.Load()
}
