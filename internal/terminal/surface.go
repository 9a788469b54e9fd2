// Package terminal is a render.Surface that draws the chat in a terminal.
package terminal

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/Rrens/smartchat/internal/domain"
	"github.com/Rrens/smartchat/internal/render"
)

const (
	clearScreen = "\x1b[2J\x1b[H"
	clearBelow  = "\x1b[J"
	eraseLine   = "\x1b[2K"

	typingText = "smartchat is typing…"
)

// Surface writes bubbles to out. A bubble is redrawn in place on update, so
// nothing else may be written to out while a reveal is running.
type Surface struct {
	mu     sync.Mutex
	out    io.Writer
	width  int
	styles Styles
	typing bool
	locked bool
}

// NewSurface creates a surface wrapping text at width columns; zero disables wrapping
func NewSurface(out io.Writer, width int) *Surface {
	return &Surface{out: out, width: width, styles: DefaultStyles()}
}

func (s *Surface) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprint(s.out, clearScreen)
}

func (s *Surface) Append(role domain.MessageRole, markup string) render.Bubble {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := &bubble{surface: s, role: role}
	b.draw(markup)
	return b
}

func (s *Surface) ShowTyping() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.typing {
		return
	}
	s.typing = true
	fmt.Fprintln(s.out, s.styles.Typing.Render(typingText))
}

func (s *Surface) HideTyping() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.typing {
		return
	}
	s.typing = false
	fmt.Fprint(s.out, cursorUp(1)+"\r"+eraseLine)
}

func (s *Surface) SetInputLocked(locked bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locked = locked
}

// InputLocked reports whether a chat turn currently holds the input
func (s *Surface) InputLocked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locked
}

func (s *Surface) renderBubble(role domain.MessageRole, markup string) string {
	label := s.styles.Assistant.Render("smartchat ›")
	if role == domain.RoleUser {
		label = s.styles.User.Render("you ›")
	}

	body := s.styles.Body
	if s.width > 0 {
		body = body.Width(s.width)
	}
	return label + "\n" + body.Render(toANSI(markup, s.styles))
}

type bubble struct {
	surface *Surface
	role    domain.MessageRole
	lines   int
}

func (b *bubble) Update(markup string) {
	b.surface.mu.Lock()
	defer b.surface.mu.Unlock()

	fmt.Fprint(b.surface.out, cursorUp(b.lines)+"\r"+clearBelow)
	b.draw(markup)
}

// draw must be called with the surface lock held
func (b *bubble) draw(markup string) {
	rendered := b.surface.renderBubble(b.role, markup)
	fmt.Fprintln(b.surface.out, rendered)
	b.lines = lipgloss.Height(rendered)
}

func cursorUp(n int) string {
	if n <= 0 {
		return ""
	}
	return fmt.Sprintf("\x1b[%dA", n)
}
