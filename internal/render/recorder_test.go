package render

import (
	"sync"

	"github.com/Rrens/smartchat/internal/domain"
)

type recordedBubble struct {
	mu      sync.Mutex
	role    domain.MessageRole
	updates []string
}

func (b *recordedBubble) Update(markup string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.updates = append(b.updates, markup)
}

func (b *recordedBubble) last() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.updates) == 0 {
		return ""
	}
	return b.updates[len(b.updates)-1]
}

type recordingSurface struct {
	mu      sync.Mutex
	bubbles []*recordedBubble
	clears  int
}

func (s *recordingSurface) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clears++
	s.bubbles = nil
}

func (s *recordingSurface) Append(role domain.MessageRole, markup string) Bubble {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := &recordedBubble{role: role, updates: []string{markup}}
	s.bubbles = append(s.bubbles, b)
	return b
}

func (s *recordingSurface) ShowTyping()         {}
func (s *recordingSurface) HideTyping()         {}
func (s *recordingSurface) SetInputLocked(bool) {}
