package relay

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rrens/smartchat/internal/domain"
	"github.com/Rrens/smartchat/internal/render"
	"github.com/Rrens/smartchat/internal/repository/memory"
	"github.com/Rrens/smartchat/internal/session"
)

type bubble struct {
	role   domain.MessageRole
	markup string
}

type surfaceEvent string

type recordingSurface struct {
	mu      sync.Mutex
	bubbles []*bubble
	events  []surfaceEvent
	locked  bool
}

func (s *recordingSurface) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bubbles = nil
}

func (s *recordingSurface) Append(role domain.MessageRole, markup string) render.Bubble {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := &bubble{role: role, markup: markup}
	s.bubbles = append(s.bubbles, b)
	return &updater{s: s, b: b}
}

func (s *recordingSurface) ShowTyping() { s.record("typing:on") }
func (s *recordingSurface) HideTyping() { s.record("typing:off") }

func (s *recordingSurface) SetInputLocked(locked bool) {
	s.mu.Lock()
	s.locked = locked
	s.mu.Unlock()
	if locked {
		s.record("lock")
	} else {
		s.record("unlock")
	}
}

func (s *recordingSurface) record(e surfaceEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

func (s *recordingSurface) last() bubble {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.bubbles[len(s.bubbles)-1]
}

type updater struct {
	s *recordingSurface
	b *bubble
}

func (u *updater) Update(markup string) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	u.b.markup = markup
}

type fakeChatter struct {
	mu      sync.Mutex
	reply   string
	err     error
	calls   []string
	release chan struct{}
}

func (f *fakeChatter) Chat(ctx context.Context, text string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, text)
	f.mu.Unlock()
	if f.release != nil {
		<-f.release
	}
	return f.reply, f.err
}

func (f *fakeChatter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func newTestRelay(t *testing.T, chat Chatter) (*Relay, *session.Manager, *recordingSurface) {
	t.Helper()
	surface := &recordingSurface{}
	renderer := render.NewRenderer(surface, 0)
	manager := session.NewManager(session.NewStore(memory.NewKVStore()), session.WithView(renderer))
	require.NoError(t, manager.Open(context.Background()))
	return New(chat, manager, renderer), manager, surface
}

func activeMessages(t *testing.T, m *session.Manager) []domain.Message {
	t.Helper()
	active, ok := m.Active()
	require.True(t, ok)
	return active.Messages
}

func TestRelay_BlankIsNoop(t *testing.T) {
	chat := &fakeChatter{reply: "unused"}
	r, m, _ := newTestRelay(t, chat)

	for _, text := range []string{"", "   ", "\n\t "} {
		require.NoError(t, r.Send(context.Background(), text))
	}

	assert.Zero(t, chat.callCount())
	assert.Empty(t, activeMessages(t, m))
	assert.Equal(t, render.Idle, r.State())
}

func TestRelay_SuccessStoresReplyOnce(t *testing.T) {
	chat := &fakeChatter{reply: "Hi **there**!"}
	r, m, surface := newTestRelay(t, chat)

	require.NoError(t, r.Send(context.Background(), "Hello"))

	assert.Equal(t, []string{"Hello"}, chat.calls)
	assert.Equal(t, []domain.Message{
		{Role: domain.RoleUser, Text: "Hello"},
		{Role: domain.RoleAssistant, Text: "Hi **there**!"},
	}, activeMessages(t, m))

	last := surface.last()
	assert.Equal(t, domain.RoleAssistant, last.role)
	assert.Equal(t, "Hi <strong>there</strong>!", last.markup)

	assert.Equal(t, []surfaceEvent{"lock", "typing:on", "typing:off", "unlock"}, surface.events)
	assert.False(t, surface.locked)
	assert.Equal(t, render.Idle, r.State())

	active, _ := m.Active()
	assert.Equal(t, "Hello", active.Title)
}

func TestRelay_FailuresAreNotStored(t *testing.T) {
	tests := []struct {
		name  string
		chat  *fakeChatter
		shown string
	}{
		{"proxy error with message", &fakeChatter{err: &ProxyError{Status: 429, Message: "rate limited"}}, "⚠️ Error: rate limited"},
		{"proxy error without message", &fakeChatter{err: &ProxyError{Status: 502}}, "⚠️ Error: No response"},
		{"empty reply", &fakeChatter{reply: ""}, "⚠️ Error: No response"},
		{"transport failure", &fakeChatter{err: errors.New("connection refused")}, ConnectionFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, m, surface := newTestRelay(t, tt.chat)

			require.NoError(t, r.Send(context.Background(), "Hello"))

			assert.Equal(t, []domain.Message{{Role: domain.RoleUser, Text: "Hello"}}, activeMessages(t, m))

			last := surface.last()
			assert.Equal(t, domain.RoleAssistant, last.role)
			assert.Equal(t, tt.shown, last.markup)
			assert.Equal(t, []surfaceEvent{"lock", "typing:on", "typing:off", "unlock"}, surface.events)
			assert.Equal(t, render.Idle, r.State())
		})
	}
}

func TestRelay_OneTurnAtATime(t *testing.T) {
	chat := &fakeChatter{reply: "done", release: make(chan struct{})}
	r, m, _ := newTestRelay(t, chat)

	errc := make(chan error, 1)
	go func() { errc <- r.Send(context.Background(), "first") }()

	require.Eventually(t, func() bool { return r.State() == render.AwaitingReply }, time.Second, time.Millisecond)
	assert.ErrorIs(t, r.Send(context.Background(), "second"), ErrTurnInProgress)

	close(chat.release)
	require.NoError(t, <-errc)

	assert.Equal(t, 1, chat.callCount())
	assert.Equal(t, []domain.Message{
		{Role: domain.RoleUser, Text: "first"},
		{Role: domain.RoleAssistant, Text: "done"},
	}, activeMessages(t, m))
	assert.Equal(t, render.Idle, r.State())
}

type failingConversation struct{}

func (failingConversation) AppendMessage(context.Context, domain.MessageRole, string) error {
	return errors.New("disk full")
}

func TestRelay_StoreFailureAbortsTurn(t *testing.T) {
	chat := &fakeChatter{reply: "unused"}
	surface := &recordingSurface{}
	r := New(chat, failingConversation{}, render.NewRenderer(surface, 0))

	assert.Error(t, r.Send(context.Background(), "Hello"))
	assert.Zero(t, chat.callCount())
	assert.Equal(t, render.Idle, r.State())
	assert.Empty(t, surface.bubbles)
}
