package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/Rrens/smartchat/internal/domain"
)

const (
	// DefaultCapacity is how many sessions are kept before the oldest is evicted
	DefaultCapacity = 3

	NewChatGreeting      = "✨ New chat started. What would you like to talk about?"
	EmptySessionGreeting = "🧠 New session started. Ready when you are!"
)

// View is what the manager redraws when the active session changes.
// Implementations must not call back into the Manager.
type View interface {
	Clear()
	Instant(role domain.MessageRole, text string)
}

type nopView struct{}

func (nopView) Clear()                             {}
func (nopView) Instant(domain.MessageRole, string) {}

// Option configures a Manager
type Option func(*Manager)

// WithCapacity sets the session cap; values below one are ignored
func WithCapacity(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.capacity = n
		}
	}
}

// WithView attaches the view redrawn on session switches
func WithView(v View) Option {
	return func(m *Manager) {
		if v != nil {
			m.view = v
		}
	}
}

// Manager owns the session collection and the active pointer. Every mutation
// is written through to the Store as a full rewrite.
type Manager struct {
	mu       sync.Mutex
	store    *Store
	view     View
	capacity int
	sessions []*domain.ChatSession
	activeID string
}

func NewManager(store *Store, opts ...Option) *Manager {
	m := &Manager{
		store:    store,
		view:     nopView{},
		capacity: DefaultCapacity,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Open restores persisted state and shows the active session, creating a
// fresh one when no active id resolves.
func (m *Manager) Open(ctx context.Context) error {
	state, err := m.store.Load(ctx)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions = make([]*domain.ChatSession, 0, len(state.Sessions))
	for i := range state.Sessions {
		m.sessions = append(m.sessions, &state.Sessions[i])
	}
	m.activeID = state.ActiveID
	evicted := m.evictLocked()

	if m.findLocked(m.activeID) == nil {
		_, err := m.createLocked(ctx)
		return err
	}

	if evicted > 0 {
		if err := m.persistLocked(ctx); err != nil {
			return err
		}
	}

	m.renderActiveLocked()
	return nil
}

// CreateSession starts an empty session, evicting the oldest above capacity
func (m *Manager) CreateSession(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createLocked(ctx)
}

// SelectSession makes id the active session and redraws its history
func (m *Manager) SelectSession(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.findLocked(id) == nil {
		return fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}

	m.activeID = id
	if err := m.persistLocked(ctx); err != nil {
		return err
	}

	m.renderActiveLocked()
	return nil
}

// AppendMessage adds a message to the active session. The first user message
// of a session still titled "New Chat" becomes its title.
func (m *Manager) AppendMessage(ctx context.Context, role domain.MessageRole, text string) error {
	if !role.Valid() {
		return fmt.Errorf("invalid message role: %q", role)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	active := m.findLocked(m.activeID)
	if active == nil {
		return domain.ErrNoActiveSession
	}

	if role == domain.RoleUser && !active.HasUserMessage() && active.Title == domain.DefaultSessionTitle {
		active.Title = domain.TitleFrom(text)
	}
	active.Messages = append(active.Messages, domain.Message{Role: role, Text: text})

	return m.persistLocked(ctx)
}

// ClearAll drops every session and starts a new one
func (m *Manager) ClearAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions = nil
	m.activeID = ""
	if err := m.store.Reset(ctx); err != nil {
		return err
	}

	_, err := m.createLocked(ctx)
	return err
}

// Sessions returns copies of all sessions, oldest first
func (m *Manager) Sessions() []domain.ChatSession {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]domain.ChatSession, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s.Clone())
	}
	return out
}

// Active returns a copy of the active session
func (m *Manager) Active() (domain.ChatSession, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.findLocked(m.activeID)
	if s == nil {
		return domain.ChatSession{}, false
	}
	return s.Clone(), true
}

func (m *Manager) ActiveID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeID
}

func (m *Manager) Capacity() int {
	return m.capacity
}

func (m *Manager) createLocked(ctx context.Context) (string, error) {
	s := domain.NewChatSession()
	m.sessions = append(m.sessions, s)
	m.evictLocked()
	m.activeID = s.ID

	if err := m.persistLocked(ctx); err != nil {
		return "", err
	}

	log.Debug().Str("session_id", s.ID).Int("sessions", len(m.sessions)).Msg("session created")

	m.view.Clear()
	m.view.Instant(domain.RoleAssistant, NewChatGreeting)
	return s.ID, nil
}

// evictLocked drops sessions from the front until the cap holds
func (m *Manager) evictLocked() int {
	n := len(m.sessions) - m.capacity
	if n <= 0 {
		return 0
	}
	for _, s := range m.sessions[:n] {
		log.Debug().Str("session_id", s.ID).Msg("session evicted")
	}
	m.sessions = append([]*domain.ChatSession(nil), m.sessions[n:]...)
	return n
}

func (m *Manager) findLocked(id string) *domain.ChatSession {
	if id == "" {
		return nil
	}
	for _, s := range m.sessions {
		if s.ID == id {
			return s
		}
	}
	return nil
}

func (m *Manager) persistLocked(ctx context.Context) error {
	state := State{
		Sessions: make([]domain.ChatSession, 0, len(m.sessions)),
		ActiveID: m.activeID,
	}
	for _, s := range m.sessions {
		state.Sessions = append(state.Sessions, *s)
	}
	return m.store.Persist(ctx, state)
}

func (m *Manager) renderActiveLocked() {
	active := m.findLocked(m.activeID)
	m.view.Clear()
	if active == nil {
		return
	}
	if len(active.Messages) == 0 {
		m.view.Instant(domain.RoleAssistant, EmptySessionGreeting)
		return
	}
	for _, msg := range active.Messages {
		m.view.Instant(msg.Role, msg.Text)
	}
}
