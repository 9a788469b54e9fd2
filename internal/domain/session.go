package domain

import (
	"errors"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	// DefaultSessionTitle is the title of a session before its first user message
	DefaultSessionTitle = "New Chat"

	// TitleMaxRunes is the longest title kept verbatim
	TitleMaxRunes = 25

	sessionIDPrefix = "session_"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrNoActiveSession = errors.New("no active session")
)

// ChatSession is a titled, ordered list of messages kept on the client
type ChatSession struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Messages []Message `json:"messages"`
}

// NewChatSession creates an empty session with a time-ordered id
func NewChatSession() *ChatSession {
	return &ChatSession{
		ID:       NewSessionID(),
		Title:    DefaultSessionTitle,
		Messages: []Message{},
	}
}

// NewSessionID returns a unique, creation-time-ordered session id
func NewSessionID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return sessionIDPrefix + id.String()
}

// HasUserMessage reports whether the session already holds a user message
func (s *ChatSession) HasUserMessage() bool {
	for _, m := range s.Messages {
		if m.Role == RoleUser {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers cannot mutate manager state
func (s *ChatSession) Clone() ChatSession {
	c := *s
	c.Messages = append([]Message(nil), s.Messages...)
	return c
}

// TitleFrom derives a session title from the first user message
func TitleFrom(text string) string {
	if utf8.RuneCountInString(text) <= TitleMaxRunes {
		return text
	}
	return string([]rune(text)[:TitleMaxRunes]) + "..."
}
