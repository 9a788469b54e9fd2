// Package session keeps the bounded, rotating list of chat sessions and the
// active-session pointer.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/Rrens/smartchat/internal/domain"
)

// Keys of the two persisted entries
const (
	SessionsKey = "smartchat_chat_sessions"
	ActiveKey   = "smartchat_active_session"
)

// State is everything the widget persists
type State struct {
	Sessions []domain.ChatSession
	ActiveID string
}

// Store reads and writes State through a key/value backend
type Store struct {
	kv domain.KVStore
}

func NewStore(kv domain.KVStore) *Store {
	return &Store{kv: kv}
}

// Load restores the persisted state. Missing entries yield an empty state and
// undecodable or unreadable entries are dropped; only backend failures are errors.
func (s *Store) Load(ctx context.Context) (State, error) {
	state := State{Sessions: []domain.ChatSession{}}

	raw, err := s.kv.Get(ctx, SessionsKey)
	switch {
	case errors.Is(err, domain.ErrNotFound):
	case errors.Is(err, domain.ErrMalformed):
		log.Warn().Err(err).Msg("discarding unreadable session collection")
	case err != nil:
		return State{}, fmt.Errorf("failed to load sessions: %w", err)
	default:
		var sessions []domain.ChatSession
		if err := json.Unmarshal([]byte(raw), &sessions); err != nil {
			log.Warn().Err(err).Msg("discarding malformed session collection")
		} else {
			state.Sessions = normalize(sessions)
		}
	}

	active, err := s.kv.Get(ctx, ActiveKey)
	switch {
	case errors.Is(err, domain.ErrNotFound):
	case errors.Is(err, domain.ErrMalformed):
		log.Warn().Err(err).Msg("discarding unreadable active session pointer")
	case err != nil:
		return State{}, fmt.Errorf("failed to load active session: %w", err)
	default:
		state.ActiveID = active
	}

	return state, nil
}

// Persist rewrites both entries. An empty ActiveID removes the pointer.
func (s *Store) Persist(ctx context.Context, state State) error {
	sessions := state.Sessions
	if sessions == nil {
		sessions = []domain.ChatSession{}
	}

	data, err := json.Marshal(sessions)
	if err != nil {
		return fmt.Errorf("failed to marshal sessions: %w", err)
	}

	if err := s.kv.Set(ctx, SessionsKey, string(data)); err != nil {
		return fmt.Errorf("failed to persist sessions: %w", err)
	}

	if state.ActiveID == "" {
		if err := s.kv.Delete(ctx, ActiveKey); err != nil {
			return fmt.Errorf("failed to clear active session: %w", err)
		}
		return nil
	}

	if err := s.kv.Set(ctx, ActiveKey, state.ActiveID); err != nil {
		return fmt.Errorf("failed to persist active session: %w", err)
	}
	return nil
}

// Reset removes both entries
func (s *Store) Reset(ctx context.Context) error {
	if err := s.kv.Delete(ctx, SessionsKey); err != nil {
		return fmt.Errorf("failed to delete sessions: %w", err)
	}
	if err := s.kv.Delete(ctx, ActiveKey); err != nil {
		return fmt.Errorf("failed to delete active session: %w", err)
	}
	return nil
}

// normalize drops records without an id and fills in missing fields
func normalize(sessions []domain.ChatSession) []domain.ChatSession {
	out := make([]domain.ChatSession, 0, len(sessions))
	for _, s := range sessions {
		if s.ID == "" {
			continue
		}
		if s.Title == "" {
			s.Title = domain.DefaultSessionTitle
		}
		if s.Messages == nil {
			s.Messages = []domain.Message{}
		}
		out = append(out, s)
	}
	return out
}
