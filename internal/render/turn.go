package render

import (
	"errors"
	"fmt"
	"sync"
)

// TurnState is the phase of a single chat turn
type TurnState int

const (
	Idle TurnState = iota
	Sending
	AwaitingReply
	Revealing
	ErrorShown
)

func (s TurnState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Sending:
		return "sending"
	case AwaitingReply:
		return "awaiting_reply"
	case Revealing:
		return "revealing"
	case ErrorShown:
		return "error_shown"
	default:
		return fmt.Sprintf("TurnState(%d)", int(s))
	}
}

var ErrIllegalTransition = errors.New("illegal turn transition")

// Sending may fall back to Idle when the user message cannot be stored.
var transitions = map[TurnState][]TurnState{
	Idle:          {Sending},
	Sending:       {AwaitingReply, Idle},
	AwaitingReply: {Revealing, ErrorShown},
	Revealing:     {Idle},
	ErrorShown:    {Idle},
}

// CanTransition reports whether from -> to is a legal step
func CanTransition(from, to TurnState) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Turn guards the state of the current chat turn
type Turn struct {
	mu    sync.Mutex
	state TurnState
}

// State returns the current state
func (t *Turn) State() TurnState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Begin moves Idle -> Sending and reports false when a turn is already running
func (t *Turn) Begin() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != Idle {
		return false
	}
	t.state = Sending
	return true
}

// Transition moves to the next state
func (t *Turn) Transition(to TurnState) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !CanTransition(t.state, to) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, t.state, to)
	}
	t.state = to
	return nil
}
