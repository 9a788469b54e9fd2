package domain

// MessageRole represents the sender of a message
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Valid reports whether the role is one of the known senders
func (r MessageRole) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Message is a single chat line. Messages are never edited once appended.
type Message struct {
	Role MessageRole `json:"role"`
	Text string      `json:"text"`
}
