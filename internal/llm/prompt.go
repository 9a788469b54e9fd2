package llm

// Message is one entry of a chat completions message array
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// BuildMessages returns the two-message conversation sent upstream:
// the persona as the system message followed by the user text.
func BuildMessages(req Request) []Message {
	return []Message{
		{Role: "system", Content: req.System},
		{Role: "user", Content: req.Message},
	}
}
