package domain

// ChatRequest is the body accepted by the chat endpoint
type ChatRequest struct {
	Message string `json:"message" validate:"notblank"`
}

// ChatReply is the body returned on success
type ChatReply struct {
	Reply string `json:"reply"`
}

// ErrorBody is returned for every failed chat request
type ErrorBody struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}
