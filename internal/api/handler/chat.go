package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/rs/zerolog/log"

	"github.com/Rrens/smartchat/internal/api/response"
	"github.com/Rrens/smartchat/internal/domain"
	"github.com/Rrens/smartchat/internal/llm"
)

const (
	// MessageRequired is the 400 message for blank chat input
	MessageRequired = "Message is required"
	// MessageTooLarge is the 413 message for bodies over MaxBodyBytes
	MessageTooLarge = "Message is too large"

	MaxBodyBytes = 1 << 20
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

// Replier produces the assistant reply for one user message
type Replier interface {
	Reply(ctx context.Context, message string) (string, error)
}

// ChatHandler handles the chat endpoint
type ChatHandler struct {
	chatService Replier
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService Replier) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// Chat forwards one message upstream and relays the reply or the failure
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	var body struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Message(w, http.StatusRequestEntityTooLarge, MessageTooLarge)
			return
		}
		response.BadRequest(w, MessageRequired)
		return
	}

	req := domain.ChatRequest{Message: messageText(body.Message)}

	if err := validate.Struct(req); err != nil {
		response.BadRequest(w, MessageRequired)
		return
	}

	reply, err := h.chatService.Reply(r.Context(), req.Message)
	if err != nil {
		var upstream *llm.UpstreamError
		if errors.As(err, &upstream) {
			response.Message(w, upstream.Status, upstream.Message)
			return
		}
		log.Error().Err(err).Msg("chat request failed")
		response.InternalError(w, err)
		return
	}

	response.Reply(w, reply)
}

// messageText renders a scalar message as text: strings as is, numbers and
// booleans as their JSON literal. Null, objects and arrays read as blank.
func messageText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	case 't', 'f', '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return string(raw)
	default:
		return ""
	}
}
