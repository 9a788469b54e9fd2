package response

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/Rrens/smartchat/internal/domain"
)

// ServerErrorMessage is the fixed message of every 500 response
const ServerErrorMessage = "Server error"

// JSON sends a JSON response
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

// Text sends a plain-text response
func Text(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// Reply sends a 200 with the assistant reply
func Reply(w http.ResponseWriter, reply string) {
	JSON(w, http.StatusOK, domain.ChatReply{Reply: reply})
}

// Message sends {"message": ...} with the given status
func Message(w http.ResponseWriter, status int, message string) {
	JSON(w, status, domain.ErrorBody{Message: message})
}

// BadRequest sends a 400 Bad Request response
func BadRequest(w http.ResponseWriter, message string) {
	Message(w, http.StatusBadRequest, message)
}

// TooManyRequests sends a 429 response
func TooManyRequests(w http.ResponseWriter, message string) {
	Message(w, http.StatusTooManyRequests, message)
}

// ServiceUnavailable sends a 503 response
func ServiceUnavailable(w http.ResponseWriter, message string) {
	Message(w, http.StatusServiceUnavailable, message)
}

// InternalError sends a 500 carrying the error text
func InternalError(w http.ResponseWriter, err error) {
	JSON(w, http.StatusInternalServerError, domain.ErrorBody{
		Message: ServerErrorMessage,
		Error:   err.Error(),
	})
}

// OK sends a 200 OK response with data
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}
