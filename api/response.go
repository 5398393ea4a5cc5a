package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	poke "github.com/AshkanYarmoradi/go-poke"
	"github.com/AshkanYarmoradi/go-poke/trainer"
)

// APIError is the body of every error response.
type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ErrorEnvelope wraps APIError.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// RespondError writes the error envelope with status.
func RespondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorEnvelope{Error: APIError{Message: message, Code: code}})
}

// RespondOK writes payload as JSON with 200.
func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// ErrorResponse maps a dispatch error to an HTTP status and an envelope that
// does not leak internals.
func ErrorResponse(err error) (int, APIError) {
	var (
		domainErr *poke.DomainError
		collabErr *poke.CollaboratorError
	)

	switch {
	case errors.Is(err, poke.ErrConcurrencyConflict):
		return http.StatusConflict, APIError{Code: "concurrency_conflict", Message: "the trainer was modified concurrently, retry the request"}

	case errors.As(err, &domainErr):
		status := http.StatusUnprocessableEntity
		switch {
		case errors.Is(domainErr, trainer.ErrAdventureAlreadyStarted):
			status = http.StatusConflict
		case errors.Is(domainErr, trainer.ErrAdventureNotStarted):
			status = http.StatusNotFound
		}
		return status, APIError{Code: domainErr.Code, Message: domainErr.Message}

	case errors.Is(err, poke.ErrValidationFailed):
		var multi *poke.MultiValidationError
		if errors.As(err, &multi) {
			return http.StatusBadRequest, APIError{Code: "validation_failed", Message: multi.Error()}
		}
		var single *poke.ValidationError
		if errors.As(err, &single) {
			return http.StatusBadRequest, APIError{Code: "validation_failed", Message: single.Error()}
		}
		return http.StatusBadRequest, APIError{Code: "validation_failed", Message: "invalid command"}

	case errors.As(err, &collabErr) && collabErr.NotFound:
		return http.StatusUnprocessableEntity, APIError{Code: "pokemon_not_found", Message: collabErr.Error()}

	case errors.Is(err, poke.ErrCollaboratorFailed):
		return http.StatusBadGateway, APIError{Code: "upstream_unavailable", Message: "pokemon lookup failed"}

	default:
		return http.StatusInternalServerError, APIError{Code: "internal", Message: "internal error"}
	}
}

func respondDispatchError(c *gin.Context, err error) {
	status, body := ErrorResponse(err)
	_ = c.Error(err)
	c.JSON(status, ErrorEnvelope{Error: body})
}
