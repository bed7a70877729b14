package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ericogr/escape-the-danger/internal/constants"
	"github.com/ericogr/escape-the-danger/internal/game"
	"github.com/ericogr/escape-the-danger/internal/logging"
)

// statusFor maps an error kind to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrInvalidInput), errors.Is(err, game.ErrResourceExhausted):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrInvalidState), errors.Is(err, game.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err. Infrastructure failures are logged and hidden
// behind a generic message.
func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logging.Error("request failed", err, logging.Fields{
			constants.LogFieldMethod: c.Request.Method,
			constants.LogFieldPath:   c.FullPath(),
		})
		c.JSON(status, gin.H{constants.JSONKeyError: constants.ErrInternal})
		return
	}
	body := gin.H{constants.JSONKeyError: err.Error()}
	if game.IsRetryable(err) {
		body[constants.JSONKeyRetryable] = true
	}
	c.JSON(status, body)
}
