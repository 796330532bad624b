// Package http exposes the service over REST using gin.
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/meridiancs/engage/pkg/errors"
)

// errorResponse is the uniform error payload for every endpoint.
type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// respondError maps an error to its HTTP status via the error-code table and
// writes the uniform payload.
func respondError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	c.JSON(errors.HTTPStatusForCode(code), errorResponse{
		Code:      code.String(),
		Message:   err.Error(),
		RequestID: c.GetString(ctxKeyRequestID),
	})
}

// respondBadRequest writes a 400 with the given message.
func respondBadRequest(c *gin.Context, message string) {
	respondError(c, errors.InvalidParam(message))
}
