package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/isquicha/desafio-softfocus/internal/apperr"
)

// Response is the standard success envelope.
type Response struct {
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	Error apperr.Error `json:"error"`
}

// RespondOK sends a 200 response wrapping data.
func RespondOK(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, Response{Message: message, Data: data})
}

// RespondCreated sends a 201 response wrapping data.
func RespondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Response{Data: data})
}

// RespondNoContent sends a 204 with no body.
func RespondNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// RespondError inspects err: an *apperr.Error carries its own status and
// fixed external message; anything else collapses to a generic 500. Raw
// error detail never reaches the client either way.
func RespondError(c *gin.Context, err error) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		c.JSON(appErr.HTTPStatus, ErrorResponse{Error: *appErr})
		return
	}
	internal := apperr.Internal(err)
	c.JSON(internal.HTTPStatus, ErrorResponse{Error: *internal})
}

// AbortWithError behaves like RespondError but also aborts the Gin chain,
// guaranteeing no downstream handler runs.
func AbortWithError(c *gin.Context, err error) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		c.AbortWithStatusJSON(appErr.HTTPStatus, ErrorResponse{Error: *appErr})
		return
	}
	internal := apperr.Internal(err)
	c.AbortWithStatusJSON(internal.HTTPStatus, ErrorResponse{Error: *internal})
}
