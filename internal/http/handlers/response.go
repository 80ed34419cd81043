package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/peerlink/peerlink-backend/internal/platform/apperr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// RespondAppError maps the service error taxonomy onto HTTP statuses.
func RespondAppError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch apperr.CodeOf(err) {
	case apperr.CodeValidation:
		status = http.StatusBadRequest
	case apperr.CodeNotFound:
		status = http.StatusNotFound
	case apperr.CodeConflict:
		status = http.StatusConflict
	case apperr.CodeUnavailable:
		status = http.StatusServiceUnavailable
	}
	RespondError(c, status, string(apperr.CodeOf(err)), err)
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
