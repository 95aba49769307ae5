package httperr

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

// FromError maps a use case error to a response. Business errors keep their
// code; anything else is logged and reported as internal.
func FromError(c *gin.Context, err error) {
	be, ok := AsBusiness(err)
	if !ok {
		log.Printf("[http] %s %s: %v", c.Request.Method, c.FullPath(), err)
		Internal(c, "internal_error", "Erro interno.")
		return
	}

	msg := be.Message
	if msg == "" {
		msg = be.Code
	}

	switch be.Code {
	case "not_found":
		NotFound(c, be.Code, msg)
	case "invalid_credentials", "session_expired":
		Unauthorized(c, be.Code, msg)
	case "forbidden":
		Forbidden(c, be.Code, msg)
	case "time_conflict", "duplicate_username", "duplicate_email":
		Write(c, http.StatusConflict, be.Code, msg)
	default:
		BadRequest(c, be.Code, msg)
	}
}
