package response

import (
	"net/http"

	"github.com/gearbox-rentals/service-rental/internal/domain"
	"github.com/gin-gonic/gin"
)

// Envelope is the uniform response body for every endpoint. Domain failures
// map to 4xx with success=false; 5xx is reserved for internal failures whose
// detail stays server-side.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Success writes a 200 with the given payload.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// Message writes a 200 with a human-readable message and no payload.
func Message(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: msg})
}

// Created writes a 201 with the given payload.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// CreatedMessage writes a 201 with a message and no payload.
func CreatedMessage(c *gin.Context, msg string) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Message: msg})
}

// BadRequest writes a 400 validation failure.
func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Envelope{Success: false, Error: msg})
}

// Unauthorized writes a 401.
func Unauthorized(c *gin.Context, msg string) {
	c.JSON(http.StatusUnauthorized, Envelope{Success: false, Error: msg})
}

// Paginated writes a 200 with items plus paging metadata.
func Paginated(c *gin.Context, items interface{}, total int64, page, limit int) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    items,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}

// Error maps a domain error to its HTTP status. Internal errors are
// redacted; callers log the detail before reaching here.
func Error(c *gin.Context, err error) {
	switch domain.KindOf(err) {
	case domain.KindValidation:
		c.JSON(http.StatusBadRequest, Envelope{Success: false, Error: err.Error()})
	case domain.KindNotFound:
		c.JSON(http.StatusNotFound, Envelope{Success: false, Error: err.Error()})
	case domain.KindUnauthorized:
		c.JSON(http.StatusUnauthorized, Envelope{Success: false, Error: err.Error()})
	case domain.KindForbidden:
		c.JSON(http.StatusForbidden, Envelope{Success: false, Error: err.Error()})
	case domain.KindConflict:
		c.JSON(http.StatusConflict, Envelope{Success: false, Error: err.Error()})
	case domain.KindInvalidState:
		c.JSON(http.StatusUnprocessableEntity, Envelope{Success: false, Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, Envelope{Success: false, Error: "internal server error"})
	}
}
