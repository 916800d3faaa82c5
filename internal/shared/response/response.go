package response

import (
	"time"

	"github.com/gin-gonic/gin"
)

// Envelope is the wire shape every endpoint answers with. Peer services
// key off Success to tell validation failures apart from hard errors.
type Envelope struct {
	Data      any        `json:"data,omitempty"`
	Success   bool       `json:"success"`
	Message   string     `json:"message"`
	Timestamp time.Time  `json:"timestamp"`
	Error     *ErrorBody `json:"error,omitempty"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func Success(c *gin.Context, status int, data any, message string) {
	c.JSON(status, Envelope{
		Data:      data,
		Success:   true,
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}

func Error(c *gin.Context, status int, errorCode string, message string, details any) {
	c.JSON(status, Envelope{
		Success:   false,
		Message:   message,
		Timestamp: time.Now().UTC(),
		Error: &ErrorBody{
			Code:    errorCode,
			Message: message,
			Details: details,
		},
	})
}
