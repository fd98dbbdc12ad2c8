// Package response writes the JSON envelope used by the console's few
// machine endpoints: health, websocket stats and rejections that happen
// before a page can be rendered.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Success writes data with status, 200 when status is zero.
func Success(c *gin.Context, status int, message string, data interface{}) {
	if status == 0 {
		status = http.StatusOK
	}
	c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

// Error aborts the chain and writes a failure envelope. err is exposed only
// when it is non-nil.
func Error(c *gin.Context, status int, message string, err error) {
	env := Envelope{Message: message}
	if err != nil {
		env.Error = err.Error()
	}
	c.AbortWithStatusJSON(status, env)
}
