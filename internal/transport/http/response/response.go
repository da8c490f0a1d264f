package response

import "github.com/gin-gonic/gin"

// Body is the payload of every error response and of message-only replies.
type Body struct {
	Message string `json:"message"`
}

func Msg(msg string) Body { return Body{Message: msg} }

// Fail aborts the chain with the status and message derived from err.
func Fail(c *gin.Context, err error) {
	c.AbortWithStatusJSON(Status(err), Msg(Message(err)))
}

// Abort aborts the chain with an explicit status and message.
func Abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, Msg(msg))
}
