package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HelloHandler struct{}

func NewHelloHandler() *HelloHandler {
	return &HelloHandler{}
}

// Hello answers GET with a fixed plain-text greeting.
func (h *HelloHandler) Hello(c *gin.Context) {
	if c.Request.Method != http.MethodGet {
		c.String(http.StatusMethodNotAllowed, methodNotAllowedBody)
		return
	}
	c.String(http.StatusOK, helloBody)
}
