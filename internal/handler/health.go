package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health returns a JSON health check response. The calculator has no
// external dependencies to probe; a reachable process is a healthy one.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
