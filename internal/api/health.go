package api

import (
	"net/http"

	"github.com/starfall-game/starfall-server/internal/constants"

	"github.com/gin-gonic/gin"
)

// Health reports process liveness for container probes.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyStatus: "ok"})
}
