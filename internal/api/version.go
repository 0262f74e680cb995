package api

import (
	"net/http"

	"github.com/starfall-game/starfall-server/internal/version"
	"github.com/gin-gonic/gin"
)

// Version returns build metadata injected at build time.
func Version(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"version": version.Version,
		"commit":  version.Commit,
		"date":    version.Date,
	})
}
