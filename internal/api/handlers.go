package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-summarizer/internal/config"
)

// GET /health
func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// GET /config
func configHandler(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Only return non-sensitive config fields
		c.JSON(http.StatusOK, gin.H{
			"server": gin.H{
				"host":    cfg.Server.Host,
				"port":    cfg.Server.Port,
				"subpath": cfg.Server.Subpath,
			},
			"llm": gin.H{
				"base_url": cfg.LLM.BaseURL,
				"model":    cfg.LLM.Model,
			},
			"fetch": gin.H{
				"format":               cfg.Fetch.Format,
				"insecure_skip_verify": cfg.Fetch.InsecureSkipVerify,
			},
			"youtube": cfg.YouTube,
		})
	}
}
