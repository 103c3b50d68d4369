package api

import (
	"embed"
	"html/template"
	"net/http"
	"path"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"go-summarizer/internal/config"
	"go-summarizer/internal/summarize"
)

//go:embed templates/*.html
var templateFS embed.FS

func SetupRouter(cfg *config.Config, svc *summarize.Service, log zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log))
	subpath := config.NormalizeSubpath(cfg.Server.Subpath) // e.g. "/summarizer", always starts with '/' when set

	r.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.html")))

	page := pageContext{
		Action: routePath(subpath, "/"),
		WSPath: routePath(subpath, "/ws/summarize"),
	}

	// Redirect /subpath/ to /subpath
	if subpath != "" {
		r.GET(subpath+"/", func(c *gin.Context) {
			c.Redirect(http.StatusMovedPermanently, subpath)
		})
	}
	r.GET(page.Action, indexHandler(page))
	r.POST(page.Action, submitHandler(page, svc, log))

	group := r.Group(subpath)
	{
		group.GET("/health", healthHandler)
		group.GET("/config", configHandler(cfg))

		group.POST("/api/summarize", SummarizeHandler(svc))
		group.GET("/ws/summarize", WSSummarizeHandler(svc, log))
	}
	return r
}

func routePath(subpath, p string) string {
	if subpath == "" {
		return p
	}
	if p == "/" {
		return subpath
	}
	return path.Join(subpath, p)
}

// requestLogger logs one line per request; query strings and bodies are
// left out so API keys never reach the log.
func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		ev := log.Info()
		if c.Writer.Status() >= http.StatusInternalServerError {
			ev = log.Warn()
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("request")
	}
}
