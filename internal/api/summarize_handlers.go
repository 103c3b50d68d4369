package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"go-summarizer/internal/summarize"
)

type pageContext struct {
	Action string
	WSPath string
	URL    string
	Result *summarize.Result
}

// statusFor maps an outcome to the JSON API status code
func statusFor(o summarize.Outcome) int {
	switch o {
	case summarize.OutcomeSuccess:
		return http.StatusOK
	case summarize.OutcomeValidationError:
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

// GET /
func indexHandler(page pageContext) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, "index.html", page)
	}
}

// POST / renders the result on the same page
func submitHandler(page pageContext, svc *summarize.Service, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req summarize.Request
		// empty fields are reported by the service as a validation outcome
		if err := c.ShouldBind(&req); err != nil {
			log.Debug().Err(err).Str("content_type", c.ContentType()).Msg("form binding failed")
		}

		res := svc.Summarize(c.Request.Context(), req, nil)
		page.URL = req.URL
		page.Result = &res
		c.HTML(http.StatusOK, "index.html", page)
	}
}

// POST /api/summarize
func SummarizeHandler(svc *summarize.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req summarize.Request
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON"})
			return
		}
		res := svc.Summarize(c.Request.Context(), req, nil)
		c.JSON(statusFor(res.Outcome), res)
	}
}
