package summarize

import (
	"github.com/rs/zerolog"

	"go-summarizer/internal/config"
	"go-summarizer/internal/llm"
	"go-summarizer/internal/loader"
	"go-summarizer/internal/logging"
)

// Build wires the default loaders and the OpenAI-compatible backend from cfg
func Build(cfg *config.Config, log zerolog.Logger) *Service {
	loaderLog := logging.Component(log, "loader")
	selector := loader.NewSelector(
		loader.NewYouTubeLoader(cfg.YouTube, cfg.Fetch, loaderLog),
		loader.NewWebLoader(cfg.Fetch, loaderLog),
	)
	summarizer := llm.NewSummarizer(
		llm.NewOpenAICompleter(cfg.LLM),
		logging.Component(log, "llm").With().Str("model", cfg.LLM.Model).Logger(),
	)
	return NewService(selector, summarizer, logging.Component(log, "summarize"))
}
