// Package summarize runs the validate -> fetch -> summarize pipeline for a
// single request and folds every failure into a Result.
package summarize

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"go-summarizer/internal/llm"
	"go-summarizer/internal/loader"
	"go-summarizer/internal/validate"
)

// Fetcher resolves a URL to text fragments. *loader.Selector implements it.
type Fetcher interface {
	Load(ctx context.Context, rawURL string) (string, []loader.Fragment, error)
}

// Summarizer produces a summary from stuffed text. *llm.Summarizer implements it.
type Summarizer interface {
	Summarize(ctx context.Context, apiKey, text string) (string, error)
}

// ProgressFunc receives stage names as the pipeline advances. May be nil.
type ProgressFunc func(stage string)

type Service struct {
	fetcher    Fetcher
	summarizer Summarizer
	log        zerolog.Logger
}

func NewService(f Fetcher, s Summarizer, log zerolog.Logger) *Service {
	return &Service{fetcher: f, summarizer: s, log: log}
}

// Summarize handles one request end to end. It never returns an error:
// failures are reported through Result.Outcome.
func (s *Service) Summarize(ctx context.Context, req Request, progress ProgressFunc) Result {
	req.APIKey = strings.TrimSpace(req.APIKey)
	req.URL = strings.TrimSpace(req.URL)
	res := Result{RequestID: uuid.NewString()}
	log := s.log.With().Str("request_id", res.RequestID).Logger()
	report := func(stage string) {
		log.Debug().Str("stage", stage).Msg("pipeline stage")
		if progress != nil {
			progress(stage)
		}
	}
	start := time.Now()

	report(StageValidating)
	if err := validate.Request(req.APIKey, req.URL); err != nil {
		res.Outcome, res.Message = classify(err)
		log.Info().Str("outcome", string(res.Outcome)).Msg(res.Message)
		return res
	}

	report(StageFetching)
	source, frags, err := s.fetcher.Load(ctx, req.URL)
	res.Source = source
	if err != nil {
		return s.fail(log, res, err)
	}
	res.Fragments = len(frags)
	log.Info().Str("source", source).Int("fragments", len(frags)).Str("url", req.URL).Msg("content loaded")

	report(StageSummarizing)
	summary, err := s.summarizer.Summarize(ctx, req.APIKey, llm.Stuff(frags))
	if err != nil {
		return s.fail(log, res, err)
	}

	res.Outcome = OutcomeSuccess
	res.Summary = summary
	log.Info().Dur("took", time.Since(start)).Msg("summary ready")
	return res
}

func (s *Service) fail(log zerolog.Logger, res Result, err error) Result {
	res.Outcome, res.Message = classify(err)
	res.Detail = err.Error()
	log.Error().Err(err).Str("outcome", string(res.Outcome)).Msg(res.Message)
	return res
}
