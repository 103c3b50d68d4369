package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/rs/zerolog"

	"go-summarizer/internal/config"
)

// Completer sends one prompt to a model and returns the generated text
type Completer interface {
	Complete(ctx context.Context, apiKey, prompt string) (string, error)
}

// Summarizer turns stuffed document text into a summary
type Summarizer struct {
	completer Completer
	log       zerolog.Logger
}

// NewSummarizer wraps a completion backend
func NewSummarizer(c Completer, log zerolog.Logger) *Summarizer {
	return &Summarizer{completer: c, log: log}
}

// Summarize builds the prompt and returns the model output verbatim
func (s *Summarizer) Summarize(ctx context.Context, apiKey, text string) (string, error) {
	if strings.TrimSpace(apiKey) == "" {
		return "", &ServiceError{Err: ErrMissingAPIKey}
	}
	prompt := BuildPrompt(text)
	start := time.Now()
	out, err := s.completer.Complete(ctx, apiKey, prompt)
	if err != nil {
		var se *ServiceError
		if !errors.As(err, &se) {
			err = &ServiceError{Err: err}
		}
		s.log.Error().Err(err).Dur("took", time.Since(start)).Msg("summary request failed")
		return "", err
	}
	s.log.Info().Int("prompt_chars", len(prompt)).Int("summary_chars", len(out)).Dur("took", time.Since(start)).Msg("summary generated")
	return out, nil
}

// OpenAICompleter talks to any OpenAI-compatible chat completions API
// (Groq by default). A client is built per call because the key comes
// with each request.
type OpenAICompleter struct {
	baseURL     string
	model       string
	temperature float64
	httpClient  *http.Client
}

// NewOpenAICompleter creates the default backend from the llm config
func NewOpenAICompleter(cfg config.LLMConfig) *OpenAICompleter {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &OpenAICompleter{
		baseURL:     cfg.BaseURL,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

// Complete issues a single non-streaming chat completion. SDK retries are
// disabled so failures surface immediately.
func (o *OpenAICompleter) Complete(ctx context.Context, apiKey, prompt string) (string, error) {
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(o.baseURL),
		option.WithHTTPClient(o.httpClient),
		option.WithMaxRetries(0),
	)

	params := openai.ChatCompletionNewParams{
		Model: o.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	}
	if o.temperature > 0 {
		params.Temperature = openai.Float(o.temperature)
	}

	resp, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		se := &ServiceError{Model: o.model, Err: err}
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			se.StatusCode = apiErr.StatusCode
		}
		return "", se
	}
	if len(resp.Choices) == 0 {
		return "", &ServiceError{Model: o.model, Err: ErrNoChoices}
	}
	return resp.Choices[0].Message.Content, nil
}
