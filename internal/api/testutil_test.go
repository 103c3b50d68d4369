package api

import (
	"context"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"go-summarizer/internal/config"
	"go-summarizer/internal/llm"
	"go-summarizer/internal/loader"
	"go-summarizer/internal/summarize"
)

type stubLoader struct {
	name  string
	text  string
	err   error
	calls int
}

func (l *stubLoader) Name() string { return l.name }

func (l *stubLoader) Load(ctx context.Context, rawURL string) ([]loader.Fragment, error) {
	l.calls++
	if l.err != nil {
		return nil, l.err
	}
	return []loader.Fragment{{Text: l.text}}, nil
}

type stubCompleter struct {
	out string
	err error
}

func (s *stubCompleter) Complete(ctx context.Context, apiKey, prompt string) (string, error) {
	return s.out, s.err
}

type testEnv struct {
	cfg       *config.Config
	web       *stubLoader
	yt        *stubLoader
	completer *stubCompleter
	router    *gin.Engine
}

func newTestEnv(t *testing.T, subpath string) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		cfg:       config.Default(),
		web:       &stubLoader{name: "web", text: "page text"},
		yt:        &stubLoader{name: "youtube", text: "transcript"},
		completer: &stubCompleter{out: "Stub summary."},
	}
	env.cfg.Server.Subpath = subpath
	svc := summarize.NewService(
		loader.NewSelector(env.yt, env.web),
		llm.NewSummarizer(env.completer, zerolog.Nop()),
		zerolog.Nop(),
	)
	env.router = SetupRouter(env.cfg, svc, zerolog.Nop())
	return env
}
