package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-summarizer/internal/config"
	"go-summarizer/internal/loader"
)

type stubCompleter struct {
	out        string
	err        error
	lastKey    string
	lastPrompt string
}

func (s *stubCompleter) Complete(ctx context.Context, apiKey, prompt string) (string, error) {
	s.lastKey = apiKey
	s.lastPrompt = prompt
	return s.out, s.err
}

func TestStuff(t *testing.T) {
	frags := []loader.Fragment{{Text: "one"}, {Text: "two"}, {Text: "three"}}
	assert.Equal(t, "one\n\ntwo\n\nthree", Stuff(frags))
	assert.Equal(t, "", Stuff(nil))
}

func TestBuildPrompt(t *testing.T) {
	want := "\nProvide a summary of the following content in about 300 words:\n\nSome {{braces}} & <html>\n"
	assert.Equal(t, want, BuildPrompt("Some {{braces}} & <html>"))
}

func TestSummarizer_ReturnsOutputVerbatim(t *testing.T) {
	stub := &stubCompleter{out: "  A fixed summary.\n"}
	s := NewSummarizer(stub, zerolog.Nop())

	got, err := s.Summarize(context.Background(), "gsk_test", "document text")
	require.NoError(t, err)
	assert.Equal(t, "  A fixed summary.\n", got)
	assert.Equal(t, "gsk_test", stub.lastKey)
	assert.Equal(t, BuildPrompt("document text"), stub.lastPrompt)
}

func TestSummarizer_MissingKey(t *testing.T) {
	stub := &stubCompleter{out: "unused"}
	_, err := NewSummarizer(stub, zerolog.Nop()).Summarize(context.Background(), " ", "text")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
	assert.Empty(t, stub.lastPrompt, "no request should be made without a key")
}

func TestSummarizer_WrapsBackendErrors(t *testing.T) {
	boom := errors.New("dial tcp: i/o timeout")
	_, err := NewSummarizer(&stubCompleter{err: boom}, zerolog.Nop()).Summarize(context.Background(), "k", "text")
	var se *ServiceError
	require.True(t, errors.As(err, &se))
	assert.ErrorIs(t, err, boom)
}

func newCompleter(url string) *OpenAICompleter {
	return NewOpenAICompleter(config.LLMConfig{
		BaseURL:        url + "/openai/v1",
		Model:          "llama-3.1-8b-instant",
		TimeoutSeconds: 5,
	})
}

func TestOpenAICompleter_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/openai/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer gsk_test", r.Header.Get("Authorization"))

		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "llama-3.1-8b-instant", body.Model)
		require.Len(t, body.Messages, 1)
		assert.Equal(t, "user", body.Messages[0].Role)
		assert.Equal(t, "the prompt", body.Messages[0].Content)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "llama-3.1-8b-instant",
			"choices": [{
				"index": 0,
				"message": {"role": "assistant", "content": "Generated summary."},
				"finish_reason": "stop",
				"logprobs": null
			}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 3, "total_tokens": 13}
		}`))
	}))
	defer srv.Close()

	out, err := newCompleter(srv.URL).Complete(context.Background(), "gsk_test", "the prompt")
	require.NoError(t, err)
	assert.Equal(t, "Generated summary.", out)
}

func TestOpenAICompleter_Unauthorized(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"Invalid API Key","type":"invalid_request_error","code":"invalid_api_key"}}`))
	}))
	defer srv.Close()

	_, err := newCompleter(srv.URL).Complete(context.Background(), "bad", "p")
	var se *ServiceError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusUnauthorized, se.StatusCode)
	assert.Contains(t, err.Error(), "401")
	assert.Equal(t, 1, calls, "requests must not be retried")
}

func TestOpenAICompleter_ServerErrorNotRetried(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newCompleter(srv.URL).Complete(context.Background(), "k", "p")
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestOpenAICompleter_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"x","object":"chat.completion","created":1,"model":"m","choices":[]}`))
	}))
	defer srv.Close()

	_, err := newCompleter(srv.URL).Complete(context.Background(), "k", "p")
	assert.ErrorIs(t, err, ErrNoChoices)
}
