// Package mcpserver exposes the summarizer as an MCP tool.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"go-summarizer/internal/summarize"
)

const ToolName = "summarize_url"

// SummarizeInput is the tool argument schema
type SummarizeInput struct {
	URL    string `json:"url" jsonschema:"YouTube video or web page URL to summarize"`
	APIKey string `json:"api_key,omitempty" jsonschema:"Groq API key (defaults to the server's key)"`
}

// SummarizeOutput is returned on success
type SummarizeOutput struct {
	Summary   string `json:"summary"`
	Source    string `json:"source"`
	Fragments int    `json:"fragments"`
	RequestID string `json:"request_id"`
}

// New creates an MCP server with the summarize tool registered.
// defaultKey is used when the caller omits api_key.
func New(svc *summarize.Service, defaultKey, version string, log zerolog.Logger) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go-summarizer",
		Version: version,
	}, nil)
	register(server, svc, defaultKey, log)
	return server
}

func register(server *mcp.Server, svc *summarize.Service, defaultKey string, log zerolog.Logger) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolName,
		Description: "Summarize a YouTube video (from its transcript) or a web page in about 300 words.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input SummarizeInput) (*mcp.CallToolResult, SummarizeOutput, error) {
		if strings.TrimSpace(input.URL) == "" {
			return nil, SummarizeOutput{}, errors.New("url is required")
		}
		key := input.APIKey
		if strings.TrimSpace(key) == "" {
			key = defaultKey
		}

		res := svc.Summarize(ctx, summarize.Request{APIKey: key, URL: input.URL}, nil)
		if !res.OK() {
			log.Warn().Str("request_id", res.RequestID).Str("outcome", string(res.Outcome)).Msg("tool call failed")
			if res.Detail != "" {
				return nil, SummarizeOutput{}, fmt.Errorf("%s: %s", res.Message, res.Detail)
			}
			return nil, SummarizeOutput{}, errors.New(res.Message)
		}
		return nil, SummarizeOutput{
			Summary:   res.Summary,
			Source:    res.Source,
			Fragments: res.Fragments,
			RequestID: res.RequestID,
		}, nil
	})
}

// Run serves the tool over stdio until the client disconnects
func Run(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}
