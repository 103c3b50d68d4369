package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"go-summarizer/internal/mcpserver"
	"go-summarizer/internal/summarize"
)

// exit codes
const (
	exitValidation = 2
	exitFailure    = 1
)

func runAction(c *cli.Context) error {
	if !c.IsSet("url") && c.Args().Len() == 0 {
		return cli.ShowAppHelp(c)
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(fmt.Sprintf("config error: %v", err), exitFailure)
	}
	log := newLogger(c, cfg)

	rawURL := c.String("url")
	if rawURL == "" {
		rawURL = c.Args().First()
	}

	svc := summarize.Build(cfg, log)
	res := svc.Summarize(c.Context, summarize.Request{APIKey: c.String("api-key"), URL: rawURL}, func(stage string) {
		log.Debug().Str("stage", stage).Msg("progress")
	})

	if err := writeResult(os.Stdout, res, c.Bool("json")); err != nil {
		return err
	}
	switch code := exitCode(res.Outcome); code {
	case 0:
		return nil
	case exitValidation:
		return cli.Exit(res.Message, code)
	default:
		return cli.Exit(fmt.Sprintf("%s\n%s", res.Message, res.Detail), code)
	}
}

// exitCode maps a pipeline outcome to the process exit status
func exitCode(o summarize.Outcome) int {
	switch o {
	case summarize.OutcomeSuccess:
		return 0
	case summarize.OutcomeValidationError:
		return exitValidation
	default:
		return exitFailure
	}
}

// writeResult prints the summary, or the whole result when asJSON is set.
// Failures print nothing in text mode; the message goes to stderr on exit.
func writeResult(w io.Writer, res summarize.Result, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	if res.OK() {
		_, err := fmt.Fprintln(w, res.Summary)
		return err
	}
	return nil
}

func mcpAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(fmt.Sprintf("config error: %v", err), exitFailure)
	}
	// stdout carries the protocol; logs go to stderr
	log := newLogger(c, cfg)
	svc := summarize.Build(cfg, log)
	server := mcpserver.New(svc, c.String("api-key"), version, log)

	log.Info().Str("tool", mcpserver.ToolName).Msg("serving MCP over stdio")
	return mcpserver.Run(c.Context, server)
}
