package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"go-summarizer/internal/config"
	"go-summarizer/internal/logging"
)

var version = "dev"

func main() {
	app := &cli.App{
		Name:    "summarize",
		Usage:   "Summarize a YouTube video or a website in about 300 words",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "JSON or YAML config file (defaults are used when omitted)",
				EnvVars: []string{"SUMMARIZER_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "api-key",
				Aliases: []string{"k"},
				Usage:   "Groq API key",
				EnvVars: []string{"GROQ_API_KEY"},
			},
			&cli.StringFlag{
				Name:    "url",
				Aliases: []string{"u"},
				Usage:   "YouTube or website URL to summarize",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print the full result as JSON",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "log pipeline stages to stderr",
			},
		},
		Action: runAction,
		Commands: []*cli.Command{
			{
				Name:   "mcp",
				Usage:  "serve the summarize_url tool over MCP stdio",
				Action: mcpAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	if !c.IsSet("config") {
		return config.Default(), nil
	}
	return config.Parse(c.String("config"))
}

func newLogger(c *cli.Context, cfg *config.Config) zerolog.Logger {
	lc := cfg.Log
	if c.Bool("verbose") {
		lc.Level = "debug"
		lc.Pretty = true
	} else if !c.IsSet("config") {
		lc.Level = "warn"
	}
	return logging.New(lc, os.Stderr)
}
