package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"

	"go-summarizer/internal/api"
	"go-summarizer/internal/config"
	"go-summarizer/internal/logging"
	"go-summarizer/internal/summarize"
)

func main() {
	path := os.Getenv("SUMMARIZER_CONFIG")
	if path == "" {
		path = "config.json"
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(cfg.Log, os.Stderr)
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	svc := summarize.Build(cfg, log)
	r := api.SetupRouter(cfg, svc, logging.Component(log, "api"))

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info().Str("addr", addr).Str("subpath", cfg.Server.Subpath).Str("model", cfg.LLM.Model).Msg("starting server")
	if err := r.Run(addr); err != nil {
		log.Error().Err(err).Msg("server error")
		os.Exit(1)
	}
}
