package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// DefaultUserAgent is sent by the generic page loader unless overridden.
const DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 13_5_1) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) " +
	"Chrome/116.0.0.0 Safari/537.36"

// Output formats for extracted page text
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
)

type ServerConfig struct {
	Host    string `json:"host" yaml:"host"`
	Port    int    `json:"port" yaml:"port"`
	Subpath string `json:"subpath" yaml:"subpath"`
}

// LLMConfig points at an OpenAI-compatible chat completions API.
// The API key is never part of the config; it arrives with each request.
type LLMConfig struct {
	BaseURL        string  `json:"base_url" yaml:"base_url"`
	Model          string  `json:"model" yaml:"model"`
	Temperature    float64 `json:"temperature" yaml:"temperature"`
	TimeoutSeconds int     `json:"timeout_seconds" yaml:"timeout_seconds"`
}

type FetchConfig struct {
	UserAgent      string `json:"user_agent" yaml:"user_agent"`
	TimeoutSeconds int    `json:"timeout_seconds" yaml:"timeout_seconds"`
	MaxSizeMB      int    `json:"max_size_mb" yaml:"max_size_mb"`
	// InsecureSkipVerify disables TLS certificate checks for generic pages.
	InsecureSkipVerify bool   `json:"insecure_skip_verify" yaml:"insecure_skip_verify"`
	Format             string `json:"format" yaml:"format"`
}

type YouTubeConfig struct {
	Languages        []string `json:"languages" yaml:"languages"`
	IncludeVideoInfo bool     `json:"include_video_info" yaml:"include_video_info"`
}

type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Pretty bool   `json:"pretty" yaml:"pretty"`
}

type Config struct {
	Server  ServerConfig  `json:"server" yaml:"server"`
	LLM     LLMConfig     `json:"llm" yaml:"llm"`
	Fetch   FetchConfig   `json:"fetch" yaml:"fetch"`
	YouTube YouTubeConfig `json:"youtube" yaml:"youtube"`
	Log     LogConfig     `json:"log" yaml:"log"`
}

// Default returns a config usable without any file on disk
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8501,
		},
		LLM: LLMConfig{
			BaseURL:        "https://api.groq.com/openai/v1",
			Model:          "llama-3.1-8b-instant",
			TimeoutSeconds: 120,
		},
		Fetch: FetchConfig{
			UserAgent:      DefaultUserAgent,
			TimeoutSeconds: 30,
			MaxSizeMB:      10,
			Format:         FormatText,
		},
		YouTube: YouTubeConfig{
			Languages:        []string{"en"},
			IncludeVideoInfo: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

var (
	once   sync.Once
	cfg    *Config
	cfgErr error
)

// LoadConfig reads a JSON or YAML config from disk (singleton).
// Values present in the file override Default().
func LoadConfig(path string) (*Config, error) {
	once.Do(func() {
		c, err := Parse(path)
		if err != nil {
			cfgErr = err
			return
		}
		cfg = c
	})
	return cfg, cfgErr
}

// Parse reads and validates a config file without touching the singleton
func Parse(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	c := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, c)
	default:
		err = json.Unmarshal(raw, c)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid config format: %w", err)
	}
	c.Server.Subpath = NormalizeSubpath(c.Server.Subpath)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the fields the rest of the program relies on
func (c *Config) Validate() error {
	if strings.TrimSpace(c.LLM.BaseURL) == "" {
		return errors.New("llm.base_url must be set in config")
	}
	if strings.TrimSpace(c.LLM.Model) == "" {
		return errors.New("llm.model must be set in config")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	switch c.Fetch.Format {
	case FormatText, FormatMarkdown:
	default:
		return fmt.Errorf("fetch.format must be %q or %q, got %q", FormatText, FormatMarkdown, c.Fetch.Format)
	}
	if c.Server.Subpath != "" && !strings.HasPrefix(c.Server.Subpath, "/") {
		return fmt.Errorf("server.subpath must start with '/': %q", c.Server.Subpath)
	}
	return nil
}

// NormalizeSubpath strips surrounding spaces and trailing slashes, so
// "/app/" and "/app" mount the same routes and "/" means no prefix.
func NormalizeSubpath(p string) string {
	return strings.TrimRight(strings.TrimSpace(p), "/")
}

// GetConfig returns the loaded config (must call LoadConfig first)
func GetConfig() *Config {
	return cfg
}

// ResetConfigForTest resets the singleton state (for testing only)
func ResetConfigForTest() {
	once = sync.Once{}
	cfg = nil
	cfgErr = nil
}
