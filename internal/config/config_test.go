package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write tmp config: %v", err)
	}
	return path
}

func TestLoadConfig_Valid(t *testing.T) {
	ResetConfigForTest()
	path := writeTemp(t, "config.json", `{
		"server": {
			"host": "localhost",
			"port": 8080,
			"subpath": "/summarize"
		},
		"llm": {
			"model": "llama-3.3-70b-versatile"
		},
		"fetch": {
			"insecure_skip_verify": true
		}
	}`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Server.Host != "localhost" || cfg.Server.Port != 8080 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.LLM.Model != "llama-3.3-70b-versatile" {
		t.Errorf("llm model not loaded: %q", cfg.LLM.Model)
	}
	// untouched sections keep their defaults
	if cfg.LLM.BaseURL != "https://api.groq.com/openai/v1" {
		t.Errorf("expected default base url, got %q", cfg.LLM.BaseURL)
	}
	if cfg.Fetch.UserAgent != DefaultUserAgent {
		t.Errorf("expected default user agent, got %q", cfg.Fetch.UserAgent)
	}
	if !cfg.Fetch.InsecureSkipVerify {
		t.Errorf("insecure_skip_verify not loaded")
	}
	if GetConfig() != cfg {
		t.Errorf("GetConfig should return the loaded singleton")
	}
}

func TestLoadConfig_YAML(t *testing.T) {
	ResetConfigForTest()
	path := writeTemp(t, "config.yaml", `
server:
  port: 9000
fetch:
  format: markdown
youtube:
  languages: [de, en]
  include_video_info: false
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("failed to load yaml config: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Server.Port)
	}
	if cfg.Fetch.Format != FormatMarkdown {
		t.Errorf("expected markdown format, got %q", cfg.Fetch.Format)
	}
	if len(cfg.YouTube.Languages) != 2 || cfg.YouTube.Languages[0] != "de" {
		t.Errorf("unexpected languages: %v", cfg.YouTube.Languages)
	}
	if cfg.YouTube.IncludeVideoInfo {
		t.Errorf("include_video_info should be false")
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	ResetConfigForTest()
	_, err := LoadConfig("no_such_config.json")
	if err == nil {
		t.Errorf("expected error for missing file")
	}
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	ResetConfigForTest()
	path := writeTemp(t, "bad.json", `{this is not json}`)

	_, err := LoadConfig(path)
	if err == nil {
		t.Errorf("expected error for malformed JSON")
	}
}

func TestParse_RejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"empty model":   `{"llm": {"model": ""}}`,
		"bad port":      `{"server": {"port": 70000}}`,
		"bad format":    `{"fetch": {"format": "html"}}`,
		"bad subpath":   `{"server": {"subpath": "nope"}}`,
		"empty baseurl": `{"llm": {"base_url": "  "}}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := writeTemp(t, "config.json", body)
			if _, err := Parse(path); err == nil {
				t.Errorf("expected validation error")
			}
		})
	}
}

func TestDefault_IsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if Default().Fetch.InsecureSkipVerify {
		t.Errorf("TLS verification must be on by default")
	}
}

func TestParse_NormalizesSubpath(t *testing.T) {
	cases := map[string]string{
		"/summarizer/": "/summarizer",
		"/summarizer":  "/summarizer",
		"/a/b//":       "/a/b",
		"/":            "",
		"":             "",
	}
	for in, want := range cases {
		t.Run(in, func(t *testing.T) {
			path := writeTemp(t, "config.json", `{"server": {"subpath": "`+in+`"}}`)
			cfg, err := Parse(path)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.Server.Subpath != want {
				t.Errorf("subpath %q normalized to %q, want %q", in, cfg.Server.Subpath, want)
			}
		})
	}
}
