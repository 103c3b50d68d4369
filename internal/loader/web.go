package loader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
	"github.com/dyatlov/go-opengraph/opengraph"
	"github.com/go-shiori/go-readability"
	"github.com/rs/zerolog"
	"golang.org/x/net/html/charset"

	"go-summarizer/internal/config"
)

// WebLoader fetches a generic web page and extracts its readable text
type WebLoader struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	format     string
	log        zerolog.Logger
}

// NewWebLoader creates the generic page loader from the fetch config
func NewWebLoader(cfg config.FetchConfig, log zerolog.Logger) *WebLoader {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	maxSizeMB := cfg.MaxSizeMB
	if maxSizeMB <= 0 {
		maxSizeMB = 10
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = config.DefaultUserAgent
	}
	if cfg.InsecureSkipVerify {
		log.Warn().Msg("TLS certificate verification is DISABLED for generic page fetches (fetch.insecure_skip_verify)")
	}
	return &WebLoader{
		httpClient: NewHTTPClient(timeout, cfg.InsecureSkipVerify),
		userAgent:  userAgent,
		maxBytes:   int64(maxSizeMB) * 1024 * 1024,
		format:     cfg.Format,
		log:        log,
	}
}

// Name returns the loader identifier
func (w *WebLoader) Name() string {
	return "web"
}

// Load fetches rawURL and dispatches on the response content type
func (w *WebLoader) Load(ctx context.Context, rawURL string) ([]Fragment, error) {
	pageURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	data, contentType, err := w.fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	mediaType, _, _ := mime.ParseMediaType(contentType)
	if mediaType == "" {
		mediaType, _, _ = mime.ParseMediaType(http.DetectContentType(data))
	}
	w.log.Debug().Str("url", rawURL).Str("media_type", mediaType).Int("bytes", len(data)).Msg("fetched page")

	switch {
	case isPDF(mediaType, data):
		return pdfFragments(data, rawURL, w.log)
	case isHTML(mediaType):
		return w.htmlFragments(data, contentType, pageURL)
	case isPlainText(mediaType):
		text, err := decodeUTF8(data, contentType)
		if err != nil {
			return nil, err
		}
		text = normalizeText(text)
		if text == "" {
			return nil, ErrEmptyContent
		}
		return []Fragment{{Text: text, Metadata: map[string]any{"source": rawURL}}}, nil
	default:
		return nil, fmt.Errorf("unsupported content type: %s", contentType)
	}
}

// fetch performs the GET and returns the size-limited body
func (w *WebLoader) fetch(ctx context.Context, rawURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}
	setBrowserHeaders(req, w.userAgent)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	data, err := readLimited(resp.Body, w.maxBytes)
	if err != nil {
		return nil, "", err
	}
	return data, resp.Header.Get("Content-Type"), nil
}

// htmlFragments runs readability first and falls back to goquery
func (w *WebLoader) htmlFragments(data []byte, contentType string, pageURL *url.URL) ([]Fragment, error) {
	page, err := decodeUTF8(data, contentType)
	if err != nil {
		return nil, err
	}

	meta := map[string]any{"source": pageURL.String()}

	og := opengraph.NewOpenGraph()
	if err := og.ProcessHTML(strings.NewReader(page)); err != nil {
		w.log.Debug().Err(err).Msg("opengraph parse failed")
	} else {
		putIfSet(meta, "title", og.Title)
		putIfSet(meta, "description", og.Description)
		putIfSet(meta, "site_name", og.SiteName)
	}

	var text string
	article, err := readability.FromReader(strings.NewReader(page), pageURL)
	if err != nil {
		w.log.Debug().Err(err).Str("url", pageURL.String()).Msg("readability failed, using goquery")
	} else {
		text = w.articleText(article)
		putIfSet(meta, "title", article.Title)
		putIfSet(meta, "description", article.Excerpt)
		putIfSet(meta, "site_name", article.SiteName)
		putIfSet(meta, "byline", article.Byline)
	}

	if text == "" {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
		if err != nil {
			return nil, fmt.Errorf("failed to parse HTML: %w", err)
		}
		putIfSet(meta, "title", documentTitle(doc))
		text = extractDocumentText(doc)
	}

	if text == "" {
		return nil, ErrEmptyContent
	}
	return []Fragment{{Text: text, Metadata: meta}}, nil
}

func (w *WebLoader) articleText(article readability.Article) string {
	if w.format == config.FormatMarkdown && strings.TrimSpace(article.Content) != "" {
		md, err := htmltomarkdown.ConvertString(article.Content)
		if err == nil && strings.TrimSpace(md) != "" {
			return strings.TrimSpace(md)
		}
		w.log.Debug().Err(err).Msg("markdown conversion failed, using plain text")
	}
	return normalizeText(article.TextContent)
}

// decodeUTF8 converts the body to UTF-8 using the declared or sniffed charset
func decodeUTF8(data []byte, contentType string) (string, error) {
	r, err := charset.NewReader(bytes.NewReader(data), contentType)
	if err != nil {
		return "", fmt.Errorf("failed to decode charset: %w", err)
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to decode charset: %w", err)
	}
	return string(out), nil
}

// putIfSet only fills keys that are still empty
func putIfSet(meta map[string]any, key, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	if existing, ok := meta[key].(string); ok && existing != "" {
		return
	}
	meta[key] = value
}
