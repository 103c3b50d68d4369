// Package loader turns a URL into an ordered list of text fragments.
//
// Two strategies exist: a YouTube transcript loader and a generic web page
// loader. Selector picks one from the URL host.
package loader

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// ErrEmptyContent is returned when a source yields no readable text
var ErrEmptyContent = errors.New("no readable text found")

// Fragment is one unit of extracted text from a source document
type Fragment struct {
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Loader fetches a URL and returns its text fragments in document order
type Loader interface {
	// Name returns a short identifier used in logs and results
	Name() string

	// Load fetches and extracts the content at rawURL
	Load(ctx context.Context, rawURL string) ([]Fragment, error)
}

// FetchError wraps any failure raised while loading a URL
type FetchError struct {
	Loader string
	URL    string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s loader failed for %s: %v", e.Loader, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

var youtubeDomains = []string{"youtube.com", "youtube-nocookie.com"}

// IsYouTube reports whether the URL host belongs to YouTube
func IsYouTube(rawURL string) bool {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Host)
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.TrimSuffix(host, ".")
	if host == "youtu.be" {
		return true
	}
	for _, d := range youtubeDomains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

// Selector dispatches a URL to the matching loader
type Selector struct {
	YouTube Loader
	Web     Loader
}

// NewSelector wires the two strategies together
func NewSelector(youtube, web Loader) *Selector {
	return &Selector{YouTube: youtube, Web: web}
}

// Select returns the transcript loader for YouTube hosts and the generic
// page loader for everything else
func (s *Selector) Select(rawURL string) Loader {
	if IsYouTube(rawURL) {
		return s.YouTube
	}
	return s.Web
}

// Load selects a strategy and runs it. Errors come back as *FetchError.
func (s *Selector) Load(ctx context.Context, rawURL string) (string, []Fragment, error) {
	l := s.Select(rawURL)
	if l == nil {
		return "", nil, &FetchError{Loader: "none", URL: rawURL, Err: errors.New("no loader configured")}
	}
	frags, err := l.Load(ctx, rawURL)
	if err != nil {
		return l.Name(), nil, &FetchError{Loader: l.Name(), URL: rawURL, Err: err}
	}
	if len(frags) == 0 {
		return l.Name(), nil, &FetchError{Loader: l.Name(), URL: rawURL, Err: ErrEmptyContent}
	}
	return l.Name(), frags, nil
}
