// Package validate checks user input before any network call is made.
package validate

import (
	"net/url"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// User-facing messages for rejected input
const (
	MsgMissingInput = "Please provide the information to get started"
	MsgInvalidURL   = "Please enter a valid URL (YouTube or Website)"
)

// ValidationError is returned for input that must be fixed by the user
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var (
	validateOnce sync.Once
	v            *validator.Validate
)

func instance() *validator.Validate {
	validateOnce.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
	})
	return v
}

// URL reports whether raw is a well-formed http(s) URL with a host
func URL(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	if err := instance().Var(raw, "required,http_url"); err != nil {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// Request validates the two form inputs in the order the page reports them:
// missing values first, then URL shape.
func Request(apiKey, rawURL string) error {
	if strings.TrimSpace(apiKey) == "" {
		return &ValidationError{Field: "api_key", Message: MsgMissingInput}
	}
	if strings.TrimSpace(rawURL) == "" {
		return &ValidationError{Field: "url", Message: MsgMissingInput}
	}
	if !URL(rawURL) {
		return &ValidationError{Field: "url", Message: MsgInvalidURL}
	}
	return nil
}
