package llm

import (
	"errors"
	"fmt"
)

var (
	ErrMissingAPIKey = errors.New("missing API key")
	ErrNoChoices     = errors.New("no choices returned from LLM")
)

// ServiceError wraps any failure from the remote model endpoint
type ServiceError struct {
	Model      string
	StatusCode int // 0 when no HTTP response was received
	Err        error
}

func (e *ServiceError) Error() string {
	name := "LLM"
	if e.Model != "" {
		name += " " + e.Model
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s returned status %d: %v", name, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s request failed: %v", name, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
