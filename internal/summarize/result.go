package summarize

import (
	"errors"

	"go-summarizer/internal/llm"
	"go-summarizer/internal/loader"
	"go-summarizer/internal/validate"
)

// Outcome discriminates the four ways a request can end
type Outcome string

const (
	OutcomeSuccess         Outcome = "success"
	OutcomeValidationError Outcome = "validation_error"
	OutcomeFetchError      Outcome = "fetch_error"
	OutcomeServiceError    Outcome = "service_error"
)

// Pipeline stages reported to progress callbacks
const (
	StageValidating  = "validating"
	StageFetching    = "fetching"
	StageSummarizing = "summarizing"
)

// Request is one click of the summarize button
type Request struct {
	APIKey string `json:"api_key" form:"api_key"`
	URL    string `json:"url" form:"url"`
}

// Result is what the presenter renders. Summary is set only on success;
// Detail carries the full error chain otherwise.
type Result struct {
	Outcome   Outcome `json:"outcome"`
	Summary   string  `json:"summary,omitempty"`
	Message   string  `json:"message,omitempty"`
	Detail    string  `json:"detail,omitempty"`
	RequestID string  `json:"request_id"`
	Source    string  `json:"source,omitempty"`
	Fragments int     `json:"fragments,omitempty"`
}

// OK reports whether the request produced a summary
func (r Result) OK() bool {
	return r.Outcome == OutcomeSuccess
}

// Exception messages shown above the error detail
const (
	msgFetchFailed   = "Could not load content from the URL"
	msgServiceFailed = "The summarization service returned an error"
)

// classify maps a pipeline error onto its outcome and user-facing line
func classify(err error) (Outcome, string) {
	var ve *validate.ValidationError
	var fe *loader.FetchError
	var se *llm.ServiceError
	switch {
	case errors.As(err, &ve):
		return OutcomeValidationError, ve.Message
	case errors.As(err, &fe):
		return OutcomeFetchError, msgFetchFailed
	case errors.As(err, &se):
		return OutcomeServiceError, msgServiceFailed
	default:
		return OutcomeServiceError, msgServiceFailed
	}
}
