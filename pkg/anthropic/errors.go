package anthropic

import (
	"context"
	"errors"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
)

// Kind tags an API failure so callers can branch on the failure class
// instead of matching substrings of vendor error text.
type Kind string

const (
	KindRateLimited Kind = "rate_limited"
	KindOverloaded  Kind = "overloaded"
	KindTooLarge    Kind = "too_large"
	KindTimeout     Kind = "timeout"
	KindOther       Kind = "other"
)

// APIError wraps an SDK failure with its classified kind.
type APIError struct {
	Kind Kind
	Err  error
}

func (e *APIError) Error() string {
	return e.Err.Error()
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// KindOf returns the classified kind of err, or KindOther when err carries
// no APIError in its chain.
func KindOf(err error) Kind {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindOther
}

// sizeLimitPatterns match request-rejection messages for documents that
// exceed the API's page or token ceiling. These arrive as 400s, so status
// code alone cannot identify them.
var sizeLimitPatterns = []string{
	"too many pages",
	"page limit",
	"exceeds the maximum number of pages",
	"prompt is too long",
	"exceeds the maximum allowed size",
}

// classifyError tags an SDK error with a Kind. nil passes through.
func classifyError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &APIError{Kind: KindTimeout, Err: err}
	}

	var apiErr *sdk.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 429:
			return &APIError{Kind: KindRateLimited, Err: err}
		case 413:
			return &APIError{Kind: KindTooLarge, Err: err}
		case 503, 529:
			return &APIError{Kind: KindOverloaded, Err: err}
		case 408, 504:
			return &APIError{Kind: KindTimeout, Err: err}
		}
	}

	msg := strings.ToLower(err.Error())
	for _, p := range sizeLimitPatterns {
		if strings.Contains(msg, p) {
			return &APIError{Kind: KindTooLarge, Err: err}
		}
	}
	if strings.Contains(msg, "overloaded") {
		return &APIError{Kind: KindOverloaded, Err: err}
	}

	return &APIError{Kind: KindOther, Err: err}
}
