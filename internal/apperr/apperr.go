// Package apperr defines the error taxonomy surfaced to callers. Every
// failure leaving the service carries a Kind, which fixes its HTTP status
// and user-facing message; nothing is silently swallowed or retried here.
package apperr

import (
	"context"
	"errors"
	"net/http"

	"github.com/magellan-group/report-triage/pkg/anthropic"
)

// Kind identifies a failure class.
type Kind string

const (
	KindUnauthorized  Kind = "unauthorized"
	KindNotFound      Kind = "not_found"
	KindValidation    Kind = "validation_error"
	KindRateLimited   Kind = "rate_limited"
	KindOverloaded    Kind = "service_overloaded"
	KindTooLarge      Kind = "payload_too_large"
	KindUnprocessable Kind = "unprocessable_content"
	KindTimeout       Kind = "timeout"
	KindInternal      Kind = "internal_error"
)

// Error pairs an underlying failure with its classified kind and a
// message suitable for the end user.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap attaches a kind and user message to an underlying error.
func Wrap(err error, kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of err, or KindInternal when the chain carries
// no classified error.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// HTTPStatus maps a kind to its response status code.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindUnauthorized:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusBadRequest
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindOverloaded:
		return http.StatusServiceUnavailable
	case KindTooLarge:
		return http.StatusRequestEntityTooLarge
	case KindUnprocessable:
		return http.StatusUnprocessableEntity
	case KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// UserMessage returns the guidance shown to the end user for a kind.
func (k Kind) UserMessage() string {
	switch k {
	case KindUnauthorized:
		return "You do not have access to this record."
	case KindNotFound:
		return "The requested record does not exist."
	case KindValidation:
		return "The request is invalid."
	case KindRateLimited:
		return "The extraction service is rate limited. Please retry in a few minutes."
	case KindOverloaded:
		return "The extraction service is temporarily overloaded. Please retry later."
	case KindTooLarge:
		return "The document is too large to process, even as extracted text."
	case KindUnprocessable:
		return "The document could not be read. It may be corrupted or contain no extractable text."
	case KindTimeout:
		return "The operation took too long and was aborted."
	default:
		return "An internal error occurred."
	}
}

// FromExtraction classifies a failure from the extraction pipeline,
// translating the API client's typed kinds and context deadlines into the
// service taxonomy. Unmatched errors classify as internal.
func FromExtraction(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}

	var kind Kind
	switch anthropic.KindOf(err) {
	case anthropic.KindRateLimited:
		kind = KindRateLimited
	case anthropic.KindOverloaded:
		kind = KindOverloaded
	case anthropic.KindTooLarge:
		kind = KindTooLarge
	case anthropic.KindTimeout:
		kind = KindTimeout
	default:
		if errors.Is(err, context.DeadlineExceeded) {
			kind = KindTimeout
		} else {
			kind = KindInternal
		}
	}
	return Wrap(err, kind, kind.UserMessage())
}
