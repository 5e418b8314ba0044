package apperr

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"

	"github.com/magellan-group/report-triage/pkg/anthropic"
)

func TestKindOf(t *testing.T) {
	err := New(KindValidation, "missing section")
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Equal(t, KindValidation, KindOf(eris.Wrap(err, "transform")))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindUnauthorized, http.StatusForbidden},
		{KindNotFound, http.StatusNotFound},
		{KindValidation, http.StatusBadRequest},
		{KindRateLimited, http.StatusTooManyRequests},
		{KindOverloaded, http.StatusServiceUnavailable},
		{KindTooLarge, http.StatusRequestEntityTooLarge},
		{KindUnprocessable, http.StatusUnprocessableEntity},
		{KindTimeout, http.StatusGatewayTimeout},
		{KindInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.kind.HTTPStatus(), string(tt.kind))
	}
}

func TestFromExtraction_AnthropicKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"rate limited", &anthropic.APIError{Kind: anthropic.KindRateLimited, Err: errors.New("429")}, KindRateLimited},
		{"overloaded", &anthropic.APIError{Kind: anthropic.KindOverloaded, Err: errors.New("529")}, KindOverloaded},
		{"too large", &anthropic.APIError{Kind: anthropic.KindTooLarge, Err: errors.New("too many pages")}, KindTooLarge},
		{"timeout", &anthropic.APIError{Kind: anthropic.KindTimeout, Err: errors.New("deadline")}, KindTimeout},
		{"deadline exceeded", context.DeadlineExceeded, KindTimeout},
		{"unclassified", errors.New("boom"), KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromExtraction(tt.err)
			assert.Equal(t, tt.want, got.Kind)
			assert.NotEmpty(t, got.Message)
		})
	}
}

func TestFromExtraction_PreservesExistingKind(t *testing.T) {
	orig := New(KindValidation, "payload missing section economics")
	got := FromExtraction(eris.Wrap(orig, "extract"))
	assert.Equal(t, KindValidation, got.Kind)
}
