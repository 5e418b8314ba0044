package extract

import (
	"context"
	"encoding/base64"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/magellan-group/report-triage/internal/apperr"
	"github.com/magellan-group/report-triage/internal/model"
	"github.com/magellan-group/report-triage/internal/ocr"
	"github.com/magellan-group/report-triage/pkg/anthropic"
)

// maxFallbackChars caps the plain text sent on the fallback path. Text
// beyond the budget is dropped and the truncation marker appended once.
const maxFallbackChars = 300_000

// truncationMarker is appended when fallback text is cut at the budget.
const truncationMarker = "\n\n[truncated: report text exceeds extraction budget]"

// maxOutputTokens bounds the extraction reply; the seven-section payload
// fits comfortably.
const maxOutputTokens = 4096

// Pipeline submits a document to the extraction API and parses the reply.
//
// The flow is a small state machine: a native attempt sends the PDF as a
// document block; only a size-limit rejection transitions to the text
// fallback, which extracts plain text locally and resubmits. Every other
// failure propagates immediately. Neither path retries.
type Pipeline struct {
	client    anthropic.Client
	extractor ocr.Extractor
	model     string
}

// NewPipeline creates an extraction pipeline. The client handle is shared
// process-wide and injected, never constructed lazily.
func NewPipeline(client anthropic.Client, extractor ocr.Extractor, modelID string) *Pipeline {
	return &Pipeline{
		client:    client,
		extractor: extractor,
		model:     modelID,
	}
}

// Extract runs the native attempt and, when the document exceeds the
// API's size ceiling, the text fallback. Both success paths return a
// payload that already passed section validation.
func (p *Pipeline) Extract(ctx context.Context, doc []byte) (*model.ExtractionPayload, error) {
	start := time.Now()

	payload, err := p.nativeAttempt(ctx, doc)
	if err == nil {
		zap.L().Info("extract: native attempt succeeded",
			zap.Duration("elapsed", time.Since(start)),
		)
		return payload, nil
	}

	if anthropic.KindOf(err) != anthropic.KindTooLarge {
		return nil, apperr.FromExtraction(err)
	}

	zap.L().Info("extract: document exceeds native size limit, falling back to text",
		zap.Int("pdf_bytes", len(doc)),
	)

	payload, err = p.textFallback(ctx, doc)
	if err != nil {
		return nil, apperr.FromExtraction(err)
	}
	zap.L().Info("extract: text fallback succeeded",
		zap.Duration("elapsed", time.Since(start)),
	)
	return payload, nil
}

func (p *Pipeline) nativeAttempt(ctx context.Context, doc []byte) (*model.ExtractionPayload, error) {
	resp, err := p.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     p.model,
		MaxTokens: maxOutputTokens,
		System:    anthropic.BuildCachedSystemBlocks(systemText),
		Messages: []anthropic.Message{
			{
				Role:    "user",
				Content: instructionPrompt,
				Document: &anthropic.Document{
					Base64Data: base64.StdEncoding.EncodeToString(doc),
				},
			},
		},
	})
	if err != nil {
		return nil, eris.Wrap(err, "extract: native attempt")
	}
	resp.Usage.LogCost(p.model, "extract_native")

	return ParsePayload(resp.Text())
}

func (p *Pipeline) textFallback(ctx context.Context, doc []byte) (*model.ExtractionPayload, error) {
	text, err := p.extractor.ExtractText(ctx, doc)
	if err != nil {
		return nil, apperr.Wrap(eris.Wrap(err, "extract: text fallback"),
			apperr.KindUnprocessable, apperr.KindUnprocessable.UserMessage())
	}

	text = truncate(text)

	resp, err := p.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     p.model,
		MaxTokens: maxOutputTokens,
		System:    anthropic.BuildCachedSystemBlocks(systemText),
		Messages: []anthropic.Message{
			{
				Role:    "user",
				Content: textPromptHeader + instructionPrompt + "\n\n--- Report text ---\n" + text,
			},
		},
	})
	if err != nil {
		return nil, eris.Wrap(err, "extract: text fallback")
	}
	resp.Usage.LogCost(p.model, "extract_text_fallback")

	return ParsePayload(resp.Text())
}

// truncate cuts text at the fallback budget, appending the marker when
// anything was dropped.
func truncate(text string) string {
	if len(text) <= maxFallbackChars {
		return text
	}
	return text[:maxFallbackChars] + truncationMarker
}
