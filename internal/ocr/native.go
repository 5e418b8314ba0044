package ocr

import (
	"bytes"
	"context"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rotisserie/eris"
)

// Native extracts text with a pure-Go PDF reader, so no external binary
// is required. Pages that fail to decode are skipped; a document that
// yields no text at all is an error, since the caller has nothing to
// send to the model.
type Native struct{}

// NewNative creates a Native extractor.
func NewNative() *Native {
	return &Native{}
}

// ExtractText walks every page and concatenates its plain text.
func (n *Native) ExtractText(ctx context.Context, doc []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(doc), int64(len(doc)))
	if err != nil {
		return "", eris.Wrap(err, "ocr: open pdf")
	}

	var sb strings.Builder
	numPages := r.NumPage()
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return "", eris.Wrap(err, "ocr: extract cancelled")
		}
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", eris.New("ocr: no extractable text, document may be scanned or image-based")
	}
	return text, nil
}
