package ocr

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewExtractor(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		wantType any
		wantErr  bool
	}{
		{"default is native", Config{}, &Native{}, false},
		{"native", Config{Provider: "native"}, &Native{}, false},
		{"pdftotext", Config{Provider: "pdftotext"}, &PdfToText{}, false},
		{"unknown provider", Config{Provider: "tesseract"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext, err := NewExtractor(tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.wantType, ext)
		})
	}
}

func TestPdfToText_DefaultBinPath(t *testing.T) {
	p := NewPdfToText("")
	assert.Equal(t, "pdftotext", p.binPath)
}

func TestNative_RejectsGarbage(t *testing.T) {
	n := NewNative()
	_, err := n.ExtractText(context.Background(), []byte("not a pdf at all"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ocr:")
}

func TestPdfToText_MissingBinary(t *testing.T) {
	p := NewPdfToText("/nonexistent/pdftotext-bin")
	_, err := p.ExtractText(context.Background(), []byte("%PDF-1.4"))
	require.Error(t, err)
}
