// Package pdftext turns PDF statement bytes into plain text for the
// text-based extraction engines.
package pdftext

import (
	"bytes"
	"context"
	"fmt"

	"github.com/dslipak/pdf"

	"github.com/dvloznov/statement-extractor/internal/extract"
)

// FromBytes extracts the plain text of a PDF document.
func FromBytes(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("pdftext: open reader: %w", err)
	}

	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("pdftext: get plain text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("pdftext: read plain text: %w", err)
	}
	return buf.String(), nil
}

// Provider adapts FromBytes to the extraction engines' text provider shape.
func Provider() extract.TextProvider {
	return func(ctx context.Context, doc extract.Document) (string, error) {
		text, err := FromBytes(doc.Data)
		if err != nil {
			return "", fmt.Errorf("extract text from %s: %w", doc.Source, err)
		}
		return text, nil
	}
}
