package extract

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/dvloznov/statement-extractor/internal/logger"
)

// Detector chooses the extraction engine for a document by sniffing header
// keywords, the way the statement templates identify themselves: CSV exports
// by their column headers, PDFs by the institution name on the first page.
type Detector struct {
	Opts Options

	// Text supplies PDF plain text for sniffing and for the text engine.
	Text TextProvider

	// ModelFallback routes unrecognized PDFs to the model-assisted engine
	// instead of skipping them.
	ModelFallback bool
	ModelName     string
}

// Detect returns the engine for the document, or false when no engine
// applies (unsupported export, unrecognized institution with the model
// fallback disabled).
func (d *Detector) Detect(ctx context.Context, doc Document) (Engine, bool) {
	log := logger.FromContext(ctx)

	switch strings.ToLower(filepath.Ext(doc.Source)) {
	case ".csv":
		head := csvHead(doc.Data)
		switch {
		case strings.Contains(head, "Transaktionscode") || strings.Contains(head, "PayPal"):
			log.Info().Str("source", doc.Source).Msg("PayPal exports are not supported, skipping")
			return nil, false
		case strings.Contains(head, "Buchungsdatum"):
			return NewDKB(d.Opts), true
		case strings.Contains(head, "Text/Verwendungszweck"):
			return NewConsorsbankRows(d.Opts), true
		}
		log.Info().Str("source", doc.Source).Msg("unrecognized CSV layout, skipping")
		return nil, false

	case ".pdf":
		text, err := d.Text(ctx, doc)
		if err != nil {
			log.Warn().Err(err).Str("source", doc.Source).Msg("could not sniff PDF text")
			text = ""
		}
		if strings.Contains(text, "Consorsbank") || strings.Contains(text, "KONTOAUSZUG") {
			return NewConsorsbank(d.Opts, d.Text), true
		}
		if d.ModelFallback {
			return NewModelEngine(d.Opts, d.ModelName), true
		}
		log.Info().Str("source", doc.Source).Msg("unrecognized statement, model fallback disabled, skipping")
		return nil, false
	}

	return nil, false
}

// csvHead returns the first few lines of the export, enough for the header
// keywords to show up.
func csvHead(data []byte) string {
	const headLines = 10
	s := string(data)
	lines := strings.SplitN(s, "\n", headLines+1)
	if len(lines) > headLines {
		lines = lines[:headLines]
	}
	return strings.Join(lines, " ")
}
