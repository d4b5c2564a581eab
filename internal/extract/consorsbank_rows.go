package extract

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/dvloznov/statement-extractor/internal/domain"
	"github.com/dvloznov/statement-extractor/internal/logger"
)

// ConsorsbankRows extracts transactions from a row-based Consorsbank
// statement export: an ordered record sequence whose designated text field
// is "Text/Verwendungszweck". Segmentation, mapping and balance tracking run
// over the rows via the trigger lexicon instead of regex spans; the contract
// and invariants are the same as the text engine's.
type ConsorsbankRows struct {
	opts Options
}

// NewConsorsbankRows builds the row-based Consorsbank engine.
func NewConsorsbankRows(opts Options) *ConsorsbankRows {
	return &ConsorsbankRows{opts: opts}
}

func (e *ConsorsbankRows) Bank() string { return consorsbankBank }

// Extract parses the document as a semicolon-separated row dump and maps the
// resulting row stream. Lines preceding the header record are skipped.
func (e *ConsorsbankRows) Extract(ctx context.Context, doc Document) ([]domain.Transaction, error) {
	rows, err := readConsorsbankRows(doc.Data)
	if err != nil {
		return nil, fmt.Errorf("consorsbank rows: read %s: %w", doc.Source, err)
	}
	return e.FromRows(ctx, doc.Source, rows), nil
}

// FromRows runs segmentation and positional mapping over an already-split
// row stream, preserving document order.
func (e *ConsorsbankRows) FromRows(ctx context.Context, source string, rows []Row) []domain.Transaction {
	log := logger.FromContext(ctx)

	table := ConsorsbankMapping()
	blocks := SplitBlocks(rows, table.Triggers())
	if len(blocks) == 0 {
		log.Info().Str("source", source).Msg("no transaction blocks found")
		return nil
	}

	mapper := &Mapper{
		Table:  table,
		Opts:   e.opts,
		Source: source,
		Bank:   consorsbankBank,
		Year:   inferYearFromRows(rows),
	}
	tracker := &BalanceTracker{}

	txs := make([]domain.Transaction, 0, len(blocks))
	for i, block := range blocks {
		tx := mapper.MapBlock(block, tracker)
		if tx == nil {
			log.Debug().Str("source", source).Int("block", i).Msg("block produced no transaction")
			continue
		}
		txs = append(txs, *tx)
	}
	return txs
}

// inferYearFromRows derives the document-scoped year from the first full
// dated token in any row field, matching the text engine's policy.
func inferYearFromRows(rows []Row) string {
	var b strings.Builder
	for _, r := range rows {
		b.WriteString(r.Date)
		b.WriteByte(' ')
		b.WriteString(r.Valuta)
		b.WriteByte(' ')
		b.WriteString(r.Text)
		b.WriteByte('\n')
	}
	return InferYear(b.String())
}

// readConsorsbankRows decodes a semicolon CSV whose header names the
// Consorsbank row columns. Column order is taken from the header, so partial
// exports (missing Soll/Haben columns) still map.
func readConsorsbankRows(data []byte) ([]Row, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = ';'
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var cols map[string]int
	var rows []Row
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		if cols == nil {
			if idx := headerIndex(rec, "Text/Verwendungszweck"); idx >= 0 {
				cols = make(map[string]int, len(rec))
				for i, name := range rec {
					cols[strings.TrimSpace(name)] = i
				}
			}
			continue
		}

		rows = append(rows, Row{
			Text:   field(rec, cols, "Text/Verwendungszweck"),
			Date:   field(rec, cols, "Datum"),
			Valuta: field(rec, cols, "Wert"),
			RefNo:  field(rec, cols, "PNNr"),
			Soll:   field(rec, cols, "Soll"),
			Haben:  field(rec, cols, "Haben"),
		})
	}
	if cols == nil {
		return nil, fmt.Errorf("no Text/Verwendungszweck header found")
	}
	return rows, nil
}

func headerIndex(rec []string, name string) int {
	for i, f := range rec {
		if strings.TrimSpace(f) == name {
			return i
		}
	}
	return -1
}

func field(rec []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[idx])
}
