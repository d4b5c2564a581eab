package export

import (
	"context"
	"encoding/csv"
	"fmt"

	"github.com/dvloznov/statement-extractor/internal/domain"
	"github.com/dvloznov/statement-extractor/internal/extract"
)

// csvHeader is the column layout of the CSV sink. Amounts use the German
// Soll/Haben column encoding so the files round-trip through the row engine.
var csvHeader = []string{
	"ID", "Datum", "Wert", "Typ", "Text/Verwendungszweck",
	"Partner", "Institut", "Soll", "Haben", "Währung", "Bank", "Quelle",
}

// CSVExporter writes transactions to a semicolon-separated file.
type CSVExporter struct {
	Path string
}

func (e *CSVExporter) Name() string { return "csv" }

func (e *CSVExporter) Export(ctx context.Context, txs []domain.Transaction) error {
	f, err := createFile(e.Path)
	if err != nil {
		return fmt.Errorf("csv export: create %s: %w", e.Path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = ';'

	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("csv export: write header: %w", err)
	}
	for _, tx := range txs {
		var soll, haben string
		if tx.HasValue() {
			soll, haben = extract.FormatColumns(tx.ValueOrZero())
		}
		rec := []string{
			tx.ID, tx.TransactionDate, tx.ValutaDate, tx.Type, tx.Description,
			tx.Partner.Name, tx.Partner.Institute, soll, haben,
			tx.Currency, tx.Bank, tx.Source,
		}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("csv export: write row %s: %w", tx.ID, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("csv export: flush: %w", err)
	}
	return nil
}
