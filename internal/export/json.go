package export

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dvloznov/statement-extractor/internal/domain"
)

// JSONExporter writes transactions as an indented JSON array.
type JSONExporter struct {
	Path string
}

func (e *JSONExporter) Name() string { return "json" }

func (e *JSONExporter) Export(ctx context.Context, txs []domain.Transaction) error {
	if txs == nil {
		txs = []domain.Transaction{}
	}
	data, err := json.MarshalIndent(txs, "", "  ")
	if err != nil {
		return fmt.Errorf("json export: marshal: %w", err)
	}
	if err := writeFile(e.Path, append(data, '\n')); err != nil {
		return fmt.Errorf("json export: write %s: %w", e.Path, err)
	}
	return nil
}
