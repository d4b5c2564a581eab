// Package export writes extracted transactions to the configured sinks:
// local files (CSV, JSON, YAML, HTML), BigQuery and Notion.
package export

import (
	"context"
	"os"
	"path/filepath"

	"github.com/dvloznov/statement-extractor/internal/domain"
)

// Exporter writes one batch of transactions to a sink. Implementations are
// safe to call once per run; they create or truncate their target.
type Exporter interface {
	// Name identifies the sink in logs.
	Name() string

	// Export writes the batch. The batch order is the extraction order and
	// must be preserved by file-based sinks.
	Export(ctx context.Context, txs []domain.Transaction) error
}

// createFile creates the output file, making parent directories as needed.
func createFile(path string) (*os.File, error) {
	if err := ensureDir(path); err != nil {
		return nil, err
	}
	return os.Create(path)
}

// writeFile writes the output file, making parent directories as needed.
func writeFile(path string, data []byte) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func ensureDir(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		return os.MkdirAll(dir, 0o755)
	}
	return nil
}
