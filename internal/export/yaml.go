package export

import (
	"context"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/dvloznov/statement-extractor/internal/domain"
)

// YAMLExporter writes transactions as a YAML sequence.
type YAMLExporter struct {
	Path string
}

func (e *YAMLExporter) Name() string { return "yaml" }

func (e *YAMLExporter) Export(ctx context.Context, txs []domain.Transaction) error {
	data, err := yaml.Marshal(txs)
	if err != nil {
		return fmt.Errorf("yaml export: marshal: %w", err)
	}
	if err := writeFile(e.Path, data); err != nil {
		return fmt.Errorf("yaml export: write %s: %w", e.Path, err)
	}
	return nil
}
