package export

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/dvloznov/statement-extractor/internal/domain"
)

func sampleTransactions() []domain.Transaction {
	debit := -50.0
	credit := 2500.0
	return []domain.Transaction{
		{
			ID:              "1234",
			TransactionDate: "2022-03-15",
			ValutaDate:      "2022-03-16",
			Currency:        "EUR",
			Value:           &debit,
			Type:            "LASTSCHRIFT",
			Description:     "REWE MARKT GMBH",
			Owner:           domain.Party{Name: "Max Mustermann"},
			Partner:         domain.Party{Name: "REWE", Institute: "GENODEF1XXX"},
			Source:          "statement.pdf",
			Bank:            "Consorsbank",
		},
		{
			ID:              "2",
			TransactionDate: "2022-03-17",
			Currency:        "EUR",
			Value:           &credit,
			Type:            "GUTSCHRIFT",
			Description:     "Gehalt",
			Partner:         domain.Party{Name: "UNKNOWN", Institute: "UNKNOWN"},
			Source:          "statement.pdf",
			Bank:            "Consorsbank",
		},
	}
}

func TestCSVExporter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	e := &CSVExporter{Path: path}
	if err := e.Export(context.Background(), sampleTransactions()); err != nil {
		t.Fatalf("Export: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header plus 2 rows", len(lines))
	}
	if !strings.HasPrefix(lines[0], "ID;Datum") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], "50,00") || !strings.Contains(lines[1], "LASTSCHRIFT") {
		t.Errorf("debit row = %q", lines[1])
	}
	if !strings.Contains(lines[2], "2500,00") {
		t.Errorf("credit row = %q", lines[2])
	}
}

func TestJSONExporter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	e := &JSONExporter{Path: path}
	if err := e.Export(context.Background(), sampleTransactions()); err != nil {
		t.Fatalf("Export: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	var decoded []domain.Transaction
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal output: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("got %d transactions, want 2", len(decoded))
	}
	if decoded[0].ID != "1234" || decoded[0].ValueOrZero() != -50 {
		t.Errorf("decoded[0] = %+v", decoded[0])
	}
}

func TestJSONExporterEmptyBatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	e := &JSONExporter{Path: path}
	if err := e.Export(context.Background(), nil); err != nil {
		t.Fatalf("Export: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if strings.TrimSpace(string(data)) != "[]" {
		t.Errorf("empty batch = %q, want []", data)
	}
}

func TestYAMLExporter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	e := &YAMLExporter{Path: path}
	if err := e.Export(context.Background(), sampleTransactions()); err != nil {
		t.Fatalf("Export: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	var decoded []domain.Transaction
	if err := yaml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal output: %v", err)
	}
	if len(decoded) != 2 || decoded[1].Type != "GUTSCHRIFT" {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestHTMLExporter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.html")
	e := &HTMLExporter{Path: path}
	if err := e.Export(context.Background(), sampleTransactions()); err != nil {
		t.Fatalf("Export: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	html := string(data)
	if !strings.Contains(html, "Transactions 2022-03-15 to 2022-03-17") {
		t.Errorf("heading missing from %q", html[:200])
	}
	if !strings.Contains(html, "REWE MARKT GMBH") || !strings.Contains(html, "-50.00") {
		t.Error("debit row missing")
	}
	if !strings.Contains(html, `class="credit"`) || !strings.Contains(html, `class="debit"`) {
		t.Error("sign classes missing")
	}
}
