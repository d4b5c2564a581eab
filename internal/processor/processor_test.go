package processor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dvloznov/statement-extractor/internal/domain"
	"github.com/dvloznov/statement-extractor/internal/extract"
)

const consorsExport = `Datum;PNNr;Text/Verwendungszweck;Wert;Soll;Haben
15.03.2022;1234;LASTSCHRIFT;16.03.2022;50,00;
;;REWE MARKT GMBH;;;
;;GENODEF1XXX;;;
;;Kartenzahlung;;;
`

const dkbExport = `"Buchungsdatum";"Wertstellung";"Zahlungspflichtige*r";"Zahlungsempfänger*in";"Verwendungszweck";"Umsatztyp";"Kundenreferenz";"Betrag (€)"
"03.04.23";"03.04.23";"Max";"REWE";"Einkauf";"Lastschrift";"R-1";"-23,45"
"05.04.23";"05.04.23";"Firma";"Max";"Gehalt";"";"";"2.500,00"
`

type captureExporter struct {
	batches [][]domain.Transaction
}

func (c *captureExporter) Name() string { return "capture" }

func (c *captureExporter) Export(ctx context.Context, txs []domain.Transaction) error {
	c.batches = append(c.batches, txs)
	return nil
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func testProcessor(exp *captureExporter) *Processor {
	opts := extract.Options{
		Currency:         "EUR",
		Owner:            domain.Party{Name: "Max Mustermann"},
		PartnerName:      "UNKNOWN",
		PartnerInstitute: "UNKNOWN",
	}
	p := &Processor{
		Detector:  &extract.Detector{Opts: opts},
		Workers:   2,
		QueueSize: 8,
	}
	if exp != nil {
		p.Exporters = append(p.Exporters, exp)
	}
	return p
}

func TestRunMergesInSourceOrder(t *testing.T) {
	dir := t.TempDir()
	consors := writeFile(t, dir, "consors.csv", consorsExport)
	dkb := writeFile(t, dir, "dkb.csv", dkbExport)

	exp := &captureExporter{}
	p := testProcessor(exp)

	txs, err := p.Run(context.Background(), []string{consors, dkb})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(txs) != 3 {
		t.Fatalf("got %d transactions, want 3", len(txs))
	}

	// Explicit arguments keep their order: the Consorsbank document first,
	// then the DKB rows in document order.
	if txs[0].Bank != "Consorsbank" {
		t.Errorf("txs[0].Bank = %q", txs[0].Bank)
	}
	if txs[1].Bank != "DKB" || txs[1].ID != "R-1" {
		t.Errorf("txs[1] = %+v", txs[1])
	}
	if txs[2].TransactionDate != "2023-04-05" {
		t.Errorf("txs[2] = %+v", txs[2])
	}

	if len(exp.batches) != 1 || len(exp.batches[0]) != 3 {
		t.Errorf("exporter saw %+v", exp.batches)
	}
}

func TestRunWalksDirectories(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.csv", dkbExport)
	writeFile(t, dir, "a.csv", consorsExport)
	writeFile(t, dir, "notes.txt", "ignored")

	p := testProcessor(nil)
	txs, err := p.Run(context.Background(), []string{dir})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(txs) != 3 {
		t.Fatalf("got %d transactions, want 3", len(txs))
	}
	// Walked files are visited in sorted order: a.csv before b.csv.
	if txs[0].Bank != "Consorsbank" || txs[1].Bank != "DKB" {
		t.Errorf("order = %q, %q", txs[0].Bank, txs[1].Bank)
	}
}

func TestRunDateFilter(t *testing.T) {
	dir := t.TempDir()
	dkb := writeFile(t, dir, "dkb.csv", dkbExport)

	p := testProcessor(nil)
	p.From = "2023-04-04"
	p.To = "2023-04-30"

	txs, err := p.Run(context.Background(), []string{dkb})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("got %d transactions, want 1 after filtering", len(txs))
	}
	if txs[0].TransactionDate != "2023-04-05" {
		t.Errorf("kept %+v", txs[0])
	}
}

func TestRunSkipsUnsupportedDocuments(t *testing.T) {
	dir := t.TempDir()
	other := writeFile(t, dir, "other.csv", "a;b;c\n1;2;3\n")

	p := testProcessor(nil)
	txs, err := p.Run(context.Background(), []string{other})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(txs) != 0 {
		t.Errorf("got %d transactions from an unsupported document", len(txs))
	}
}

func TestFilterByDate(t *testing.T) {
	txs := []domain.Transaction{
		{ID: "1", TransactionDate: "2022-01-15"},
		{ID: "2", TransactionDate: "2022-02-15"},
		{ID: "3", TransactionDate: "12.03."},
		{ID: "4", TransactionDate: "2022-03-15"},
	}

	got := filterByDate(txs, "2022-02-01", "2022-02-28")
	if len(got) != 2 {
		t.Fatalf("got %d, want 2", len(got))
	}
	// The in-range transaction plus the unnormalized date, which always
	// passes.
	if got[0].ID != "2" || got[1].ID != "3" {
		t.Errorf("kept %+v", got)
	}

	if got := filterByDate(txs, "", ""); len(got) != 4 {
		t.Errorf("open bounds dropped rows: %d", len(got))
	}
	if got := filterByDate(txs, "2022-03-01", ""); len(got) != 2 {
		t.Errorf("open upper bound: got %d, want 2", len(got))
	}
}

func TestIsISODate(t *testing.T) {
	if !isISODate("2022-03-15") {
		t.Error("ISO date rejected")
	}
	for _, s := range []string{"12.03.", "2022-3-15", "", "2022-03-15T00"} {
		if isISODate(s) {
			t.Errorf("isISODate(%q) = true", s)
		}
	}
}
