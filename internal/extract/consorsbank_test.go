package extract

import (
	"context"
	"strings"
	"testing"

	"github.com/dvloznov/statement-extractor/internal/domain"
)

const consorsbankStatement = `KONTOAUSZUG Nr. 3/2022
Consorsbank
erstellt am 31.03.2022
LASTSCHRIFT
REWE MARKT GMBH
15.03.  1234
16.03.
50,00-
*** Kontostand zum Monatsanfang *** 1.150,00+
GUTSCHRIFT
ARBEITGEBER GMBH Gehalt Maerz
17.03.
18.03.
*** Kontostand zum EOM *** 1.200,00+
`

func testOptions() Options {
	return Options{
		Currency:         "EUR",
		Owner:            domain.Party{Name: "Max Mustermann", Institute: "Consorsbank"},
		PartnerName:      "UNKNOWN",
		PartnerInstitute: "UNKNOWN",
	}
}

func TestConsorsbankFromText(t *testing.T) {
	e := NewConsorsbank(testOptions(), nil)
	txs := e.FromText(context.Background(), "statement.pdf", consorsbankStatement)
	if len(txs) != 2 {
		t.Fatalf("got %d transactions, want 2", len(txs))
	}

	debit := txs[0]
	if debit.Type != "LASTSCHRIFT" {
		t.Errorf("type = %q", debit.Type)
	}
	if debit.ID != "1234" {
		t.Errorf("ID = %q, want reference number", debit.ID)
	}
	if debit.TransactionDate != "2022-03-15" || debit.ValutaDate != "2022-03-16" {
		t.Errorf("dates = %q, %q", debit.TransactionDate, debit.ValutaDate)
	}
	if !debit.HasValue() || !almostEqual(debit.ValueOrZero(), -50) {
		t.Errorf("value = %v, want -50", debit.Value)
	}
	if debit.Description != "LASTSCHRIFT: REWE MARKT GMBH" {
		t.Errorf("description = %q", debit.Description)
	}
	if debit.Partner.Name != "UNKNOWN" {
		t.Errorf("partner = %+v", debit.Partner)
	}

	credit := txs[1]
	if credit.Type != "GUTSCHRIFT" {
		t.Errorf("type = %q", credit.Type)
	}
	if credit.ID != "1" {
		t.Errorf("ID = %q, want engine-assigned sequence", credit.ID)
	}
	if credit.TransactionDate != "2022-03-17" || credit.ValutaDate != "2022-03-18" {
		t.Errorf("dates = %q, %q", credit.TransactionDate, credit.ValutaDate)
	}
	if !credit.HasValue() || !almostEqual(credit.ValueOrZero(), 50) {
		t.Errorf("value = %v, want inferred 50", credit.Value)
	}
	if !strings.HasPrefix(credit.Description, "GUTSCHRIFT: ARBEITGEBER GMBH") {
		t.Errorf("description = %q", credit.Description)
	}
}

func TestConsorsbankFromTextNoBlocks(t *testing.T) {
	e := NewConsorsbank(testOptions(), nil)
	txs := e.FromText(context.Background(), "statement.pdf", "erstellt am 31.03.2022\nkeine Buchungen\n")
	if len(txs) != 0 {
		t.Fatalf("got %d transactions, want 0", len(txs))
	}
}

func TestConsorsbankFromTextMissingDetail(t *testing.T) {
	// A debit block whose structured core never parses is skipped, but its
	// checkpoint still advances the tracker for the following credit block.
	text := `erstellt am 31.03.2022
LASTSCHRIFT
unstructured remainder
*** Kontostand zum Anfang *** 1.000,00+
GUTSCHRIFT
17.03.
18.03.
*** Kontostand zum Ende *** 1.030,00+
`
	e := NewConsorsbank(testOptions(), nil)
	txs := e.FromText(context.Background(), "statement.pdf", text)
	if len(txs) != 1 {
		t.Fatalf("got %d transactions, want 1", len(txs))
	}
	if txs[0].Type != "GUTSCHRIFT" || !txs[0].HasValue() || !almostEqual(txs[0].ValueOrZero(), 30) {
		t.Errorf("tx = %+v", txs[0])
	}
}

func TestCreditDates(t *testing.T) {
	datum, wert := creditDates("ARBEITGEBER\n17.03.\n18.03.\nrest")
	if datum != "17.03." || wert != "18.03." {
		t.Errorf("got %q, %q", datum, wert)
	}

	datum, wert = creditDates("no dates anywhere")
	if datum != "" || wert != "" {
		t.Errorf("got %q, %q, want empty", datum, wert)
	}

	datum, wert = creditDates("19.03.\ntext after")
	if datum != "19.03." || wert != "" {
		t.Errorf("got %q, %q", datum, wert)
	}
}
