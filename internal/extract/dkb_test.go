package extract

import (
	"context"
	"testing"
)

const dkbExport = `"Girokonto";"DE02120300000000202051"
"Kontostand vom 30.04.2023:";"1.234,56 EUR"

"Buchungsdatum";"Wertstellung";"Status";"Zahlungspflichtige*r";"Zahlungsempfänger*in";"Verwendungszweck";"Umsatztyp";"Kundenreferenz";"Betrag (€)"
"03.04.23";"03.04.23";"Gebucht";"Max Mustermann";"REWE MARKT GMBH";"Kartenzahlung; danke";"Lastschrift";"REF-1";"-23,45"
"05.04.23";"05.04.23";"Gebucht";"ARBEITGEBER GMBH";"Max Mustermann";"Gehalt April";"";"";"2.500,00"
"";"";"";"";"";"";"";"";""
`

func TestDKBExtract(t *testing.T) {
	e := NewDKB(testOptions())
	txs, err := e.Extract(context.Background(), Document{
		Source: "dkb.csv",
		Data:   []byte(dkbExport),
	})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("got %d transactions, want 2", len(txs))
	}

	debit := txs[0]
	if debit.ID != "REF-1" {
		t.Errorf("ID = %q, want customer reference", debit.ID)
	}
	if debit.TransactionDate != "2023-04-03" || debit.ValutaDate != "2023-04-03" {
		t.Errorf("dates = %q, %q", debit.TransactionDate, debit.ValutaDate)
	}
	if !debit.HasValue() || !almostEqual(debit.ValueOrZero(), -23.45) {
		t.Errorf("value = %v, want -23.45", debit.Value)
	}
	if debit.Type != "Lastschrift" {
		t.Errorf("type = %q", debit.Type)
	}
	if debit.Partner.Name != "REWE MARKT GMBH" {
		t.Errorf("debit partner = %+v, want the payee", debit.Partner)
	}
	if debit.Description != "Kartenzahlung; danke" {
		t.Errorf("description = %q", debit.Description)
	}

	credit := txs[1]
	if credit.ID != "2" {
		t.Errorf("ID = %q, want row sequence", credit.ID)
	}
	if !credit.HasValue() || !almostEqual(credit.ValueOrZero(), 2500) {
		t.Errorf("value = %v, want 2500", credit.Value)
	}
	if credit.Partner.Name != "ARBEITGEBER GMBH" {
		t.Errorf("credit partner = %+v, want the payer", credit.Partner)
	}
	if credit.Type != "EINGANG" {
		t.Errorf("type = %q, want sign-derived fallback", credit.Type)
	}
	if credit.Bank != "DKB" {
		t.Errorf("bank = %q", credit.Bank)
	}
}

func TestDKBExtractNoHeader(t *testing.T) {
	e := NewDKB(testOptions())
	_, err := e.Extract(context.Background(), Document{
		Source: "other.csv",
		Data:   []byte("a;b;c\n1;2;3\n"),
	})
	if err == nil {
		t.Fatal("expected an error for a CSV without the DKB header")
	}
}
