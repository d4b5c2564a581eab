package export

import (
	"testing"

	"github.com/dvloznov/statement-extractor/internal/domain"
)

func TestRowFromTransaction(t *testing.T) {
	txs := sampleTransactions()
	row := rowFromTransaction(txs[0])

	if row.TransactionID != "1234" {
		t.Errorf("id = %q", row.TransactionID)
	}
	if !row.TransactionDate.Valid || row.TransactionDate.Date.String() != "2022-03-15" {
		t.Errorf("transaction_date = %+v", row.TransactionDate)
	}
	if !row.ValutaDate.Valid || row.ValutaDate.Date.String() != "2022-03-16" {
		t.Errorf("valuta_date = %+v", row.ValutaDate)
	}
	if row.RawDate.Valid {
		t.Error("raw_date set despite a parsed date")
	}
	if !row.Amount.Valid || row.Amount.Float64 != -50 {
		t.Errorf("amount = %+v", row.Amount)
	}
	if row.Bank != "Consorsbank" || row.TransactionType != "LASTSCHRIFT" {
		t.Errorf("row = %+v", row)
	}
}

func TestRowFromTransactionUnparsedDate(t *testing.T) {
	tx := domain.Transaction{ID: "1", TransactionDate: "12.03.", Currency: "EUR"}
	row := rowFromTransaction(tx)
	if row.TransactionDate.Valid {
		t.Error("transaction_date valid for an unnormalized date")
	}
	if !row.RawDate.Valid || row.RawDate.StringVal != "12.03." {
		t.Errorf("raw_date = %+v", row.RawDate)
	}
	if row.Amount.Valid {
		t.Error("amount valid without a value")
	}
}
