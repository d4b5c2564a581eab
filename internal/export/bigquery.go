package export

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"google.golang.org/api/iterator"

	"github.com/dvloznov/statement-extractor/internal/domain"
)

// TransactionRow is the BigQuery schema of one extracted transaction.
// Dates are NULLABLE because unparseable statement dates pass through as
// raw strings and cannot be stored as DATE values.
type TransactionRow struct {
	TransactionID string `bigquery:"transaction_id"` // REQUIRED

	TransactionDate bigquery.NullDate   `bigquery:"transaction_date"` // NULLABLE
	ValutaDate      bigquery.NullDate   `bigquery:"valuta_date"`      // NULLABLE
	RawDate         bigquery.NullString `bigquery:"raw_date"`         // NULLABLE, set when parsing failed

	Amount   bigquery.NullFloat64 `bigquery:"amount"`   // NULLABLE
	Currency string               `bigquery:"currency"` // REQUIRED

	TransactionType string `bigquery:"transaction_type"` // REQUIRED
	Description     string `bigquery:"description"`      // NULLABLE in schema

	OwnerName        string `bigquery:"owner_name"`        // NULLABLE
	PartnerName      string `bigquery:"partner_name"`      // NULLABLE
	PartnerInstitute string `bigquery:"partner_institute"` // NULLABLE

	Bank   string `bigquery:"bank"`   // REQUIRED
	Source string `bigquery:"source"` // REQUIRED
}

// BigQueryExporter streams transactions into a BigQuery table.
type BigQueryExporter struct {
	Project string
	Dataset string
	Table   string
}

func (e *BigQueryExporter) Name() string { return "bigquery" }

func (e *BigQueryExporter) Export(ctx context.Context, txs []domain.Transaction) error {
	if len(txs) == 0 {
		return nil
	}

	client, err := bigquery.NewClient(ctx, e.Project)
	if err != nil {
		return fmt.Errorf("bigquery export: client: %w", err)
	}
	defer client.Close()

	rows := make([]*TransactionRow, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, rowFromTransaction(tx))
	}

	inserter := client.DatasetInProject(e.Project, e.Dataset).Table(e.Table).Inserter()
	if err := inserter.Put(ctx, rows); err != nil {
		return fmt.Errorf("bigquery export: inserting rows: %w", err)
	}
	return nil
}

// CountBySource returns the number of stored rows for one statement source,
// for verifying a completed run.
func (e *BigQueryExporter) CountBySource(ctx context.Context, source string) (int64, error) {
	client, err := bigquery.NewClient(ctx, e.Project)
	if err != nil {
		return 0, fmt.Errorf("bigquery export: client: %w", err)
	}
	defer client.Close()

	q := client.Query(fmt.Sprintf(
		"SELECT COUNT(*) AS n FROM `%s.%s.%s` WHERE source = @source",
		e.Project, e.Dataset, e.Table,
	))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "source", Value: source},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return 0, fmt.Errorf("bigquery export: count query: %w", err)
	}

	var row struct {
		N int64 `bigquery:"n"`
	}
	err = it.Next(&row)
	if err == iterator.Done {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("bigquery export: count read: %w", err)
	}
	return row.N, nil
}

// rowFromTransaction maps a transaction onto the table schema. Dates that
// did not normalize to ISO are preserved in raw_date.
func rowFromTransaction(tx domain.Transaction) *TransactionRow {
	row := &TransactionRow{
		TransactionID:    tx.ID,
		Currency:         tx.Currency,
		TransactionType:  tx.Type,
		Description:      tx.Description,
		OwnerName:        tx.Owner.Name,
		PartnerName:      tx.Partner.Name,
		PartnerInstitute: tx.Partner.Institute,
		Bank:             tx.Bank,
		Source:           tx.Source,
	}

	if tx.HasValue() {
		row.Amount = bigquery.NullFloat64{Float64: tx.ValueOrZero(), Valid: true}
	}

	if d, err := civil.ParseDate(tx.TransactionDate); err == nil {
		row.TransactionDate = bigquery.NullDate{Date: d, Valid: true}
	} else if tx.TransactionDate != "" {
		row.RawDate = bigquery.NullString{StringVal: tx.TransactionDate, Valid: true}
	}
	if d, err := civil.ParseDate(tx.ValutaDate); err == nil {
		row.ValutaDate = bigquery.NullDate{Date: d, Valid: true}
	}

	return row
}
