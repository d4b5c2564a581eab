package export

import (
	"context"
	"fmt"
	"html/template"

	"github.com/dvloznov/statement-extractor/internal/domain"
)

// HTMLExporter renders transactions as a standalone HTML table, with the
// covered date range in the heading.
type HTMLExporter struct {
	Path string

	// From and To bound the heading; when empty they are derived from the
	// first and last transaction dates in the batch.
	From string
	To   string
}

var htmlTmpl = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Transactions {{.From}} to {{.To}}</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #ccc; padding: 4px 8px; text-align: left; }
td.amount { text-align: right; }
tr.debit td.amount { color: #a00; }
tr.credit td.amount { color: #080; }
</style>
</head>
<body>
<h1>Transactions {{.From}} to {{.To}}</h1>
<table>
<tr><th>ID</th><th>Date</th><th>Valuta</th><th>Type</th><th>Description</th><th>Partner</th><th>Amount</th><th>Currency</th><th>Bank</th></tr>
{{range .Rows}}<tr class="{{.Class}}"><td>{{.ID}}</td><td>{{.TransactionDate}}</td><td>{{.ValutaDate}}</td><td>{{.Type}}</td><td>{{.Description}}</td><td>{{.Partner.Name}}</td><td class="amount">{{.Amount}}</td><td>{{.Currency}}</td><td>{{.Bank}}</td></tr>
{{end}}</table>
</body>
</html>
`))

type htmlRow struct {
	domain.Transaction
	Amount string
	Class  string
}

func (e *HTMLExporter) Name() string { return "html" }

func (e *HTMLExporter) Export(ctx context.Context, txs []domain.Transaction) error {
	from, to := e.From, e.To
	if from == "" && len(txs) > 0 {
		from = txs[0].TransactionDate
	}
	if to == "" && len(txs) > 0 {
		to = txs[len(txs)-1].TransactionDate
	}

	rows := make([]htmlRow, 0, len(txs))
	for _, tx := range txs {
		r := htmlRow{Transaction: tx}
		if tx.HasValue() {
			r.Amount = fmt.Sprintf("%.2f", tx.ValueOrZero())
			if tx.ValueOrZero() < 0 {
				r.Class = "debit"
			} else {
				r.Class = "credit"
			}
		}
		rows = append(rows, r)
	}

	f, err := createFile(e.Path)
	if err != nil {
		return fmt.Errorf("html export: create %s: %w", e.Path, err)
	}
	defer f.Close()

	data := struct {
		From, To string
		Rows     []htmlRow
	}{From: from, To: to, Rows: rows}

	if err := htmlTmpl.Execute(f, data); err != nil {
		return fmt.Errorf("html export: render: %w", err)
	}
	return nil
}
