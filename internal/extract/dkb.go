package extract

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dvloznov/statement-extractor/internal/domain"
	"github.com/dvloznov/statement-extractor/internal/logger"
)

const dkbBank = "DKB"

// DKB extracts transactions from a DKB CSV export ("Buchungsdatum"-headed,
// semicolon-separated). Unlike the Consorsbank layouts the rows are already
// one-per-transaction, so no trigger segmentation or balance differencing is
// needed: the amount column carries a leading sign.
type DKB struct {
	opts Options
}

// NewDKB builds the DKB CSV engine.
func NewDKB(opts Options) *DKB {
	return &DKB{opts: opts}
}

func (e *DKB) Bank() string { return dkbBank }

func (e *DKB) Extract(ctx context.Context, doc Document) ([]domain.Transaction, error) {
	log := logger.FromContext(ctx)

	r := csv.NewReader(bytes.NewReader(doc.Data))
	r.Comma = ';'
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var cols map[string]int
	var txs []domain.Transaction
	seq := 0
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("dkb: read %s: %w", doc.Source, err)
		}

		// The export carries account metadata lines before the actual
		// column header.
		if cols == nil {
			if headerIndex(rec, "Buchungsdatum") >= 0 {
				cols = make(map[string]int, len(rec))
				for i, name := range rec {
					cols[strings.TrimSpace(name)] = i
				}
			}
			continue
		}

		if len(rec) == 0 || strings.TrimSpace(strings.Join(rec, "")) == "" {
			continue
		}

		seq++
		tx := e.rowToTransaction(rec, cols, doc.Source, seq)
		if tx.TransactionDate == "" {
			log.Debug().Str("source", doc.Source).Int("row", seq).Msg("skipping row without booking date")
			seq--
			continue
		}
		txs = append(txs, tx)
	}
	if cols == nil {
		return nil, fmt.Errorf("dkb: no Buchungsdatum header in %s", doc.Source)
	}
	return txs, nil
}

func (e *DKB) rowToTransaction(rec []string, cols map[string]int, source string, seq int) domain.Transaction {
	tx := domain.Transaction{
		ID:              strconv.Itoa(seq),
		TransactionDate: NormalizeDate(field(rec, cols, "Buchungsdatum"), ""),
		ValutaDate:      NormalizeDate(field(rec, cols, "Wertstellung"), ""),
		Currency:        e.opts.Currency,
		Type:            field(rec, cols, "Umsatztyp"),
		Description:     field(rec, cols, "Verwendungszweck"),
		Owner:           e.opts.Owner,
		Source:          source,
		Bank:            dkbBank,
	}
	if ref := field(rec, cols, "Kundenreferenz"); ref != "" {
		tx.ID = ref
	}

	if v, ok := parseDecimal(field(rec, cols, "Betrag (€)")); ok {
		tx.Value = &v
	}

	// Debits name the payee as counterparty, credits the payer.
	payee := field(rec, cols, "Zahlungsempfänger*in")
	payer := field(rec, cols, "Zahlungspflichtige*r")
	partner := payee
	if tx.ValueOrZero() > 0 {
		partner = payer
	}
	if partner == "" {
		partner = e.opts.PartnerName
	}
	tx.Partner = domain.Party{Name: partner, Institute: e.opts.PartnerInstitute}

	if tx.Type == "" {
		if tx.ValueOrZero() < 0 {
			tx.Type = "AUSGANG"
		} else {
			tx.Type = "EINGANG"
		}
	}
	return tx
}
