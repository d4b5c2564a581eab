package extract

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dvloznov/statement-extractor/internal/domain"
	"github.com/dvloznov/statement-extractor/internal/logger"
)

const consorsbankBank = "Consorsbank"

var (
	// cbAnchorRe anchors block starts: a transaction-type keyword alone at
	// the start of a line. The block's text runs until the next anchored
	// keyword or end of document.
	cbAnchorRe = regexp.MustCompile(`(?m)^(LASTSCHRIFT|EURO-UEBERW\.|GUTSCHRIFT)[ \t]*\r?\n`)

	// cbDetailRe locates the structured core within a block: booking date
	// plus reference number, valuta date on the following line, then the
	// signed amount. Everything before the match is free-text description.
	cbDetailRe = regexp.MustCompile(`(\d{2}\.\d{2}\.)\s+(\d{3,4})\s*\n\s*(\d{2}\.\d{2}\.)\s*\n\s*([\d.,]+[+-])`)

	// cbLineDateRe picks a leading date token off a line, full or
	// year-elided, for credit blocks that have no detail core.
	cbLineDateRe = regexp.MustCompile(`^(\d{2}\.\d{2}\.?\d{0,4})`)
)

// Consorsbank extracts transactions from the unsegmented text of a
// Consorsbank PDF statement ("KONTOAUSZUG"). Segmentation is regex-based: a
// block lexer emits type-tagged spans, a detail lexer recovers the
// structured tokens within each span.
type Consorsbank struct {
	opts Options
	text TextProvider
}

// NewConsorsbank builds the text-based Consorsbank engine. The text provider
// is the engine's only collaborator doing I/O.
func NewConsorsbank(opts Options, text TextProvider) *Consorsbank {
	return &Consorsbank{opts: opts, text: text}
}

func (e *Consorsbank) Bank() string { return consorsbankBank }

func (e *Consorsbank) Extract(ctx context.Context, doc Document) ([]domain.Transaction, error) {
	text, err := e.text(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("consorsbank: extract text from %s: %w", doc.Source, err)
	}
	return e.FromText(ctx, doc.Source, text), nil
}

// FromText runs the extraction over already-extracted statement text. The
// year is inferred once per document before any block is processed.
func (e *Consorsbank) FromText(ctx context.Context, source, text string) []domain.Transaction {
	log := logger.FromContext(ctx)
	year := InferYear(text)
	tracker := &BalanceTracker{}

	var txs []domain.Transaction
	seq := 0

	anchors := cbAnchorRe.FindAllStringSubmatchIndex(text, -1)
	for i, a := range anchors {
		typ := text[a[2]:a[3]]
		end := len(text)
		if i+1 < len(anchors) {
			end = anchors[i+1][0]
		}
		body := text[a[1]:end]

		// Checkpoints update the tracker no matter what kind of block
		// they are embedded in.
		if m := balanceRe.FindStringSubmatch(body); m != nil {
			if v, ok := ParseSigned(m[1]); ok {
				tracker.Observe(v)
			}
		}

		tx := e.spanToTransaction(typ, body, source, year, tracker, &seq)
		tracker.EndBlock()
		if tx == nil {
			log.Debug().Str("source", source).Str("type", typ).Msg("block produced no transaction")
			continue
		}
		txs = append(txs, *tx)
	}

	if len(anchors) == 0 {
		log.Info().Str("source", source).Msg("no transaction blocks found")
	}
	return txs
}

func (e *Consorsbank) spanToTransaction(typ, body, source, year string, tracker *BalanceTracker, seq *int) *domain.Transaction {
	var datumRaw, wertRaw, amountRaw, refNo, desc string

	switch typ {
	case "GUTSCHRIFT":
		// Credit blocks carry no structured amount core; the two dates
		// appear on adjacent lines and the amount is inferred from the
		// balance checkpoints.
		datumRaw, wertRaw = creditDates(body)
		desc = body
	default:
		m := cbDetailRe.FindStringSubmatchIndex(body)
		if m == nil {
			return nil
		}
		datumRaw = body[m[2]:m[3]]
		refNo = body[m[4]:m[5]]
		wertRaw = body[m[6]:m[7]]
		amountRaw = body[m[8]:m[9]]
		desc = body[:m[0]]
	}

	tx := &domain.Transaction{
		Currency:    e.opts.Currency,
		Type:        typ,
		Description: typ + ": " + collapseWhitespace(desc),
		Owner:       e.opts.Owner,
		Partner: domain.Party{
			Name:      e.opts.PartnerName,
			Institute: e.opts.PartnerInstitute,
		},
		Source: source,
		Bank:   consorsbankBank,
	}

	if refNo != "" {
		tx.ID = refNo
	} else {
		*seq++
		tx.ID = strconv.Itoa(*seq)
	}
	if datumRaw != "" {
		tx.TransactionDate = NormalizeDate(datumRaw, year)
	}
	if wertRaw != "" {
		tx.ValutaDate = NormalizeDate(wertRaw, year)
	}

	if v, ok := ParseSigned(amountRaw); ok {
		tx.Value = &v
	} else if typ == "GUTSCHRIFT" {
		if diff, ok := tracker.Inferred(); ok {
			tx.Value = &diff
		}
	}

	return tx
}

// creditDates scans the block lines for the first date-shaped token and
// takes the following line's token as the valuta date when present.
func creditDates(body string) (datum, wert string) {
	var lines []string
	for _, line := range strings.Split(body, "\n") {
		if s := strings.TrimSpace(line); s != "" {
			lines = append(lines, s)
		}
	}
	for i, line := range lines {
		m := cbLineDateRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		datum = m[1]
		if i+1 < len(lines) {
			if m2 := cbLineDateRe.FindStringSubmatch(lines[i+1]); m2 != nil {
				wert = m2[1]
			}
		}
		return datum, wert
	}
	return "", ""
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
