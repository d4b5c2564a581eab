package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dvloznov/statement-extractor/internal/domain"
)

// BalanceTrigger marks a balance-checkpoint line. Checkpoint blocks update
// the balance tracker but never become transactions themselves.
const BalanceTrigger = "*** Kontostand zum"

// ConsorsbankTypes is the transaction-type half of the Consorsbank trigger
// lexicon, one marker per transaction kind.
var ConsorsbankTypes = []string{
	"LASTSCHRIFT",
	"GEBUEHREN",
	"EURO-UEBERW.",
	"GUTSCHRIFT",
	"DAUERAUFTRAG",
}

// balanceRe locates the checkpoint amount following the balance marker,
// e.g. "*** Kontostand zum 15.03. *** 1.200,00+".
var balanceRe = regexp.MustCompile(`\*\*\*\s*Kontostand zum[^\d]*([\d.,]+[+-])`)

// FieldMapping describes how the rows of one block map onto transaction
// fields for a given transaction type. Row indexes are positions within the
// block; a block shorter than an index degrades to the fallback placeholder
// instead of failing. Adding a bank layout is a table addition, not a code
// change.
type FieldMapping struct {
	PartnerNameRow      int
	PartnerInstituteRow int
	DescriptionRow      int

	// InferFromBalance enables checkpoint differencing when the block
	// carries no directly extractable amount (credit entries).
	InferFromBalance bool
}

// MappingTable maps trigger keywords to their field mapping.
type MappingTable map[string]FieldMapping

// ConsorsbankMapping is the positional layout of Consorsbank statement
// blocks: row 0 carries type, reference number and the amount columns;
// rows 1-3 carry partner name, partner institute and description.
func ConsorsbankMapping() MappingTable {
	t := make(MappingTable, len(ConsorsbankTypes))
	for _, typ := range ConsorsbankTypes {
		t[typ] = FieldMapping{
			PartnerNameRow:      1,
			PartnerInstituteRow: 2,
			DescriptionRow:      3,
			InferFromBalance:    typ == "GUTSCHRIFT",
		}
	}
	return t
}

// Triggers returns the full trigger lexicon for a mapping table: the balance
// marker plus one marker per transaction type.
func (t MappingTable) Triggers() []string {
	triggers := make([]string, 0, len(t)+1)
	triggers = append(triggers, BalanceTrigger)
	for typ := range t {
		triggers = append(triggers, typ)
	}
	return triggers
}

// typeOf returns the transaction-type keyword contained in the given text,
// if any. Markers may be embedded in longer lines, so this is a substring
// test; iteration order does not matter because lexicon entries never
// overlap.
func (t MappingTable) typeOf(text string) (string, bool) {
	for typ := range t {
		if strings.Contains(text, typ) {
			return typ, true
		}
	}
	return "", false
}

// Mapper consumes blocks of one document and produces normalized
// transactions. One mapper is constructed per document; it owns the
// engine-assigned sequence counter and the per-document inferred year.
type Mapper struct {
	Table  MappingTable
	Opts   Options
	Source string
	Bank   string
	Year   string

	seq int
}

// MapBlock maps one block to a transaction, or to nothing when the block is
// a balance checkpoint. The tracker is updated with any checkpoint found in
// the block and advanced afterwards, whether or not a transaction was
// produced.
func (m *Mapper) MapBlock(b Block, tracker *BalanceTracker) *domain.Transaction {
	if len(b) == 0 {
		return nil
	}
	defer tracker.EndBlock()

	m.observeCheckpoints(b, tracker)

	first := b[0]
	if strings.Contains(first.Text, BalanceTrigger) {
		return nil
	}

	typ, ok := m.Table.typeOf(first.Text)
	if !ok {
		return nil
	}
	mapping := m.Table[typ]

	tx := &domain.Transaction{
		ID:              m.blockID(first.RefNo),
		TransactionDate: NormalizeDate(strings.TrimSpace(first.Date), m.Year),
		ValutaDate:      NormalizeDate(strings.TrimSpace(first.Valuta), m.Year),
		Currency:        m.Opts.Currency,
		Type:            typ,
		Owner:           m.Opts.Owner,
		Source:          m.Source,
		Bank:            m.Bank,
		Partner: domain.Party{
			Name:      m.rowText(b, mapping.PartnerNameRow, m.Opts.PartnerName),
			Institute: m.rowText(b, mapping.PartnerInstituteRow, m.Opts.PartnerInstitute),
		},
		Description: m.rowText(b, mapping.DescriptionRow, ""),
	}

	if v, ok := ParseColumns(first.Soll, first.Haben); ok {
		tx.Value = &v
	} else if mapping.InferFromBalance {
		if diff, ok := tracker.Inferred(); ok {
			tx.Value = &diff
		}
	}

	return tx
}

// observeCheckpoints scans every row of the block for an embedded balance
// checkpoint. This runs for transaction blocks too: statements print the
// checkpoint inside credit blocks, not only in dedicated checkpoint blocks.
func (m *Mapper) observeCheckpoints(b Block, tracker *BalanceTracker) {
	for _, row := range b {
		if !strings.Contains(row.Text, BalanceTrigger) {
			continue
		}
		if match := balanceRe.FindStringSubmatch(row.Text); match != nil {
			if v, ok := ParseSigned(match[1]); ok {
				tracker.Observe(v)
				continue
			}
		}
		// Checkpoint rows in column layouts carry the amount in the
		// credit column instead of inline.
		if v, ok := ParseColumns(row.Soll, row.Haben); ok {
			tracker.Observe(v)
		}
	}
}

func (m *Mapper) blockID(refNo string) string {
	if ref := strings.TrimSpace(refNo); ref != "" {
		return ref
	}
	m.seq++
	return strconv.Itoa(m.seq)
}

func (m *Mapper) rowText(b Block, idx int, fallback string) string {
	if idx > 0 && idx < len(b) {
		if s := strings.TrimSpace(b[idx].Text); s != "" {
			return s
		}
	}
	return fallback
}
