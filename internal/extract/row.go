package extract

import "strings"

// Row is one record of a row-based statement document. Text is the
// designated purpose/description field the trigger lexicon is matched
// against; the auxiliary fields are populated as far as the source format
// carries them.
type Row struct {
	Text   string // Text/Verwendungszweck
	Date   string // Datum, raw document form
	Valuta string // Wert
	RefNo  string // PNNr
	Soll   string // debit column
	Haben  string // credit column
}

// Block is a contiguous run of rows between one trigger occurrence and the
// next, representing one logical transaction or balance checkpoint.
type Block []Row

// SplitBlocks splits an ordered row sequence into blocks. A new block starts
// whenever a row's text field contains any trigger as a substring; the
// triggering row becomes the block's first row. Rows preceding the first
// trigger belong to no block and are discarded. Boundaries are determined by
// triggers only, never by blank lines or row counts; a document with zero
// triggers yields zero blocks.
func SplitBlocks(rows []Row, triggers []string) []Block {
	var blocks []Block
	var current Block

	for _, row := range rows {
		if containsAny(row.Text, triggers) {
			if len(current) > 0 {
				blocks = append(blocks, current)
			}
			current = Block{row}
			continue
		}
		if current != nil {
			current = append(current, row)
		}
	}

	if len(current) > 0 {
		blocks = append(blocks, current)
	}
	return blocks
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
