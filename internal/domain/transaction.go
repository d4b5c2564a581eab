package domain

// Party identifies one side of a transaction. For the account holder the
// ID carries the account identifier; counterparties usually only have a name
// and, when the statement prints one, an institute.
type Party struct {
	Name      string `json:"name" yaml:"name"`
	ID        string `json:"id,omitempty" yaml:"id,omitempty"`
	Institute string `json:"institute,omitempty" yaml:"institute,omitempty"`
}

// Transaction represents one normalized transaction extracted from a
// statement document. It is constructed exactly once by the block mapper and
// never mutated afterwards; downstream filters and exporters only read it.
//
// Dates are ISO yyyy-mm-dd strings. When normalization fails the original
// string is carried through unchanged so the failure stays visible in the
// output instead of aborting the document.
type Transaction struct {
	// ID is the document-local reference number (PNNr) when the statement
	// prints one, otherwise an engine-assigned sequence number. Unique
	// within one extraction run.
	ID string `json:"id" yaml:"id"`

	TransactionDate string `json:"transaction_date" yaml:"transaction_date"`
	ValutaDate      string `json:"valuta_date" yaml:"valuta_date"`

	Currency string `json:"currency" yaml:"currency"`

	// Value is the signed amount: negative = debit, positive = credit.
	// nil means the amount could not be parsed or inferred; callers that
	// want zero-defaulting apply it on top via ValueOrZero.
	Value *float64 `json:"value" yaml:"value"`

	// Type is the trigger keyword that opened the block, e.g. "LASTSCHRIFT".
	Type string `json:"type" yaml:"type"`

	Description string `json:"description" yaml:"description"`

	Owner   Party `json:"owner" yaml:"owner"`
	Partner Party `json:"partner" yaml:"partner"`

	// Source references the originating document (path or URI).
	Source string `json:"source" yaml:"source"`

	// Bank is the institution name supplied by the format detector.
	Bank string `json:"bank" yaml:"bank"`
}

// ValueOrZero returns the signed amount, treating an unparsed amount as zero.
func (t *Transaction) ValueOrZero() float64 {
	if t.Value == nil {
		return 0
	}
	return *t.Value
}

// HasValue reports whether an amount was parsed or inferred for this
// transaction.
func (t *Transaction) HasValue() bool {
	return t.Value != nil
}

// IsValid reports whether the record carries the minimum set of fields an
// exporter needs. Soft parse failures (nil value, unnormalized dates) do not
// make a transaction invalid.
func (t *Transaction) IsValid() bool {
	return t.ID != "" && t.Type != "" && t.Source != ""
}
