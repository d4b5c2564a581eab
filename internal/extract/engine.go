package extract

import (
	"context"

	"github.com/dvloznov/statement-extractor/internal/domain"
)

// Document is one statement handed to an extraction engine. The processor
// owns all I/O: Data already holds the full document bytes whether the
// source was a local file or a GCS object.
type Document struct {
	Source string
	Data   []byte
}

// Engine extracts the ordered transaction sequence from one document.
// Implementations are stateless across calls; all per-document state (the
// balance tracker, the sequence counter) lives inside one Extract pass, so a
// single engine value is safe to use from concurrent workers.
type Engine interface {
	// Bank names the institution this engine handles.
	Bank() string

	// Extract returns the document's transactions in document order. Soft
	// failures (unparsed amounts or dates) are signalled via the returned
	// records' fields; an error means the document itself was unreadable.
	Extract(ctx context.Context, doc Document) ([]domain.Transaction, error)
}

// TextProvider supplies the full plain text of a document, for engines that
// operate on unsegmented text rather than pre-split rows.
type TextProvider func(ctx context.Context, doc Document) (string, error)

// Options carries the per-run constants every engine stamps onto the
// transactions it emits.
type Options struct {
	// Currency is used when the document does not state one.
	Currency string

	// Owner is the account holder, constant per run in current scope.
	Owner domain.Party

	// PartnerName and PartnerInstitute are the placeholder values used when
	// a block is too short to carry the counterparty rows.
	PartnerName      string
	PartnerInstitute string
}
