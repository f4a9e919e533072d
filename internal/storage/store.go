// Package storage defines the persistence port the ledgers write through:
// a named collection is loaded once at startup and saved as a whole after
// every mutation. Adapters live in the subpackages (memory, file, sqlite).
package storage

import "context"

// Collection keys. Each ledger owns exactly one.
const (
	KeyEntries    = "entries"
	KeyLoansGiven = "loans_given"
	KeyLoansToPay = "loans_to_pay"
)

// Store is the persistence port. Load returns an empty document (current
// version, no records) for a key that was never saved. Save replaces the
// whole collection; there is no partial update.
type Store interface {
	Load(ctx context.Context, key string) (Document, error)
	Save(ctx context.Context, key string, doc Document) error
}
