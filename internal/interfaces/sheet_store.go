package interfaces

import "context"

// SheetStore is the seam to the external spreadsheet holding the leave
// ledger. Every exchange is a full-range snapshot: FetchAll reads the whole
// tracked range and PersistAll overwrites it unconditionally. The store has
// no transaction primitive, so concurrent read-modify-write cycles race and
// the last snapshot written wins.
type SheetStore interface {
	FetchAll(ctx context.Context) ([][]string, error)
	PersistAll(ctx context.Context, rows [][]string) error
}
