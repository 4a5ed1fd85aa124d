package cvs

import "context"

// Repo persists extracted records. Records are append-only.
type Repo interface {
	Store(ctx context.Context, rec ExtractedRecord) (PersistedRecord, error)
	// ListAll returns every record in insertion order.
	ListAll(ctx context.Context) ([]PersistedRecord, error)
}
