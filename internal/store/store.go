package store

import "context"

// Document keys. The tracker persists exactly three JSON documents, each
// read and written whole.
const (
	KeySubjects   = "subjects"
	KeySchedule   = "schedule"
	KeyAttendance = "attendance"
)

// ErrNotFound signals an absent document. Callers treat missing
// documents as empty collections.
var ErrNotFound = notFoundError{}

type notFoundError struct{}

func (notFoundError) Error() string { return "document not found" }

// Store is a key-value document store with whole-document read/write
// semantics.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}
