package labels

import "context"

// Repository persists the whole ordered record list.
// Implementations live in infrastructure/storage.
type Repository interface {
	// LoadAll returns the stored records in order. Nothing stored, or a
	// payload that cannot be parsed, yields an empty slice.
	LoadAll(ctx context.Context) ([]Record, error)

	// SaveAll replaces the stored list. It must not return before the
	// write is durable.
	SaveAll(ctx context.Context, records []Record) error
}
