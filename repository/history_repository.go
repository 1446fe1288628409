package repository

import (
	"context"

	"fipe-web/domain"
)

// HistoryRepository stores successful price lookups in insertion order.
type HistoryRepository interface {
	Append(ctx context.Context, entry domain.HistoryEntry) error
	// List returns the retained entries, oldest first.
	List(ctx context.Context) ([]domain.HistoryEntry, error)
}
