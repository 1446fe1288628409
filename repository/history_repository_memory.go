package repository

import (
	"context"
	"sync"

	"fipe-web/domain"
)

// HistoryRepositoryMemory is a bounded in-memory HistoryRepository.
// Once full, each Append evicts the oldest entry.
type HistoryRepositoryMemory struct {
	mu       sync.Mutex
	entries  []domain.HistoryEntry
	start    int
	size     int
	capacity int
}

// NewHistoryRepositoryMemory creates a ring buffer holding at most capacity entries.
func NewHistoryRepositoryMemory(capacity int) *HistoryRepositoryMemory {
	if capacity <= 0 {
		capacity = 1
	}
	return &HistoryRepositoryMemory{
		entries:  make([]domain.HistoryEntry, capacity),
		capacity: capacity,
	}
}

func (r *HistoryRepositoryMemory) Append(
	_ context.Context,
	entry domain.HistoryEntry,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.size < r.capacity {
		r.entries[(r.start+r.size)%r.capacity] = entry
		r.size++
		return nil
	}

	r.entries[r.start] = entry
	r.start = (r.start + 1) % r.capacity
	return nil
}

func (r *HistoryRepositoryMemory) List(_ context.Context) ([]domain.HistoryEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.HistoryEntry, 0, r.size)
	for i := 0; i < r.size; i++ {
		out = append(out, r.entries[(r.start+i)%r.capacity])
	}
	return out, nil
}

// Len returns the number of retained entries.
func (r *HistoryRepositoryMemory) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.size
}
