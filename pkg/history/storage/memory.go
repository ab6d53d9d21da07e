package storage

import (
	"context"
	"slices"
	"sync"
	"time"

	"palette-hq/scout/pkg/history"
)

// MemoryStorage keeps records in memory. Intended for tests and short-lived
// processes.
type MemoryStorage struct {
	mu      sync.RWMutex
	records map[string]*history.Record
	closed  bool
}

// NewMemoryStorage creates an empty in-memory store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{records: make(map[string]*history.Record)}
}

// Store saves a copy of the record.
func (m *MemoryStorage) Store(ctx context.Context, r *history.Record) error {
	if err := ctx.Err(); err != nil {
		return history.NewStorageError("memory", "store", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return history.NewStorageError("memory", "store", errClosed)
	}
	cp := *r
	m.records[r.ID] = &cp
	return nil
}

// Get returns a copy of one record.
func (m *MemoryStorage) Get(ctx context.Context, id string) (*history.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.records[id]
	if !ok {
		return nil, history.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

// Query returns matching records, newest first unless q.Ascending.
func (m *MemoryStorage) Query(ctx context.Context, q *history.Query) ([]*history.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, history.NewStorageError("memory", "query", err)
	}

	records := m.sorted(q, q != nil && q.Ascending)

	if q != nil && q.Offset > 0 {
		if q.Offset >= len(records) {
			return []*history.Record{}, nil
		}
		records = records[q.Offset:]
	}
	if q != nil && q.Limit > 0 && len(records) > q.Limit {
		records = records[:q.Limit]
	}
	return records, nil
}

// Count returns the number of matching records.
func (m *MemoryStorage) Count(ctx context.Context, q *history.Query) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var n int64
	for _, r := range m.records {
		if q.Matches(r) {
			n++
		}
	}
	return n, nil
}

// Delete removes records created before olderThan.
func (m *MemoryStorage) Delete(ctx context.Context, olderThan time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, r := range m.records {
		if r.CreatedAt.Before(olderThan) {
			delete(m.records, id)
			n++
		}
	}
	return n, nil
}

// DeleteOldest keeps the newest keep records.
func (m *MemoryStorage) DeleteOldest(ctx context.Context, keep int64) (int64, error) {
	newest := m.sorted(nil, false)

	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for i := keep; i < int64(len(newest)); i++ {
		if _, ok := m.records[newest[i].ID]; ok {
			delete(m.records, newest[i].ID)
			n++
		}
	}
	return n, nil
}

// Close marks the store closed. Later writes fail.
func (m *MemoryStorage) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// sorted returns copies of the matching records ordered by creation time,
// ties broken by ID.
func (m *MemoryStorage) sorted(q *history.Query, ascending bool) []*history.Record {
	m.mu.RLock()
	out := make([]*history.Record, 0, len(m.records))
	for _, r := range m.records {
		if q.Matches(r) {
			cp := *r
			out = append(out, &cp)
		}
	}
	m.mu.RUnlock()

	slices.SortFunc(out, func(a, b *history.Record) int {
		c := a.CreatedAt.Compare(b.CreatedAt)
		if c == 0 {
			c = compareStrings(a.ID, b.ID)
		}
		if !ascending {
			c = -c
		}
		return c
	})
	return out
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
