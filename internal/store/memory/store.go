package memory

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sync"

	"usemytime/internal/domain"
	"usemytime/internal/store"
)

var ErrClosed = errors.New("memory store closed")

// Store keeps every table in maps of values. Atomic works on a copy of the
// tables and swaps it in on success, so a failed transaction leaves no trace.
type Store struct {
	mu     sync.RWMutex
	tables *tables
}

var (
	_ store.Store      = (*Store)(nil)
	_ store.Repository = (*tables)(nil)
)

func New() *Store {
	return &Store{tables: newTables()}
}

func (st *Store) Atomic(ctx context.Context, fn func(store.Repository) error) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.tables == nil {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	work := st.tables.clone()
	if err := fn(work); err != nil {
		return err
	}
	st.tables = work
	return nil
}

func (st *Store) Ping(ctx context.Context) error {
	st.mu.RLock()
	defer st.mu.RUnlock()
	if st.tables == nil {
		return ErrClosed
	}
	return ctx.Err()
}

func (st *Store) Close() error {
	st.mu.Lock()
	st.tables = nil
	st.mu.Unlock()
	return nil
}

// read and write guard the non-transactional Repository methods below.
func (st *Store) read() (*tables, func()) {
	st.mu.RLock()
	if st.tables == nil {
		st.mu.RUnlock()
		return newTables(), func() {}
	}
	return st.tables, st.mu.RUnlock
}

func (st *Store) write() (*tables, func()) {
	st.mu.Lock()
	if st.tables == nil {
		st.mu.Unlock()
		return newTables(), func() {}
	}
	return st.tables, st.mu.Unlock
}

type tables struct {
	lastID map[string]int64

	departments map[int64]domain.Department
	users       map[int64]domain.User
	projects    map[int64]domain.Project
	tasks       map[int64]domain.Task
	timers      map[int64]domain.ProjectTimer
	entries     map[int64]domain.TimeEntry
	attachments map[int64]domain.Attachment
	questions   map[int64]domain.Question
}

func newTables() *tables {
	return &tables{
		lastID:      make(map[string]int64),
		departments: make(map[int64]domain.Department),
		users:       make(map[int64]domain.User),
		projects:    make(map[int64]domain.Project),
		tasks:       make(map[int64]domain.Task),
		timers:      make(map[int64]domain.ProjectTimer),
		entries:     make(map[int64]domain.TimeEntry),
		attachments: make(map[int64]domain.Attachment),
		questions:   make(map[int64]domain.Question),
	}
}

// clone copies the maps; rows are values so the copy is independent.
func (t *tables) clone() *tables {
	return &tables{
		lastID:      maps.Clone(t.lastID),
		departments: maps.Clone(t.departments),
		users:       maps.Clone(t.users),
		projects:    maps.Clone(t.projects),
		tasks:       maps.Clone(t.tasks),
		timers:      maps.Clone(t.timers),
		entries:     maps.Clone(t.entries),
		attachments: maps.Clone(t.attachments),
		questions:   maps.Clone(t.questions),
	}
}

func (t *tables) nextID(table string) int64 {
	t.lastID[table]++
	return t.lastID[table]
}

func sortedValues[T any](m map[int64]T, keep func(T) bool) []T {
	out := make([]T, 0, len(m))
	for _, id := range slices.Sorted(maps.Keys(m)) {
		v := m[id]
		if keep == nil || keep(v) {
			out = append(out, v)
		}
	}
	return out
}

// matchID applies the filter convention: nil matches all, empty matches none.
func matchID(ids []int64, id int64) bool {
	if ids == nil {
		return true
	}
	return slices.Contains(ids, id)
}
