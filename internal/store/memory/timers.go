package memory

import (
	"context"
	"fmt"

	"usemytime/internal/domain"
	"usemytime/internal/store"
)

func (t *tables) GetTimer(_ context.Context, userID, projectID int64) (domain.ProjectTimer, error) {
	for _, timer := range t.timers {
		if timer.UserID == userID && timer.ProjectID == projectID {
			return timer, nil
		}
	}
	return domain.ProjectTimer{}, store.ErrNotFound
}

func (t *tables) SaveTimer(ctx context.Context, timer domain.ProjectTimer) (domain.ProjectTimer, error) {
	if timer.ID != 0 {
		if _, ok := t.timers[timer.ID]; !ok {
			return domain.ProjectTimer{}, store.ErrNotFound
		}
		t.timers[timer.ID] = timer
		return timer, nil
	}

	if _, ok := t.projects[timer.ProjectID]; !ok {
		return domain.ProjectTimer{}, store.ErrNotFound
	}
	if _, err := t.GetTimer(ctx, timer.UserID, timer.ProjectID); err == nil {
		return domain.ProjectTimer{}, fmt.Errorf("timer user=%d project=%d: %w", timer.UserID, timer.ProjectID, store.ErrConflict)
	}
	timer.ID = t.nextID("timers")
	t.timers[timer.ID] = timer
	return timer, nil
}

func (t *tables) ListTimers(_ context.Context, f store.TimerFilter) ([]domain.ProjectTimer, error) {
	return sortedValues(t.timers, func(timer domain.ProjectTimer) bool {
		if f.UserID != 0 && timer.UserID != f.UserID {
			return false
		}
		if f.ProjectID != 0 && timer.ProjectID != f.ProjectID {
			return false
		}
		if f.Running != nil && timer.Running != *f.Running {
			return false
		}
		return true
	}), nil
}

func (t *tables) CreateTimeEntry(_ context.Context, e domain.TimeEntry) (domain.TimeEntry, error) {
	if _, ok := t.projects[e.ProjectID]; !ok {
		return domain.TimeEntry{}, store.ErrNotFound
	}
	e.ID = t.nextID("time_entries")
	t.entries[e.ID] = e
	return e, nil
}

func (t *tables) ListTimeEntries(_ context.Context, f store.TimeEntryFilter) ([]domain.TimeEntry, error) {
	return sortedValues(t.entries, func(e domain.TimeEntry) bool {
		if f.UserID != 0 && e.UserID != f.UserID {
			return false
		}
		if f.ProjectID != 0 && e.ProjectID != f.ProjectID {
			return false
		}
		return true
	}), nil
}
