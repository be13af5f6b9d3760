package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"usemytime/internal/domain"
	"usemytime/internal/store"
)

const timerColumns = `id, user_id, project_id, current_task_id, running, last_started_at`

func scanTimer(row interface{ Scan(...any) error }) (domain.ProjectTimer, error) {
	var (
		t         domain.ProjectTimer
		taskID    sql.NullInt64
		startedAt sql.NullInt64
	)
	if err := row.Scan(&t.ID, &t.UserID, &t.ProjectID, &taskID, &t.Running, &startedAt); err != nil {
		return domain.ProjectTimer{}, err
	}
	t.CurrentTaskID = idPtr(taskID)
	t.LastStartedAt = timePtr(startedAt)
	return t, nil
}

func (r repo) GetTimer(ctx context.Context, userID, projectID int64) (domain.ProjectTimer, error) {
	t, err := scanTimer(r.q.QueryRowContext(ctx,
		`SELECT `+timerColumns+` FROM project_timers WHERE user_id = ? AND project_id = ?`, userID, projectID))
	return t, translate(err)
}

func (r repo) SaveTimer(ctx context.Context, t domain.ProjectTimer) (domain.ProjectTimer, error) {
	if t.ID != 0 {
		err := r.exec(ctx, `UPDATE project_timers SET current_task_id = ?, running = ?, last_started_at = ? WHERE id = ?`,
			nullID(t.CurrentTaskID), t.Running, nullTime(t.LastStartedAt), t.ID)
		return t, err
	}

	id, err := r.insert(ctx, `INSERT INTO project_timers (user_id, project_id, current_task_id, running, last_started_at)
		VALUES (?, ?, ?, ?, ?)`,
		t.UserID, t.ProjectID, nullID(t.CurrentTaskID), t.Running, nullTime(t.LastStartedAt))
	if err != nil {
		return domain.ProjectTimer{}, fmt.Errorf("timer user=%d project=%d: %w", t.UserID, t.ProjectID, err)
	}
	t.ID = id
	return t, nil
}

func (r repo) ListTimers(ctx context.Context, f store.TimerFilter) ([]domain.ProjectTimer, error) {
	var w where
	if f.UserID != 0 {
		w.add("user_id = ?", f.UserID)
	}
	if f.ProjectID != 0 {
		w.add("project_id = ?", f.ProjectID)
	}
	if f.Running != nil {
		w.add("running = ?", *f.Running)
	}

	rows, err := r.q.QueryContext(ctx, `SELECT `+timerColumns+` FROM project_timers`+w.String()+` ORDER BY id`, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ProjectTimer
	for rows.Next() {
		t, err := scanTimer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r repo) CreateTimeEntry(ctx context.Context, e domain.TimeEntry) (domain.TimeEntry, error) {
	id, err := r.insert(ctx, `INSERT INTO time_entries (user_id, project_id, task_id, started_at, ended_at, seconds, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.UserID, e.ProjectID, nullID(e.TaskID), toNanos(e.StartedAt), toNanos(e.EndedAt), e.Seconds, toNanos(e.CreatedAt))
	if err != nil {
		return domain.TimeEntry{}, err
	}
	e.ID = id
	return e, nil
}

func (r repo) ListTimeEntries(ctx context.Context, f store.TimeEntryFilter) ([]domain.TimeEntry, error) {
	var w where
	if f.UserID != 0 {
		w.add("user_id = ?", f.UserID)
	}
	if f.ProjectID != 0 {
		w.add("project_id = ?", f.ProjectID)
	}

	rows, err := r.q.QueryContext(ctx, `SELECT id, user_id, project_id, task_id, started_at, ended_at, seconds, created_at
		FROM time_entries`+w.String()+` ORDER BY id`, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.TimeEntry
	for rows.Next() {
		var (
			e                          domain.TimeEntry
			taskID                     sql.NullInt64
			startedAt, ended, createdAt int64
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.ProjectID, &taskID, &startedAt, &ended, &e.Seconds, &createdAt); err != nil {
			return nil, err
		}
		e.TaskID = idPtr(taskID)
		e.StartedAt = fromNanos(startedAt)
		e.EndedAt = fromNanos(ended)
		e.CreatedAt = fromNanos(createdAt)
		out = append(out, e)
	}
	return out, rows.Err()
}
