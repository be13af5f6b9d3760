package domain

import "time"

// ProjectTimer is the per-user, per-project stopwatch.
type ProjectTimer struct {
	ID            int64
	UserID        int64
	ProjectID     int64
	CurrentTaskID *int64
	Running       bool
	LastStartedAt *time.Time
}

// Elapsed is the time accrued since the last start, or zero when stopped.
func (t ProjectTimer) Elapsed(now time.Time) time.Duration {
	if !t.Running || t.LastStartedAt == nil {
		return 0
	}
	d := now.Sub(*t.LastStartedAt)
	if d < 0 {
		return 0
	}
	return d
}

// RunningOn reports whether the timer is accruing time against taskID.
func (t ProjectTimer) RunningOn(taskID int64) bool {
	return t.Running && t.CurrentTaskID != nil && *t.CurrentTaskID == taskID
}

type TimeEntry struct {
	ID        int64
	UserID    int64
	ProjectID int64
	TaskID    *int64
	StartedAt time.Time
	EndedAt   time.Time
	Seconds   int64
	CreatedAt time.Time
}
