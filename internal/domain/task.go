package domain

import "time"

type TaskStatus string

const (
	TaskNew        TaskStatus = "new"
	TaskInProgress TaskStatus = "in_progress"
	TaskDone       TaskStatus = "done"
)

// MinTaskDwell is the shortest time a task may spend in progress.
const MinTaskDwell = 60 * time.Second

// WorkDay is the length of one normalized working day in reports.
const WorkDay = 8 * time.Hour

// Next returns the status that follows s. Done is terminal.
func (s TaskStatus) Next() (TaskStatus, bool) {
	switch s {
	case TaskNew:
		return TaskInProgress, true
	case TaskInProgress:
		return TaskDone, true
	}
	return s, false
}

type Task struct {
	ID          int64
	ProjectID   int64
	Text        string
	Status      TaskStatus
	CreatedAt   time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
}

func (t Task) Done() bool {
	return t.Status == TaskDone
}
