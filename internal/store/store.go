package store

import (
	"context"
	"errors"

	"usemytime/internal/domain"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record already exists")
)

type UserFilter struct {
	IDs          []int64
	ManagerID    *int64
	DepartmentID *int64
	Email        string
}

type ProjectFilter struct {
	OwnerIDs     []int64
	Archived     *bool
	ReviewStatus domain.ReviewStatus
}

type TaskFilter struct {
	ProjectIDs []int64
	Statuses   []domain.TaskStatus
}

// TimerFilter selects timers; zero ids match any user or project.
type TimerFilter struct {
	UserID    int64
	ProjectID int64
	Running   *bool
}

type TimeEntryFilter struct {
	UserID    int64
	ProjectID int64
}

// Repository is the row-level access used by the service. Lists are ordered
// by id ascending.
type Repository interface {
	CreateDepartment(ctx context.Context, d domain.Department) (domain.Department, error)
	GetDepartment(ctx context.Context, id int64) (domain.Department, error)
	ListDepartments(ctx context.Context) ([]domain.Department, error)

	CreateUser(ctx context.Context, u domain.User) (domain.User, error)
	GetUser(ctx context.Context, id int64) (domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)
	UpdateUser(ctx context.Context, u domain.User) error
	ListUsers(ctx context.Context, f UserFilter) ([]domain.User, error)

	CreateProject(ctx context.Context, p domain.Project) (domain.Project, error)
	GetProject(ctx context.Context, id int64) (domain.Project, error)
	UpdateProject(ctx context.Context, p domain.Project) error
	// DeleteProject removes the project with its tasks, timers, time entries
	// and attachments.
	DeleteProject(ctx context.Context, id int64) error
	ListProjects(ctx context.Context, f ProjectFilter) ([]domain.Project, error)
	CountProjects(ctx context.Context, f ProjectFilter) (int, error)

	CreateTask(ctx context.Context, t domain.Task) (domain.Task, error)
	GetTask(ctx context.Context, id int64) (domain.Task, error)
	UpdateTask(ctx context.Context, t domain.Task) error
	// DeleteTask unlinks the task from timers and time entries before removal.
	DeleteTask(ctx context.Context, id int64) error
	ListTasks(ctx context.Context, f TaskFilter) ([]domain.Task, error)

	GetTimer(ctx context.Context, userID, projectID int64) (domain.ProjectTimer, error)
	// SaveTimer inserts a timer with a zero id and updates it otherwise.
	SaveTimer(ctx context.Context, t domain.ProjectTimer) (domain.ProjectTimer, error)
	ListTimers(ctx context.Context, f TimerFilter) ([]domain.ProjectTimer, error)

	CreateTimeEntry(ctx context.Context, e domain.TimeEntry) (domain.TimeEntry, error)
	ListTimeEntries(ctx context.Context, f TimeEntryFilter) ([]domain.TimeEntry, error)

	CreateAttachment(ctx context.Context, a domain.Attachment) (domain.Attachment, error)
	GetAttachment(ctx context.Context, id int64) (domain.Attachment, error)
	ListAttachments(ctx context.Context, projectID int64) ([]domain.Attachment, error)

	CreateQuestion(ctx context.Context, q domain.Question) (domain.Question, error)
	ListQuestions(ctx context.Context) ([]domain.Question, error)
}

// Store is a Repository whose multi-row changes can be grouped.
type Store interface {
	Repository

	// Atomic runs fn against a transactional view. Everything fn wrote is
	// committed when it returns nil and discarded otherwise.
	Atomic(ctx context.Context, fn func(Repository) error) error

	// Ping reports whether the store can still serve requests.
	Ping(ctx context.Context) error
	Close() error
}

func Bool(v bool) *bool { return &v }

func Int64(v int64) *int64 { return &v }
