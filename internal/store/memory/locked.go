package memory

import (
	"context"

	"usemytime/internal/domain"
	"usemytime/internal/store"
)

// The methods below run single statements outside of Atomic.

func (st *Store) CreateDepartment(ctx context.Context, d domain.Department) (domain.Department, error) {
	t, unlock := st.write()
	defer unlock()
	return t.CreateDepartment(ctx, d)
}

func (st *Store) GetDepartment(ctx context.Context, id int64) (domain.Department, error) {
	t, unlock := st.read()
	defer unlock()
	return t.GetDepartment(ctx, id)
}

func (st *Store) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	t, unlock := st.read()
	defer unlock()
	return t.ListDepartments(ctx)
}

func (st *Store) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	t, unlock := st.write()
	defer unlock()
	return t.CreateUser(ctx, u)
}

func (st *Store) GetUser(ctx context.Context, id int64) (domain.User, error) {
	t, unlock := st.read()
	defer unlock()
	return t.GetUser(ctx, id)
}

func (st *Store) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	t, unlock := st.read()
	defer unlock()
	return t.GetUserByUsername(ctx, username)
}

func (st *Store) UpdateUser(ctx context.Context, u domain.User) error {
	t, unlock := st.write()
	defer unlock()
	return t.UpdateUser(ctx, u)
}

func (st *Store) ListUsers(ctx context.Context, f store.UserFilter) ([]domain.User, error) {
	t, unlock := st.read()
	defer unlock()
	return t.ListUsers(ctx, f)
}

func (st *Store) CreateProject(ctx context.Context, p domain.Project) (domain.Project, error) {
	t, unlock := st.write()
	defer unlock()
	return t.CreateProject(ctx, p)
}

func (st *Store) GetProject(ctx context.Context, id int64) (domain.Project, error) {
	t, unlock := st.read()
	defer unlock()
	return t.GetProject(ctx, id)
}

func (st *Store) UpdateProject(ctx context.Context, p domain.Project) error {
	t, unlock := st.write()
	defer unlock()
	return t.UpdateProject(ctx, p)
}

func (st *Store) DeleteProject(ctx context.Context, id int64) error {
	t, unlock := st.write()
	defer unlock()
	return t.DeleteProject(ctx, id)
}

func (st *Store) ListProjects(ctx context.Context, f store.ProjectFilter) ([]domain.Project, error) {
	t, unlock := st.read()
	defer unlock()
	return t.ListProjects(ctx, f)
}

func (st *Store) CountProjects(ctx context.Context, f store.ProjectFilter) (int, error) {
	t, unlock := st.read()
	defer unlock()
	return t.CountProjects(ctx, f)
}

func (st *Store) CreateTask(ctx context.Context, task domain.Task) (domain.Task, error) {
	t, unlock := st.write()
	defer unlock()
	return t.CreateTask(ctx, task)
}

func (st *Store) GetTask(ctx context.Context, id int64) (domain.Task, error) {
	t, unlock := st.read()
	defer unlock()
	return t.GetTask(ctx, id)
}

func (st *Store) UpdateTask(ctx context.Context, task domain.Task) error {
	t, unlock := st.write()
	defer unlock()
	return t.UpdateTask(ctx, task)
}

func (st *Store) DeleteTask(ctx context.Context, id int64) error {
	t, unlock := st.write()
	defer unlock()
	return t.DeleteTask(ctx, id)
}

func (st *Store) ListTasks(ctx context.Context, f store.TaskFilter) ([]domain.Task, error) {
	t, unlock := st.read()
	defer unlock()
	return t.ListTasks(ctx, f)
}

func (st *Store) GetTimer(ctx context.Context, userID, projectID int64) (domain.ProjectTimer, error) {
	t, unlock := st.read()
	defer unlock()
	return t.GetTimer(ctx, userID, projectID)
}

func (st *Store) SaveTimer(ctx context.Context, timer domain.ProjectTimer) (domain.ProjectTimer, error) {
	t, unlock := st.write()
	defer unlock()
	return t.SaveTimer(ctx, timer)
}

func (st *Store) ListTimers(ctx context.Context, f store.TimerFilter) ([]domain.ProjectTimer, error) {
	t, unlock := st.read()
	defer unlock()
	return t.ListTimers(ctx, f)
}

func (st *Store) CreateTimeEntry(ctx context.Context, e domain.TimeEntry) (domain.TimeEntry, error) {
	t, unlock := st.write()
	defer unlock()
	return t.CreateTimeEntry(ctx, e)
}

func (st *Store) ListTimeEntries(ctx context.Context, f store.TimeEntryFilter) ([]domain.TimeEntry, error) {
	t, unlock := st.read()
	defer unlock()
	return t.ListTimeEntries(ctx, f)
}

func (st *Store) CreateAttachment(ctx context.Context, a domain.Attachment) (domain.Attachment, error) {
	t, unlock := st.write()
	defer unlock()
	return t.CreateAttachment(ctx, a)
}

func (st *Store) GetAttachment(ctx context.Context, id int64) (domain.Attachment, error) {
	t, unlock := st.read()
	defer unlock()
	return t.GetAttachment(ctx, id)
}

func (st *Store) ListAttachments(ctx context.Context, projectID int64) ([]domain.Attachment, error) {
	t, unlock := st.read()
	defer unlock()
	return t.ListAttachments(ctx, projectID)
}

func (st *Store) CreateQuestion(ctx context.Context, q domain.Question) (domain.Question, error) {
	t, unlock := st.write()
	defer unlock()
	return t.CreateQuestion(ctx, q)
}

func (st *Store) ListQuestions(ctx context.Context) ([]domain.Question, error) {
	t, unlock := st.read()
	defer unlock()
	return t.ListQuestions(ctx)
}
