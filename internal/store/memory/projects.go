package memory

import (
	"context"
	"slices"

	"usemytime/internal/domain"
	"usemytime/internal/store"
)

func (t *tables) CreateProject(_ context.Context, p domain.Project) (domain.Project, error) {
	p.ID = t.nextID("projects")
	t.projects[p.ID] = p
	return p, nil
}

func (t *tables) GetProject(_ context.Context, id int64) (domain.Project, error) {
	p, ok := t.projects[id]
	if !ok {
		return domain.Project{}, store.ErrNotFound
	}
	return p, nil
}

func (t *tables) UpdateProject(_ context.Context, p domain.Project) error {
	if _, ok := t.projects[p.ID]; !ok {
		return store.ErrNotFound
	}
	t.projects[p.ID] = p
	return nil
}

func (t *tables) DeleteProject(_ context.Context, id int64) error {
	if _, ok := t.projects[id]; !ok {
		return store.ErrNotFound
	}
	delete(t.projects, id)

	for tid, task := range t.tasks {
		if task.ProjectID == id {
			delete(t.tasks, tid)
		}
	}
	for tid, timer := range t.timers {
		if timer.ProjectID == id {
			delete(t.timers, tid)
		}
	}
	for eid, entry := range t.entries {
		if entry.ProjectID == id {
			delete(t.entries, eid)
		}
	}
	for aid, a := range t.attachments {
		if a.ProjectID == id {
			delete(t.attachments, aid)
		}
	}
	return nil
}

func (t *tables) ListProjects(_ context.Context, f store.ProjectFilter) ([]domain.Project, error) {
	return sortedValues(t.projects, projectMatcher(f)), nil
}

func (t *tables) CountProjects(ctx context.Context, f store.ProjectFilter) (int, error) {
	projects, err := t.ListProjects(ctx, f)
	return len(projects), err
}

func projectMatcher(f store.ProjectFilter) func(domain.Project) bool {
	return func(p domain.Project) bool {
		if !matchID(f.OwnerIDs, p.OwnerID) {
			return false
		}
		if f.Archived != nil && p.Archived != *f.Archived {
			return false
		}
		if f.ReviewStatus != "" && p.ReviewStatus != f.ReviewStatus {
			return false
		}
		return true
	}
}

func (t *tables) CreateTask(_ context.Context, task domain.Task) (domain.Task, error) {
	if _, ok := t.projects[task.ProjectID]; !ok {
		return domain.Task{}, store.ErrNotFound
	}
	task.ID = t.nextID("tasks")
	t.tasks[task.ID] = task
	return task, nil
}

func (t *tables) GetTask(_ context.Context, id int64) (domain.Task, error) {
	task, ok := t.tasks[id]
	if !ok {
		return domain.Task{}, store.ErrNotFound
	}
	return task, nil
}

func (t *tables) UpdateTask(_ context.Context, task domain.Task) error {
	if _, ok := t.tasks[task.ID]; !ok {
		return store.ErrNotFound
	}
	t.tasks[task.ID] = task
	return nil
}

func (t *tables) DeleteTask(_ context.Context, id int64) error {
	if _, ok := t.tasks[id]; !ok {
		return store.ErrNotFound
	}
	delete(t.tasks, id)

	for tid, timer := range t.timers {
		if timer.CurrentTaskID != nil && *timer.CurrentTaskID == id {
			timer.CurrentTaskID = nil
			t.timers[tid] = timer
		}
	}
	for eid, entry := range t.entries {
		if entry.TaskID != nil && *entry.TaskID == id {
			entry.TaskID = nil
			t.entries[eid] = entry
		}
	}
	return nil
}

func (t *tables) ListTasks(_ context.Context, f store.TaskFilter) ([]domain.Task, error) {
	return sortedValues(t.tasks, func(task domain.Task) bool {
		if !matchID(f.ProjectIDs, task.ProjectID) {
			return false
		}
		if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, task.Status) {
			return false
		}
		return true
	}), nil
}

func (t *tables) CreateAttachment(_ context.Context, a domain.Attachment) (domain.Attachment, error) {
	if _, ok := t.projects[a.ProjectID]; !ok {
		return domain.Attachment{}, store.ErrNotFound
	}
	a.ID = t.nextID("attachments")
	t.attachments[a.ID] = a
	return a, nil
}

func (t *tables) GetAttachment(_ context.Context, id int64) (domain.Attachment, error) {
	a, ok := t.attachments[id]
	if !ok {
		return domain.Attachment{}, store.ErrNotFound
	}
	return a, nil
}

func (t *tables) ListAttachments(_ context.Context, projectID int64) ([]domain.Attachment, error) {
	return sortedValues(t.attachments, func(a domain.Attachment) bool {
		return a.ProjectID == projectID
	}), nil
}
