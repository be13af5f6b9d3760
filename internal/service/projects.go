package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"usemytime/internal/domain"
	"usemytime/internal/store"
)

type ProjectInput struct {
	Title       string
	Description string
	// Tasks is the full task list by text. Nil leaves the tasks untouched.
	Tasks []string
}

type ProjectDetail struct {
	Project     domain.Project
	Tasks       []domain.Task
	Attachments []domain.Attachment

	// Timer is the viewer's own timer on the project, if any.
	Timer *domain.ProjectTimer

	// TotalSeconds excludes the interval of a currently running timer.
	TotalSeconds    int64
	AllTasksDone    bool
	CanSubmitReview bool
}

func (s *Service) CreateProject(ctx context.Context, actorID int64, in ProjectInput) (ProjectDetail, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return ProjectDetail{}, fmt.Errorf("title: %w", ErrInvalidInput)
	}

	var out ProjectDetail
	err := s.store.Atomic(ctx, func(r store.Repository) error {
		me, err := actor(ctx, r, actorID)
		if err != nil {
			return err
		}

		now := s.clock()
		p, err := r.CreateProject(ctx, domain.Project{
			OwnerID:      me.ID,
			Title:        title,
			Description:  strings.TrimSpace(in.Description),
			CreatedAt:    now,
			ReviewStatus: domain.ReviewNone,
		})
		if err != nil {
			return err
		}
		for _, text := range taskTexts(in.Tasks) {
			if _, err := r.CreateTask(ctx, domain.Task{ProjectID: p.ID, Text: text, Status: domain.TaskNew, CreatedAt: now}); err != nil {
				return err
			}
		}

		out, err = detail(ctx, r, me.ID, p)
		return err
	})
	if err != nil {
		return ProjectDetail{}, err
	}

	s.log.Info("project created", "project_id", out.Project.ID, "owner_id", actorID, "tasks", len(out.Tasks))
	return out, nil
}

// UpdateProject edits title and description and syncs the task list: tasks
// whose text is gone are deleted, new texts become new tasks. The task list
// of a locked project cannot change.
func (s *Service) UpdateProject(ctx context.Context, actorID, projectID int64, in ProjectInput) (ProjectDetail, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return ProjectDetail{}, fmt.Errorf("title: %w", ErrInvalidInput)
	}

	var out ProjectDetail
	err := s.store.Atomic(ctx, func(r store.Repository) error {
		me, err := actor(ctx, r, actorID)
		if err != nil {
			return err
		}
		p, err := ownProject(ctx, r, me.ID, projectID)
		if err != nil {
			return err
		}

		p.Title = title
		p.Description = strings.TrimSpace(in.Description)
		if err := r.UpdateProject(ctx, p); err != nil {
			return err
		}

		if in.Tasks != nil {
			if err := syncTasks(ctx, r, p, taskTexts(in.Tasks), s.clock()); err != nil {
				return err
			}
		}

		out, err = detail(ctx, r, me.ID, p)
		return err
	})
	return out, err
}

func syncTasks(ctx context.Context, r store.Repository, p domain.Project, texts []string, now time.Time) error {
	existing, err := r.ListTasks(ctx, store.TaskFilter{ProjectIDs: []int64{p.ID}})
	if err != nil {
		return err
	}

	var remove []int64
	have := make(map[string]bool, len(existing))
	for _, t := range existing {
		if slices.Contains(texts, t.Text) {
			have[t.Text] = true
			continue
		}
		remove = append(remove, t.ID)
	}
	var add []string
	for _, text := range texts {
		if !have[text] {
			add = append(add, text)
		}
	}

	if len(remove) == 0 && len(add) == 0 {
		return nil
	}
	if p.ReviewStatus.Locked() {
		return ErrProjectLocked
	}

	for _, id := range remove {
		if err := r.DeleteTask(ctx, id); err != nil {
			return err
		}
	}
	for _, text := range add {
		if _, err := r.CreateTask(ctx, domain.Task{ProjectID: p.ID, Text: text, Status: domain.TaskNew, CreatedAt: now}); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) DeleteProject(ctx context.Context, actorID, projectID int64) error {
	var files []domain.Attachment
	err := s.store.Atomic(ctx, func(r store.Repository) error {
		p, err := ownProject(ctx, r, actorID, projectID)
		if err != nil {
			return err
		}
		if files, err = r.ListAttachments(ctx, p.ID); err != nil {
			return err
		}
		return r.DeleteProject(ctx, p.ID)
	})
	if err != nil {
		return err
	}

	for _, f := range files {
		if err := s.blobs.Remove(f.Path); err != nil {
			s.log.Warn("attachment left on disk", "path", f.Path, "err", err)
		}
	}
	s.log.Info("project deleted", "project_id", projectID, "owner_id", actorID)
	return nil
}

// ArchiveProject moves a project to the archive, closing the owner's running
// timer on it first.
func (s *Service) ArchiveProject(ctx context.Context, actorID, projectID int64) (domain.Project, error) {
	var out domain.Project
	err := s.store.Atomic(ctx, func(r store.Repository) error {
		p, err := ownProject(ctx, r, actorID, projectID)
		if err != nil {
			return err
		}

		timer, err := r.GetTimer(ctx, actorID, p.ID)
		switch {
		case err == nil && timer.Running:
			if _, err := stopTimer(ctx, r, timer, s.clock()); err != nil {
				return err
			}
			// stopTimer changed the total.
			if p, err = r.GetProject(ctx, p.ID); err != nil {
				return err
			}
		case err != nil && !isNotFound(err):
			return err
		}

		p.Archived = true
		if err := r.UpdateProject(ctx, p); err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return domain.Project{}, err
	}

	s.log.Info("project archived", "project_id", projectID, "owner_id", actorID)
	return out, nil
}

func (s *Service) ListProjects(ctx context.Context, actorID int64, archived bool) ([]domain.Project, error) {
	me, err := actor(ctx, s.store, actorID)
	if err != nil {
		return nil, err
	}
	return s.store.ListProjects(ctx, store.ProjectFilter{OwnerIDs: []int64{me.ID}, Archived: &archived})
}

// ProjectDetail returns a project visible to the actor: directors see every
// project, managers their own and their direct subordinates', everyone else
// only their own.
func (s *Service) ProjectDetail(ctx context.Context, actorID, projectID int64) (ProjectDetail, error) {
	if projectID <= 0 {
		return ProjectDetail{}, ErrInvalidID
	}
	me, err := actor(ctx, s.store, actorID)
	if err != nil {
		return ProjectDetail{}, err
	}
	p, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return ProjectDetail{}, notFound(err, "project %d", projectID)
	}

	visible, err := canView(ctx, s.store, me, p)
	if err != nil {
		return ProjectDetail{}, err
	}
	if !visible {
		return ProjectDetail{}, fmt.Errorf("project %d: %w", projectID, ErrNotFound)
	}
	return detail(ctx, s.store, me.ID, p)
}

func canView(ctx context.Context, r store.Repository, viewer domain.User, p domain.Project) (bool, error) {
	if p.OwnerID == viewer.ID || viewer.Profile.Role == domain.RoleDirector {
		return true, nil
	}
	if !viewer.Profile.Role.IsManager() {
		return false, nil
	}
	owner, err := r.GetUser(ctx, p.OwnerID)
	if err != nil {
		return false, notFound(err, "user %d", p.OwnerID)
	}
	return owner.ManagedBy(viewer.ID), nil
}

// MyTasks lists the tasks of the actor's projects, newest first.
func (s *Service) MyTasks(ctx context.Context, actorID int64) ([]domain.Task, error) {
	me, err := actor(ctx, s.store, actorID)
	if err != nil {
		return nil, err
	}
	projects, err := s.store.ListProjects(ctx, store.ProjectFilter{OwnerIDs: []int64{me.ID}})
	if err != nil {
		return nil, err
	}
	tasks, err := s.store.ListTasks(ctx, store.TaskFilter{ProjectIDs: projectIDs(projects)})
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(tasks, func(a, b domain.Task) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return tasks, nil
}

func detail(ctx context.Context, r store.Repository, viewerID int64, p domain.Project) (ProjectDetail, error) {
	tasks, err := r.ListTasks(ctx, store.TaskFilter{ProjectIDs: []int64{p.ID}})
	if err != nil {
		return ProjectDetail{}, err
	}
	files, err := r.ListAttachments(ctx, p.ID)
	if err != nil {
		return ProjectDetail{}, err
	}

	d := ProjectDetail{
		Project:      p,
		Tasks:        tasks,
		Attachments:  files,
		TotalSeconds: int64(p.TotalTime / time.Second),
		AllTasksDone: allDone(tasks),
	}
	d.CanSubmitReview = d.AllTasksDone && p.ReviewStatus.CanSubmit()

	timer, err := r.GetTimer(ctx, viewerID, p.ID)
	switch {
	case err == nil:
		d.Timer = &timer
	case !isNotFound(err):
		return ProjectDetail{}, err
	}
	return d, nil
}

func allDone(tasks []domain.Task) bool {
	for _, t := range tasks {
		if !t.Done() {
			return false
		}
	}
	return true
}

// taskTexts trims the submitted texts, dropping blanks and repeats.
func taskTexts(in []string) []string {
	out := make([]string, 0, len(in))
	for _, text := range in {
		text = strings.TrimSpace(text)
		if text == "" || slices.Contains(out, text) {
			continue
		}
		out = append(out, text)
	}
	return out
}
