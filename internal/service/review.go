package service

import (
	"context"
	"strings"
	"time"

	"usemytime/internal/domain"
	"usemytime/internal/store"
)

type ReviewItem struct {
	Project domain.Project
	Owner   domain.User
}

// SubmitForReview hands a finished project to the owner's manager. Every
// task must be done, the owner's timer on the project stopped, and the
// submission must carry a comment or at least one file. Files passed here
// are attached to the project as part of the submission.
func (s *Service) SubmitForReview(ctx context.Context, actorID, projectID int64, comment string, files []Upload) (domain.Project, error) {
	comment = strings.TrimSpace(comment)

	var (
		out   domain.Project
		saved []string
	)
	err := s.store.Atomic(ctx, func(r store.Repository) error {
		p, err := ownProject(ctx, r, actorID, projectID)
		if err != nil {
			return err
		}
		if !p.ReviewStatus.CanSubmit() {
			return ErrReviewState
		}

		open, err := r.ListTasks(ctx, store.TaskFilter{
			ProjectIDs: []int64{p.ID},
			Statuses:   []domain.TaskStatus{domain.TaskNew, domain.TaskInProgress},
		})
		if err != nil {
			return err
		}
		if len(open) > 0 {
			return ErrTasksIncomplete
		}

		timer, err := r.GetTimer(ctx, actorID, p.ID)
		if err != nil && !isNotFound(err) {
			return err
		}
		if err == nil && timer.Running {
			return ErrTimerRunning
		}

		existing, err := r.ListAttachments(ctx, p.ID)
		if err != nil {
			return err
		}
		if comment == "" && len(files) == 0 && len(existing) == 0 {
			return ErrSubmitEmpty
		}

		now := s.clock()
		for _, f := range files {
			a, err := s.attach(ctx, r, p.ID, actorID, f, now)
			if err != nil {
				return err
			}
			saved = append(saved, a.Path)
		}

		if comment != "" {
			p.SubmitComment = comment
		}
		p.ReviewStatus = domain.ReviewPending
		p.ReviewSubmittedBy = &actorID
		p.ReviewSubmittedAt = &now
		if err := r.UpdateProject(ctx, p); err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		s.discard(saved)
		return domain.Project{}, err
	}

	s.log.Info("project submitted for review", "project_id", projectID, "owner_id", actorID, "files", len(files))
	return out, nil
}

// ApproveProject accepts a subordinate's project and archives it.
func (s *Service) ApproveProject(ctx context.Context, actorID, projectID int64) (domain.Project, error) {
	p, err := s.review(ctx, actorID, projectID, func(p *domain.Project, now time.Time) {
		p.ReviewStatus = domain.ReviewApproved
		p.Archived = true
		p.ReviewedBy = &actorID
		p.ReviewedAt = &now
	})
	if err != nil {
		return domain.Project{}, err
	}

	s.log.Info("project approved", "project_id", projectID, "reviewer_id", actorID)
	return p, nil
}

// RejectProject returns a subordinate's project to its owner with a comment.
func (s *Service) RejectProject(ctx context.Context, actorID, projectID int64, comment string) (domain.Project, error) {
	comment = strings.TrimSpace(comment)
	p, err := s.review(ctx, actorID, projectID, func(p *domain.Project, now time.Time) {
		p.ReviewStatus = domain.ReviewRejected
		p.ReviewComment = comment
		p.ReviewedBy = &actorID
		p.ReviewedAt = &now
	})
	if err != nil {
		return domain.Project{}, err
	}

	s.log.Info("project rejected", "project_id", projectID, "reviewer_id", actorID)
	return p, nil
}

func (s *Service) review(ctx context.Context, actorID, projectID int64, decide func(*domain.Project, time.Time)) (domain.Project, error) {
	if projectID <= 0 {
		return domain.Project{}, ErrInvalidID
	}

	var out domain.Project
	err := s.store.Atomic(ctx, func(r store.Repository) error {
		me, err := actor(ctx, r, actorID)
		if err != nil {
			return err
		}
		if !me.Profile.Role.CanReview() {
			return ErrForbidden
		}

		p, err := r.GetProject(ctx, projectID)
		if err != nil {
			return notFound(err, "project %d", projectID)
		}
		if p.OwnerID == me.ID {
			return ErrSelfReview
		}
		owner, err := r.GetUser(ctx, p.OwnerID)
		if err != nil {
			return notFound(err, "user %d", p.OwnerID)
		}
		if !owner.ManagedBy(me.ID) {
			return ErrNotSubordinate
		}
		if p.ReviewStatus != domain.ReviewPending {
			return ErrReviewState
		}

		decide(&p, s.clock())
		if err := r.UpdateProject(ctx, p); err != nil {
			return err
		}
		out = p
		return nil
	})
	return out, err
}

// ReviewQueue lists projects of the actor's direct subordinates that wait
// for review. Users without a review role get an empty queue.
func (s *Service) ReviewQueue(ctx context.Context, actorID int64) ([]ReviewItem, error) {
	me, err := actor(ctx, s.store, actorID)
	if err != nil {
		return nil, err
	}
	if !me.Profile.Role.SeesReviewQueue() {
		return []ReviewItem{}, nil
	}

	subs, err := s.store.ListUsers(ctx, store.UserFilter{ManagerID: &me.ID})
	if err != nil {
		return nil, err
	}
	owners := make(map[int64]domain.User, len(subs))
	ids := make([]int64, 0, len(subs))
	for _, u := range subs {
		owners[u.ID] = u
		ids = append(ids, u.ID)
	}

	projects, err := s.store.ListProjects(ctx, store.ProjectFilter{OwnerIDs: ids, ReviewStatus: domain.ReviewPending})
	if err != nil {
		return nil, err
	}
	items := make([]ReviewItem, 0, len(projects))
	for _, p := range projects {
		items = append(items, ReviewItem{Project: p, Owner: owners[p.OwnerID]})
	}
	return items, nil
}

func (s *Service) ReviewCount(ctx context.Context, actorID int64) (int, error) {
	me, err := actor(ctx, s.store, actorID)
	if err != nil {
		return 0, err
	}
	if !me.Profile.Role.SeesReviewQueue() {
		return 0, nil
	}

	ids, err := subordinateIDs(ctx, s.store, me.ID)
	if err != nil {
		return 0, err
	}
	return s.store.CountProjects(ctx, store.ProjectFilter{OwnerIDs: ids, ReviewStatus: domain.ReviewPending})
}
