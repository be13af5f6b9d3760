package service

import (
	"context"
	"fmt"
	"time"

	"usemytime/internal/domain"
	"usemytime/internal/store"
)

// ActivateProject makes sure the actor has a timer on the project.
func (s *Service) ActivateProject(ctx context.Context, actorID, projectID int64) (domain.ProjectTimer, error) {
	var out domain.ProjectTimer
	err := s.store.Atomic(ctx, func(r store.Repository) error {
		p, err := ownProject(ctx, r, actorID, projectID)
		if err != nil {
			return err
		}
		if p.ReviewStatus.Locked() {
			return ErrProjectLocked
		}
		out, err = timerFor(ctx, r, actorID, p.ID)
		return err
	})
	return out, err
}

func (s *Service) StartTimer(ctx context.Context, actorID, projectID int64) (domain.ProjectTimer, error) {
	var out domain.ProjectTimer
	err := s.store.Atomic(ctx, func(r store.Repository) error {
		p, err := ownProject(ctx, r, actorID, projectID)
		if err != nil {
			return err
		}
		if p.ReviewStatus.Locked() {
			return ErrProjectLocked
		}
		if p.Archived {
			return ErrProjectArchived
		}

		timer, err := timerFor(ctx, r, actorID, p.ID)
		if err != nil {
			return err
		}
		if timer.Running {
			return ErrTimerRunning
		}
		out, err = startTimer(ctx, r, timer, timer.CurrentTaskID, s.clock())
		return err
	})
	if err != nil {
		return domain.ProjectTimer{}, err
	}

	s.log.Debug("timer started", "user_id", actorID, "project_id", projectID)
	return out, nil
}

// StopTimer stops the actor's timer on a project and returns the whole
// seconds it accrued.
func (s *Service) StopTimer(ctx context.Context, actorID, projectID int64) (int64, error) {
	var seconds int64
	err := s.store.Atomic(ctx, func(r store.Repository) error {
		p, err := ownProject(ctx, r, actorID, projectID)
		if err != nil {
			return err
		}
		timer, err := r.GetTimer(ctx, actorID, p.ID)
		if isNotFound(err) {
			return ErrTimerNotRunning
		}
		if err != nil {
			return err
		}
		if !timer.Running {
			return ErrTimerNotRunning
		}
		seconds, err = stopTimer(ctx, r, timer, s.clock())
		return err
	})
	if err != nil {
		return 0, err
	}

	s.log.Debug("timer stopped", "user_id", actorID, "project_id", projectID, "seconds", seconds)
	return seconds, nil
}

// StopAllTimers stops every running timer of the user and reports how many
// were running.
func (s *Service) StopAllTimers(ctx context.Context, userID int64) (int, error) {
	var stopped int
	err := s.store.Atomic(ctx, func(r store.Repository) error {
		var err error
		stopped, err = stopRunning(ctx, r, userID, s.clock())
		return err
	})
	if err != nil {
		return 0, err
	}

	if stopped > 0 {
		s.log.Info("timers stopped", "user_id", userID, "count", stopped)
	}
	return stopped, nil
}

func stopRunning(ctx context.Context, r store.Repository, userID int64, now time.Time) (int, error) {
	running, err := r.ListTimers(ctx, store.TimerFilter{UserID: userID, Running: store.Bool(true)})
	if err != nil {
		return 0, err
	}
	for _, timer := range running {
		if _, err := stopTimer(ctx, r, timer, now); err != nil {
			return 0, err
		}
	}
	return len(running), nil
}

// timerFor returns the user's timer on a project, creating a stopped one if
// there is none yet.
func timerFor(ctx context.Context, r store.Repository, userID, projectID int64) (domain.ProjectTimer, error) {
	timer, err := r.GetTimer(ctx, userID, projectID)
	if err == nil || !isNotFound(err) {
		return timer, err
	}
	return r.SaveTimer(ctx, domain.ProjectTimer{UserID: userID, ProjectID: projectID})
}

func startTimer(ctx context.Context, r store.Repository, timer domain.ProjectTimer, taskID *int64, now time.Time) (domain.ProjectTimer, error) {
	timer.Running = true
	timer.LastStartedAt = &now
	timer.CurrentTaskID = taskID
	return r.SaveTimer(ctx, timer)
}

// stopTimer closes the running interval of timer: the elapsed time is added
// to the project total and recorded as a time entry against the current
// task.
func stopTimer(ctx context.Context, r store.Repository, timer domain.ProjectTimer, now time.Time) (int64, error) {
	elapsed := timer.Elapsed(now)
	seconds := int64(elapsed / time.Second)

	p, err := r.GetProject(ctx, timer.ProjectID)
	if err != nil {
		return 0, notFound(err, "project %d", timer.ProjectID)
	}
	p.TotalTime += elapsed
	if err := r.UpdateProject(ctx, p); err != nil {
		return 0, err
	}

	started := now
	if timer.LastStartedAt != nil {
		started = *timer.LastStartedAt
	}
	_, err = r.CreateTimeEntry(ctx, domain.TimeEntry{
		UserID:    timer.UserID,
		ProjectID: timer.ProjectID,
		TaskID:    timer.CurrentTaskID,
		StartedAt: started,
		EndedAt:   now,
		Seconds:   seconds,
		CreatedAt: now,
	})
	if err != nil {
		return 0, fmt.Errorf("record time entry: %w", err)
	}

	timer.Running = false
	timer.CurrentTaskID = nil
	if _, err := r.SaveTimer(ctx, timer); err != nil {
		return 0, err
	}
	return seconds, nil
}
