package service

import (
	"context"
	"errors"
	"fmt"

	"usemytime/internal/domain"
	"usemytime/internal/store"
)

// AdvanceTask moves a task one step along new -> in_progress -> done.
//
// A task can only move while the actor has some timer running. Starting a
// task stops every running timer of the actor and restarts the timer of the
// task's project against it. Finishing a task requires it to have been in
// progress for MinTaskDwell and stops the project timer if it was running on
// this task. Advancing a done task changes nothing.
func (s *Service) AdvanceTask(ctx context.Context, actorID, taskID int64) (domain.Task, error) {
	if taskID <= 0 {
		return domain.Task{}, ErrInvalidID
	}

	var (
		out  domain.Task
		from domain.TaskStatus
	)
	err := s.store.Atomic(ctx, func(r store.Repository) error {
		if _, err := actor(ctx, r, actorID); err != nil {
			return err
		}
		task, err := r.GetTask(ctx, taskID)
		if err != nil {
			return notFound(err, "task %d", taskID)
		}
		p, err := ownProject(ctx, r, actorID, task.ProjectID)
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("task %d: %w", taskID, ErrNotFound)
		}
		if err != nil {
			return err
		}
		if p.ReviewStatus.Locked() {
			return ErrProjectLocked
		}

		running, err := r.ListTimers(ctx, store.TimerFilter{UserID: actorID, Running: store.Bool(true)})
		if err != nil {
			return err
		}
		if len(running) == 0 {
			return ErrNoRunningTimer
		}

		from = task.Status
		now := s.clock()
		switch task.Status {
		case domain.TaskNew:
			if p.Archived {
				return ErrProjectArchived
			}
			if _, err := stopRunning(ctx, r, actorID, now); err != nil {
				return err
			}
			timer, err := timerFor(ctx, r, actorID, p.ID)
			if err != nil {
				return err
			}
			if _, err := startTimer(ctx, r, timer, &task.ID, now); err != nil {
				return err
			}
			task.Status = domain.TaskInProgress
			task.StartedAt = &now

		case domain.TaskInProgress:
			timer, err := r.GetTimer(ctx, actorID, p.ID)
			if err != nil && !isNotFound(err) {
				return err
			}
			onTask := err == nil && timer.RunningOn(task.ID)

			base := task.StartedAt
			if base == nil && onTask {
				base = timer.LastStartedAt
			}
			if base != nil && now.Sub(*base) < domain.MinTaskDwell {
				return ErrMinimumDwell
			}

			task.Status = domain.TaskDone
			task.CompletedAt = &now
			if onTask {
				if _, err := stopTimer(ctx, r, timer, now); err != nil {
					return err
				}
			}

		default:
			out = task
			return nil
		}

		if err := r.UpdateTask(ctx, task); err != nil {
			return err
		}
		out = task
		return nil
	})
	if err != nil {
		return domain.Task{}, err
	}

	if from != out.Status {
		s.log.Info("task advanced", "task_id", taskID, "user_id", actorID, "from", from, "to", out.Status)
	}
	return out, nil
}
