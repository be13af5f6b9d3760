package service

import "errors"

var (
	ErrStoreNil     = errors.New("store is nil")
	ErrBlobStoreNil = errors.New("blob store is nil")

	ErrInvalidInput    = errors.New("invalid input")
	ErrInvalidID       = errors.New("invalid id")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("already exists")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")

	// State machine violations.
	ErrProjectLocked   = errors.New("project is under review or approved")
	ErrProjectArchived = errors.New("project is archived")
	ErrTimerRunning    = errors.New("timer is already running")
	ErrTimerNotRunning = errors.New("timer is not running")
	ErrNoRunningTimer  = errors.New("no timer is running")
	ErrMinimumDwell    = errors.New("task must stay in progress for at least one minute")

	// Review workflow violations.
	ErrTasksIncomplete = errors.New("not all tasks are done")
	ErrSubmitEmpty     = errors.New("a comment or at least one file is required")
	ErrReviewState     = errors.New("project is not in a reviewable state")
	ErrSelfReview      = errors.New("own projects cannot be reviewed")
	ErrNotSubordinate  = errors.New("project owner is not a direct subordinate")
)
