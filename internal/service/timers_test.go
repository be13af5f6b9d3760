package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"usemytime/internal/domain"
	"usemytime/internal/store"
)

func TestStartStopTimer_AccumulatesTime(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner", domain.RoleEmployee, nil)
	d := f.project(t, owner, "a")
	id := d.Project.ID

	timer, err := f.svc.StartTimer(f.ctx, owner.ID, id)
	require.NoError(t, err)
	assert.True(t, timer.Running)

	_, err = f.svc.StartTimer(f.ctx, owner.ID, id)
	assert.ErrorIs(t, err, ErrTimerRunning)

	f.clock.Advance(90*time.Second + 400*time.Millisecond)
	seconds, err := f.svc.StopTimer(f.ctx, owner.ID, id)
	require.NoError(t, err)
	assert.Equal(t, int64(90), seconds)

	p, err := f.store.GetProject(f.ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second+400*time.Millisecond, p.TotalTime)

	entries, err := f.store.ListTimeEntries(f.ctx, store.TimeEntryFilter{UserID: owner.ID})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(90), entries[0].Seconds)
	assert.Nil(t, entries[0].TaskID)

	_, err = f.svc.StopTimer(f.ctx, owner.ID, id)
	assert.ErrorIs(t, err, ErrTimerNotRunning)
}

func TestStopTimer_NeverStarted(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner", domain.RoleEmployee, nil)
	d := f.project(t, owner)

	_, err := f.svc.StopTimer(f.ctx, owner.ID, d.Project.ID)
	assert.ErrorIs(t, err, ErrTimerNotRunning)
}

func TestStartTimer_Gates(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner", domain.RoleEmployee, nil)
	other := f.user(t, "other", domain.RoleEmployee, nil)

	locked := f.project(t, owner)
	f.setReview(t, locked.Project.ID, domain.ReviewApproved)
	_, err := f.svc.StartTimer(f.ctx, owner.ID, locked.Project.ID)
	assert.ErrorIs(t, err, ErrProjectLocked)
	_, err = f.svc.ActivateProject(f.ctx, owner.ID, locked.Project.ID)
	assert.ErrorIs(t, err, ErrProjectLocked)

	archived := f.project(t, owner)
	_, err = f.svc.ArchiveProject(f.ctx, owner.ID, archived.Project.ID)
	require.NoError(t, err)
	_, err = f.svc.StartTimer(f.ctx, owner.ID, archived.Project.ID)
	assert.ErrorIs(t, err, ErrProjectArchived)

	mine := f.project(t, owner)
	_, err = f.svc.StartTimer(f.ctx, other.ID, mine.Project.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestActivateProject_GetOrCreate(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner", domain.RoleEmployee, nil)
	d := f.project(t, owner)

	first, err := f.svc.ActivateProject(f.ctx, owner.ID, d.Project.ID)
	require.NoError(t, err)
	assert.False(t, first.Running)

	second, err := f.svc.ActivateProject(f.ctx, owner.ID, d.Project.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestStopAllTimers(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner", domain.RoleEmployee, nil)
	a := f.project(t, owner)
	b := f.project(t, owner)

	_, err := f.svc.StartTimer(f.ctx, owner.ID, a.Project.ID)
	require.NoError(t, err)
	_, err = f.svc.StartTimer(f.ctx, owner.ID, b.Project.ID)
	require.NoError(t, err)

	f.clock.Advance(time.Minute)
	n, err := f.svc.StopAllTimers(f.ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	running, err := f.store.ListTimers(f.ctx, store.TimerFilter{UserID: owner.ID, Running: store.Bool(true)})
	require.NoError(t, err)
	assert.Empty(t, running)

	for _, id := range []int64{a.Project.ID, b.Project.ID} {
		p, err := f.store.GetProject(f.ctx, id)
		require.NoError(t, err)
		assert.Equal(t, time.Minute, p.TotalTime)
	}

	n, err = f.svc.StopAllTimers(f.ctx, owner.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestArchiveProject_StopsRunningTimer(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner", domain.RoleEmployee, nil)
	d := f.project(t, owner)

	_, err := f.svc.StartTimer(f.ctx, owner.ID, d.Project.ID)
	require.NoError(t, err)
	f.clock.Advance(10 * time.Minute)

	p, err := f.svc.ArchiveProject(f.ctx, owner.ID, d.Project.ID)
	require.NoError(t, err)
	assert.True(t, p.Archived)
	assert.Equal(t, 10*time.Minute, p.TotalTime)

	timer, err := f.store.GetTimer(f.ctx, owner.ID, d.Project.ID)
	require.NoError(t, err)
	assert.False(t, timer.Running)

	active, err := f.svc.ListProjects(f.ctx, owner.ID, false)
	require.NoError(t, err)
	assert.Empty(t, active)
	archived, err := f.svc.ListProjects(f.ctx, owner.ID, true)
	require.NoError(t, err)
	assert.Len(t, archived, 1)
}

func TestAdvanceTask_RequiresRunningTimer(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner", domain.RoleEmployee, nil)
	d := f.project(t, owner, "a")

	_, err := f.svc.AdvanceTask(f.ctx, owner.ID, d.Tasks[0].ID)
	assert.ErrorIs(t, err, ErrNoRunningTimer)
}

func TestAdvanceTask_FullCycle(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner", domain.RoleEmployee, nil)
	other := f.project(t, owner, "elsewhere")
	d := f.project(t, owner, "write code")
	task := d.Tasks[0]

	// Any running timer unlocks task transitions.
	_, err := f.svc.StartTimer(f.ctx, owner.ID, other.Project.ID)
	require.NoError(t, err)
	f.clock.Advance(5 * time.Minute)

	got, err := f.svc.AdvanceTask(f.ctx, owner.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskInProgress, got.Status)
	require.NotNil(t, got.StartedAt)

	// The other project's timer was closed and this project's opened on the task.
	prev, err := f.store.GetTimer(f.ctx, owner.ID, other.Project.ID)
	require.NoError(t, err)
	assert.False(t, prev.Running)
	cur, err := f.store.GetTimer(f.ctx, owner.ID, d.Project.ID)
	require.NoError(t, err)
	assert.True(t, cur.RunningOn(task.ID))

	f.clock.Advance(30 * time.Second)
	_, err = f.svc.AdvanceTask(f.ctx, owner.ID, task.ID)
	assert.ErrorIs(t, err, ErrMinimumDwell)

	f.clock.Advance(31 * time.Second)
	got, err = f.svc.AdvanceTask(f.ctx, owner.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskDone, got.Status)
	require.NotNil(t, got.CompletedAt)

	cur, err = f.store.GetTimer(f.ctx, owner.ID, d.Project.ID)
	require.NoError(t, err)
	assert.False(t, cur.Running)

	p, err := f.store.GetProject(f.ctx, d.Project.ID)
	require.NoError(t, err)
	assert.Equal(t, 61*time.Second, p.TotalTime)

	entries, err := f.store.ListTimeEntries(f.ctx, store.TimeEntryFilter{ProjectID: d.Project.ID})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].TaskID)
	assert.Equal(t, task.ID, *entries[0].TaskID)
	assert.Equal(t, int64(61), entries[0].Seconds)
}

func TestAdvanceTask_DoneIsNoop(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner", domain.RoleEmployee, nil)
	d := f.project(t, owner, "a")

	task := d.Tasks[0]
	task.Status = domain.TaskDone
	require.NoError(t, f.store.UpdateTask(f.ctx, task))

	_, err := f.svc.StartTimer(f.ctx, owner.ID, d.Project.ID)
	require.NoError(t, err)

	got, err := f.svc.AdvanceTask(f.ctx, owner.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskDone, got.Status)

	timer, err := f.store.GetTimer(f.ctx, owner.ID, d.Project.ID)
	require.NoError(t, err)
	assert.True(t, timer.Running)
}

func TestAdvanceTask_LockedAndForeign(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner", domain.RoleEmployee, nil)
	other := f.user(t, "other", domain.RoleEmployee, nil)
	d := f.project(t, owner, "a")

	_, err := f.svc.AdvanceTask(f.ctx, other.ID, d.Tasks[0].ID)
	assert.ErrorIs(t, err, ErrNotFound)

	f.setReview(t, d.Project.ID, domain.ReviewPending)
	_, err = f.svc.AdvanceTask(f.ctx, owner.ID, d.Tasks[0].ID)
	assert.ErrorIs(t, err, ErrProjectLocked)

	_, err = f.svc.AdvanceTask(f.ctx, owner.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestAdvanceTask_DwellWithoutStartedAtUsesTimer(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner", domain.RoleEmployee, nil)
	d := f.project(t, owner, "a")

	// A task moved to in_progress without a recorded start falls back to
	// the timer running on it.
	task := d.Tasks[0]
	task.Status = domain.TaskInProgress
	require.NoError(t, f.store.UpdateTask(f.ctx, task))

	now := f.clock.Now()
	_, err := f.store.SaveTimer(f.ctx, domain.ProjectTimer{
		UserID: owner.ID, ProjectID: d.Project.ID, CurrentTaskID: &task.ID, Running: true, LastStartedAt: &now,
	})
	require.NoError(t, err)

	f.clock.Advance(59 * time.Second)
	_, err = f.svc.AdvanceTask(f.ctx, owner.ID, task.ID)
	assert.ErrorIs(t, err, ErrMinimumDwell)

	f.clock.Advance(time.Second)
	got, err := f.svc.AdvanceTask(f.ctx, owner.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskDone, got.Status)
}
