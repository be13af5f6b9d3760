package service

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"usemytime/internal/domain"
)

func TestParsePeriod(t *testing.T) {
	p := ParsePeriod("2025-03-01", "garbage")
	require.NotNil(t, p.Start)
	assert.Nil(t, p.End)

	assert.True(t, p.Contains(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, p.Contains(time.Date(2025, 3, 1, 23, 59, 0, 0, time.UTC)))
	assert.False(t, p.Contains(time.Date(2025, 2, 28, 23, 59, 0, 0, time.UTC)))

	closed := ParsePeriod("2025-03-01", "2025-03-01")
	assert.True(t, closed.Contains(time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC)))
	assert.False(t, closed.Contains(time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)))

	open := ParsePeriod("", "")
	assert.True(t, open.Contains(time.Now()))
}

func TestWorkDays(t *testing.T) {
	assert.Equal(t, 1.0, workDays(8*3600))
	assert.Equal(t, 0.33, workDays(9500))
	assert.Equal(t, 0.0, workDays(0))
}

// approved builds an approved project for owner with tasks done on the
// fixture clock, after spending worked on it.
func (f *fixture) approved(t *testing.T, owner, reviewer domain.User, worked time.Duration, tasks ...string) ProjectDetail {
	t.Helper()
	d := f.project(t, owner, tasks...)
	f.finish(t, owner, d)

	p, err := f.store.GetProject(f.ctx, d.Project.ID)
	require.NoError(t, err)
	p.TotalTime = worked
	require.NoError(t, f.store.UpdateProject(f.ctx, p))

	_, err = f.svc.SubmitForReview(f.ctx, owner.ID, d.Project.ID, "done", nil)
	require.NoError(t, err)
	_, err = f.svc.ApproveProject(f.ctx, reviewer.ID, d.Project.ID)
	require.NoError(t, err)
	return d
}

func TestEmployeeReport(t *testing.T) {
	f := newFixture(t)
	boss := f.user(t, "boss", domain.RoleManager, nil)
	sub := f.user(t, "sub", domain.RoleEmployee, &boss)
	peer := f.user(t, "peer", domain.RoleEmployee, nil)

	first := f.approved(t, sub, boss, 4*time.Hour+30*time.Minute+15*time.Second, "a", "b")
	f.clock.Advance(48 * time.Hour)
	f.approved(t, sub, boss, 3*time.Hour+29*time.Minute+45*time.Second, "c")
	// Finished but never approved: not reported.
	unreviewed := f.project(t, sub, "d")
	f.finish(t, sub, unreviewed)

	r, err := f.svc.EmployeeReport(f.ctx, boss.ID, sub.ID, Period{})
	require.NoError(t, err)
	assert.Len(t, r.Projects, 2)
	assert.Equal(t, 3, r.TotalTasks)
	assert.Equal(t, int64(8), r.Time.Hours)
	assert.Equal(t, int64(0), r.Time.Minutes)
	assert.Equal(t, 1.0, r.WorkDays)
	assert.Equal(t, boss.ID, r.Author.ID)

	sum := sha256.Sum256([]byte(r.Signature.ReportID + "|" + r.GeneratedAt.Format("2006-01-02")))
	assert.Equal(t, hex.EncodeToString(sum[:]), r.Signature.Hash)
	assert.Equal(t, r.GeneratedAt.AddDate(0, 0, 365), r.Signature.ValidTo)

	// Only the first project's tasks were completed on March 3rd.
	period := ParsePeriod("2025-03-03", "2025-03-03")
	r, err = f.svc.EmployeeReport(f.ctx, sub.ID, sub.ID, period)
	require.NoError(t, err)
	require.Len(t, r.Projects, 1)
	assert.Equal(t, first.Project.ID, r.Projects[0].Project.ID)
	assert.Equal(t, 2, r.TotalTasks)
	assert.Equal(t, int64(4), r.Projects[0].Time.Hours)
	assert.Equal(t, int64(30), r.Projects[0].Time.Minutes)
	assert.Equal(t, int64(15), r.Projects[0].Time.Seconds)
	assert.False(t, r.Projects[0].CompletedAt.IsZero())

	_, err = f.svc.EmployeeReport(f.ctx, peer.ID, sub.ID, Period{})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.EmployeeReport(f.ctx, boss.ID, 999, Period{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTeamReport(t *testing.T) {
	f := newFixture(t)
	dev, err := f.store.CreateDepartment(f.ctx, domain.Department{Name: "Dev"})
	require.NoError(t, err)

	director := f.user(t, "dir", domain.RoleDirector, nil)
	boss, err := f.store.CreateUser(f.ctx, domain.User{
		Username: "boss",
		Profile:  domain.Profile{Role: domain.RoleManager, DepartmentID: &dev.ID},
	})
	require.NoError(t, err)
	sub := f.user(t, "sub", domain.RoleEmployee, &boss)
	lead := f.user(t, "lead", domain.RoleSectorManager, nil)
	loner := f.user(t, "loner", domain.RoleEmployee, &lead)

	f.approved(t, sub, boss, 2*time.Hour, "a")
	f.approved(t, loner, lead, time.Hour, "b")

	r, err := f.svc.TeamReport(f.ctx, boss.ID, 0, Period{})
	require.NoError(t, err)
	require.Len(t, r.Employees, 1)
	assert.Equal(t, sub.ID, r.Employees[0].Employee.User.ID)
	assert.Equal(t, int64(2), r.Time.Hours)
	assert.Equal(t, 1, r.TotalTasks)

	r, err = f.svc.TeamReport(f.ctx, director.ID, dev.ID, Period{})
	require.NoError(t, err)
	require.NotNil(t, r.Department)
	assert.Len(t, r.Employees, 2)
	assert.Nil(t, r.Departments)

	r, err = f.svc.TeamReport(f.ctx, director.ID, 0, Period{})
	require.NoError(t, err)
	assert.Len(t, r.Employees, 5)
	assert.Equal(t, int64(3), r.Time.Hours)
	assert.Equal(t, 2, r.TotalTasks)
	require.Len(t, r.Departments, 2)
	assert.Equal(t, noDepartment, r.Departments[0].Name)
	assert.Equal(t, int64(1), r.Departments[0].Time.Hours)
	assert.Equal(t, 1, r.Departments[0].Tasks)
	assert.ElementsMatch(t, []int64{director.ID, lead.ID, loner.ID}, r.Departments[0].Employees)
	assert.Equal(t, "Dev", r.Departments[1].Name)
	assert.Equal(t, int64(2), r.Departments[1].Time.Hours)

	_, err = f.svc.TeamReport(f.ctx, sub.ID, 0, Period{})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.TeamReport(f.ctx, director.ID, 999, Period{})
	assert.ErrorIs(t, err, ErrNotFound)
}
