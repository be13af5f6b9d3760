package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"math"
	"time"

	"github.com/google/uuid"

	"usemytime/internal/domain"
	"usemytime/internal/store"
)

const (
	dateLayout        = "2006-01-02"
	signatureValidity = 365
	noDepartment      = "No department"
)

// Period bounds task completion dates, both ends inclusive. A nil end is
// open.
type Period struct {
	Start *time.Time
	End   *time.Time
}

// ParsePeriod reads YYYY-MM-DD bounds. Empty or malformed values leave that
// end open.
func ParsePeriod(start, end string) Period {
	parse := func(v string) *time.Time {
		if v == "" {
			return nil
		}
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return nil
		}
		return &t
	}
	return Period{Start: parse(start), End: parse(end)}
}

func (p Period) Contains(t time.Time) bool {
	y, m, d := t.UTC().Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if p.Start != nil && day.Before(*p.Start) {
		return false
	}
	if p.End != nil && day.After(*p.End) {
		return false
	}
	return true
}

// Signature stamps a generated report.
type Signature struct {
	ReportID  string
	Hash      string
	ValidFrom time.Time
	ValidTo   time.Time
}

func sign(now time.Time) Signature {
	id := uuid.NewString()
	sum := sha256.Sum256([]byte(id + "|" + now.Format(dateLayout)))
	return Signature{
		ReportID:  id,
		Hash:      hex.EncodeToString(sum[:]),
		ValidFrom: now,
		ValidTo:   now.AddDate(0, 0, signatureValidity),
	}
}

type Duration struct {
	TotalSeconds int64
	Hours        int64
	Minutes      int64
	Seconds      int64
}

func splitDuration(total int64) Duration {
	h, m, s := domain.SplitSeconds(total)
	return Duration{TotalSeconds: total, Hours: h, Minutes: m, Seconds: s}
}

type ProjectRow struct {
	Project     domain.Project
	Tasks       []domain.Task
	Time        Duration
	CompletedAt time.Time
}

type EmployeeSummary struct {
	Employee   Account
	Projects   []ProjectRow
	Time       Duration
	TotalTasks int
	WorkDays   float64
}

type EmployeeReport struct {
	EmployeeSummary
	Period      Period
	GeneratedAt time.Time
	Author      domain.User
	Signature   Signature
}

type DepartmentTotal struct {
	Name      string
	Tasks     int
	Time      Duration
	Employees []int64
}

type TeamReport struct {
	// Department is set when the report was limited to one department.
	Department  *domain.Department
	Employees   []EmployeeSummary
	Time        Duration
	TotalTasks  int
	Departments []DepartmentTotal
	Period      Period
	GeneratedAt time.Time
	Author      domain.User
	Signature   Signature
}

// EmployeeReport summarizes the approved work of one employee. It is open to
// superusers, directors, the employee and their direct manager.
func (s *Service) EmployeeReport(ctx context.Context, actorID, employeeID int64, period Period) (EmployeeReport, error) {
	if employeeID <= 0 {
		return EmployeeReport{}, ErrInvalidID
	}
	me, err := actor(ctx, s.store, actorID)
	if err != nil {
		return EmployeeReport{}, err
	}
	employee, err := s.store.GetUser(ctx, employeeID)
	if err != nil {
		return EmployeeReport{}, notFound(err, "user %d", employeeID)
	}

	allowed := me.Superuser ||
		me.Profile.Role == domain.RoleDirector ||
		me.ID == employee.ID ||
		(me.Profile.Role.IsManager() && employee.ManagedBy(me.ID))
	if !allowed {
		return EmployeeReport{}, ErrForbidden
	}

	summary, err := summarize(ctx, s.store, employee, period)
	if err != nil {
		return EmployeeReport{}, err
	}

	now := s.clock()
	s.log.Info("employee report generated", "actor_id", actorID, "employee_id", employeeID)
	return EmployeeReport{
		EmployeeSummary: summary,
		Period:          period,
		GeneratedAt:     now,
		Author:          me,
		Signature:       sign(now),
	}, nil
}

// TeamReport summarizes a team. Managers get their direct subordinates;
// directors get one department, or the whole company when departmentID is
// zero. Reports not limited to a department also carry per-department
// totals.
func (s *Service) TeamReport(ctx context.Context, actorID, departmentID int64, period Period) (TeamReport, error) {
	me, err := actor(ctx, s.store, actorID)
	if err != nil {
		return TeamReport{}, err
	}

	var (
		filter store.UserFilter
		dept   *domain.Department
	)
	switch role := me.Profile.Role; {
	case role == domain.RoleDirector && departmentID > 0:
		d, err := s.store.GetDepartment(ctx, departmentID)
		if err != nil {
			return TeamReport{}, notFound(err, "department %d", departmentID)
		}
		dept = &d
		filter.DepartmentID = &d.ID
	case role == domain.RoleDirector:
	case role.IsManager():
		filter.ManagerID = &me.ID
	default:
		return TeamReport{}, ErrForbidden
	}

	team, err := s.store.ListUsers(ctx, filter)
	if err != nil {
		return TeamReport{}, err
	}

	report := TeamReport{Department: dept, Employees: make([]EmployeeSummary, 0, len(team)), Period: period}
	var total int64
	for _, u := range team {
		summary, err := summarize(ctx, s.store, u, period)
		if err != nil {
			return TeamReport{}, err
		}
		report.Employees = append(report.Employees, summary)
		total += summary.Time.TotalSeconds
		report.TotalTasks += summary.TotalTasks
	}
	report.Time = splitDuration(total)

	if dept == nil {
		report.Departments = departmentTotals(report.Employees)
	}

	now := s.clock()
	report.GeneratedAt = now
	report.Author = me
	report.Signature = sign(now)

	s.log.Info("team report generated", "actor_id", actorID, "department_id", departmentID, "employees", len(team))
	return report, nil
}

// summarize collects the employee's approved projects that have at least one
// task completed within the period.
func summarize(ctx context.Context, r store.Repository, u domain.User, period Period) (EmployeeSummary, error) {
	acc, err := account(ctx, r, u)
	if err != nil {
		return EmployeeSummary{}, err
	}
	projects, err := r.ListProjects(ctx, store.ProjectFilter{
		OwnerIDs:     []int64{u.ID},
		ReviewStatus: domain.ReviewApproved,
	})
	if err != nil {
		return EmployeeSummary{}, err
	}
	done, err := r.ListTasks(ctx, store.TaskFilter{
		ProjectIDs: projectIDs(projects),
		Statuses:   []domain.TaskStatus{domain.TaskDone},
	})
	if err != nil {
		return EmployeeSummary{}, err
	}

	byProject := make(map[int64][]domain.Task)
	taskCount := 0
	for _, t := range done {
		if t.CompletedAt == nil || !period.Contains(*t.CompletedAt) {
			continue
		}
		byProject[t.ProjectID] = append(byProject[t.ProjectID], t)
		taskCount++
	}

	summary := EmployeeSummary{Employee: acc, Projects: []ProjectRow{}, TotalTasks: taskCount}
	var total int64
	for _, p := range projects {
		tasks := byProject[p.ID]
		if len(tasks) == 0 {
			continue
		}
		seconds := int64(p.TotalTime / time.Second)
		total += seconds

		row := ProjectRow{Project: p, Tasks: tasks, Time: splitDuration(seconds)}
		for _, t := range tasks {
			if t.CompletedAt.After(row.CompletedAt) {
				row.CompletedAt = *t.CompletedAt
			}
		}
		summary.Projects = append(summary.Projects, row)
	}

	summary.Time = splitDuration(total)
	summary.WorkDays = workDays(total)
	return summary, nil
}

// workDays normalizes seconds to eight-hour days, rounded to hundredths.
func workDays(seconds int64) float64 {
	days := float64(seconds) / domain.WorkDay.Seconds()
	return math.Round(days*100) / 100
}

func departmentTotals(employees []EmployeeSummary) []DepartmentTotal {
	var (
		out   []DepartmentTotal
		index = map[string]int{}
		secs  []int64
	)
	for _, e := range employees {
		name := noDepartment
		if e.Employee.Department != nil {
			name = e.Employee.Department.Name
		}
		i, ok := index[name]
		if !ok {
			i = len(out)
			index[name] = i
			out = append(out, DepartmentTotal{Name: name})
			secs = append(secs, 0)
		}
		out[i].Tasks += e.TotalTasks
		out[i].Employees = append(out[i].Employees, e.Employee.User.ID)
		secs[i] += e.Time.TotalSeconds
	}
	for i := range out {
		out[i].Time = splitDuration(secs[i])
	}
	return out
}
