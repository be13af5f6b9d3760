package dto

import (
	"time"

	"usemytime/internal/service"
)

const dateLayout = "2006-01-02"

type DurationResponse struct {
	TotalSeconds int64  `json:"total_seconds"`
	Hours        int64  `json:"hours"`
	Minutes      int64  `json:"minutes"`
	Seconds      int64  `json:"seconds"`
	Display      string `json:"display"`
}

type PeriodResponse struct {
	Start string `json:"start_date,omitempty"`
	End   string `json:"end_date,omitempty"`
}

type SignatureResponse struct {
	ReportID  string    `json:"report_id"`
	Hash      string    `json:"hash"`
	ValidFrom time.Time `json:"valid_from"`
	ValidTo   time.Time `json:"valid_to"`
}

type ProjectRowResponse struct {
	Project     ProjectResponse  `json:"project"`
	Tasks       []TaskResponse   `json:"tasks"`
	Time        DurationResponse `json:"time"`
	CompletedAt time.Time        `json:"completed_at"`
}

type EmployeeSummaryResponse struct {
	Employee   UserResponse         `json:"employee"`
	Projects   []ProjectRowResponse `json:"projects"`
	Time       DurationResponse     `json:"time"`
	TotalTasks int                  `json:"total_tasks"`
	WorkDays   float64              `json:"work_days"`
}

type EmployeeReportResponse struct {
	EmployeeSummaryResponse
	Period      PeriodResponse    `json:"period"`
	GeneratedAt time.Time         `json:"generated_at"`
	Author      UserResponse      `json:"author"`
	Signature   SignatureResponse `json:"signature"`
}

type DepartmentTotalResponse struct {
	Name      string           `json:"name"`
	Tasks     int              `json:"tasks"`
	Time      DurationResponse `json:"time"`
	Employees []int64          `json:"employees"`
}

type TeamReportResponse struct {
	Department  *DepartmentResponse       `json:"department,omitempty"`
	Employees   []EmployeeSummaryResponse `json:"employees"`
	Time        DurationResponse          `json:"time"`
	TotalTasks  int                       `json:"total_tasks"`
	Departments []DepartmentTotalResponse `json:"departments,omitempty"`
	Period      PeriodResponse            `json:"period"`
	GeneratedAt time.Time                 `json:"generated_at"`
	Author      UserResponse              `json:"author"`
	Signature   SignatureResponse         `json:"signature"`
}

func Duration(d service.Duration) DurationResponse {
	return DurationResponse{
		TotalSeconds: d.TotalSeconds,
		Hours:        d.Hours,
		Minutes:      d.Minutes,
		Seconds:      d.Seconds,
		Display:      HMS(d.TotalSeconds),
	}
}

func Period(p service.Period) PeriodResponse {
	var out PeriodResponse
	if p.Start != nil {
		out.Start = p.Start.Format(dateLayout)
	}
	if p.End != nil {
		out.End = p.End.Format(dateLayout)
	}
	return out
}

func Signature(s service.Signature) SignatureResponse {
	return SignatureResponse{ReportID: s.ReportID, Hash: s.Hash, ValidFrom: s.ValidFrom, ValidTo: s.ValidTo}
}

func EmployeeSummary(e service.EmployeeSummary) EmployeeSummaryResponse {
	out := EmployeeSummaryResponse{
		Employee:   Account(e.Employee),
		Projects:   make([]ProjectRowResponse, 0, len(e.Projects)),
		Time:       Duration(e.Time),
		TotalTasks: e.TotalTasks,
		WorkDays:   e.WorkDays,
	}
	for _, row := range e.Projects {
		out.Projects = append(out.Projects, ProjectRowResponse{
			Project:     Project(row.Project),
			Tasks:       Tasks(row.Tasks),
			Time:        Duration(row.Time),
			CompletedAt: row.CompletedAt,
		})
	}
	return out
}

func EmployeeReport(r service.EmployeeReport) EmployeeReportResponse {
	return EmployeeReportResponse{
		EmployeeSummaryResponse: EmployeeSummary(r.EmployeeSummary),
		Period:                  Period(r.Period),
		GeneratedAt:             r.GeneratedAt,
		Author:                  User(r.Author, nil),
		Signature:               Signature(r.Signature),
	}
}

func TeamReport(r service.TeamReport) TeamReportResponse {
	out := TeamReportResponse{
		Employees:   make([]EmployeeSummaryResponse, 0, len(r.Employees)),
		Time:        Duration(r.Time),
		TotalTasks:  r.TotalTasks,
		Period:      Period(r.Period),
		GeneratedAt: r.GeneratedAt,
		Author:      User(r.Author, nil),
		Signature:   Signature(r.Signature),
	}
	if r.Department != nil {
		d := Department(*r.Department)
		out.Department = &d
	}
	for _, e := range r.Employees {
		out.Employees = append(out.Employees, EmployeeSummary(e))
	}
	for _, d := range r.Departments {
		out.Departments = append(out.Departments, DepartmentTotalResponse{
			Name:      d.Name,
			Tasks:     d.Tasks,
			Time:      Duration(d.Time),
			Employees: d.Employees,
		})
	}
	return out
}
