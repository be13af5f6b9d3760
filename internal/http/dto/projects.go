package dto

import (
	"fmt"
	"time"

	"usemytime/internal/domain"
)

type ProjectRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tasks       []string `json:"tasks"`
}

type ProjectResponse struct {
	ID           int64     `json:"id"`
	OwnerID      int64     `json:"owner_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"created_at"`
	Archived     bool      `json:"archived"`
	TotalSeconds int64     `json:"total_seconds"`
	TotalTime    string    `json:"total_time"`

	ReviewStatus      string     `json:"review_status"`
	ReviewSubmittedBy *int64     `json:"review_submitted_by,omitempty"`
	ReviewSubmittedAt *time.Time `json:"review_submitted_at,omitempty"`
	ReviewedBy        *int64     `json:"reviewed_by,omitempty"`
	ReviewedAt        *time.Time `json:"reviewed_at,omitempty"`
	SubmitComment     string     `json:"submit_comment,omitempty"`
	ReviewComment     string     `json:"review_comment,omitempty"`
}

type ProjectDetailResponse struct {
	ProjectResponse
	Tasks           []TaskResponse       `json:"tasks"`
	Attachments     []AttachmentResponse `json:"attachments"`
	Timer           *TimerResponse       `json:"timer,omitempty"`
	AllTasksDone    bool                 `json:"all_tasks_done"`
	CanSubmitReview bool                 `json:"can_submit_review"`
}

type TaskResponse struct {
	ID          int64      `json:"id"`
	ProjectID   int64      `json:"project_id"`
	Text        string     `json:"text"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type AttachmentResponse struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	UploadedBy int64     `json:"uploaded_by"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type TimerResponse struct {
	ID            int64      `json:"id"`
	ProjectID     int64      `json:"project_id"`
	CurrentTaskID *int64     `json:"current_task_id,omitempty"`
	Running       bool       `json:"running"`
	LastStartedAt *time.Time `json:"last_started_at,omitempty"`
}

type StopTimerResponse struct {
	ProjectID int64 `json:"project_id"`
	Seconds   int64 `json:"seconds"`
}

func Project(p domain.Project) ProjectResponse {
	total := int64(p.TotalTime / time.Second)
	return ProjectResponse{
		ID:                p.ID,
		OwnerID:           p.OwnerID,
		Title:             p.Title,
		Description:       p.Description,
		CreatedAt:         p.CreatedAt,
		Archived:          p.Archived,
		TotalSeconds:      total,
		TotalTime:         HMS(total),
		ReviewStatus:      string(p.ReviewStatus),
		ReviewSubmittedBy: p.ReviewSubmittedBy,
		ReviewSubmittedAt: p.ReviewSubmittedAt,
		ReviewedBy:        p.ReviewedBy,
		ReviewedAt:        p.ReviewedAt,
		SubmitComment:     p.SubmitComment,
		ReviewComment:     p.ReviewComment,
	}
}

func Projects(ps []domain.Project) []ProjectResponse {
	out := make([]ProjectResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, Project(p))
	}
	return out
}

func Task(t domain.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		ProjectID:   t.ProjectID,
		Text:        t.Text,
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt,
		StartedAt:   t.StartedAt,
		CompletedAt: t.CompletedAt,
	}
}

func Tasks(ts []domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(ts))
	for _, t := range ts {
		out = append(out, Task(t))
	}
	return out
}

func Attachment(a domain.Attachment) AttachmentResponse {
	return AttachmentResponse{
		ID:         a.ID,
		Name:       a.Name,
		Size:       a.Size,
		UploadedBy: a.UploadedBy,
		UploadedAt: a.UploadedAt,
	}
}

func Timer(t domain.ProjectTimer) TimerResponse {
	return TimerResponse{
		ID:            t.ID,
		ProjectID:     t.ProjectID,
		CurrentTaskID: t.CurrentTaskID,
		Running:       t.Running,
		LastStartedAt: t.LastStartedAt,
	}
}

// HMS formats whole seconds as H:MM:SS.
func HMS(total int64) string {
	h, m, s := domain.SplitSeconds(total)
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}
