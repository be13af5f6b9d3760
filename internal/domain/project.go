package domain

import "time"

type ReviewStatus string

const (
	ReviewNone     ReviewStatus = "none"
	ReviewPending  ReviewStatus = "in_review"
	ReviewApproved ReviewStatus = "approved"
	ReviewRejected ReviewStatus = "rejected"
)

// Locked reports whether tasks and timers of a project in this status are
// frozen.
func (s ReviewStatus) Locked() bool {
	return s == ReviewPending || s == ReviewApproved
}

func (s ReviewStatus) CanSubmit() bool {
	return s == ReviewNone || s == ReviewRejected
}

type Project struct {
	ID          int64
	OwnerID     int64
	Title       string
	Description string
	CreatedAt   time.Time
	Archived    bool
	TotalTime   time.Duration

	ReviewStatus      ReviewStatus
	ReviewSubmittedBy *int64
	ReviewSubmittedAt *time.Time
	ReviewedBy        *int64
	ReviewedAt        *time.Time
	ReviewComment     string
	SubmitComment     string
}

// HMS splits the accumulated time into whole hours, minutes and seconds.
func (p Project) HMS() (hours, minutes, seconds int64) {
	return SplitSeconds(int64(p.TotalTime / time.Second))
}

func SplitSeconds(total int64) (hours, minutes, seconds int64) {
	return total / 3600, (total % 3600) / 60, total % 60
}

type Attachment struct {
	ID         int64
	ProjectID  int64
	Name       string
	Size       int64
	Path       string
	UploadedBy int64
	UploadedAt time.Time
}
