package dto

import (
	"usemytime/internal/domain"
	"usemytime/internal/service"
)

type ReviewRequest struct {
	Comment string `json:"comment"`
}

type ReviewItemResponse struct {
	Project ProjectResponse `json:"project"`
	Owner   UserResponse    `json:"owner"`
}

type CountResponse struct {
	Count int `json:"count"`
}

func ProjectDetail(d service.ProjectDetail) ProjectDetailResponse {
	out := ProjectDetailResponse{
		ProjectResponse: Project(d.Project),
		Tasks:           Tasks(d.Tasks),
		Attachments:     make([]AttachmentResponse, 0, len(d.Attachments)),
		AllTasksDone:    d.AllTasksDone,
		CanSubmitReview: d.CanSubmitReview,
	}
	out.TotalSeconds = d.TotalSeconds
	out.TotalTime = HMS(d.TotalSeconds)
	for _, a := range d.Attachments {
		out.Attachments = append(out.Attachments, Attachment(a))
	}
	if d.Timer != nil {
		t := Timer(*d.Timer)
		out.Timer = &t
	}
	return out
}

func ReviewItems(items []service.ReviewItem) []ReviewItemResponse {
	out := make([]ReviewItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, ReviewItemResponse{
			Project: Project(it.Project),
			Owner:   User(it.Owner, nil),
		})
	}
	return out
}

func Account(a service.Account) UserResponse {
	return User(a.User, a.Department)
}

func Team(members []service.TeamMember) []TeamMemberResponse {
	out := make([]TeamMemberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, TeamMemberResponse{
			UserResponse: Account(m.Account),
			Tasks:        Tasks(m.Tasks),
		})
	}
	return out
}

func Question(q domain.Question) QuestionResponse {
	return QuestionResponse{ID: q.ID, Name: q.Name, Email: q.Email, Body: q.Body, CreatedAt: q.CreatedAt}
}
