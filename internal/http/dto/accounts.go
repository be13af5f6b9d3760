package dto

import (
	"time"

	"usemytime/internal/domain"
)

type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// ProfileRequest fields left out of the body are not changed.
type ProfileRequest struct {
	Username      *string `json:"username"`
	Email         *string `json:"email"`
	FirstName     *string `json:"first_name"`
	LastName      *string `json:"last_name"`
	Patronymic    *string `json:"patronymic"`
	Position      *string `json:"position"`
	PhoneInternal *string `json:"phone_internal"`
	DepartmentID  *int64  `json:"department_id"`
}

type DepartmentResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type UserResponse struct {
	ID            int64               `json:"id"`
	Username      string              `json:"username"`
	Email         string              `json:"email"`
	FirstName     string              `json:"first_name"`
	LastName      string              `json:"last_name"`
	Patronymic    string              `json:"patronymic,omitempty"`
	FullName      string              `json:"full_name"`
	Position      string              `json:"position,omitempty"`
	PhoneInternal string              `json:"phone_internal,omitempty"`
	Role          string              `json:"role"`
	Superuser     bool                `json:"superuser,omitempty"`
	ManagerID     *int64              `json:"manager_id,omitempty"`
	Department    *DepartmentResponse `json:"department,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
}

type TeamMemberResponse struct {
	UserResponse
	Tasks []TaskResponse `json:"tasks"`
}

func Department(d domain.Department) DepartmentResponse {
	return DepartmentResponse{ID: d.ID, Name: d.Name}
}

func User(u domain.User, dep *domain.Department) UserResponse {
	out := UserResponse{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Patronymic:    u.Profile.Patronymic,
		FullName:      u.FullName(),
		Position:      u.Profile.Position,
		PhoneInternal: u.Profile.PhoneInternal,
		Role:          string(u.Profile.Role),
		Superuser:     u.Superuser,
		ManagerID:     u.Profile.ManagerID,
		CreatedAt:     u.CreatedAt,
	}
	if dep != nil {
		d := Department(*dep)
		out.Department = &d
	}
	return out
}

type QuestionRequest struct {
	Body string `json:"body"`
}

type QuestionResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}
