package domain

import (
	"strings"
	"time"
)

type Role string

const (
	RoleEmployee      Role = "employee"
	RoleManager       Role = "manager"
	RoleSectorManager Role = "sector_manager"
	RoleDirector      Role = "director"
)

func (r Role) Valid() bool {
	switch r {
	case RoleEmployee, RoleManager, RoleSectorManager, RoleDirector:
		return true
	}
	return false
}

// IsManager reports whether r heads a department or a sector.
func (r Role) IsManager() bool {
	return r == RoleManager || r == RoleSectorManager
}

// CanReview reports whether r may approve or reject subordinates' projects.
// Directors see the review queue but do not decide on it.
func (r Role) CanReview() bool {
	return r.IsManager()
}

func (r Role) SeesReviewQueue() bool {
	return r.IsManager() || r == RoleDirector
}

type Department struct {
	ID   int64
	Name string
}

type Profile struct {
	Patronymic    string
	Position      string
	PhoneInternal string
	Role          Role
	DepartmentID  *int64

	// ManagerID is the user id of the direct manager.
	ManagerID *int64
}

type User struct {
	ID        int64
	Username  string
	Email     string
	FirstName string
	LastName  string
	Superuser bool
	CreatedAt time.Time

	Profile Profile
}

func (u User) FullName() string {
	name := strings.Join(strings.Fields(u.LastName+" "+u.FirstName+" "+u.Profile.Patronymic), " ")
	if name == "" {
		return u.Username
	}
	return name
}

// ManagedBy reports whether managerID is u's direct manager.
func (u User) ManagedBy(managerID int64) bool {
	return u.Profile.ManagerID != nil && *u.Profile.ManagerID == managerID
}

func (u User) InDepartment(departmentID *int64) bool {
	if u.Profile.DepartmentID == nil || departmentID == nil {
		return u.Profile.DepartmentID == nil && departmentID == nil
	}
	return *u.Profile.DepartmentID == *departmentID
}

type Question struct {
	ID        int64
	UserID    int64
	Name      string
	Email     string
	Body      string
	Closed    bool
	CreatedAt time.Time
}
