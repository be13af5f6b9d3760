package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"usemytime/internal/domain"
	"usemytime/internal/store"
)

type Registration struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
}

// ProfileUpdate carries the editable account fields; nil leaves a field as
// is. A zero DepartmentID detaches the user from their department.
type ProfileUpdate struct {
	Username      *string
	Email         *string
	FirstName     *string
	LastName      *string
	Patronymic    *string
	Position      *string
	PhoneInternal *string
	DepartmentID  *int64
}

type Account struct {
	User       domain.User
	Department *domain.Department
}

type TeamMember struct {
	Account
	Tasks []domain.Task
}

func (s *Service) RegisterUser(ctx context.Context, in Registration) (domain.User, error) {
	u := domain.User{
		Username:  strings.TrimSpace(in.Username),
		Email:     strings.TrimSpace(in.Email),
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		CreatedAt: s.clock(),
		Profile:   domain.Profile{Role: domain.RoleEmployee},
	}
	if u.Username == "" || !validEmail(u.Email) {
		return domain.User{}, ErrInvalidInput
	}

	err := s.store.Atomic(ctx, func(r store.Repository) error {
		if err := emailFree(ctx, r, u.Email, 0); err != nil {
			return err
		}
		created, err := r.CreateUser(ctx, u)
		if err != nil {
			return conflict(err)
		}
		u = created
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}

	s.log.Info("user registered", "user_id", u.ID, "username", u.Username)
	return u, nil
}

func (s *Service) Me(ctx context.Context, actorID int64) (Account, error) {
	me, err := actor(ctx, s.store, actorID)
	if err != nil {
		return Account{}, err
	}
	return account(ctx, s.store, me)
}

func (s *Service) UpdateOwnProfile(ctx context.Context, actorID int64, upd ProfileUpdate) (Account, error) {
	var out Account
	err := s.store.Atomic(ctx, func(r store.Repository) error {
		me, err := actor(ctx, r, actorID)
		if err != nil {
			return err
		}
		if err := applyProfile(ctx, r, &me, upd); err != nil {
			return err
		}
		out, err = account(ctx, r, me)
		return err
	})
	return out, err
}

// MyTeam lists the direct subordinates of a manager with the tasks of their
// active projects.
func (s *Service) MyTeam(ctx context.Context, actorID int64) ([]TeamMember, error) {
	me, err := actor(ctx, s.store, actorID)
	if err != nil {
		return nil, err
	}
	if !me.Profile.Role.IsManager() {
		return nil, ErrForbidden
	}

	subs, err := s.store.ListUsers(ctx, store.UserFilter{ManagerID: &me.ID})
	if err != nil {
		return nil, err
	}

	team := make([]TeamMember, 0, len(subs))
	for _, u := range subs {
		acc, err := account(ctx, s.store, u)
		if err != nil {
			return nil, err
		}
		projects, err := s.store.ListProjects(ctx, store.ProjectFilter{
			OwnerIDs: []int64{u.ID},
			Archived: store.Bool(false),
		})
		if err != nil {
			return nil, err
		}
		tasks, err := s.store.ListTasks(ctx, store.TaskFilter{ProjectIDs: projectIDs(projects)})
		if err != nil {
			return nil, err
		}
		team = append(team, TeamMember{Account: acc, Tasks: tasks})
	}
	return team, nil
}

// EditEmployee lets a manager edit a direct subordinate from their own
// department. Directors may edit anyone.
func (s *Service) EditEmployee(ctx context.Context, actorID, userID int64, upd ProfileUpdate) (Account, error) {
	if userID <= 0 {
		return Account{}, ErrInvalidID
	}

	var out Account
	err := s.store.Atomic(ctx, func(r store.Repository) error {
		me, err := actor(ctx, r, actorID)
		if err != nil {
			return err
		}
		role := me.Profile.Role
		if !role.IsManager() && role != domain.RoleDirector {
			return ErrForbidden
		}

		target, err := r.GetUser(ctx, userID)
		if err != nil {
			return notFound(err, "user %d", userID)
		}
		if role != domain.RoleDirector {
			if !target.ManagedBy(me.ID) || !target.InDepartment(me.Profile.DepartmentID) {
				return ErrForbidden
			}
		}

		if err := applyProfile(ctx, r, &target, upd); err != nil {
			return err
		}
		out, err = account(ctx, r, target)
		return err
	})
	if err != nil {
		return Account{}, err
	}

	s.log.Info("employee updated", "actor_id", actorID, "user_id", userID)
	return out, nil
}

func (s *Service) ListDepartments(ctx context.Context, actorID int64) ([]domain.Department, error) {
	if _, err := actor(ctx, s.store, actorID); err != nil {
		return nil, err
	}
	return s.store.ListDepartments(ctx)
}

func applyProfile(ctx context.Context, r store.Repository, u *domain.User, upd ProfileUpdate) error {
	if upd.Username != nil {
		name := strings.TrimSpace(*upd.Username)
		if name == "" {
			return fmt.Errorf("username: %w", ErrInvalidInput)
		}
		u.Username = name
	}
	if upd.Email != nil {
		email := strings.TrimSpace(*upd.Email)
		if !validEmail(email) {
			return fmt.Errorf("email: %w", ErrInvalidInput)
		}
		if err := emailFree(ctx, r, email, u.ID); err != nil {
			return err
		}
		u.Email = email
	}
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	set(&u.FirstName, upd.FirstName)
	set(&u.LastName, upd.LastName)
	set(&u.Profile.Patronymic, upd.Patronymic)
	set(&u.Profile.Position, upd.Position)
	set(&u.Profile.PhoneInternal, upd.PhoneInternal)

	if upd.DepartmentID != nil {
		if *upd.DepartmentID == 0 {
			u.Profile.DepartmentID = nil
		} else {
			if _, err := r.GetDepartment(ctx, *upd.DepartmentID); err != nil {
				return notFound(err, "department %d", *upd.DepartmentID)
			}
			u.Profile.DepartmentID = store.Int64(*upd.DepartmentID)
		}
	}

	return conflict(r.UpdateUser(ctx, *u))
}

// emailFree fails with ErrConflict when another user already has email.
func emailFree(ctx context.Context, r store.Repository, email string, selfID int64) error {
	users, err := r.ListUsers(ctx, store.UserFilter{Email: email})
	if err != nil {
		return err
	}
	for _, u := range users {
		if u.ID != selfID {
			return fmt.Errorf("email %s: %w", email, ErrConflict)
		}
	}
	return nil
}

func account(ctx context.Context, r store.Repository, u domain.User) (Account, error) {
	acc := Account{User: u}
	if u.Profile.DepartmentID == nil {
		return acc, nil
	}
	d, err := r.GetDepartment(ctx, *u.Profile.DepartmentID)
	if errors.Is(err, store.ErrNotFound) {
		return acc, nil
	}
	if err != nil {
		return Account{}, err
	}
	acc.Department = &d
	return acc, nil
}

func validEmail(email string) bool {
	at := strings.IndexByte(email, '@')
	return at > 0 && at < len(email)-1 && !strings.ContainsAny(email, " \t\r\n")
}

func projectIDs(projects []domain.Project) []int64 {
	ids := make([]int64, 0, len(projects))
	for _, p := range projects {
		ids = append(ids, p.ID)
	}
	return ids
}
