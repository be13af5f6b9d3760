package service

import (
	"context"
	"fmt"
	"strings"

	"usemytime/internal/domain"
	"usemytime/internal/store"
)

// Directory is an initial set of departments and staff.
type Directory struct {
	Departments []string
	Users       []DirectoryUser
}

type DirectoryUser struct {
	Username      string
	Email         string
	FirstName     string
	LastName      string
	Patronymic    string
	Position      string
	PhoneInternal string
	Role          domain.Role
	Superuser     bool
	// Department and Manager refer to a department name and a username.
	Department string
	Manager    string
}

type SeedResult struct {
	Loaded      bool
	Departments int
	Users       int
}

// Seed loads dir into an empty installation. When any user exists nothing
// is written and Loaded is false.
func (s *Service) Seed(ctx context.Context, dir Directory) (SeedResult, error) {
	var res SeedResult
	err := s.store.Atomic(ctx, func(r store.Repository) error {
		existing, err := r.ListUsers(ctx, store.UserFilter{})
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			res.Users = len(existing)
			return nil
		}

		depts := make(map[string]int64, len(dir.Departments))
		addDept := func(name string) error {
			name = strings.TrimSpace(name)
			if name == "" {
				return nil
			}
			if _, ok := depts[name]; ok {
				return nil
			}
			d, err := r.CreateDepartment(ctx, domain.Department{Name: name})
			if err != nil {
				return conflict(err)
			}
			depts[name] = d.ID
			return nil
		}
		for _, name := range dir.Departments {
			if err := addDept(name); err != nil {
				return err
			}
		}

		users := make(map[string]domain.User, len(dir.Users))
		emails := make(map[string]string, len(dir.Users))
		for i, du := range dir.Users {
			role := du.Role
			if role == "" {
				role = domain.RoleEmployee
			}
			username := strings.TrimSpace(du.Username)
			if username == "" || !role.Valid() {
				return fmt.Errorf("users[%d]: %w", i, ErrInvalidInput)
			}
			if strings.TrimSpace(du.Manager) == username {
				return fmt.Errorf("user %q manages themselves: %w", username, ErrInvalidInput)
			}
			// Email is optional in a directory, but must be valid and unique
			// when given.
			if email := strings.ToLower(strings.TrimSpace(du.Email)); email != "" {
				if !validEmail(email) {
					return fmt.Errorf("user %q email %q: %w", username, du.Email, ErrInvalidInput)
				}
				if other, ok := emails[email]; ok {
					return fmt.Errorf("email %s of %q and %q: %w", email, other, username, ErrConflict)
				}
				emails[email] = username
			}
			if err := addDept(du.Department); err != nil {
				return err
			}

			u := domain.User{
				Username:  username,
				Email:     strings.TrimSpace(du.Email),
				FirstName: du.FirstName,
				LastName:  du.LastName,
				Superuser: du.Superuser,
				CreatedAt: s.clock(),
				Profile: domain.Profile{
					Patronymic:    du.Patronymic,
					Position:      du.Position,
					PhoneInternal: du.PhoneInternal,
					Role:          role,
				},
			}
			if id, ok := depts[strings.TrimSpace(du.Department)]; ok {
				u.Profile.DepartmentID = store.Int64(id)
			}
			created, err := r.CreateUser(ctx, u)
			if err != nil {
				return conflict(err)
			}
			users[created.Username] = created
		}

		// Managers may appear after their subordinates.
		for _, du := range dir.Users {
			if strings.TrimSpace(du.Manager) == "" {
				continue
			}
			manager, ok := users[strings.TrimSpace(du.Manager)]
			if !ok {
				return fmt.Errorf("manager %q of %q: %w", du.Manager, du.Username, ErrNotFound)
			}
			u := users[strings.TrimSpace(du.Username)]
			u.Profile.ManagerID = store.Int64(manager.ID)
			if err := r.UpdateUser(ctx, u); err != nil {
				return err
			}
		}

		res = SeedResult{Loaded: true, Departments: len(depts), Users: len(users)}
		return nil
	})
	if err != nil {
		return SeedResult{}, err
	}

	if res.Loaded {
		s.log.Info("directory loaded", "departments", res.Departments, "users", res.Users)
	}
	return res, nil
}
