package memory

import (
	"context"
	"fmt"
	"strings"

	"usemytime/internal/domain"
	"usemytime/internal/store"
)

func (t *tables) CreateDepartment(_ context.Context, d domain.Department) (domain.Department, error) {
	for _, existing := range t.departments {
		if existing.Name == d.Name {
			return domain.Department{}, fmt.Errorf("department %q: %w", d.Name, store.ErrConflict)
		}
	}
	d.ID = t.nextID("departments")
	t.departments[d.ID] = d
	return d, nil
}

func (t *tables) GetDepartment(_ context.Context, id int64) (domain.Department, error) {
	d, ok := t.departments[id]
	if !ok {
		return domain.Department{}, store.ErrNotFound
	}
	return d, nil
}

func (t *tables) ListDepartments(_ context.Context) ([]domain.Department, error) {
	return sortedValues(t.departments, nil), nil
}

func (t *tables) CreateUser(_ context.Context, u domain.User) (domain.User, error) {
	for _, existing := range t.users {
		if existing.Username == u.Username {
			return domain.User{}, fmt.Errorf("user %q: %w", u.Username, store.ErrConflict)
		}
	}
	u.ID = t.nextID("users")
	t.users[u.ID] = u
	return u, nil
}

func (t *tables) GetUser(_ context.Context, id int64) (domain.User, error) {
	u, ok := t.users[id]
	if !ok {
		return domain.User{}, store.ErrNotFound
	}
	return u, nil
}

func (t *tables) GetUserByUsername(_ context.Context, username string) (domain.User, error) {
	for _, u := range t.users {
		if u.Username == username {
			return u, nil
		}
	}
	return domain.User{}, store.ErrNotFound
}

func (t *tables) UpdateUser(_ context.Context, u domain.User) error {
	if _, ok := t.users[u.ID]; !ok {
		return store.ErrNotFound
	}
	for _, existing := range t.users {
		if existing.ID != u.ID && existing.Username == u.Username {
			return fmt.Errorf("user %q: %w", u.Username, store.ErrConflict)
		}
	}
	t.users[u.ID] = u
	return nil
}

func (t *tables) ListUsers(_ context.Context, f store.UserFilter) ([]domain.User, error) {
	return sortedValues(t.users, func(u domain.User) bool {
		if !matchID(f.IDs, u.ID) {
			return false
		}
		if f.ManagerID != nil && !u.ManagedBy(*f.ManagerID) {
			return false
		}
		if f.DepartmentID != nil && !u.InDepartment(f.DepartmentID) {
			return false
		}
		if f.Email != "" && !strings.EqualFold(u.Email, f.Email) {
			return false
		}
		return true
	}), nil
}

func (t *tables) CreateQuestion(_ context.Context, q domain.Question) (domain.Question, error) {
	q.ID = t.nextID("questions")
	t.questions[q.ID] = q
	return q, nil
}

func (t *tables) ListQuestions(_ context.Context) ([]domain.Question, error) {
	return sortedValues(t.questions, nil), nil
}
