package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"usemytime/internal/domain"
	"usemytime/internal/store"
)

func (r repo) CreateDepartment(ctx context.Context, d domain.Department) (domain.Department, error) {
	id, err := r.insert(ctx, `INSERT INTO departments (name) VALUES (?)`, d.Name)
	if err != nil {
		return domain.Department{}, fmt.Errorf("department %q: %w", d.Name, err)
	}
	d.ID = id
	return d, nil
}

func (r repo) GetDepartment(ctx context.Context, id int64) (domain.Department, error) {
	var d domain.Department
	err := r.q.QueryRowContext(ctx, `SELECT id, name FROM departments WHERE id = ?`, id).Scan(&d.ID, &d.Name)
	if err != nil {
		return domain.Department{}, translate(err)
	}
	return d, nil
}

func (r repo) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT id, name FROM departments ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Department
	for rows.Next() {
		var d domain.Department
		if err := rows.Scan(&d.ID, &d.Name); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

const userColumns = `id, username, email, first_name, last_name, superuser, created_at,
	patronymic, position, phone_internal, role, department_id, manager_id`

func scanUser(row interface{ Scan(...any) error }) (domain.User, error) {
	var (
		u          domain.User
		createdAt  int64
		role       string
		department sql.NullInt64
		manager    sql.NullInt64
	)
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &u.Superuser, &createdAt,
		&u.Profile.Patronymic, &u.Profile.Position, &u.Profile.PhoneInternal, &role, &department, &manager)
	if err != nil {
		return domain.User{}, err
	}
	u.CreatedAt = fromNanos(createdAt)
	u.Profile.Role = domain.Role(role)
	u.Profile.DepartmentID = idPtr(department)
	u.Profile.ManagerID = idPtr(manager)
	return u, nil
}

func (r repo) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	id, err := r.insert(ctx, `INSERT INTO users (username, email, first_name, last_name, superuser, created_at,
		patronymic, position, phone_internal, role, department_id, manager_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.Username, u.Email, u.FirstName, u.LastName, u.Superuser, toNanos(u.CreatedAt),
		u.Profile.Patronymic, u.Profile.Position, u.Profile.PhoneInternal, string(u.Profile.Role),
		nullID(u.Profile.DepartmentID), nullID(u.Profile.ManagerID))
	if err != nil {
		return domain.User{}, fmt.Errorf("user %q: %w", u.Username, err)
	}
	u.ID = id
	return u, nil
}

func (r repo) GetUser(ctx context.Context, id int64) (domain.User, error) {
	u, err := scanUser(r.q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	return u, translate(err)
}

func (r repo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	u, err := scanUser(r.q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username))
	return u, translate(err)
}

func (r repo) UpdateUser(ctx context.Context, u domain.User) error {
	return r.exec(ctx, `UPDATE users SET username = ?, email = ?, first_name = ?, last_name = ?, superuser = ?,
		patronymic = ?, position = ?, phone_internal = ?, role = ?, department_id = ?, manager_id = ?
		WHERE id = ?`,
		u.Username, u.Email, u.FirstName, u.LastName, u.Superuser,
		u.Profile.Patronymic, u.Profile.Position, u.Profile.PhoneInternal, string(u.Profile.Role),
		nullID(u.Profile.DepartmentID), nullID(u.Profile.ManagerID), u.ID)
}

func (r repo) ListUsers(ctx context.Context, f store.UserFilter) ([]domain.User, error) {
	var w where
	w.in("id", f.IDs)
	if f.ManagerID != nil {
		w.add("manager_id = ?", *f.ManagerID)
	}
	if f.DepartmentID != nil {
		w.add("department_id = ?", *f.DepartmentID)
	}
	if f.Email != "" {
		w.add("lower(email) = lower(?)", f.Email)
	}

	rows, err := r.q.QueryContext(ctx, `SELECT `+userColumns+` FROM users`+w.String()+` ORDER BY id`, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r repo) CreateQuestion(ctx context.Context, q domain.Question) (domain.Question, error) {
	id, err := r.insert(ctx, `INSERT INTO questions (user_id, name, email, body, closed, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		sql.NullInt64{Int64: q.UserID, Valid: q.UserID != 0}, q.Name, q.Email, q.Body, q.Closed, toNanos(q.CreatedAt))
	if err != nil {
		return domain.Question{}, err
	}
	q.ID = id
	return q, nil
}

func (r repo) ListQuestions(ctx context.Context) ([]domain.Question, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT id, user_id, name, email, body, closed, created_at FROM questions ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Question
	for rows.Next() {
		var (
			q         domain.Question
			userID    sql.NullInt64
			createdAt int64
		)
		if err := rows.Scan(&q.ID, &userID, &q.Name, &q.Email, &q.Body, &q.Closed, &createdAt); err != nil {
			return nil, err
		}
		q.UserID = userID.Int64
		q.CreatedAt = fromNanos(createdAt)
		out = append(out, q)
	}
	return out, rows.Err()
}
