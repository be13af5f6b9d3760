package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"usemytime/internal/domain"
	"usemytime/internal/store"
)

const projectColumns = `id, owner_id, title, description, created_at, archived, total_time,
	review_status, review_submitted_by, review_submitted_at, reviewed_by, reviewed_at,
	review_comment, submit_comment`

func scanProject(row interface{ Scan(...any) error }) (domain.Project, error) {
	var (
		p                    domain.Project
		createdAt, total     int64
		status               string
		submittedBy, revBy   sql.NullInt64
		submittedAt, revedAt sql.NullInt64
	)
	err := row.Scan(&p.ID, &p.OwnerID, &p.Title, &p.Description, &createdAt, &p.Archived, &total,
		&status, &submittedBy, &submittedAt, &revBy, &revedAt, &p.ReviewComment, &p.SubmitComment)
	if err != nil {
		return domain.Project{}, err
	}
	p.CreatedAt = fromNanos(createdAt)
	p.TotalTime = time.Duration(total)
	p.ReviewStatus = domain.ReviewStatus(status)
	p.ReviewSubmittedBy = idPtr(submittedBy)
	p.ReviewSubmittedAt = timePtr(submittedAt)
	p.ReviewedBy = idPtr(revBy)
	p.ReviewedAt = timePtr(revedAt)
	return p, nil
}

func (r repo) CreateProject(ctx context.Context, p domain.Project) (domain.Project, error) {
	id, err := r.insert(ctx, `INSERT INTO projects (owner_id, title, description, created_at, archived, total_time,
		review_status, review_submitted_by, review_submitted_at, reviewed_by, reviewed_at, review_comment, submit_comment)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.OwnerID, p.Title, p.Description, toNanos(p.CreatedAt), p.Archived, int64(p.TotalTime),
		string(p.ReviewStatus), nullID(p.ReviewSubmittedBy), nullTime(p.ReviewSubmittedAt),
		nullID(p.ReviewedBy), nullTime(p.ReviewedAt), p.ReviewComment, p.SubmitComment)
	if err != nil {
		return domain.Project{}, err
	}
	p.ID = id
	return p, nil
}

func (r repo) GetProject(ctx context.Context, id int64) (domain.Project, error) {
	p, err := scanProject(r.q.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id))
	return p, translate(err)
}

func (r repo) UpdateProject(ctx context.Context, p domain.Project) error {
	return r.exec(ctx, `UPDATE projects SET title = ?, description = ?, archived = ?, total_time = ?,
		review_status = ?, review_submitted_by = ?, review_submitted_at = ?, reviewed_by = ?, reviewed_at = ?,
		review_comment = ?, submit_comment = ?
		WHERE id = ?`,
		p.Title, p.Description, p.Archived, int64(p.TotalTime),
		string(p.ReviewStatus), nullID(p.ReviewSubmittedBy), nullTime(p.ReviewSubmittedAt),
		nullID(p.ReviewedBy), nullTime(p.ReviewedAt), p.ReviewComment, p.SubmitComment, p.ID)
}

func (r repo) DeleteProject(ctx context.Context, id int64) error {
	return r.exec(ctx, `DELETE FROM projects WHERE id = ?`, id)
}

func projectWhere(f store.ProjectFilter) *where {
	w := &where{}
	w.in("owner_id", f.OwnerIDs)
	if f.Archived != nil {
		w.add("archived = ?", *f.Archived)
	}
	if f.ReviewStatus != "" {
		w.add("review_status = ?", string(f.ReviewStatus))
	}
	return w
}

func (r repo) ListProjects(ctx context.Context, f store.ProjectFilter) ([]domain.Project, error) {
	w := projectWhere(f)
	rows, err := r.q.QueryContext(ctx, `SELECT `+projectColumns+` FROM projects`+w.String()+` ORDER BY id`, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r repo) CountProjects(ctx context.Context, f store.ProjectFilter) (int, error) {
	w := projectWhere(f)
	var n int
	err := r.q.QueryRowContext(ctx, `SELECT count(*) FROM projects`+w.String(), w.args...).Scan(&n)
	return n, err
}

const taskColumns = `id, project_id, text, status, created_at, started_at, completed_at`

func scanTask(row interface{ Scan(...any) error }) (domain.Task, error) {
	var (
		t                    domain.Task
		status               string
		createdAt            int64
		startedAt, completed sql.NullInt64
	)
	if err := row.Scan(&t.ID, &t.ProjectID, &t.Text, &status, &createdAt, &startedAt, &completed); err != nil {
		return domain.Task{}, err
	}
	t.Status = domain.TaskStatus(status)
	t.CreatedAt = fromNanos(createdAt)
	t.StartedAt = timePtr(startedAt)
	t.CompletedAt = timePtr(completed)
	return t, nil
}

func (r repo) CreateTask(ctx context.Context, t domain.Task) (domain.Task, error) {
	id, err := r.insert(ctx, `INSERT INTO tasks (project_id, text, status, created_at, started_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		t.ProjectID, t.Text, string(t.Status), toNanos(t.CreatedAt), nullTime(t.StartedAt), nullTime(t.CompletedAt))
	if err != nil {
		return domain.Task{}, err
	}
	t.ID = id
	return t, nil
}

func (r repo) GetTask(ctx context.Context, id int64) (domain.Task, error) {
	t, err := scanTask(r.q.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id))
	return t, translate(err)
}

func (r repo) UpdateTask(ctx context.Context, t domain.Task) error {
	return r.exec(ctx, `UPDATE tasks SET text = ?, status = ?, started_at = ?, completed_at = ? WHERE id = ?`,
		t.Text, string(t.Status), nullTime(t.StartedAt), nullTime(t.CompletedAt), t.ID)
}

func (r repo) DeleteTask(ctx context.Context, id int64) error {
	return r.exec(ctx, `DELETE FROM tasks WHERE id = ?`, id)
}

func (r repo) ListTasks(ctx context.Context, f store.TaskFilter) ([]domain.Task, error) {
	var w where
	w.in("project_id", f.ProjectIDs)
	if len(f.Statuses) > 0 {
		marks := make([]string, len(f.Statuses))
		args := make([]any, len(f.Statuses))
		for i, s := range f.Statuses {
			marks[i] = "?"
			args[i] = string(s)
		}
		w.add("status IN ("+strings.Join(marks, ", ")+")", args...)
	}

	rows, err := r.q.QueryContext(ctx, `SELECT `+taskColumns+` FROM tasks`+w.String()+` ORDER BY id`, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r repo) CreateAttachment(ctx context.Context, a domain.Attachment) (domain.Attachment, error) {
	id, err := r.insert(ctx, `INSERT INTO attachments (project_id, name, size, path, uploaded_by, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		a.ProjectID, a.Name, a.Size, a.Path, a.UploadedBy, toNanos(a.UploadedAt))
	if err != nil {
		return domain.Attachment{}, err
	}
	a.ID = id
	return a, nil
}

func scanAttachment(row interface{ Scan(...any) error }) (domain.Attachment, error) {
	var (
		a          domain.Attachment
		uploadedBy sql.NullInt64
		uploadedAt int64
	)
	if err := row.Scan(&a.ID, &a.ProjectID, &a.Name, &a.Size, &a.Path, &uploadedBy, &uploadedAt); err != nil {
		return domain.Attachment{}, err
	}
	a.UploadedBy = uploadedBy.Int64
	a.UploadedAt = fromNanos(uploadedAt)
	return a, nil
}

func (r repo) GetAttachment(ctx context.Context, id int64) (domain.Attachment, error) {
	a, err := scanAttachment(r.q.QueryRowContext(ctx,
		`SELECT id, project_id, name, size, path, uploaded_by, uploaded_at FROM attachments WHERE id = ?`, id))
	return a, translate(err)
}

func (r repo) ListAttachments(ctx context.Context, projectID int64) ([]domain.Attachment, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, project_id, name, size, path, uploaded_by, uploaded_at FROM attachments WHERE project_id = ? ORDER BY id`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Attachment
	for rows.Next() {
		a, err := scanAttachment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
