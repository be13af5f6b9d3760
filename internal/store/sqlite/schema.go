package sqlite

const schema = `
CREATE TABLE IF NOT EXISTS departments (
	id   INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS users (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	username       TEXT NOT NULL UNIQUE,
	email          TEXT NOT NULL DEFAULT '',
	first_name     TEXT NOT NULL DEFAULT '',
	last_name      TEXT NOT NULL DEFAULT '',
	superuser      INTEGER NOT NULL DEFAULT 0,
	created_at     INTEGER NOT NULL DEFAULT 0,
	patronymic     TEXT NOT NULL DEFAULT '',
	position       TEXT NOT NULL DEFAULT '',
	phone_internal TEXT NOT NULL DEFAULT '',
	role           TEXT NOT NULL DEFAULT 'employee',
	department_id  INTEGER REFERENCES departments(id) ON DELETE SET NULL,
	manager_id     INTEGER REFERENCES users(id) ON DELETE SET NULL
);
CREATE INDEX IF NOT EXISTS users_manager_idx ON users(manager_id);

CREATE TABLE IF NOT EXISTS projects (
	id                  INTEGER PRIMARY KEY AUTOINCREMENT,
	owner_id            INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	title               TEXT NOT NULL,
	description         TEXT NOT NULL DEFAULT '',
	created_at          INTEGER NOT NULL,
	archived            INTEGER NOT NULL DEFAULT 0,
	total_time          INTEGER NOT NULL DEFAULT 0,
	review_status       TEXT NOT NULL DEFAULT 'none',
	review_submitted_by INTEGER REFERENCES users(id) ON DELETE SET NULL,
	review_submitted_at INTEGER,
	reviewed_by         INTEGER REFERENCES users(id) ON DELETE SET NULL,
	reviewed_at         INTEGER,
	review_comment      TEXT NOT NULL DEFAULT '',
	submit_comment      TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS projects_owner_idx ON projects(owner_id);

CREATE TABLE IF NOT EXISTS tasks (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	project_id   INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
	text         TEXT NOT NULL,
	status       TEXT NOT NULL DEFAULT 'new',
	created_at   INTEGER NOT NULL,
	started_at   INTEGER,
	completed_at INTEGER
);
CREATE INDEX IF NOT EXISTS tasks_project_idx ON tasks(project_id);

CREATE TABLE IF NOT EXISTS project_timers (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id         INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	project_id      INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
	current_task_id INTEGER REFERENCES tasks(id) ON DELETE SET NULL,
	running         INTEGER NOT NULL DEFAULT 0,
	last_started_at INTEGER,
	UNIQUE (user_id, project_id)
);

CREATE TABLE IF NOT EXISTS time_entries (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id    INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	project_id INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
	task_id    INTEGER REFERENCES tasks(id) ON DELETE SET NULL,
	started_at INTEGER NOT NULL,
	ended_at   INTEGER NOT NULL,
	seconds    INTEGER NOT NULL CHECK (seconds >= 0),
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS time_entries_user_idx ON time_entries(user_id);

CREATE TABLE IF NOT EXISTS attachments (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	project_id  INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
	name        TEXT NOT NULL,
	size        INTEGER NOT NULL DEFAULT 0,
	path        TEXT NOT NULL,
	uploaded_by INTEGER,
	uploaded_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS questions (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id    INTEGER REFERENCES users(id) ON DELETE SET NULL,
	name       TEXT NOT NULL,
	email      TEXT NOT NULL,
	body       TEXT NOT NULL,
	closed     INTEGER NOT NULL DEFAULT 0,
	created_at INTEGER NOT NULL
);
`
