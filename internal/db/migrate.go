package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE statements are re-run on every start.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateApplicationManualStatus(db); err != nil {
		return fmt.Errorf("migrating application_records status constraint: %w", err)
	}
	return nil
}

// migrateApplicationManualStatus rebuilds application_records on databases
// created before 'manually_added' was an allowed status. SQLite cannot alter
// a CHECK constraint in place.
func migrateApplicationManualStatus(db *sql.DB) error {
	ctx := context.Background()
	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquiring db connection: %w", err)
	}
	defer conn.Close()

	var createSQL string
	if err := conn.QueryRowContext(ctx, `SELECT sql FROM sqlite_master WHERE type = 'table' AND name = 'application_records'`).Scan(&createSQL); err != nil {
		return fmt.Errorf("loading application_records schema: %w", err)
	}
	if strings.Contains(strings.ToLower(createSQL), "'manually_added'") {
		return nil
	}

	if _, err := conn.ExecContext(ctx, `PRAGMA foreign_keys = OFF`); err != nil {
		return fmt.Errorf("disabling foreign keys: %w", err)
	}
	defer func() {
		_, _ = conn.ExecContext(ctx, `PRAGMA foreign_keys = ON`)
	}()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting migration transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	steps := []struct {
		stmt string
		what string
	}{
		{`DROP TABLE IF EXISTS application_records_new`, "dropping stale application_records_new"},
		{applicationRecordsTable("application_records_new"), "creating application_records_new"},
		{`INSERT INTO application_records_new (
			id, task_id, applicant_name, applicant_email, status, created_at, updated_at
		) SELECT
			id, task_id, applicant_name, applicant_email, status, created_at, updated_at
		FROM application_records`, "copying application_records data"},
		{`DROP TABLE application_records`, "dropping old application_records"},
		{`ALTER TABLE application_records_new RENAME TO application_records`, "renaming application_records_new"},
		{`CREATE INDEX IF NOT EXISTS idx_applications_task ON application_records(task_id)`, "recreating idx_applications_task"},
		{`CREATE INDEX IF NOT EXISTS idx_applications_status ON application_records(task_id, status)`, "recreating idx_applications_status"},
	}
	for _, s := range steps {
		if _, err := tx.ExecContext(ctx, s.stmt); err != nil {
			return fmt.Errorf("%s: %w", s.what, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing application_records migration: %w", err)
	}
	committed = true

	return nil
}

func applicationRecordsTable(name string) string {
	return `CREATE TABLE IF NOT EXISTS ` + name + ` (
		id              TEXT PRIMARY KEY,
		task_id         TEXT NOT NULL REFERENCES recruitment_tasks(id) ON DELETE CASCADE,
		applicant_name  TEXT NOT NULL,
		applicant_email TEXT NOT NULL DEFAULT '',
		status          TEXT NOT NULL DEFAULT 'pending'
		                CHECK(status IN ('pending','accepted','rejected','manually_added')),
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	)`
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS studies (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		company    TEXT NOT NULL DEFAULT '',
		start_date TEXT,
		end_date   TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS budget_line_items (
		id                 TEXT PRIMARY KEY,
		study_id           TEXT NOT NULL REFERENCES studies(id) ON DELETE CASCADE,
		title              TEXT NOT NULL DEFAULT '',
		amount             TEXT NOT NULL DEFAULT '0',
		color              TEXT NOT NULL DEFAULT '#83a598',
		start_week         TEXT NOT NULL DEFAULT 'S1',
		end_week           TEXT NOT NULL DEFAULT 'S1',
		start_date         TEXT,
		end_date           TEXT,
		students_required  INTEGER,
		students_recruited INTEGER,
		recruitment_status TEXT
		                   CHECK(recruitment_status IS NULL OR recruitment_status IN ('in_progress','complete')),
		created_at         TEXT NOT NULL,
		updated_at         TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_line_items_study ON budget_line_items(study_id)`,

	`CREATE TABLE IF NOT EXISTS recruitment_tasks (
		id                 TEXT PRIMARY KEY,
		study_id           TEXT NOT NULL REFERENCES studies(id) ON DELETE CASCADE,
		title              TEXT NOT NULL,
		students_required  INTEGER CHECK(students_required IS NULL OR students_required >= 0),
		linked_recruitment INTEGER NOT NULL DEFAULT 0,
		status             TEXT NOT NULL DEFAULT 'todo'
		                   CHECK(status IN ('todo','in_progress','done')),
		created_at         TEXT NOT NULL,
		updated_at         TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tasks_study ON recruitment_tasks(study_id)`,

	`CREATE TABLE IF NOT EXISTS recruitment_task_items (
		task_id  TEXT NOT NULL REFERENCES recruitment_tasks(id) ON DELETE CASCADE,
		item_id  TEXT NOT NULL REFERENCES budget_line_items(id) ON DELETE CASCADE,
		position INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (task_id, item_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_task_items_item ON recruitment_task_items(item_id)`,

	applicationRecordsTable("application_records"),

	`CREATE INDEX IF NOT EXISTS idx_applications_task ON application_records(task_id)`,
	`CREATE INDEX IF NOT EXISTS idx_applications_status ON application_records(task_id, status)`,

	// Pricing columns, added after the first release.
	`ALTER TABLE budget_line_items ADD COLUMN units TEXT`,
	`ALTER TABLE budget_line_items ADD COLUMN unit_rate TEXT`,
	`ALTER TABLE budget_line_items ADD COLUMN hours TEXT`,
	`ALTER TABLE budget_line_items ADD COLUMN hourly_rate TEXT`,
}
