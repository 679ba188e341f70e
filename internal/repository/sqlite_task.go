package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/studyplan/internal/db"
	"github.com/alexanderramin/studyplan/internal/domain"
)

// SQLiteTaskRepo implements TaskRepo using a SQLite database. Item links
// live in recruitment_task_items and are loaded with the task.
type SQLiteTaskRepo struct {
	db db.DBTX
}

func NewSQLiteTaskRepo(db db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: db}
}

const taskColumns = `id, study_id, title, students_required, linked_recruitment, status, created_at, updated_at`

func (r *SQLiteTaskRepo) Create(ctx context.Context, t *domain.RecruitmentTask) error {
	query := `INSERT INTO recruitment_tasks (` + taskColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.StudyID,
		t.Title,
		nullableIntToValue(t.StudentsRequired),
		boolToInt(t.LinkedRecruitment),
		string(t.Status),
		formatTimestamp(t.CreatedAt),
		formatTimestamp(t.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting recruitment task: %w", err)
	}
	return r.insertLinks(ctx, t)
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, id string) (*domain.RecruitmentTask, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM recruitment_tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("recruitment task %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	links, err := r.loadLinks(ctx, `SELECT task_id, item_id FROM recruitment_task_items WHERE task_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, err
	}
	t.LinkedItems = links[id]
	return t, nil
}

func (r *SQLiteTaskRepo) ListByStudy(ctx context.Context, studyID string) ([]*domain.RecruitmentTask, error) {
	query := `SELECT ` + taskColumns + ` FROM recruitment_tasks WHERE study_id = ? ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, studyID)
	if err != nil {
		return nil, fmt.Errorf("listing recruitment tasks: %w", err)
	}
	var tasks []*domain.RecruitmentTask
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		tasks = append(tasks, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating recruitment tasks: %w", err)
	}

	links, err := r.loadLinks(ctx, `SELECT l.task_id, l.item_id FROM recruitment_task_items l
		JOIN recruitment_tasks t ON t.id = l.task_id
		WHERE t.study_id = ? ORDER BY l.task_id, l.position`, studyID)
	if err != nil {
		return nil, err
	}
	for _, t := range tasks {
		t.LinkedItems = links[t.ID]
	}
	return tasks, nil
}

func (r *SQLiteTaskRepo) Update(ctx context.Context, t *domain.RecruitmentTask) error {
	query := `UPDATE recruitment_tasks
		SET title = ?, students_required = ?, linked_recruitment = ?, status = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		t.Title,
		nullableIntToValue(t.StudentsRequired),
		boolToInt(t.LinkedRecruitment),
		string(t.Status),
		formatTimestamp(t.UpdatedAt),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating recruitment task: %w", err)
	}
	if err := requireAffected(res, "recruitment task"); err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM recruitment_task_items WHERE task_id = ?`, t.ID); err != nil {
		return fmt.Errorf("clearing task links: %w", err)
	}
	return r.insertLinks(ctx, t)
}

func (r *SQLiteTaskRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM recruitment_tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting recruitment task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) insertLinks(ctx context.Context, t *domain.RecruitmentTask) error {
	query := `INSERT OR IGNORE INTO recruitment_task_items (task_id, item_id, position) VALUES (?, ?, ?)`
	for i, itemID := range t.LinkedItems {
		if _, err := r.db.ExecContext(ctx, query, t.ID, itemID, i); err != nil {
			return fmt.Errorf("linking task %s to item %s: %w", t.ID, itemID, err)
		}
	}
	return nil
}

func (r *SQLiteTaskRepo) loadLinks(ctx context.Context, query string, arg string) (map[string][]string, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("listing task links: %w", err)
	}
	defer rows.Close()

	links := make(map[string][]string)
	for rows.Next() {
		var taskID, itemID string
		if err := rows.Scan(&taskID, &itemID); err != nil {
			return nil, fmt.Errorf("scanning task link: %w", err)
		}
		links[taskID] = append(links[taskID], itemID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating task links: %w", err)
	}
	return links, nil
}

func scanTask(row rowScanner) (*domain.RecruitmentTask, error) {
	var t domain.RecruitmentTask
	var required sql.NullInt64
	var linked int
	var status, createdStr, updatedStr string

	err := row.Scan(&t.ID, &t.StudyID, &t.Title, &required, &linked, &status, &createdStr, &updatedStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning recruitment task: %w", err)
	}
	t.StudentsRequired = parseNullableInt(required)
	t.LinkedRecruitment = intToBool(linked)
	t.Status = domain.TaskStatus(status)
	t.CreatedAt, t.UpdatedAt, err = parseTimestamps(createdStr, updatedStr)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
