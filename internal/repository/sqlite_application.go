package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/studyplan/internal/db"
	"github.com/alexanderramin/studyplan/internal/domain"
)

// SQLiteApplicationRepo implements ApplicationRepo using a SQLite database.
type SQLiteApplicationRepo struct {
	db db.DBTX
}

func NewSQLiteApplicationRepo(db db.DBTX) *SQLiteApplicationRepo {
	return &SQLiteApplicationRepo{db: db}
}

const applicationColumns = `id, task_id, applicant_name, applicant_email, status, created_at, updated_at`

func (r *SQLiteApplicationRepo) Create(ctx context.Context, a *domain.ApplicationRecord) error {
	query := `INSERT INTO application_records (` + applicationColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.TaskID,
		a.ApplicantName,
		a.ApplicantEmail,
		string(a.Status),
		formatTimestamp(a.CreatedAt),
		formatTimestamp(a.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting application: %w", err)
	}
	return nil
}

func (r *SQLiteApplicationRepo) GetByID(ctx context.Context, id string) (*domain.ApplicationRecord, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM application_records WHERE id = ?`, id)
	a, err := scanApplication(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("application %w", domain.ErrNotFound)
	}
	return a, err
}

func (r *SQLiteApplicationRepo) ListByTask(ctx context.Context, taskID string) ([]*domain.ApplicationRecord, error) {
	query := `SELECT ` + applicationColumns + ` FROM application_records WHERE task_id = ? ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("listing applications: %w", err)
	}
	defer rows.Close()

	var apps []*domain.ApplicationRecord
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating applications: %w", err)
	}
	return apps, nil
}

func (r *SQLiteApplicationRepo) UpdateStatus(ctx context.Context, id string, status domain.ApplicationStatus, updatedAt time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE application_records SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), formatTimestamp(updatedAt), id)
	if err != nil {
		return fmt.Errorf("updating application status: %w", err)
	}
	return requireAffected(res, "application")
}

func (r *SQLiteApplicationRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM application_records WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting application: %w", err)
	}
	return nil
}

// CountByTaskAndStatus counts the task's applications whose status is one of
// statuses. No statuses counts nothing.
func (r *SQLiteApplicationRepo) CountByTaskAndStatus(ctx context.Context, taskID string, statuses ...domain.ApplicationStatus) (int, error) {
	if len(statuses) == 0 {
		return 0, nil
	}
	placeholders := make([]string, len(statuses))
	args := make([]any, 0, len(statuses)+1)
	args = append(args, taskID)
	for i, s := range statuses {
		placeholders[i] = "?"
		args = append(args, string(s))
	}
	query := `SELECT COUNT(*) FROM application_records
		WHERE task_id = ? AND status IN (` + strings.Join(placeholders, ", ") + `)`

	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting applications: %w", err)
	}
	return n, nil
}

func scanApplication(row rowScanner) (*domain.ApplicationRecord, error) {
	var a domain.ApplicationRecord
	var status, createdStr, updatedStr string

	err := row.Scan(&a.ID, &a.TaskID, &a.ApplicantName, &a.ApplicantEmail, &status, &createdStr, &updatedStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning application: %w", err)
	}
	a.Status = domain.ApplicationStatus(status)
	a.CreatedAt, a.UpdatedAt, err = parseTimestamps(createdStr, updatedStr)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
