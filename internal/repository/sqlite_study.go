package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/studyplan/internal/db"
	"github.com/alexanderramin/studyplan/internal/domain"
)

// SQLiteStudyRepo implements StudyRepo using a SQLite database.
type SQLiteStudyRepo struct {
	db db.DBTX
}

func NewSQLiteStudyRepo(db db.DBTX) *SQLiteStudyRepo {
	return &SQLiteStudyRepo{db: db}
}

const studyColumns = `id, name, company, start_date, end_date, created_at, updated_at`

func (r *SQLiteStudyRepo) Create(ctx context.Context, s *domain.Study) error {
	query := `INSERT INTO studies (` + studyColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.Name,
		s.Company,
		nullableTimeToString(s.StartDate, domain.DateLayout),
		nullableTimeToString(s.EndDate, domain.DateLayout),
		formatTimestamp(s.CreatedAt),
		formatTimestamp(s.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting study: %w", err)
	}
	return nil
}

func (r *SQLiteStudyRepo) GetByID(ctx context.Context, id string) (*domain.Study, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+studyColumns+` FROM studies WHERE id = ?`, id)
	s, err := scanStudy(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("study %w", domain.ErrNotFound)
	}
	return s, err
}

func (r *SQLiteStudyRepo) List(ctx context.Context) ([]*domain.Study, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+studyColumns+` FROM studies ORDER BY created_at, name`)
	if err != nil {
		return nil, fmt.Errorf("listing studies: %w", err)
	}
	defer rows.Close()

	var studies []*domain.Study
	for rows.Next() {
		s, err := scanStudy(rows)
		if err != nil {
			return nil, err
		}
		studies = append(studies, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating studies: %w", err)
	}
	return studies, nil
}

func (r *SQLiteStudyRepo) Update(ctx context.Context, s *domain.Study) error {
	query := `UPDATE studies SET name = ?, company = ?, start_date = ?, end_date = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		s.Name,
		s.Company,
		nullableTimeToString(s.StartDate, domain.DateLayout),
		nullableTimeToString(s.EndDate, domain.DateLayout),
		formatTimestamp(s.UpdatedAt),
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("updating study: %w", err)
	}
	return requireAffected(res, "study")
}

func (r *SQLiteStudyRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM studies WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting study: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStudy(row rowScanner) (*domain.Study, error) {
	var s domain.Study
	var startStr, endStr sql.NullString
	var createdStr, updatedStr string

	err := row.Scan(&s.ID, &s.Name, &s.Company, &startStr, &endStr, &createdStr, &updatedStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning study: %w", err)
	}

	s.StartDate = parseNullableTime(startStr, domain.DateLayout)
	s.EndDate = parseNullableTime(endStr, domain.DateLayout)
	s.CreatedAt, s.UpdatedAt, err = parseTimestamps(createdStr, updatedStr)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
