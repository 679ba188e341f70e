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
	"github.com/shopspring/decimal"
)

// SQLiteLineItemRepo implements LineItemRepo using a SQLite database.
type SQLiteLineItemRepo struct {
	db db.DBTX
}

func NewSQLiteLineItemRepo(db db.DBTX) *SQLiteLineItemRepo {
	return &SQLiteLineItemRepo{db: db}
}

const lineItemColumns = `id, study_id, title, amount, color,
	start_week, end_week, start_date, end_date,
	units, unit_rate, hours, hourly_rate,
	students_required, students_recruited, recruitment_status,
	created_at, updated_at`

// fieldColumns maps editable fields to their column.
var fieldColumns = map[domain.LineItemField]string{
	domain.FieldTitle:      "title",
	domain.FieldAmount:     "amount",
	domain.FieldColor:      "color",
	domain.FieldUnits:      "units",
	domain.FieldUnitRate:   "unit_rate",
	domain.FieldHours:      "hours",
	domain.FieldHourlyRate: "hourly_rate",
}

func (r *SQLiteLineItemRepo) Create(ctx context.Context, item *domain.BudgetLineItem) error {
	query := `INSERT INTO budget_line_items (` + lineItemColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	sched := scheduleArgs(item.Schedule)
	required, recruited, status := aggregateArgs(item.Recruitment)
	_, err := r.db.ExecContext(ctx, query,
		item.ID,
		item.StudyID,
		item.Title,
		item.Amount.String(),
		domain.CoalesceStr(item.Color, domain.DefaultColor),
		sched[0], sched[1], sched[2], sched[3],
		nullableDecimalToString(item.Units),
		nullableDecimalToString(item.UnitRate),
		nullableDecimalToString(item.Hours),
		nullableDecimalToString(item.HourlyRate),
		required, recruited, status,
		formatTimestamp(item.CreatedAt),
		formatTimestamp(item.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting line item: %w", err)
	}
	return nil
}

func (r *SQLiteLineItemRepo) GetByID(ctx context.Context, id string) (*domain.BudgetLineItem, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+lineItemColumns+` FROM budget_line_items WHERE id = ?`, id)
	item, err := scanLineItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("line item %w", domain.ErrNotFound)
	}
	return item, err
}

func (r *SQLiteLineItemRepo) ListByStudy(ctx context.Context, studyID string) ([]*domain.BudgetLineItem, error) {
	query := `SELECT ` + lineItemColumns + ` FROM budget_line_items WHERE study_id = ? ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, studyID)
	if err != nil {
		return nil, fmt.Errorf("listing line items: %w", err)
	}
	defer rows.Close()

	var items []*domain.BudgetLineItem
	for rows.Next() {
		item, err := scanLineItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating line items: %w", err)
	}
	return items, nil
}

func (r *SQLiteLineItemRepo) UpdateSchedule(ctx context.Context, id string, s domain.Schedule, updatedAt time.Time) error {
	sched := scheduleArgs(s)
	query := `UPDATE budget_line_items
		SET start_week = ?, end_week = ?, start_date = ?, end_date = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, sched[0], sched[1], sched[2], sched[3], formatTimestamp(updatedAt), id)
	if err != nil {
		return fmt.Errorf("updating line item schedule: %w", err)
	}
	return requireAffected(res, "line item")
}

func (r *SQLiteLineItemRepo) UpdateFields(ctx context.Context, item *domain.BudgetLineItem, fields ...domain.LineItemField) error {
	if len(fields) == 0 {
		return nil
	}
	sets := make([]string, 0, len(fields)+1)
	args := make([]any, 0, len(fields)+2)
	seen := make(map[domain.LineItemField]bool, len(fields))
	for _, f := range fields {
		col, ok := fieldColumns[f]
		if !ok {
			return fmt.Errorf("unknown line item field %q", f)
		}
		if seen[f] {
			continue
		}
		seen[f] = true
		sets = append(sets, col+" = ?")
		args = append(args, fieldArg(item, f))
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, formatTimestamp(item.UpdatedAt), item.ID)

	query := `UPDATE budget_line_items SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating line item fields: %w", err)
	}
	return requireAffected(res, "line item")
}

func (r *SQLiteLineItemRepo) SetAggregate(ctx context.Context, id string, agg *domain.RecruitmentAggregate) error {
	required, recruited, status := aggregateArgs(agg)
	query := `UPDATE budget_line_items
		SET students_required = ?, students_recruited = ?, recruitment_status = ?
		WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, required, recruited, status, id); err != nil {
		return fmt.Errorf("updating line item recruitment: %w", err)
	}
	return nil
}

func (r *SQLiteLineItemRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM budget_line_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting line item: %w", err)
	}
	return nil
}

// scheduleArgs returns start_week, end_week, start_date, end_date. Dated
// schedules keep their week labels at S1 so the columns stay NOT NULL.
func scheduleArgs(s domain.Schedule) [4]any {
	s = s.Normalize()
	if s.IsDated() {
		return [4]any{
			domain.FormatWeek(1), domain.FormatWeek(1),
			nullableTimeToString(s.StartDate, domain.DateLayout),
			nullableTimeToString(s.EndDate, domain.DateLayout),
		}
	}
	return [4]any{s.StartWeek, s.EndWeek, nil, nil}
}

func aggregateArgs(agg *domain.RecruitmentAggregate) (any, any, any) {
	if agg == nil {
		return nil, nil, nil
	}
	return agg.StudentsRequired, agg.StudentsRecruited, string(agg.Status)
}

func fieldArg(item *domain.BudgetLineItem, f domain.LineItemField) any {
	switch f {
	case domain.FieldTitle:
		return item.Title
	case domain.FieldAmount:
		return item.Amount.String()
	case domain.FieldColor:
		return item.Color
	case domain.FieldUnits:
		return nullableDecimalToString(item.Units)
	case domain.FieldUnitRate:
		return nullableDecimalToString(item.UnitRate)
	case domain.FieldHours:
		return nullableDecimalToString(item.Hours)
	case domain.FieldHourlyRate:
		return nullableDecimalToString(item.HourlyRate)
	}
	return nil
}

func scanLineItem(row rowScanner) (*domain.BudgetLineItem, error) {
	var item domain.BudgetLineItem
	var amountStr, createdStr, updatedStr string
	var startDate, endDate sql.NullString
	var units, unitRate, hours, hourlyRate sql.NullString
	var required, recruited sql.NullInt64
	var status sql.NullString

	err := row.Scan(
		&item.ID, &item.StudyID, &item.Title, &amountStr, &item.Color,
		&item.Schedule.StartWeek, &item.Schedule.EndWeek, &startDate, &endDate,
		&units, &unitRate, &hours, &hourlyRate,
		&required, &recruited, &status,
		&createdStr, &updatedStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning line item: %w", err)
	}

	item.Amount, err = decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("parsing amount: %w", err)
	}
	item.Schedule.StartDate = parseNullableTime(startDate, domain.DateLayout)
	item.Schedule.EndDate = parseNullableTime(endDate, domain.DateLayout)
	if item.Schedule.IsDated() {
		item.Schedule.StartWeek, item.Schedule.EndWeek = "", ""
	} else {
		item.Schedule.StartDate, item.Schedule.EndDate = nil, nil
	}

	pricing := []struct {
		dst **decimal.Decimal
		src sql.NullString
		col string
	}{
		{&item.Units, units, "units"},
		{&item.UnitRate, unitRate, "unit_rate"},
		{&item.Hours, hours, "hours"},
		{&item.HourlyRate, hourlyRate, "hourly_rate"},
	}
	for _, p := range pricing {
		if *p.dst, err = parseNullableDecimal(p.src, p.col); err != nil {
			return nil, err
		}
	}

	if status.Valid {
		item.Recruitment = &domain.RecruitmentAggregate{
			StudentsRequired:  domain.IntFromPtrWithDefault(0, parseNullableInt(required)),
			StudentsRecruited: domain.IntFromPtrWithDefault(0, parseNullableInt(recruited)),
			Status:            domain.RecruitmentStatus(status.String),
		}
	}

	item.CreatedAt, item.UpdatedAt, err = parseTimestamps(createdStr, updatedStr)
	if err != nil {
		return nil, err
	}
	return &item, nil
}
