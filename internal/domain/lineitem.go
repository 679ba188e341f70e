package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DraftIDPrefix marks line items that exist only in memory.
const DraftIDPrefix = "tmp-"

// DefaultColor is used for line items created without an explicit color.
const DefaultColor = "#83a598"

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// NewDraftID returns a local-only identifier for an unsaved line item.
func NewDraftID() string {
	return DraftIDPrefix + uuid.New().String()
}

// IsDraftID reports whether id was assigned locally and never persisted.
func IsDraftID(id string) bool {
	return strings.HasPrefix(id, DraftIDPrefix)
}

// Schedule is a line item's interval. Dated schedules carry both dates;
// otherwise the week labels apply.
type Schedule struct {
	StartWeek string
	EndWeek   string
	StartDate *time.Time
	EndDate   *time.Time
}

// WeekSchedule builds a week-relative interval, clamping so 1 <= start <= end.
func WeekSchedule(start, end int) Schedule {
	if start < 1 {
		start = 1
	}
	if end < start {
		end = start
	}
	return Schedule{StartWeek: FormatWeek(start), EndWeek: FormatWeek(end)}
}

// DateSchedule builds a calendar interval, clamping end to start.
func DateSchedule(start, end time.Time) Schedule {
	s, e := TruncateDay(start), TruncateDay(end)
	if e.Before(s) {
		e = s
	}
	return Schedule{StartDate: &s, EndDate: &e}
}

// IsDated reports whether the interval is expressed in calendar dates.
func (s Schedule) IsDated() bool {
	return s.StartDate != nil && s.EndDate != nil
}

// Weeks returns the week bounds, clamped so start <= end.
func (s Schedule) Weeks() (int, int) {
	start := ParseWeek(s.StartWeek)
	end := ParseWeek(s.EndWeek)
	if end < start {
		end = start
	}
	return start, end
}

// Normalize re-applies the start <= end invariant by clamping.
func (s Schedule) Normalize() Schedule {
	if s.IsDated() {
		return DateSchedule(*s.StartDate, *s.EndDate)
	}
	return WeekSchedule(s.Weeks())
}

func (s Schedule) String() string {
	if s.IsDated() {
		return FormatDate(s.StartDate) + " → " + FormatDate(s.EndDate)
	}
	start, end := s.Weeks()
	return FormatWeek(start) + " → " + FormatWeek(end)
}

// RecruitmentAggregate is the derived recruitment state of a line item.
// It is nil on items that no recruitment task references.
type RecruitmentAggregate struct {
	StudentsRequired  int
	StudentsRecruited int
	Status            RecruitmentStatus
}

type BudgetLineItem struct {
	ID       string
	StudyID  string
	Title    string
	Amount   decimal.Decimal
	Color    string
	Schedule Schedule

	// Pricing
	Units      *decimal.Decimal
	UnitRate   *decimal.Decimal
	Hours      *decimal.Decimal
	HourlyRate *decimal.Decimal

	Recruitment *RecruitmentAggregate

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsDraft reports whether the item has not been persisted yet.
func (i *BudgetLineItem) IsDraft() bool {
	return IsDraftID(i.ID)
}

// StudentsRecruited returns the recruited count, 0 when no aggregate is set.
func (i *BudgetLineItem) StudentsRecruited() int {
	if i.Recruitment == nil {
		return 0
	}
	return i.Recruitment.StudentsRecruited
}

// SetSchedule replaces the interval, clamping it into a valid range.
func (i *BudgetLineItem) SetSchedule(s Schedule, now time.Time) {
	i.Schedule = s.Normalize()
	i.UpdatedAt = now
}

// RecomputeAmount derives Amount from pricing fields. Units × rate wins over
// hours × hourly rate. Returns false when pricing is incomplete.
func (i *BudgetLineItem) RecomputeAmount() bool {
	switch {
	case i.Units != nil && i.UnitRate != nil:
		i.Amount = i.Units.Mul(*i.UnitRate)
		return true
	case i.Hours != nil && i.HourlyRate != nil:
		i.Amount = i.Hours.Mul(*i.HourlyRate)
		return true
	}
	return false
}

// Clone returns a deep copy of the item.
func (i *BudgetLineItem) Clone() *BudgetLineItem {
	c := *i
	c.Schedule.StartDate = cloneTime(i.Schedule.StartDate)
	c.Schedule.EndDate = cloneTime(i.Schedule.EndDate)
	c.Units = cloneDecimal(i.Units)
	c.UnitRate = cloneDecimal(i.UnitRate)
	c.Hours = cloneDecimal(i.Hours)
	c.HourlyRate = cloneDecimal(i.HourlyRate)
	if i.Recruitment != nil {
		r := *i.Recruitment
		c.Recruitment = &r
	}
	return &c
}

// LineItemField names an editable, non-schedule field of a line item.
type LineItemField string

const (
	FieldTitle      LineItemField = "title"
	FieldAmount     LineItemField = "amount"
	FieldColor      LineItemField = "color"
	FieldUnits      LineItemField = "units"
	FieldUnitRate   LineItemField = "unit_rate"
	FieldHours      LineItemField = "hours"
	FieldHourlyRate LineItemField = "hourly_rate"
)

// EditableFields lists the popup fields in display order.
var EditableFields = []LineItemField{
	FieldTitle, FieldAmount, FieldColor, FieldUnits, FieldUnitRate, FieldHours, FieldHourlyRate,
}

// IsPricing reports whether editing f may change the derived amount.
func (f LineItemField) IsPricing() bool {
	switch f {
	case FieldUnits, FieldUnitRate, FieldHours, FieldHourlyRate:
		return true
	}
	return false
}

// FieldValue renders the current value of f for display in an input.
func (i *BudgetLineItem) FieldValue(f LineItemField) string {
	switch f {
	case FieldTitle:
		return i.Title
	case FieldAmount:
		return i.Amount.StringFixed(2)
	case FieldColor:
		return i.Color
	case FieldUnits:
		return decimalString(i.Units)
	case FieldUnitRate:
		return decimalString(i.UnitRate)
	case FieldHours:
		return decimalString(i.Hours)
	case FieldHourlyRate:
		return decimalString(i.HourlyRate)
	}
	return ""
}

// SetField parses raw and assigns it to f. Blank pricing values clear the
// field. A pricing edit recomputes the amount when pricing is complete.
// The returned slice lists every field that changed.
func (i *BudgetLineItem) SetField(f LineItemField, raw string, now time.Time) ([]LineItemField, error) {
	raw = strings.TrimSpace(raw)
	switch f {
	case FieldTitle:
		i.Title = raw
	case FieldAmount:
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("amount %q is not a number", raw)
		}
		i.Amount = d
	case FieldColor:
		if !colorPattern.MatchString(raw) {
			return nil, fmt.Errorf("color %q must look like #rrggbb", raw)
		}
		i.Color = strings.ToLower(raw)
	case FieldUnits, FieldUnitRate, FieldHours, FieldHourlyRate:
		d, err := parseOptionalDecimal(raw)
		if err != nil {
			return nil, fmt.Errorf("%s %q is not a number", f, raw)
		}
		switch f {
		case FieldUnits:
			i.Units = d
		case FieldUnitRate:
			i.UnitRate = d
		case FieldHours:
			i.Hours = d
		case FieldHourlyRate:
			i.HourlyRate = d
		}
	default:
		return nil, fmt.Errorf("unknown field %q", f)
	}
	i.UpdatedAt = now

	changed := []LineItemField{f}
	if f.IsPricing() && i.RecomputeAmount() {
		changed = append(changed, FieldAmount)
	}
	return changed, nil
}

func parseOptionalDecimal(raw string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func decimalString(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func cloneDecimal(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}
