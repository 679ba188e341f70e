package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// boundValue is a schedule bound given either as a week label ("S3") or a
// calendar date ("2026-03-02").
type boundValue struct {
	week int
	date *time.Time
}

var _ pflag.Value = (*boundValue)(nil)

func (b *boundValue) String() string {
	switch {
	case b.date != nil:
		return b.date.Format(domain.DateLayout)
	case b.week > 0:
		return domain.FormatWeek(b.week)
	}
	return ""
}

func (b *boundValue) Set(s string) error {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(domain.DateLayout, s); err == nil {
		b.date, b.week = &t, 0
		return nil
	}
	w, err := domain.ParseWeekStrict(s)
	if err != nil {
		return fmt.Errorf("expected S<n> or YYYY-MM-DD: %w", err)
	}
	b.week, b.date = w, nil
	return nil
}

func (b *boundValue) Type() string { return "S<n>|date" }

func (b *boundValue) isSet() bool { return b.week > 0 || b.date != nil }

// scheduleFromBounds builds a schedule from --start/--end. A missing end
// repeats the start; out-of-order bounds clamp like every other schedule.
func scheduleFromBounds(start, end boundValue) (domain.Schedule, error) {
	if !start.isSet() {
		return domain.Schedule{}, fmt.Errorf("--start is required")
	}
	if !end.isSet() {
		end = start
	}
	switch {
	case start.date != nil && end.date != nil:
		return domain.DateSchedule(*start.date, *end.date), nil
	case start.week > 0 && end.week > 0:
		return domain.WeekSchedule(start.week, end.week), nil
	}
	return domain.Schedule{}, fmt.Errorf("--start and --end must both be weeks or both be dates")
}

// dateFlag parses an optional YYYY-MM-DD flag value.
func dateFlag(name, raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(domain.DateLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s date %q: %w", name, raw, err)
	}
	return &t, nil
}

// studyFlag registers the --study flag shared by item, task and app commands.
func studyFlag(cmd *cobra.Command, target *string) {
	cmd.PersistentFlags().StringVarP(target, "study", "s", "", "Study ID, ID prefix or name")
	_ = cmd.MarkPersistentFlagRequired("study")
}
