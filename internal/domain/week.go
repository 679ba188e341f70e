package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the storage and display layout for calendar dates.
const DateLayout = "2006-01-02"

// weekPrefix marks a week-index label such as "S3".
const weekPrefix = "S"

// FormatWeek renders a week index as its "S<n>" label.
func FormatWeek(week int) string {
	return fmt.Sprintf("%s%d", weekPrefix, week)
}

// ParseWeek reads an "S<n>" label. Malformed or non-positive labels yield week 1.
func ParseWeek(label string) int {
	s := strings.TrimSpace(label)
	s = strings.TrimPrefix(strings.TrimPrefix(s, weekPrefix), strings.ToLower(weekPrefix))
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// ParseWeekStrict is ParseWeek for user input: it reports malformed labels
// instead of defaulting them.
func ParseWeekStrict(label string) (int, error) {
	s := strings.TrimSpace(label)
	if !strings.HasPrefix(strings.ToUpper(s), weekPrefix) {
		return 0, fmt.Errorf("week %q must look like S<n>", label)
	}
	n, err := strconv.Atoi(s[1:])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("week %q must look like S<n> with n >= 1", label)
	}
	return n, nil
}

// ParseDate parses a YYYY-MM-DD string. Malformed input is treated as no bound.
func ParseDate(s string) *time.Time {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &t
}

// FormatDate renders an optional date, empty for nil.
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}

// TruncateDay drops the clock part of t, keeping its calendar date in UTC.
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
