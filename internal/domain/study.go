package domain

import "time"

type Study struct {
	ID        string
	Name      string
	Company   string
	StartDate *time.Time
	EndDate   *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Mode reports whether the study anchors its schedule to calendar dates.
// Both dates must be present for absolute mode.
func (s *Study) Mode() ScheduleMode {
	if s == nil || s.StartDate == nil || s.EndDate == nil {
		return ModeRelative
	}
	return ModeAbsolute
}

// DisplayID returns a short identifier for display.
func (s *Study) DisplayID() string {
	if len(s.ID) >= 8 {
		return s.ID[:8]
	}
	return s.ID
}
