package domain

import (
	"errors"
	"slices"
	"time"
)

// ErrNotFound is wrapped by repositories when a record does not exist.
var ErrNotFound = errors.New("not found")

type RecruitmentTask struct {
	ID                string
	StudyID           string
	Title             string
	LinkedItems       []string
	StudentsRequired  *int
	LinkedRecruitment bool
	Status            TaskStatus
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// RequiredOrZero returns the requested headcount, 0 when unset.
func (t *RecruitmentTask) RequiredOrZero() int {
	return IntFromPtrWithDefault(0, t.StudentsRequired)
}

// Links reports whether the task references the given line item.
func (t *RecruitmentTask) Links(itemID string) bool {
	return slices.Contains(t.LinkedItems, itemID)
}

// ReplaceLink swaps oldID for newID in LinkedItems. Returns true if found.
func (t *RecruitmentTask) ReplaceLink(oldID, newID string) bool {
	idx := slices.Index(t.LinkedItems, oldID)
	if idx < 0 {
		return false
	}
	t.LinkedItems[idx] = newID
	return true
}

// Unlink removes itemID from LinkedItems. Returns true if it was present.
func (t *RecruitmentTask) Unlink(itemID string) bool {
	before := len(t.LinkedItems)
	t.LinkedItems = slices.DeleteFunc(t.LinkedItems, func(id string) bool { return id == itemID })
	return len(t.LinkedItems) != before
}

type ApplicationRecord struct {
	ID             string
	TaskID         string
	ApplicantName  string
	ApplicantEmail string
	Status         ApplicationStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CountsAsRecruited reports whether the application contributes to the
// task's recruited total.
func (a *ApplicationRecord) CountsAsRecruited() bool {
	return slices.Contains(RecruitedStatuses, a.Status)
}

// DeriveRecruitmentStatus decides completion from the summed headcounts.
// A task set that asked for nobody is complete once anyone was recruited.
func DeriveRecruitmentStatus(required, recruited int) RecruitmentStatus {
	if required > 0 && recruited >= required {
		return RecruitmentComplete
	}
	if required == 0 && recruited > 0 {
		return RecruitmentComplete
	}
	return RecruitmentInProgress
}
