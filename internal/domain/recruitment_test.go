package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveRecruitmentStatus(t *testing.T) {
	cases := []struct {
		required, recruited int
		want                RecruitmentStatus
	}{
		{3, 3, RecruitmentComplete},
		{3, 2, RecruitmentInProgress},
		{3, 5, RecruitmentComplete},
		{0, 1, RecruitmentComplete},
		{0, 0, RecruitmentInProgress},
	}
	for _, tc := range cases {
		got := DeriveRecruitmentStatus(tc.required, tc.recruited)
		assert.Equal(t, tc.want, got, "required=%d recruited=%d", tc.required, tc.recruited)
	}
}

func TestCountsAsRecruited(t *testing.T) {
	cases := []struct {
		status ApplicationStatus
		counts bool
	}{
		{ApplicationPending, false},
		{ApplicationAccepted, true},
		{ApplicationRejected, false},
		{ApplicationManuallyAdded, true},
	}
	for _, tc := range cases {
		a := &ApplicationRecord{Status: tc.status}
		assert.Equal(t, tc.counts, a.CountsAsRecruited(), "status=%s", tc.status)
	}
}

func TestRecruitmentTask_ReplaceLink(t *testing.T) {
	task := &RecruitmentTask{LinkedItems: []string{"a", "tmp-1", "c"}}
	assert.True(t, task.ReplaceLink("tmp-1", "b"))
	assert.Equal(t, []string{"a", "b", "c"}, task.LinkedItems)
	assert.False(t, task.ReplaceLink("zzz", "y"))
	assert.True(t, task.Links("c"))
}

func TestStudy_Mode(t *testing.T) {
	var nilStudy *Study
	assert.Equal(t, ModeRelative, nilStudy.Mode())

	s := &Study{StartDate: ParseDate("2025-01-06")}
	assert.Equal(t, ModeRelative, s.Mode(), "one anchor is not enough")

	s.EndDate = ParseDate("2025-03-31")
	assert.Equal(t, ModeAbsolute, s.Mode())
}
