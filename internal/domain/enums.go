package domain

type RecruitmentStatus string

const (
	RecruitmentInProgress RecruitmentStatus = "in_progress"
	RecruitmentComplete   RecruitmentStatus = "complete"
)

type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in_progress"
	TaskDone       TaskStatus = "done"
)

type ApplicationStatus string

const (
	ApplicationPending       ApplicationStatus = "pending"
	ApplicationAccepted      ApplicationStatus = "accepted"
	ApplicationRejected      ApplicationStatus = "rejected"
	ApplicationManuallyAdded ApplicationStatus = "manually_added"
)

// RecruitedStatuses are the application states that count toward a task's
// recruited total.
var RecruitedStatuses = []ApplicationStatus{ApplicationAccepted, ApplicationManuallyAdded}

// ValidApplicationStatuses is the canonical set of accepted application status strings.
var ValidApplicationStatuses = map[string]bool{
	"pending": true, "accepted": true, "rejected": true, "manually_added": true,
}

// ValidTaskStatuses is the canonical set of accepted task status strings.
var ValidTaskStatuses = map[string]bool{
	"todo": true, "in_progress": true, "done": true,
}

// ScheduleMode selects how line-item intervals are interpreted.
type ScheduleMode int

const (
	// ModeRelative treats intervals as abstract week indices.
	ModeRelative ScheduleMode = iota
	// ModeAbsolute anchors intervals to the study's calendar dates.
	ModeAbsolute
)

func (m ScheduleMode) String() string {
	if m == ModeAbsolute {
		return "absolute"
	}
	return "relative"
}
