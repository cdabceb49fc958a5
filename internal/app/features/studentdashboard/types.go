// internal/app/features/studentdashboard/types.go
package studentdashboard

import (
	"html/template"

	"github.com/dalemusser/studentdash/internal/app/system/viewdata"
)

// Template names.
const (
	tmplPage          = "studentdashboard_page"
	tmplPending       = "studentdashboard_pending"
	tmplPendingSnip   = "studentdashboard_pending_fragment"
	tmplReady         = "studentdashboard_ready"
	tmplError         = "studentdashboard_error"
	tmplNotifications = "studentdashboard_notifications"
)

// PageData is the shell rendered by GET /dashboard/student.
type PageData struct {
	viewdata.BaseVM
	State      RenderState
	ViewID     string
	ContentURL   string
	CloseURL     string
	KeepAliveURL string
	KeepAlive    int // seconds between keepalive requests
	RetryAfter   int // seconds; set while auth is pending
}

// ReadyData is the full dashboard layout swapped into the shell.
type ReadyData struct {
	ViewID        string
	CSRFToken     string
	Notifications NotificationsData
	Overview      OverviewVM
	Enrollments   []EnrollmentVM
	Courses       []CourseVM
	Progress      ProgressVM
}

// ErrorData is the generic failure panel.
type ErrorData struct {
	ReloadURL string
}

// PendingData re-polls the content fragment while auth is pending.
type PendingData struct {
	ContentURL string
	RetryAfter int
}

// NotificationsData is the dismissible notification panel.
type NotificationsData struct {
	ViewID    string
	CSRFToken string
	Items     []NotificationVM
}

// NotificationVM is one dismissible card.
type NotificationVM struct {
	ID         string
	Title      string
	Message    template.HTML
	Type       string
	DismissURL string
}

// OverviewVM is the profile and stats header.
type OverviewVM struct {
	StudentName       string
	GradeLevel        string
	AvatarURL         string
	EnrolledCourses   int
	CompletedCourses  int
	CompletedLectures int
	TotalLectures     int
	LecturePercent    int
}

// EnrollmentVM is one row of the enrollments list.
type EnrollmentVM struct {
	CourseID    string
	CourseTitle string
	TeacherName string
	Status      string
	Progress    int
	EnrolledAt  string
}

// CourseVM is one card of the course list.
type CourseVM struct {
	CourseID    string
	Title       string
	TeacherName string
	Progress    int
	Completed   bool
	NextLecture *LectureVM
}

// LectureVM is an upcoming lecture.
type LectureVM struct {
	Title           string
	StartsAt        string
	DurationMinutes int
	MeetingURL      string
}

// ProgressVM is the progress card.
type ProgressVM struct {
	AverageExamPercent int
	AttendancePercent  int
	CompletedCourses   int
	ExamsTaken         int
	AttendanceRecords  int
}
