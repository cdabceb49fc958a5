// internal/domain/models/dashboard.go
package models

import "time"

// StudentDashboard is the bundle the dashboard backend returns for one student.
// It is a read-only snapshot; the page never edits it.
type StudentDashboard struct {
	Student          StudentProfile `json:"student" validate:"required"`
	Stats            StudentStats   `json:"stats"`
	Enrollments      []Enrollment   `json:"enrollments" validate:"dive"`
	UpcomingLectures []Lecture      `json:"upcomingLectures" validate:"dive"`
	ExamResults      []ExamResult   `json:"examResults" validate:"dive"`
	Attendances      []Attendance   `json:"attendances" validate:"dive"`
	Notifications    []Notification `json:"notifications" validate:"dive"`
}

// StudentProfile identifies the student the bundle was built for.
type StudentProfile struct {
	ID         string    `json:"id" validate:"required"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	GradeLevel string    `json:"gradeLevel"`
	AvatarURL  string    `json:"avatarUrl"`
	JoinedAt   time.Time `json:"joinedAt"`
}

// StudentStats holds the aggregate counters shown on the overview.
type StudentStats struct {
	EnrolledCourses   int     `json:"enrolledCourses" validate:"gte=0"`
	CompletedCourses  int     `json:"completedCourses" validate:"gte=0"`
	CompletedLectures int     `json:"completedLectures" validate:"gte=0"`
	TotalLectures     int     `json:"totalLectures" validate:"gte=0"`
	AverageScore      float64 `json:"averageScore"`
	AttendanceRate    float64 `json:"attendanceRate"`
}

// Enrollment status values.
const (
	EnrollmentActive    = "active"
	EnrollmentCompleted = "completed"
	EnrollmentPending   = "pending"
)

// Enrollment links the student to a course.
type Enrollment struct {
	ID          string    `json:"id" validate:"required"`
	CourseID    string    `json:"courseId" validate:"required"`
	CourseTitle string    `json:"courseTitle"`
	TeacherName string    `json:"teacherName"`
	Progress    int       `json:"progress" validate:"gte=0,lte=100"` // percent
	Status      string    `json:"status"`
	EnrolledAt  time.Time `json:"enrolledAt"`
}

// Lecture is an upcoming session of an enrolled course.
type Lecture struct {
	ID              string    `json:"id" validate:"required"`
	CourseID        string    `json:"courseId"`
	CourseTitle     string    `json:"courseTitle"`
	Title           string    `json:"title"`
	StartsAt        time.Time `json:"startsAt"`
	DurationMinutes int       `json:"durationMinutes" validate:"gte=0"`
	MeetingURL      string    `json:"meetingUrl"`
}

// ExamResult is one graded exam.
type ExamResult struct {
	ID        string    `json:"id" validate:"required"`
	CourseID  string    `json:"courseId"`
	ExamTitle string    `json:"examTitle"`
	Score     float64   `json:"score" validate:"gte=0"`
	MaxScore  float64   `json:"maxScore" validate:"gte=0"`
	TakenAt   time.Time `json:"takenAt"`
}

// Attendance status values.
const (
	AttendancePresent = "present"
	AttendanceLate    = "late"
	AttendanceAbsent  = "absent"
)

// Attendance records whether the student attended one lecture.
type Attendance struct {
	ID        string    `json:"id" validate:"required"`
	CourseID  string    `json:"courseId"`
	LectureID string    `json:"lectureId"`
	Status    string    `json:"status"`
	Date      time.Time `json:"date"`
}

// Notification is a server-generated message delivered with the bundle.
type Notification struct {
	ID        string    `json:"id" validate:"required"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type,omitempty"` // info, warning, critical
	CreatedAt time.Time `json:"createdAt"`
}
