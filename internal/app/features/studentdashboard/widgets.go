// internal/app/features/studentdashboard/widgets.go
package studentdashboard

import (
	"math"
	"sort"
	"time"

	"github.com/dalemusser/studentdash/internal/app/system/htmlsanitize"
	"github.com/dalemusser/studentdash/internal/domain/models"
)

const timeLayout = "Jan 2, 2006 3:04 PM"

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(timeLayout)
}

// percent returns num/den as a rounded percentage; 0 when den is 0.
func percent(num, den float64) int {
	if den <= 0 {
		return 0
	}
	return int(math.Round(num / den * 100))
}

// BuildOverview fills the profile and stats header.
func BuildOverview(d models.StudentDashboard) OverviewVM {
	return OverviewVM{
		StudentName:       d.Student.Name,
		GradeLevel:        d.Student.GradeLevel,
		AvatarURL:         d.Student.AvatarURL,
		EnrolledCourses:   d.Stats.EnrolledCourses,
		CompletedCourses:  d.Stats.CompletedCourses,
		CompletedLectures: d.Stats.CompletedLectures,
		TotalLectures:     d.Stats.TotalLectures,
		LecturePercent:    percent(float64(d.Stats.CompletedLectures), float64(d.Stats.TotalLectures)),
	}
}

// BuildEnrollments keeps the backend's order.
func BuildEnrollments(d models.StudentDashboard) []EnrollmentVM {
	out := make([]EnrollmentVM, 0, len(d.Enrollments))
	for _, e := range d.Enrollments {
		out = append(out, EnrollmentVM{
			CourseID:    e.CourseID,
			CourseTitle: e.CourseTitle,
			TeacherName: e.TeacherName,
			Status:      e.Status,
			Progress:    e.Progress,
			EnrolledAt:  formatTime(e.EnrolledAt),
		})
	}
	return out
}

// BuildCourseList joins each enrollment with its earliest upcoming lecture.
func BuildCourseList(d models.StudentDashboard) []CourseVM {
	lectures := append([]models.Lecture(nil), d.UpcomingLectures...)
	sort.SliceStable(lectures, func(i, j int) bool {
		return lectures[i].StartsAt.Before(lectures[j].StartsAt)
	})
	next := make(map[string]models.Lecture, len(lectures))
	for _, l := range lectures {
		if _, seen := next[l.CourseID]; !seen {
			next[l.CourseID] = l
		}
	}

	out := make([]CourseVM, 0, len(d.Enrollments))
	for _, e := range d.Enrollments {
		c := CourseVM{
			CourseID:    e.CourseID,
			Title:       e.CourseTitle,
			TeacherName: e.TeacherName,
			Progress:    e.Progress,
			Completed:   e.Status == models.EnrollmentCompleted,
		}
		if l, ok := next[e.CourseID]; ok {
			c.NextLecture = &LectureVM{
				Title:           l.Title,
				StartsAt:        formatTime(l.StartsAt),
				DurationMinutes: l.DurationMinutes,
				MeetingURL:      l.MeetingURL,
			}
		}
		out = append(out, c)
	}
	return out
}

// BuildProgress computes the progress card. The exam average weights each
// exam by its max score; attendance counts present and late as attended.
func BuildProgress(d models.StudentDashboard) ProgressVM {
	var score, maxScore float64
	for _, x := range d.ExamResults {
		score += x.Score
		maxScore += x.MaxScore
	}

	attended := 0
	for _, a := range d.Attendances {
		if a.Status == models.AttendancePresent || a.Status == models.AttendanceLate {
			attended++
		}
	}

	completed := 0
	for _, e := range d.Enrollments {
		if e.Status == models.EnrollmentCompleted {
			completed++
		}
	}

	return ProgressVM{
		AverageExamPercent: percent(score, maxScore),
		AttendancePercent:  percent(float64(attended), float64(len(d.Attendances))),
		CompletedCourses:   completed,
		ExamsTaken:         len(d.ExamResults),
		AttendanceRecords:  len(d.Attendances),
	}
}

// BuildNotifications renders the current dismissible list. Messages are
// sanitized; plain text gets paragraph and line-break markup.
func BuildNotifications(viewID, csrfToken string, notes []models.Notification) NotificationsData {
	items := make([]NotificationVM, 0, len(notes))
	for _, n := range notes {
		items = append(items, NotificationVM{
			ID:         n.ID,
			Title:      n.Title,
			Message:    htmlsanitize.PrepareForDisplay(n.Message),
			Type:       notificationType(n.Type),
			DismissURL: dismissURL(viewID, n.ID),
		})
	}
	return NotificationsData{ViewID: viewID, CSRFToken: csrfToken, Items: items}
}

func notificationType(t string) string {
	switch t {
	case "warning", "critical":
		return t
	default:
		return "info"
	}
}
