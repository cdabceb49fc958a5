package studentdashboard_test

import (
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/studentdash/internal/app/features/studentdashboard"
	"github.com/dalemusser/studentdash/internal/domain/models"
)

func sampleBundle() models.StudentDashboard {
	day := time.Date(2026, 10, 20, 9, 0, 0, 0, time.UTC)
	return models.StudentDashboard{
		Student: models.StudentProfile{ID: "s1", Name: "Sam Student", GradeLevel: "10"},
		Stats: models.StudentStats{
			EnrolledCourses: 2, CompletedCourses: 1, CompletedLectures: 15, TotalLectures: 20,
		},
		Enrollments: []models.Enrollment{
			{ID: "e1", CourseID: "c1", CourseTitle: "Algebra", TeacherName: "Ms. Lee", Progress: 40, Status: models.EnrollmentActive},
			{ID: "e2", CourseID: "c2", CourseTitle: "Biology", TeacherName: "Mr. Cho", Progress: 100, Status: models.EnrollmentCompleted},
		},
		UpcomingLectures: []models.Lecture{
			{ID: "l2", CourseID: "c1", Title: "Factoring", StartsAt: day.Add(48 * time.Hour)},
			{ID: "l1", CourseID: "c1", Title: "Quadratics", StartsAt: day, DurationMinutes: 45},
		},
		ExamResults: []models.ExamResult{
			{ID: "x1", CourseID: "c1", Score: 18, MaxScore: 20},
			{ID: "x2", CourseID: "c2", Score: 7, MaxScore: 10},
		},
		Attendances: []models.Attendance{
			{ID: "a1", Status: models.AttendancePresent},
			{ID: "a2", Status: models.AttendanceLate},
			{ID: "a3", Status: models.AttendanceAbsent},
			{ID: "a4", Status: models.AttendancePresent},
		},
		Notifications: []models.Notification{
			{ID: "n1", Title: "Welcome", Message: "Glad you're here"},
			{ID: "n2", Title: "Exam", Message: "Friday at 9", Type: "warning"},
		},
	}
}

func TestBuildOverview(t *testing.T) {
	o := studentdashboard.BuildOverview(sampleBundle())
	if o.StudentName != "Sam Student" || o.GradeLevel != "10" {
		t.Errorf("profile: got %+v", o)
	}
	if o.LecturePercent != 75 {
		t.Errorf("LecturePercent: got %d, want 75", o.LecturePercent)
	}

	empty := studentdashboard.BuildOverview(models.StudentDashboard{})
	if empty.LecturePercent != 0 {
		t.Errorf("LecturePercent with no lectures: got %d, want 0", empty.LecturePercent)
	}
}

func TestBuildEnrollments_KeepsOrder(t *testing.T) {
	got := studentdashboard.BuildEnrollments(sampleBundle())
	if len(got) != 2 || got[0].CourseTitle != "Algebra" || got[1].CourseTitle != "Biology" {
		t.Fatalf("enrollments: got %+v", got)
	}
	if got[1].Status != models.EnrollmentCompleted {
		t.Errorf("status: got %q", got[1].Status)
	}
}

func TestBuildCourseList_NextLecture(t *testing.T) {
	got := studentdashboard.BuildCourseList(sampleBundle())
	if len(got) != 2 {
		t.Fatalf("courses: got %d, want 2", len(got))
	}
	if got[0].NextLecture == nil || got[0].NextLecture.Title != "Quadratics" {
		t.Errorf("Algebra next lecture: got %+v", got[0].NextLecture)
	}
	if got[0].NextLecture.StartsAt != "Oct 20, 2026 9:00 AM" {
		t.Errorf("StartsAt: got %q", got[0].NextLecture.StartsAt)
	}
	if got[1].NextLecture != nil {
		t.Errorf("Biology has no upcoming lecture, got %+v", got[1].NextLecture)
	}
	if !got[1].Completed {
		t.Error("Biology should be marked completed")
	}
}

func TestBuildProgress(t *testing.T) {
	tests := []struct {
		name           string
		bundle         models.StudentDashboard
		wantExam       int
		wantAttendance int
		wantCompleted  int
	}{
		{"sample", sampleBundle(), 83, 75, 1},
		{"empty", models.StudentDashboard{}, 0, 0, 0},
		{"zero max score", models.StudentDashboard{
			ExamResults: []models.ExamResult{{ID: "x", Score: 0, MaxScore: 0}},
		}, 0, 0, 0},
		{"all absent", models.StudentDashboard{
			Attendances: []models.Attendance{{ID: "a", Status: models.AttendanceAbsent}},
		}, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := studentdashboard.BuildProgress(tt.bundle)
			if p.AverageExamPercent != tt.wantExam {
				t.Errorf("AverageExamPercent: got %d, want %d", p.AverageExamPercent, tt.wantExam)
			}
			if p.AttendancePercent != tt.wantAttendance {
				t.Errorf("AttendancePercent: got %d, want %d", p.AttendancePercent, tt.wantAttendance)
			}
			if p.CompletedCourses != tt.wantCompleted {
				t.Errorf("CompletedCourses: got %d, want %d", p.CompletedCourses, tt.wantCompleted)
			}
		})
	}
}

func TestBuildNotifications(t *testing.T) {
	notes := []models.Notification{
		{ID: "n1", Title: "Plain", Message: "line one\nline two"},
		{ID: "n/2", Title: "Markup", Message: `<p>Hi</p><script>alert(1)</script>`, Type: "critical"},
		{ID: "n3", Title: "Odd type", Message: "x", Type: "shouting"},
	}
	got := studentdashboard.BuildNotifications("view-1", "tok", notes)

	if len(got.Items) != 3 {
		t.Fatalf("items: got %d, want 3", len(got.Items))
	}
	if got.Items[0].Message != "<p>line one<br>line two</p>" {
		t.Errorf("plain message: got %q", got.Items[0].Message)
	}
	if strings.Contains(string(got.Items[1].Message), "script") {
		t.Errorf("markup not sanitized: %q", got.Items[1].Message)
	}
	if got.Items[1].DismissURL != "/dashboard/student/views/view-1/notifications/n%2F2/dismiss" {
		t.Errorf("DismissURL: got %q", got.Items[1].DismissURL)
	}
	if got.Items[1].Type != "critical" || got.Items[2].Type != "info" {
		t.Errorf("types: got %q, %q", got.Items[1].Type, got.Items[2].Type)
	}
	if got.CSRFToken != "tok" || got.ViewID != "view-1" {
		t.Errorf("panel fields: got %+v", got)
	}
}
