package studentdashboard_test

import (
	"testing"

	"github.com/dalemusser/studentdash/internal/app/features/studentdashboard"
	"github.com/dalemusser/studentdash/internal/app/store/pageviews"
	"github.com/dalemusser/studentdash/internal/app/system/auth"
	"github.com/dalemusser/studentdash/internal/domain/models"
)

func user(role string) *auth.SessionUser {
	return &auth.SessionUser{ID: "u1", Role: role}
}

func TestGate(t *testing.T) {
	tests := []struct {
		name         string
		state        auth.State
		wantPending  bool
		wantRedirect string
		wantAllowed  bool
	}{
		{"pending without user", auth.State{Pending: true}, true, "", false},
		{"pending with user", auth.State{Pending: true, User: user("teacher")}, true, "", false},
		{"logged out", auth.State{}, false, "/login", false},
		{"student", auth.State{User: user("student")}, false, "", true},
		{"student mixed case", auth.State{User: user(" Student ")}, false, "", true},
		{"teacher", auth.State{User: user("teacher")}, false, "/dashboard/teacher", false},
		{"parent", auth.State{User: user("parent")}, false, "/dashboard/parent", false},
		{"admin", auth.State{User: user("admin")}, false, "/dashboard/admin", false},
		{"unknown role", auth.State{User: user("janitor")}, false, "/forbidden", false},
		{"empty role", auth.State{User: user("")}, false, "/forbidden", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := studentdashboard.Gate(tt.state)
			if d.Pending != tt.wantPending {
				t.Errorf("Pending: got %v, want %v", d.Pending, tt.wantPending)
			}
			if d.Redirect != tt.wantRedirect {
				t.Errorf("Redirect: got %q, want %q", d.Redirect, tt.wantRedirect)
			}
			if d.Allowed() != tt.wantAllowed {
				t.Errorf("Allowed: got %v, want %v", d.Allowed(), tt.wantAllowed)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	loading := &pageviews.Snapshot{Status: pageviews.Loading}
	failed := &pageviews.Snapshot{Status: pageviews.Failed}
	ready := &pageviews.Snapshot{Status: pageviews.Loaded, Data: &models.StudentDashboard{}}

	tests := []struct {
		name  string
		state auth.State
		snap  *pageviews.Snapshot
		want  studentdashboard.RenderState
	}{
		{"pending beats everything", auth.State{Pending: true}, ready, studentdashboard.StateAuthPending},
		{"logged out", auth.State{}, ready, studentdashboard.StateRedirecting},
		{"wrong role", auth.State{User: user("teacher")}, ready, studentdashboard.StateRedirecting},
		{"no page view yet", auth.State{User: user("student")}, nil, studentdashboard.StateLoading},
		{"loading", auth.State{User: user("student")}, loading, studentdashboard.StateLoading},
		{"failed", auth.State{User: user("student")}, failed, studentdashboard.StateFailed},
		{"loaded without data", auth.State{User: user("student")}, &pageviews.Snapshot{Status: pageviews.Loaded}, studentdashboard.StateFailed},
		{"ready", auth.State{User: user("student")}, ready, studentdashboard.StateReady},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := studentdashboard.Resolve(tt.state, tt.snap); got != tt.want {
				t.Errorf("Resolve: got %v, want %v", got, tt.want)
			}
		})
	}
}
