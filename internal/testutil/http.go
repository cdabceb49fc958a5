package testutil

import (
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/dalemusser/studentdash/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TestUser represents user data for testing HTTP handlers.
type TestUser struct {
	ID        string
	Name      string
	LoginID   string
	Role      string
	StudentID string
}

// StudentUser returns a TestUser with the student role and backend ID.
func StudentUser(studentID string) TestUser {
	return TestUser{
		ID:        primitive.NewObjectID().Hex(),
		Name:      "Test Student",
		LoginID:   "student@test.com",
		Role:      "student",
		StudentID: studentID,
	}
}

// RoleUser returns a TestUser with an arbitrary role.
func RoleUser(role string) TestUser {
	return TestUser{
		ID:      primitive.NewObjectID().Hex(),
		Name:    "Test " + role,
		LoginID: role + "@test.com",
		Role:    role,
	}
}

// WithUser adds a user to the request context for testing authenticated handlers.
// This bypasses the session middleware and injects the user directly.
func WithUser(r *http.Request, user TestUser) *http.Request {
	return auth.WithTestUser(r, &auth.SessionUser{
		ID:        user.ID,
		Name:      user.Name,
		LoginID:   user.LoginID,
		Role:      user.Role,
		StudentID: user.StudentID,
	})
}

// WithPendingAuth marks the request as having an unresolved session user.
func WithPendingAuth(r *http.Request) *http.Request {
	return auth.WithTestState(r, auth.State{Pending: true})
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// NewAuthenticatedRequest creates an HTTP request with a user in context.
func NewAuthenticatedRequest(method, target string, user TestUser) *http.Request {
	return WithUser(httptest.NewRequest(method, target, nil), user)
}

// ResponseRecorder wraps httptest.ResponseRecorder with helper methods.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

// NewRecorder creates a new ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{httptest.NewRecorder()}
}

// AssertStatus checks the response status code.
func (r *ResponseRecorder) AssertStatus(t interface{ Errorf(string, ...any) }, expected int) {
	if r.Code != expected {
		t.Errorf("status code: got %d, want %d", r.Code, expected)
	}
}

// AssertRedirect checks for a redirect to the expected location.
func (r *ResponseRecorder) AssertRedirect(t interface{ Errorf(string, ...any) }, expectedLocation string) {
	if r.Code != http.StatusSeeOther && r.Code != http.StatusFound && r.Code != http.StatusMovedPermanently {
		t.Errorf("expected redirect status, got %d", r.Code)
	}
	if location := r.Header().Get("Location"); location != expectedLocation {
		t.Errorf("redirect location: got %q, want %q", location, expectedLocation)
	}
}

// AssertNoRedirect checks that neither a Location nor an HX-Redirect was sent.
func (r *ResponseRecorder) AssertNoRedirect(t interface{ Errorf(string, ...any) }) {
	if loc := r.Header().Get("Location"); loc != "" {
		t.Errorf("unexpected Location %q", loc)
	}
	if hx := r.Header().Get("HX-Redirect"); hx != "" {
		t.Errorf("unexpected HX-Redirect %q", hx)
	}
}

// AssertContains checks if the response body contains the expected string.
func (r *ResponseRecorder) AssertContains(t interface{ Errorf(string, ...any) }, expected string) {
	if !strings.Contains(r.Body.String(), expected) {
		t.Errorf("response body does not contain %q", expected)
	}
}
