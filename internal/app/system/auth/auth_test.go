package auth_test

// Terminology: User Identifiers
//   - UserID / userID / user_id: The MongoDB ObjectID (_id) that uniquely identifies a user record
//   - LoginID / loginID / login_id: The human-readable string users type to log in

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/studentdash/internal/app/system/auth"
	"go.uber.org/zap"
)

func newTestSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	logger := zap.NewNop()
	sm, err := auth.NewSessionManager(
		"test-session-key-must-be-32-chars-long",
		"test-session",
		"",
		24*time.Hour,
		false,
		logger,
	)
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}
	return sm
}

// fakeFetcher returns a fixed result for every lookup.
type fakeFetcher struct {
	user  *auth.SessionUser
	err   error
	calls int
}

func (f *fakeFetcher) FetchUser(ctx context.Context, userID string) (*auth.SessionUser, error) {
	f.calls++
	return f.user, f.err
}

// signedInCookie performs a SignIn and returns the resulting session cookie.
func signedInCookie(t *testing.T, sm *auth.SessionManager, userID string) *http.Cookie {
	t.Helper()
	req := httptest.NewRequest("POST", "/login", nil)
	rec := httptest.NewRecorder()
	if err := sm.SignIn(rec, req, userID); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == "test-session" {
			return c
		}
	}
	t.Fatal("SignIn did not set a session cookie")
	return nil
}

// captureState runs the middleware and returns the State the next handler saw.
func captureState(t *testing.T, sm *auth.SessionManager, req *http.Request) auth.State {
	t.Helper()
	var got auth.State
	h := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = auth.StateFromRequest(r)
	}))
	h.ServeHTTP(httptest.NewRecorder(), req)
	return got
}

func TestNewSessionManager_EmptyKey(t *testing.T) {
	_, err := auth.NewSessionManager("", "test-session", "", time.Hour, false, zap.NewNop())
	if err == nil {
		t.Fatal("expected error for empty session key")
	}
}

func TestLoadSessionUser_NoCookie_LoggedOut(t *testing.T) {
	sm := newTestSessionManager(t)
	f := &fakeFetcher{}
	sm.SetUserFetcher(f)

	st := captureState(t, sm, httptest.NewRequest("GET", "/", nil))

	if st.Pending || st.User != nil {
		t.Errorf("expected logged-out state, got %+v", st)
	}
	if f.calls != 0 {
		t.Errorf("fetcher called %d times for anonymous request", f.calls)
	}
}

func TestLoadSessionUser_ResolvesUser(t *testing.T) {
	sm := newTestSessionManager(t)
	sm.SetUserFetcher(&fakeFetcher{user: &auth.SessionUser{ID: "u1", Role: "student"}})

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(signedInCookie(t, sm, "u1"))

	st := captureState(t, sm, req)

	if !st.LoggedIn() {
		t.Fatalf("expected logged in, got %+v", st)
	}
	if st.User.ID != "u1" {
		t.Errorf("user ID: got %q, want %q", st.User.ID, "u1")
	}
}

func TestLoadSessionUser_UnknownUser_LoggedOut(t *testing.T) {
	sm := newTestSessionManager(t)
	sm.SetUserFetcher(&fakeFetcher{err: auth.ErrUserNotFound})

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(signedInCookie(t, sm, "gone"))

	st := captureState(t, sm, req)

	if st.Pending || st.User != nil {
		t.Errorf("expected logged-out state, got %+v", st)
	}
}

func TestLoadSessionUser_TransientError_Pending(t *testing.T) {
	sm := newTestSessionManager(t)
	sm.SetUserFetcher(&fakeFetcher{err: errors.New("connection refused")})

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(signedInCookie(t, sm, "u1"))

	st := captureState(t, sm, req)

	if !st.Pending {
		t.Errorf("expected pending state, got %+v", st)
	}
	if _, ok := auth.CurrentUser(req); ok {
		t.Error("CurrentUser reported a user for a pending request")
	}
}

func TestLoadSessionUser_TamperedCookie_LoggedOut(t *testing.T) {
	sm := newTestSessionManager(t)
	sm.SetUserFetcher(&fakeFetcher{user: &auth.SessionUser{ID: "u1"}})

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: "test-session", Value: "not-a-valid-cookie"})

	st := captureState(t, sm, req)

	if st.Pending || st.User != nil {
		t.Errorf("expected logged-out state, got %+v", st)
	}
}

func TestRequireSignedIn_NoUser_RedirectsToLogin(t *testing.T) {
	sm := newTestSessionManager(t)

	handler := sm.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if location := rec.Header().Get("Location"); !strings.HasPrefix(location, "/login") {
		t.Errorf("expected redirect to /login, got %q", location)
	}
}

func TestRequireSignedIn_NoUser_API_Returns401(t *testing.T) {
	sm := newTestSessionManager(t)

	handler := sm.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/data", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestRequireSignedIn_NoUser_HTMX_ReturnsHXRedirect(t *testing.T) {
	sm := newTestSessionManager(t)

	handler := sm.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if hx := rec.Header().Get("HX-Redirect"); !strings.HasPrefix(hx, "/login") {
		t.Errorf("expected HX-Redirect to /login, got %q", hx)
	}
}

func TestRequireSignedIn_Pending_NoRedirect(t *testing.T) {
	sm := newTestSessionManager(t)

	called := false
	handler := sm.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Accept", "text/html")
	req = auth.WithTestState(req, auth.State{Pending: true})
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if called {
		t.Error("handler ran while auth was pending")
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status %d, got %d", http.StatusServiceUnavailable, rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "" {
		t.Errorf("unexpected redirect to %q while pending", loc)
	}
}

func TestRequireSignedIn_WithUser_Proceeds(t *testing.T) {
	sm := newTestSessionManager(t)

	called := false
	handler := sm.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/protected", nil)
	req = withTestUser(req, "teacher")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if !called {
		t.Error("expected handler to be called")
	}
}

func TestNavigate(t *testing.T) {
	t.Run("browser", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/x", nil)
		rec := httptest.NewRecorder()
		auth.Navigate(rec, req, "/login")
		if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
			t.Errorf("got %d %q, want 303 /login", rec.Code, rec.Header().Get("Location"))
		}
	})
	t.Run("htmx", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/x", nil)
		req.Header.Set("HX-Request", "true")
		rec := httptest.NewRecorder()
		auth.Navigate(rec, req, "/login")
		if rec.Header().Get("HX-Redirect") != "/login" {
			t.Errorf("HX-Redirect: got %q, want /login", rec.Header().Get("HX-Redirect"))
		}
		if rec.Header().Get("Location") != "" {
			t.Error("HTMX navigation must not set Location")
		}
	})
}

func TestCurrentUser_NoUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)

	user, ok := auth.CurrentUser(req)

	if ok {
		t.Error("expected ok to be false when no user in context")
	}
	if user != nil {
		t.Error("expected user to be nil when no user in context")
	}
}

func TestCurrentUser_WithUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req = withTestUser(req, "student")

	user, ok := auth.CurrentUser(req)

	if !ok {
		t.Fatal("expected ok to be true when user in context")
	}
	if user.Role != "student" {
		t.Errorf("expected role 'student', got %q", user.Role)
	}
}

// withTestUser injects a SessionUser into the request context for testing.
// This simulates what LoadSessionUser middleware does.
func withTestUser(r *http.Request, role string) *http.Request {
	user := &auth.SessionUser{
		ID:      "507f1f77bcf86cd799439011", // Valid ObjectID hex
		Name:    "Test User",
		LoginID: "test@example.com",
		Role:    role,
	}
	return auth.WithTestUser(r, user)
}

func TestSignOut_ExpiresCookieAndLogsOut(t *testing.T) {
	sm := newTestSessionManager(t)
	f := &fakeFetcher{user: &auth.SessionUser{ID: "u1", Role: "student"}}
	sm.SetUserFetcher(f)

	req := httptest.NewRequest("GET", "/logout", nil)
	req.AddCookie(signedInCookie(t, sm, "u1"))
	rec := httptest.NewRecorder()
	if err := sm.SignOut(rec, req); err != nil {
		t.Fatalf("SignOut failed: %v", err)
	}

	var cleared *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "test-session" {
			cleared = c
		}
	}
	if cleared == nil {
		t.Fatal("SignOut did not write a session cookie")
	}
	if cleared.MaxAge >= 0 {
		t.Errorf("MaxAge: got %d, want negative", cleared.MaxAge)
	}
	if !cleared.HttpOnly || cleared.Path != "/" {
		t.Errorf("deletion cookie does not mirror store options: %+v", cleared)
	}

	next := httptest.NewRequest("GET", "/", nil)
	next.AddCookie(&http.Cookie{Name: cleared.Name, Value: cleared.Value})
	if st := captureState(t, sm, next); st.LoggedIn() || st.Pending {
		t.Errorf("state after sign out: %+v, want logged out", st)
	}
}
