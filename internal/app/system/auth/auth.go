package auth

// Terminology: User Identifiers
//   - UserID / userID / user_id: The MongoDB ObjectID (_id) that uniquely identifies a user record
//   - LoginID / loginID / login_id: The human-readable string users type to log in
//   - StudentID / student_id: The identifier the dashboard backend knows a student by

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Session constants                                                           |
*─────────────────────────────────────────────────────────────────────────────*/

const (
	isAuthKey = "is_authenticated"
	userIDKey = "user_id"
)

// LoginPath is where unauthenticated browsers are sent.
const LoginPath = "/login"

// ErrUserNotFound is returned by a UserFetcher when the session refers to a
// user that no longer exists or may not sign in. The session is then treated
// as logged out.
var ErrUserNotFound = errors.New("auth: user not found")

/*─────────────────────────────────────────────────────────────────────────────*
| Current-User helpers                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

// SessionUser is the resolved identity injected into r.Context().
type SessionUser struct {
	ID        string
	Name      string
	LoginID   string
	Role      string
	StudentID string
}

// State is the auth provider's view of the current request.
//
//   - Pending: the session names a user but the record could not be resolved
//     yet (user store unreachable or slow). Callers must not redirect.
//   - User == nil && !Pending: not logged in.
type State struct {
	Pending bool
	User    *SessionUser
}

// LoggedIn reports whether a user has been resolved.
func (s State) LoggedIn() bool {
	return !s.Pending && s.User != nil
}

// UserFetcher loads fresh user data for a session's user ID.
// It returns ErrUserNotFound for unknown or disabled users; any other error
// is treated as transient.
type UserFetcher interface {
	FetchUser(ctx context.Context, userID string) (*SessionUser, error)
}

type ctxKey string

const stateKey ctxKey = "authState"

// StateFromRequest returns the auth state set by LoadSessionUser.
// A request that never went through the middleware is logged out.
func StateFromRequest(r *http.Request) State {
	st, _ := r.Context().Value(stateKey).(State)
	return st
}

// CurrentUser returns the user & "found?" flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	st := StateFromRequest(r)
	if !st.LoggedIn() {
		return nil, false
	}
	return st.User, true
}

/*─────────────────────────────────────────────────────────────────────────────*
| SessionManager                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

// SessionManager owns the cookie store and the user fetcher.
type SessionManager struct {
	store   *sessions.CookieStore
	name    string
	fetcher UserFetcher
	log     *zap.Logger
}

// NewSessionManager builds a cookie-backed session manager.
//
// In production (secure=true) cookies are Secure + SameSite=Lax.
// In local dev over http://localhost, use secure=false so cookies are accepted.
func NewSessionManager(sessionKey, name, domain string, maxAge time.Duration, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}
	if name == "" {
		return nil, fmt.Errorf("session name is empty")
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	store.Options = &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	store.MaxAge(store.Options.MaxAge)

	logger.Info("session store initialized",
		zap.Bool("secure", secure),
		zap.String("domain", domain),
		zap.Duration("max_age", maxAge))

	return &SessionManager{store: store, name: name, log: logger}, nil
}

// SetUserFetcher installs the fetcher LoadSessionUser uses to resolve users.
func (sm *SessionManager) SetUserFetcher(f UserFetcher) {
	sm.fetcher = f
}

// Store exposes the underlying cookie store.
func (sm *SessionManager) Store() *sessions.CookieStore {
	return sm.store
}

// GetSession returns the session for r. On a decode failure a fresh session
// is returned together with the error so callers can log and continue.
func (sm *SessionManager) GetSession(r *http.Request) (*sessions.Session, error) {
	return sm.store.Get(r, sm.name)
}

// SignIn marks the session as authenticated for userID and saves it.
func (sm *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, userID string) error {
	sess, err := sm.GetSession(r)
	if err != nil {
		sm.logDecodeError(err, "sign in")
	}
	sess.Values[isAuthKey] = true
	sess.Values[userIDKey] = userID
	return sess.Save(r, w)
}

// SignOut expires the session cookie. The deletion cookie mirrors the
// store's options so the browser matches it to the original.
func (sm *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess, err := sm.GetSession(r)
	if err != nil {
		sm.logDecodeError(err, "sign out")
	}
	if opts := sm.store.Options; opts != nil {
		o := *opts
		sess.Options = &o
	}
	sess.Options.MaxAge = -1
	delete(sess.Values, isAuthKey)
	delete(sess.Values, userIDKey)
	return sess.Save(r, w)
}

// LoadSessionUser resolves the session's user and stores the auth State in
// the request context. It always calls next.
func (sm *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := sm.GetSession(r)
		if err != nil {
			sm.logDecodeError(err, "load session user")
		}

		isAuth, _ := sess.Values[isAuthKey].(bool)
		userID := getString(sess, userIDKey)
		if !isAuth || userID == "" {
			next.ServeHTTP(w, r)
			return
		}

		if sm.fetcher == nil {
			// Without a fetcher we cannot resolve anything yet.
			next.ServeHTTP(w, withState(r, State{Pending: true}))
			return
		}

		u, err := sm.fetcher.FetchUser(r.Context(), userID)
		switch {
		case err == nil && u != nil:
			next.ServeHTTP(w, withState(r, State{User: u}))
		case err == nil, errors.Is(err, ErrUserNotFound):
			sm.log.Debug("session user no longer valid", zap.String("user_id", userID))
			next.ServeHTTP(w, r)
		default:
			sm.log.Warn("session user lookup failed; auth pending",
				zap.Error(err),
				zap.String("user_id", userID))
			next.ServeHTTP(w, withState(r, State{Pending: true}))
		}
	})
}

// RequireSignedIn ensures there is a resolved user in context.
// If not signed in:
//   - HTMX: sends HX-Redirect to /login?return=...
//   - HTML: 303 redirect to /login?return=...
//   - API:  401 Unauthorized with a plain error body.
//
// While auth is pending it answers 503 with Retry-After and never redirects.
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		st := StateFromRequest(r)
		if st.Pending {
			w.Header().Set("Retry-After", "2")
			http.Error(w, "authentication pending", http.StatusServiceUnavailable)
			return
		}
		if st.LoggedIn() {
			next.ServeHTTP(w, r)
			return
		}

		if wantsHTML(r) {
			Navigate(w, r, LoginPath+"?return="+url.QueryEscape(currentURI(r)))
			return
		}
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	})
}

// Navigate sends the browser to location: HX-Redirect for HTMX requests
// (full-page navigation, no partial swap), 303 otherwise.
func Navigate(w http.ResponseWriter, r *http.Request, location string) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", location)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, location, http.StatusSeeOther)
}

// WithTestUser injects a resolved user into the request context.
// Handler tests use it to bypass the session middleware.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withState(r, State{User: u})
}

// WithTestState injects an arbitrary auth State (e.g. Pending) for tests.
func WithTestState(r *http.Request, st State) *http.Request {
	return withState(r, st)
}

// helpers

func withState(r *http.Request, st State) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), stateKey, st))
}

func (sm *SessionManager) logDecodeError(err error, op string) {
	var scErr securecookie.Error
	if errors.As(err, &scErr) && scErr.IsDecode() {
		sm.log.Warn("session cookie invalid, using fresh session",
			zap.String("op", op), zap.Error(err))
		return
	}
	sm.log.Error("session store error, using fresh session",
		zap.String("op", op), zap.Error(err))
}

// getString safely extracts a string from a session value.
func getString(s *sessions.Session, key string) string {
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}

func wantsHTML(r *http.Request) bool {
	// Very light heuristic: treat it as HTML if it's HTMX or Accepts text/html.
	if r.Header.Get("HX-Request") == "true" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

func currentURI(r *http.Request) string {
	u := *r.URL
	return u.RequestURI()
}
