// internal/app/features/studentdashboard/state.go
package studentdashboard

import (
	"github.com/dalemusser/studentdash/internal/app/store/pageviews"
	"github.com/dalemusser/studentdash/internal/app/system/auth"
	"github.com/dalemusser/studentdash/internal/app/system/roles"
)

// RenderState is what the page shows, in priority order.
type RenderState int

const (
	// StateAuthPending: identity is still being resolved; show the check spinner.
	StateAuthPending RenderState = iota
	// StateRedirecting: not signed in or not a student; nothing is rendered.
	StateRedirecting
	// StateLoading: the dashboard bundle has not arrived yet.
	StateLoading
	// StateFailed: loading finished without a bundle; show the error panel.
	StateFailed
	// StateReady: the bundle is present; show the full layout.
	StateReady
)

func (s RenderState) String() string {
	switch s {
	case StateAuthPending:
		return "auth_pending"
	case StateRedirecting:
		return "redirecting"
	case StateLoading:
		return "loading"
	case StateFailed:
		return "failed"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// Resolve maps the auth state and page view onto a single RenderState.
// A nil snapshot means no page view exists yet.
func Resolve(st auth.State, snap *pageviews.Snapshot) RenderState {
	if st.Pending {
		return StateAuthPending
	}
	if !st.LoggedIn() {
		return StateRedirecting
	}
	if r, _ := roles.Parse(st.User.Role); r != roles.Student {
		return StateRedirecting
	}
	if snap == nil || snap.Status == pageviews.Loading {
		return StateLoading
	}
	if snap.Data == nil {
		return StateFailed
	}
	return StateReady
}

// Decision is the access gate's verdict for one request.
type Decision struct {
	Pending  bool   // identity unresolved; render the spinner, never navigate
	Redirect string // non-empty: navigate here instead of rendering
	User     *auth.SessionUser
}

// Allowed reports whether the request may see the student dashboard.
func (d Decision) Allowed() bool {
	return !d.Pending && d.Redirect == "" && d.User != nil
}

// Gate decides whether a request may see the student dashboard.
//
//   - pending: no navigation
//   - not signed in: /login
//   - any role other than student: that role's dashboard (unknown roles: /forbidden)
func Gate(st auth.State) Decision {
	if st.Pending {
		return Decision{Pending: true}
	}
	if !st.LoggedIn() {
		return Decision{Redirect: auth.LoginPath}
	}
	if r, _ := roles.Parse(st.User.Role); r != roles.Student {
		path, _ := roles.DashboardPath(st.User.Role)
		return Decision{Redirect: path}
	}
	return Decision{User: st.User}
}

// outcome labels a Decision for metrics.
func (d Decision) outcome() string {
	switch {
	case d.Pending:
		return "pending"
	case d.Redirect == auth.LoginPath:
		return "login"
	case d.Redirect != "":
		return "redirect"
	default:
		return "allow"
	}
}
