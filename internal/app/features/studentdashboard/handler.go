// internal/app/features/studentdashboard/handler.go
package studentdashboard

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dalemusser/studentdash/internal/app/store/pageviews"
	"github.com/dalemusser/studentdash/internal/app/system/auth"
	"github.com/dalemusser/studentdash/internal/app/system/metrics"
	"github.com/dalemusser/studentdash/internal/app/system/timeouts"
	"github.com/dalemusser/studentdash/internal/app/system/viewdata"
	"github.com/dalemusser/studentdash/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// BasePath is where the feature is mounted.
const BasePath = "/dashboard/student"

// pendingRetrySeconds is how long the identity-check spinner waits before
// asking again.
const pendingRetrySeconds = 2

// KeepAliveInterval is how often an open dashboard tells the server it is
// still being read. The page view TTL must comfortably exceed it.
const KeepAliveInterval = 5 * time.Minute

// DashboardFetcher loads the dashboard bundle for one student.
type DashboardFetcher interface {
	GetStudentDashboard(ctx context.Context, studentID string) (models.StudentDashboard, error)
}

type Handler struct {
	Views  *pageviews.Store
	API    DashboardFetcher
	Render viewdata.Renderer
	// FallbackStudentID is used when the user has neither a student ID nor
	// a user ID. Empty disables the fallback.
	FallbackStudentID string
	Log               *zap.Logger

	loads singleflight.Group
}

func NewHandler(views *pageviews.Store, api DashboardFetcher, fallbackStudentID string, logger *zap.Logger) *Handler {
	return &Handler{
		Views:             views,
		API:               api,
		Render:            viewdata.TemplateRenderer(),
		FallbackStudentID: strings.TrimSpace(fallbackStudentID),
		Log:               logger,
	}
}

// studentID resolves the backend identifier for u: its StudentID, else its
// user ID, else the configured fallback.
func (h *Handler) studentID(u *auth.SessionUser) string {
	if id := strings.TrimSpace(u.StudentID); id != "" {
		return id
	}
	if id := strings.TrimSpace(u.ID); id != "" {
		return id
	}
	if h.FallbackStudentID != "" {
		h.Log.Warn("using fallback student id", zap.String("login_id", u.LoginID))
	}
	return h.FallbackStudentID
}

// gate runs the access gate. It writes the pending or redirect response
// itself and returns ok=false in those cases.
func (h *Handler) gate(w http.ResponseWriter, r *http.Request, pending func()) (*auth.SessionUser, bool) {
	d := Gate(auth.StateFromRequest(r))
	metrics.GateDecisions.WithLabelValues(d.outcome()).Inc()

	switch {
	case d.Pending:
		pending()
		return nil, false
	case d.Redirect != "":
		auth.Navigate(w, r, d.Redirect)
		return nil, false
	}
	return d.User, true
}

// view loads the page view named in the URL and checks that it belongs to u.
// Unknown, expired or closed page views trigger a full reload; someone
// else's page view is a 404.
func (h *Handler) view(w http.ResponseWriter, r *http.Request, viewID string, u *auth.SessionUser) (pageviews.Snapshot, bool) {
	snap, err := h.Views.Get(viewID)
	if err != nil {
		h.reload(w, r)
		return pageviews.Snapshot{}, false
	}
	if snap.UserID != u.ID {
		h.Log.Warn("page view requested by another user",
			zap.String("view_id", viewID),
			zap.String("user_id", u.ID))
		http.NotFound(w, r)
		return pageviews.Snapshot{}, false
	}
	return snap, true
}

// reload asks the browser for a full page load, which re-runs the gate and
// opens a fresh page view.
func (h *Handler) reload(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Refresh", "true")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, BasePath, http.StatusSeeOther)
}

// load fetches the bundle for a Loading page view exactly once. Concurrent
// callers for the same page view share one backend call, and a page view
// that already finished is returned as-is. The fetch is bound to the page
// view's context, not the request's, so it ends when the page view closes.
func (h *Handler) load(viewID string) (pageviews.Snapshot, error) {
	v, err, _ := h.loads.Do(viewID, func() (any, error) {
		snap, err := h.Views.Get(viewID)
		if err != nil {
			return nil, err
		}
		if snap.Status != pageviews.Loading {
			return snap, nil
		}

		viewCtx, err := h.Views.Context(viewID)
		if err != nil {
			return nil, err
		}
		ctx, cancel := timeouts.WithTimeout(viewCtx, timeouts.Fetch(), h.Log, "student dashboard fetch")
		defer cancel()

		start := time.Now()
		data, err := h.API.GetStudentDashboard(ctx, snap.StudentID)
		metrics.DashboardFetchSeconds.Observe(time.Since(start).Seconds())

		if err != nil {
			if viewCtx.Err() != nil {
				metrics.DashboardFetches.WithLabelValues(metrics.ResultCancelled).Inc()
				h.Log.Debug("dashboard fetch abandoned; page view closed",
					zap.String("view_id", viewID))
				return nil, pageviews.ErrClosed
			}
			metrics.DashboardFetches.WithLabelValues(metrics.ResultError).Inc()
			h.Log.Error("student dashboard fetch failed",
				zap.Error(err),
				zap.String("view_id", viewID),
				zap.String("student_id", snap.StudentID))
			return h.Views.Fail(viewID)
		}

		metrics.DashboardFetches.WithLabelValues(metrics.ResultOK).Inc()
		return h.Views.Complete(viewID, data)
	})
	if err != nil {
		return pageviews.Snapshot{}, err
	}
	return v.(pageviews.Snapshot), nil
}

func viewURL(viewID, suffix string) string {
	return BasePath + "/views/" + url.PathEscape(viewID) + suffix
}

func contentURL(viewID string) string { return viewURL(viewID, "/content") }

func closeURL(viewID string) string { return viewURL(viewID, "/close") }

func keepAliveURL(viewID string) string { return viewURL(viewID, "/keepalive") }

func dismissURL(viewID, notificationID string) string {
	return viewURL(viewID, "/notifications/"+url.PathEscape(notificationID)+"/dismiss")
}

// pathParam returns the decoded URL parameter. chi matches against RawPath
// when the request path carries escapes such as %2F, leaving the parameter
// still escaped in that case.
func pathParam(r *http.Request, key string) string {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v
	}
	if dec, err := url.PathUnescape(v); err == nil {
		return dec
	}
	return v
}

func isGone(err error) bool {
	return errors.Is(err, pageviews.ErrNotFound) || errors.Is(err, pageviews.ErrClosed)
}
