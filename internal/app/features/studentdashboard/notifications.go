// internal/app/features/studentdashboard/notifications.go
package studentdashboard

import (
	"net/http"

	"github.com/dalemusser/studentdash/internal/app/system/auth"
	"github.com/dalemusser/studentdash/internal/app/system/metrics"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// HandleDismiss removes one notification from the page view and re-renders
// the panel. Nothing is sent to the backend and nothing is persisted.
func (h *Handler) HandleDismiss(w http.ResponseWriter, r *http.Request) {
	viewID := pathParam(r, "viewID")
	notificationID := pathParam(r, "notificationID")

	u, ok := h.gate(w, r, func() {
		w.Header().Set("Retry-After", "2")
		http.Error(w, "authentication pending", http.StatusServiceUnavailable)
	})
	if !ok {
		return
	}

	before, ok := h.view(w, r, viewID, u)
	if !ok {
		return
	}

	after, err := h.Views.Dismiss(viewID, notificationID)
	if err != nil {
		h.reload(w, r)
		return
	}
	if len(after.Notifications) < len(before.Notifications) {
		metrics.NotificationDismissals.Inc()
		h.Log.Debug("notification dismissed",
			zap.String("view_id", viewID),
			zap.String("notification_id", notificationID))
	}

	h.Render.Snippet(w, tmplNotifications, BuildNotifications(viewID, csrf.Token(r), after.Notifications))
}

// HandleKeepAlive marks the page view as still in use so the idle sweep
// leaves it alone while the student reads the page.
func (h *Handler) HandleKeepAlive(w http.ResponseWriter, r *http.Request) {
	viewID := pathParam(r, "viewID")

	u, ok := h.gate(w, r, func() {
		w.WriteHeader(http.StatusNoContent)
	})
	if !ok {
		return
	}
	if _, ok := h.view(w, r, viewID, u); !ok {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleClose ends a page view. The browser sends it as a pagehide beacon;
// any fetch still running for the page view is cancelled and its result
// discarded.
func (h *Handler) HandleClose(w http.ResponseWriter, r *http.Request) {
	viewID := pathParam(r, "viewID")

	u, ok := auth.CurrentUser(r)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	snap, err := h.Views.Get(viewID)
	if err != nil || snap.UserID != u.ID {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if err := h.Views.Close(viewID); err == nil {
		h.Log.Debug("page view closed", zap.String("view_id", viewID))
	}
	w.WriteHeader(http.StatusNoContent)
}
