// internal/app/features/studentdashboard/content.go
package studentdashboard

import (
	"net/http"

	"github.com/dalemusser/studentdash/internal/app/store/pageviews"
	"github.com/dalemusser/studentdash/internal/app/system/auth"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// ServeContent loads the page view's bundle (once) and renders either the
// full layout or the error panel.
func (h *Handler) ServeContent(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	viewID := pathParam(r, "viewID")

	u, ok := h.gate(w, r, func() {
		h.Render.Snippet(w, tmplPendingSnip, PendingData{
			ContentURL: contentURL(viewID),
			RetryAfter: pendingRetrySeconds,
		})
	})
	if !ok {
		return
	}

	snap, ok := h.view(w, r, viewID, u)
	if !ok {
		return
	}

	if snap.Status == pageviews.Loading {
		var err error
		snap, err = h.load(viewID)
		if err != nil {
			if !isGone(err) {
				h.Log.Error("page view load failed", zap.Error(err), zap.String("view_id", viewID))
			}
			h.reload(w, r)
			return
		}
	}

	switch Resolve(auth.StateFromRequest(r), &snap) {
	case StateReady:
		h.Render.Snippet(w, tmplReady, h.readyData(r, snap))
	default:
		h.Render.Snippet(w, tmplError, ErrorData{ReloadURL: BasePath})
	}
}

func (h *Handler) readyData(r *http.Request, snap pageviews.Snapshot) ReadyData {
	token := csrf.Token(r)
	d := *snap.Data
	return ReadyData{
		ViewID:        snap.ID,
		CSRFToken:     token,
		Notifications: BuildNotifications(snap.ID, token, snap.Notifications),
		Overview:      BuildOverview(d),
		Enrollments:   BuildEnrollments(d),
		Courses:       BuildCourseList(d),
		Progress:      BuildProgress(d),
	}
}
