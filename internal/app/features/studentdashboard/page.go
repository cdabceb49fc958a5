// internal/app/features/studentdashboard/page.go
package studentdashboard

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dalemusser/studentdash/internal/app/system/metrics"
	"github.com/dalemusser/studentdash/internal/app/system/viewdata"
)

// ServePage renders the dashboard shell and opens a page view. The shell
// shows the loading spinner and requests the content fragment, which performs
// the fetch. Every full load opens a new page view, so a reload restores all
// notifications.
func (h *Handler) ServePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")

	u, ok := h.gate(w, r, func() {
		w.Header().Set("Retry-After", strconv.Itoa(pendingRetrySeconds))
		h.Render.Page(w, r, tmplPending, PageData{
			BaseVM:     viewdata.NewBaseVM(r, "Student Dashboard"),
			State:      StateAuthPending,
			RetryAfter: pendingRetrySeconds,
		})
	})
	if !ok {
		return
	}

	snap := h.Views.Open(u.ID, h.studentID(u))
	metrics.OpenPageViews.Set(float64(h.Views.Len()))

	h.Render.Page(w, r, tmplPage, PageData{
		BaseVM:       viewdata.NewBaseVM(r, "Student Dashboard"),
		State:        StateLoading,
		ViewID:       snap.ID,
		ContentURL:   contentURL(snap.ID),
		CloseURL:     closeURL(snap.ID),
		KeepAliveURL: keepAliveURL(snap.ID),
		KeepAlive:    int(KeepAliveInterval / time.Second),
	})
}
