// internal/app/features/studentdashboard/routes.go
package studentdashboard

import (
	"github.com/go-chi/chi/v5"
)

// Routes wires the student dashboard under BasePath.
//
// The gate runs inside each handler rather than as RequireSignedIn so that a
// pending identity renders a spinner instead of an error or a redirect.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServePage)
	r.Route("/views/{viewID}", func(vr chi.Router) {
		vr.Get("/content", h.ServeContent)
		vr.Post("/notifications/{notificationID}/dismiss", h.HandleDismiss)
		vr.Get("/keepalive", h.HandleKeepAlive)
		vr.Post("/close", h.HandleClose)
	})

	return r
}
