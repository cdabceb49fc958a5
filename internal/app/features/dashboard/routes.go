// internal/app/features/dashboard/routes.go
package dashboard

import (
	"net/http"

	"github.com/dalemusser/studentdash/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes wires the dashboard feature under whatever mount point
// the top-level router chooses (e.g., "/dashboard").
//
// /dashboard/student is served by the student handler, which runs its own
// access gate. Every other dashboard route requires a signed-in user.
func Routes(h *Handler, sm *auth.SessionManager, student http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Mount("/student", student)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeDashboard)
		pr.Get("/{role}", h.ServeRoleLanding)
	})

	return r
}
