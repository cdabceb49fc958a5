package home

import (
	"net/http"

	"github.com/dalemusser/studentdash/internal/app/system/auth"
	"github.com/dalemusser/studentdash/internal/app/system/viewdata"
	"go.uber.org/zap"
)

const templatePending = "home_pending"

// Handler serves the site root.
type Handler struct {
	Render viewdata.Renderer
	Log    *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{
		Render: viewdata.TemplateRenderer(),
		Log:    logger,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET / – send the browser where it belongs                                   |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeRoot redirects signed-in users to /dashboard and everyone else to the
// login page. While the session user is still being resolved it shows a
// spinner that retries instead of guessing.
func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	st := auth.StateFromRequest(r)
	switch {
	case st.Pending:
		h.Render.Page(w, r, templatePending, viewdata.NewBaseVM(r, "Checking your sign-in"))
	case st.LoggedIn():
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	default:
		http.Redirect(w, r, auth.LoginPath, http.StatusSeeOther)
	}
}
