// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/dalemusser/studentdash/internal/app/system/viewdata"
)

const templateForbidden = "error_forbidden"

// pageData is the view model for error pages.
type pageData struct {
	viewdata.BaseVM
	Message string
	BackURL string
}

// Handler renders the friendly error pages. It needs no DB.
type Handler struct {
	Render viewdata.Renderer
}

func NewHandler() *Handler {
	return &Handler{Render: viewdata.TemplateRenderer()}
}

// Forbidden renders the access denied page.
// GET /forbidden
func (h *Handler) Forbidden(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusForbidden)
	h.Render.Page(w, r, templateForbidden, pageData{
		BaseVM:  viewdata.NewBaseVM(r, "Access denied"),
		Message: "You don't have permission to view this page.",
		BackURL: "/",
	})
}

// Unauthorized renders the sign in required page.
// GET /unauthorized
func (h *Handler) Unauthorized(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusUnauthorized)
	h.Render.Page(w, r, templateForbidden, pageData{
		BaseVM:  viewdata.NewBaseVM(r, "Sign in required"),
		Message: "Please sign in to continue.",
		BackURL: "/login",
	})
}
