// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"net/http"

	"github.com/dalemusser/studentdash/internal/app/system/auth"
	"github.com/dalemusser/studentdash/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/gorilla/csrf"
)

// BaseVM contains common fields for all view models.
// Embed this struct in your feature-specific view models.
//
// Usage:
//
//	type myPageData struct {
//	    viewdata.BaseVM
//	    // page-specific fields...
//	}
//
//	data := myPageData{
//	    BaseVM: viewdata.NewBaseVM(r, "Page Title"),
//	}
type BaseVM struct {
	SiteName string

	// User context (from auth middleware)
	IsLoggedIn  bool
	AuthPending bool
	Role        string
	UserName    string

	// Page context
	Title       string
	CurrentPath string

	// CSRF protection
	CSRFToken string
}

// NewBaseVM creates a fully populated BaseVM for a page.
func NewBaseVM(r *http.Request, title string) BaseVM {
	st := auth.StateFromRequest(r)
	vm := BaseVM{
		SiteName:    models.DefaultSiteName,
		AuthPending: st.Pending,
		Title:       title,
		CurrentPath: httpnav.CurrentPath(r),
		CSRFToken:   csrf.Token(r),
	}
	if st.LoggedIn() {
		vm.IsLoggedIn = true
		vm.Role = st.User.Role
		vm.UserName = st.User.Name
	}
	return vm
}

// Renderer writes named templates. Handlers hold one so tests can swap in
// a recorder and inspect the view model instead of parsing HTML.
type Renderer struct {
	// Page renders a full page (layout included).
	Page func(w http.ResponseWriter, r *http.Request, name string, data any)
	// Snippet renders a bare fragment for HTMX swaps.
	Snippet func(w http.ResponseWriter, name string, data any)
}

// TemplateRenderer renders through the booted waffle template engine.
func TemplateRenderer() Renderer {
	return Renderer{
		Page: func(w http.ResponseWriter, r *http.Request, name string, data any) {
			templates.Render(w, r, name, data)
		},
		Snippet: func(w http.ResponseWriter, name string, data any) {
			templates.RenderSnippet(w, name, data)
		},
	}
}
