// internal/app/features/dashboard/handler.go
package dashboard

import (
	"net/http"

	metricsstore "github.com/dalemusser/studentdash/internal/app/store/metrics"
	"github.com/dalemusser/studentdash/internal/app/system/auth"
	"github.com/dalemusser/studentdash/internal/app/system/roles"
	"github.com/dalemusser/studentdash/internal/app/system/timeouts"
	"github.com/dalemusser/studentdash/internal/app/system/viewdata"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB     *mongo.Database
	Render viewdata.Renderer
	Log    *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Render: viewdata.TemplateRenderer(),
		Log:    logger,
	}
}

type landingData struct {
	viewdata.BaseVM
	RoleLabel string
	Counts    *metricsstore.Counts // admin only
}

// ServeDashboard sends the user to their role's dashboard.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		auth.Navigate(w, r, auth.LoginPath)
		return
	}
	path, known := roles.DashboardPath(u.Role)
	if !known {
		h.Log.Warn("user has unknown role", zap.String("user_id", u.ID), zap.String("role", u.Role))
	}
	auth.Navigate(w, r, path)
}

// ServeRoleLanding renders the landing page for teacher, parent and admin.
// Users looking at another role's page are sent to their own.
func (h *Handler) ServeRoleLanding(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		auth.Navigate(w, r, auth.LoginPath)
		return
	}

	role, known := roles.Parse(chi.URLParam(r, "role"))
	if !known || role == roles.Student {
		http.NotFound(w, r)
		return
	}
	if own, _ := roles.Parse(u.Role); own != role {
		path, _ := roles.DashboardPath(u.Role)
		auth.Navigate(w, r, path)
		return
	}

	data := landingData{
		BaseVM:    viewdata.NewBaseVM(r, roleLabel(role)+" Dashboard"),
		RoleLabel: roleLabel(role),
	}
	if role == roles.Admin && h.DB != nil {
		ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Lookup(), h.Log, "admin user counts")
		defer cancel()
		counts := metricsstore.FetchUserCounts(ctx, h.DB)
		data.Counts = &counts
	}

	h.Log.Debug("role dashboard served", zap.String("role", role.String()), zap.String("user_id", u.ID))
	h.Render.Page(w, r, "dashboard_landing", data)
}

func roleLabel(r roles.Role) string {
	switch r {
	case roles.Teacher:
		return "Teacher"
	case roles.Parent:
		return "Parent"
	case roles.Admin:
		return "Admin"
	default:
		return "Student"
	}
}

