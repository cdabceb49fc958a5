// internal/app/features/login/handler.go
package login

import (
	"context"
	"errors"
	"net/http"
	"strings"

	userstore "github.com/dalemusser/studentdash/internal/app/store/users"
	"github.com/dalemusser/studentdash/internal/app/system/auth"
	"github.com/dalemusser/studentdash/internal/app/system/navigation"
	"github.com/dalemusser/studentdash/internal/app/system/ratelimit"
	"github.com/dalemusser/studentdash/internal/app/system/roles"
	"github.com/dalemusser/studentdash/internal/app/system/timeouts"
	"github.com/dalemusser/studentdash/internal/app/system/viewdata"
	"github.com/dalemusser/studentdash/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.uber.org/zap"
)

const templateLogin = "login"

// Authenticator verifies a login ID and password.
type Authenticator interface {
	Authenticate(ctx context.Context, loginID, password string) (*models.User, error)
}

type Handler struct {
	Users      Authenticator
	SessionMgr *auth.SessionManager
	Limiter    *ratelimit.LoginLimiter
	Render     viewdata.Renderer
	Log        *zap.Logger
}

func NewHandler(users Authenticator, sessionMgr *auth.SessionManager, limiter *ratelimit.LoginLimiter, logger *zap.Logger) *Handler {
	return &Handler{
		Users:      users,
		SessionMgr: sessionMgr,
		Limiter:    limiter,
		Render:     viewdata.TemplateRenderer(),
		Log:        logger,
	}
}

// FormData is the login page view model.
type FormData struct {
	viewdata.BaseVM
	Error     string
	LoginID   string
	ReturnURL string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /login                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	h.Render.Page(w, r, templateLogin, FormData{
		BaseVM:    viewdata.NewBaseVM(r, "Sign in"),
		ReturnURL: query.Get(r, "return"),
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Log.Warn("parse login form failed", zap.Error(err))
		h.renderFormWithError(w, r, http.StatusBadRequest, "Invalid form data.", "")
		return
	}

	loginID := strings.TrimSpace(r.FormValue("login_id"))
	password := r.FormValue("password")
	if loginID == "" || password == "" {
		h.renderFormWithError(w, r, http.StatusOK, "Please enter your login ID and password.", loginID)
		return
	}

	if h.Limiter != nil {
		if ok, msg := h.Limiter.Check(r, loginID); !ok {
			h.Log.Info("login rate limited",
				zap.String("login_id", loginID),
				zap.String("ip", ratelimit.ClientIP(r)))
			h.renderFormWithError(w, r, http.StatusTooManyRequests, msg, loginID)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Lookup())
	defer cancel()

	u, err := h.Users.Authenticate(ctx, loginID, password)
	switch {
	case err == nil:
	case errors.Is(err, userstore.ErrBadCredentials):
		h.Log.Info("login failed", zap.String("login_id", loginID))
		h.renderFormWithError(w, r, http.StatusOK, "Incorrect login ID or password.", loginID)
		return
	case errors.Is(err, userstore.ErrDisabled):
		h.Log.Info("login refused for disabled account", zap.String("login_id", loginID))
		h.renderFormWithError(w, r, http.StatusOK,
			"Your account is currently disabled. Please contact an administrator.", loginID)
		return
	default:
		h.Log.Error("login lookup failed", zap.Error(err), zap.String("login_id", loginID))
		h.renderFormWithError(w, r, http.StatusServiceUnavailable,
			"Sign-in is temporarily unavailable. Please try again.", loginID)
		return
	}

	if err := h.SessionMgr.SignIn(w, r, u.ID.Hex()); err != nil {
		h.Log.Error("save session failed", zap.Error(err), zap.String("user_id", u.ID.Hex()))
		h.renderFormWithError(w, r, http.StatusInternalServerError,
			"Unable to create session. Please try again.", loginID)
		return
	}
	if h.Limiter != nil {
		h.Limiter.Succeeded(loginID)
	}

	h.Log.Info("login succeeded",
		zap.String("user_id", u.ID.Hex()),
		zap.String("role", u.Role))

	fallback, ok := roles.DashboardPath(u.Role)
	if !ok {
		fallback = "/dashboard"
	}
	http.Redirect(w, r, navigation.SafeBackURL(r, navigation.AfterLogin(fallback)), http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| helper: render the form with an error                                       |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) renderFormWithError(w http.ResponseWriter, r *http.Request, status int, msg, loginID string) {
	ret := strings.TrimSpace(r.FormValue("return"))
	if ret == "" {
		ret = query.Get(r, "return")
	}
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	h.Render.Page(w, r, templateLogin, FormData{
		BaseVM:    viewdata.NewBaseVM(r, "Sign in"),
		Error:     msg,
		LoginID:   loginID,
		ReturnURL: ret,
	})
}
