package health

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/studentdash/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Pinger is satisfied by *mongo.Client.
type Pinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

// ViewCounter reports how many dashboard page views are held in memory.
type ViewCounter interface {
	Len() int
}

// Handler holds dependencies needed for health checks.
type Handler struct {
	DB    Pinger
	Views ViewCounter
	Log   *zap.Logger
}

// NewHandler constructs a health Handler. views may be nil.
func NewHandler(db Pinger, views ViewCounter, logger *zap.Logger) *Handler {
	return &Handler{
		DB:    db,
		Views: views,
		Log:   logger,
	}
}

type healthResponse struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	PageViews *int   `json:"page_views,omitempty"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "database":"connected", "page_views":3 }
//
// On DB failure: 503 and
//
//	{ "status":"error", "database":"disconnected", "message":"Database unavailable", "error":"…"}
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	w.Header().Set("Content-Type", "application/json")

	resp := healthResponse{Status: "ok", Database: "connected"}
	if h.Views != nil {
		n := h.Views.Len()
		resp.PageViews = &n
	}

	if err := h.DB.Ping(ctx, readpref.Primary()); err != nil {
		h.Log.Error("health-check: mongo ping failed", zap.Error(err))
		resp.Status = "error"
		resp.Database = "disconnected"
		resp.Message = "Database unavailable"
		resp.Error = err.Error()
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	_ = json.NewEncoder(w).Encode(resp)
}
