// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/studentdash/internal/app/store/pageviews"
	"github.com/dalemusser/studentdash/internal/app/system/dashboardapi"
	"github.com/dalemusser/studentdash/internal/app/system/workers"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database and back-end dependencies for the app.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// DashboardAPI fetches student dashboard bundles from the backend.
	DashboardAPI *dashboardapi.Client

	// PageViews holds per-load dashboard state; PageViewCleanup sweeps it.
	PageViews       *pageviews.Store
	PageViewCleanup *workers.PageViewCleanup
}
