// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/studentdash/internal/app/store/pageviews"
	userstore "github.com/dalemusser/studentdash/internal/app/store/users"
	"github.com/dalemusser/studentdash/internal/app/system/dashboardapi"
	"github.com/dalemusser/studentdash/internal/app/system/indexes"
	"github.com/dalemusser/studentdash/internal/app/system/timeouts"
	"github.com/dalemusser/studentdash/internal/app/system/workers"
	"github.com/dalemusser/studentdash/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB connects to MongoDB and builds the dashboard backend client and
// the in-memory page view store.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}
	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))

	api, err := dashboardapi.New(dashboardapi.Config{
		BaseURL:      appCfg.DashboardAPIURL,
		Timeout:      appCfg.DashboardAPITimeout,
		ClientID:     appCfg.DashboardAPIClientID,
		ClientSecret: appCfg.DashboardAPIClientSecret,
		TokenURL:     appCfg.DashboardAPITokenURL,
		Scopes:       appCfg.DashboardAPIScopes,
	}, logger)
	if err != nil {
		_ = client.Disconnect(context.Background())
		return DBDeps{}, fmt.Errorf("dashboard api client: %w", err)
	}

	views := pageviews.New()
	return DBDeps{
		MongoClient:     client,
		MongoDatabase:   client.Database(appCfg.MongoDatabase),
		DashboardAPI:    api,
		PageViews:       views,
		PageViewCleanup: workers.NewPageViewCleanup(views, logger, appCfg.PageViewSweepInterval, appCfg.PageViewTTL),
	}, nil
}

// EnsureSchema creates indexes and seeds the admin account if configured.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := indexes.EnsureAll(ctx, deps.MongoDatabase, logger); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}
	if appCfg.SeedAdminLoginID != "" {
		if err := ensureSeedAdmin(ctx, deps.MongoDatabase, appCfg.SeedAdminLoginID, appCfg.SeedAdminPassword, logger); err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
	}
	return nil
}

// ensureSeedAdmin creates an admin account for loginID, or promotes and
// re-activates an existing account with that login ID.
func ensureSeedAdmin(ctx context.Context, db *mongo.Database, loginID, password string, logger *zap.Logger) error {
	users := userstore.New(db)

	existing, err := users.GetByLoginID(ctx, loginID)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		u, err := users.Create(ctx, models.User{
			LoginID:  loginID,
			FullName: "Administrator",
			Role:     "admin",
		}, password)
		if err != nil {
			return err
		}
		logger.Info("seed admin created", zap.String("user_id", u.ID.Hex()), zap.String("login_id", u.LoginID))
		return nil
	case err != nil:
		return err
	}

	if err := users.Promote(ctx, existing.ID, "admin", password); err != nil {
		return err
	}
	logger.Info("seed admin refreshed",
		zap.String("user_id", existing.ID.Hex()),
		zap.String("previous_role", existing.Role))
	return nil
}
