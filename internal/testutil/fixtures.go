package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/studentdash/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	return WithChiURLParams(r, map[string]string{key: value})
}

// WithChiURLParams adds several chi URL parameters at once.
func WithChiURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts an active user. An empty password leaves the hash unset.
func (f *Fixtures) CreateUser(ctx context.Context, loginID, fullName, role, studentID, password string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:        primitive.NewObjectID(),
		LoginID:   loginID,
		FullName:  fullName,
		Role:      role,
		Status:    "active",
		StudentID: studentID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		if err != nil {
			f.t.Fatalf("hash password: %v", err)
		}
		u.PasswordHash = string(hash)
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("insert user %q: %v", loginID, err)
	}
	return u
}

// CreateStudent inserts an active student with the given backend student ID.
func (f *Fixtures) CreateStudent(ctx context.Context, loginID, studentID string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, loginID, "Test Student", "student", studentID, "")
}
