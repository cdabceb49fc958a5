package userstore

import (
	"context"
	"errors"

	"github.com/dalemusser/studentdash/internal/app/system/auth"
	"github.com/dalemusser/studentdash/internal/app/system/normalize"
	"github.com/dalemusser/studentdash/internal/app/system/timeouts"
	"github.com/dalemusser/studentdash/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Fetcher implements auth.UserFetcher to load fresh user data on each request.
type Fetcher struct {
	users *mongo.Collection
}

// NewFetcher creates a UserFetcher that queries the given database.
func NewFetcher(db *mongo.Database) *Fetcher {
	return &Fetcher{users: db.Collection("users")}
}

// FetchUser retrieves a user by ID. Unknown, malformed and disabled users
// yield auth.ErrUserNotFound; database failures are returned as-is so the
// session layer can report auth as pending.
func (f *Fetcher) FetchUser(ctx context.Context, userID string) (*auth.SessionUser, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, auth.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Lookup())
	defer cancel()

	var u models.User
	proj := options.FindOne().SetProjection(bson.M{
		"_id":        1,
		"full_name":  1,
		"login_id":   1,
		"role":       1,
		"status":     1,
		"student_id": 1,
	})
	if err := f.users.FindOne(ctx, bson.M{"_id": oid}, proj).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}

	if normalize.Status(u.Status) == StatusDisabled {
		return nil, auth.ErrUserNotFound
	}

	return &auth.SessionUser{
		ID:        u.ID.Hex(),
		Name:      u.FullName,
		LoginID:   u.LoginID,
		Role:      normalize.Role(u.Role),
		StudentID: normalize.StudentID(u.StudentID),
	}, nil
}
