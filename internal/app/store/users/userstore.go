package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/studentdash/internal/app/system/normalize"
	"github.com/dalemusser/studentdash/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// Status values stored on user documents.
const (
	StatusActive   = "active"
	StatusDisabled = "disabled"
)

var (
	// ErrBadCredentials is returned by Authenticate for an unknown login,
	// a wrong password, or an account without a password.
	ErrBadCredentials = errors.New("userstore: invalid login id or password")
	// ErrDisabled is returned by Authenticate for a disabled account.
	ErrDisabled = errors.New("userstore: account disabled")
	// ErrDuplicateLoginID is returned by Create when the login ID is taken.
	ErrDuplicateLoginID = errors.New("userstore: login id already exists")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByLoginID loads a user by login ID (case-insensitive via normalization).
func (s *Store) GetByLoginID(ctx context.Context, loginID string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"login_id": normalize.LoginID(loginID)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a user. LoginID, Role and Status are normalized, Status
// defaults to active, and a non-empty password is stored as a bcrypt hash.
func (s *Store) Create(ctx context.Context, u models.User, password string) (models.User, error) {
	u.LoginID = normalize.LoginID(u.LoginID)
	u.FullName = normalize.Name(u.FullName)
	u.Role = normalize.Role(u.Role)
	u.Status = normalize.Status(u.Status)
	u.StudentID = normalize.StudentID(u.StudentID)
	if u.Status == "" {
		u.Status = StatusActive
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return models.User{}, err
		}
		u.PasswordHash = string(hash)
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, ErrDuplicateLoginID
		}
		return models.User{}, err
	}
	return u, nil
}

// Promote sets the user's role, re-activates the account and, when password
// is non-empty, replaces the password hash.
func (s *Store) Promote(ctx context.Context, id primitive.ObjectID, role, password string) error {
	set := bson.M{
		"role":       normalize.Role(role),
		"status":     StatusActive,
		"updated_at": time.Now().UTC(),
	}
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		set["password_hash"] = string(hash)
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Authenticate verifies a login ID and password. Lookup failures other than
// "not found" are returned unchanged so callers can tell an outage from bad
// credentials.
func (s *Store) Authenticate(ctx context.Context, loginID, password string) (*models.User, error) {
	u, err := s.GetByLoginID(ctx, loginID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}
	if u.PasswordHash == "" {
		return nil, ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrBadCredentials
	}
	if normalize.Status(u.Status) == StatusDisabled {
		return nil, ErrDisabled
	}
	return u, nil
}
