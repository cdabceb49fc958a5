// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a person who can sign in: students, teachers, parents, and admins.
//
// NOTE:
//   - StudentID is the identifier the dashboard backend knows the student by.
//     It is empty for non-student roles and for students provisioned before
//     the backend assigned one; callers fall back to the user ID.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	LoginID      string             `bson:"login_id" json:"login_id"`
	FullName     string             `bson:"full_name" json:"full_name"`
	Role         string             `bson:"role" json:"role"` // student | teacher | parent | admin
	Status       string             `bson:"status,omitempty" json:"status,omitempty"`
	StudentID    string             `bson:"student_id,omitempty" json:"student_id,omitempty"`
	PasswordHash string             `bson:"password_hash,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
