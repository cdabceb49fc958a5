package metricsstore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Counts is the set of totals shown on the admin dashboard.
type Counts struct {
	Students int64
	Teachers int64
	Parents  int64
	Admins   int64
}

// FetchUserCounts returns active user totals per role.
// Intentionally tolerant: on error it returns 0 for that counter.
func FetchUserCounts(ctx context.Context, db *mongo.Database) Counts {
	var out Counts
	users := db.Collection("users")

	count := func(role string) int64 {
		n, err := users.CountDocuments(ctx, bson.M{"role": role, "status": bson.M{"$ne": "disabled"}})
		if err != nil {
			return 0
		}
		return n
	}

	out.Students = count("student")
	out.Teachers = count("teacher")
	out.Parents = count("parent")
	out.Admins = count("admin")
	return out
}
