// Package roles defines the closed set of user roles and the dashboard route
// each role lands on.
package roles

import "strings"

// Role is a normalized role tag.
type Role string

const (
	Student Role = "student"
	Teacher Role = "teacher"
	Parent  Role = "parent"
	Admin   Role = "admin"
)

// ForbiddenPath is where users with an unrecognized role are sent.
const ForbiddenPath = "/forbidden"

// dashboardPaths is the only source of /dashboard/{role} routes.
var dashboardPaths = map[Role]string{
	Student: "/dashboard/student",
	Teacher: "/dashboard/teacher",
	Parent:  "/dashboard/parent",
	Admin:   "/dashboard/admin",
}

// All returns every known role in a stable order.
func All() []Role {
	return []Role{Student, Teacher, Parent, Admin}
}

// Parse normalizes s and reports whether it names a known role.
func Parse(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	_, ok := dashboardPaths[r]
	return r, ok
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	_, ok := dashboardPaths[r]
	return ok
}

func (r Role) String() string { return string(r) }

// DashboardPath returns the dashboard route for role. Unknown roles get
// ForbiddenPath and ok=false; no route is ever built from an unknown tag.
func DashboardPath(role string) (path string, ok bool) {
	r, known := Parse(role)
	if !known {
		return ForbiddenPath, false
	}
	return dashboardPaths[r], true
}
