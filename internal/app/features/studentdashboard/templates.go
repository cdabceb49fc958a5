// internal/app/features/studentdashboard/templates.go
package studentdashboard

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "studentdashboard",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
