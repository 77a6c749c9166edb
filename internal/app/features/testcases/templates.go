// internal/app/features/testcases/templates.go
package testcases

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "testcases",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
