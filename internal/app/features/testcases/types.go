// internal/app/features/testcases/types.go
package testcases

import (
	"html/template"
	"time"

	"github.com/softlexhq/softlex/internal/app/system/viewdata"
)

// sectionOption is one entry in the section select of the case forms.
type sectionOption struct {
	ID   string
	Name string
}

// formData is the view model for the new and edit forms. Description holds
// sanitized rich text; the remaining fields are plain text.
type formData struct {
	viewdata.BaseVM
	ProjectID      string
	CaseID         string // empty on the new form
	Title          string
	Description    string
	Preconditions  string
	Steps          string
	ExpectedResult string
	SectionID      string
	Sections       []sectionOption
	Error          template.HTML
}

// viewModel is the view model for the test case detail page.
type viewModel struct {
	viewdata.BaseVM
	ProjectID      string
	ProjectName    string
	CaseID         string
	Title          string
	Description    template.HTML
	Preconditions  string
	Steps          string
	ExpectedResult string
	SectionName    string
	CanEdit        bool
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// deleteConfirmData is the view model for the delete confirmation page.
type deleteConfirmData struct {
	viewdata.BaseVM
	ProjectID string
	CaseID    string
	Title     string
}
