// internal/app/features/projects/types.go
package projects

import (
	"html/template"
	"time"

	"github.com/softlexhq/softlex/internal/app/system/viewdata"
)

// projectRow represents a single project in the list.
type projectRow struct {
	ID          string
	Name        string
	Description string
	Role        string // viewer | editor | admin
	CreatedAt   time.Time
}

// listData is the view model for the project list page.
type listData struct {
	viewdata.BaseVM
	Rows []projectRow
}

// newData is the view model for the new project form.
type newData struct {
	viewdata.BaseVM
	Name        string
	Description string
	Error       template.HTML
}

// sectionVM is a section with its test cases for the project page.
type sectionVM struct {
	ID    string
	Name  string
	Cases []caseRow
}

// caseRow is a test case summary line.
type caseRow struct {
	ID    string
	Title string
}

// viewData is the view model for the project detail page.
type viewData struct {
	viewdata.BaseVM
	ProjectID   string
	Name        string
	Description string
	Role        string
	CanEdit     bool
	CanAdmin    bool
	Sections    []sectionVM
	Unsectioned []caseRow
}

// memberRow is a project member line in the edit form.
type memberRow struct {
	UserID  string
	Name    string
	Email   string
	Role    string
	AddedBy string
	AddedAt time.Time
}

// editData is the view model for the project edit page.
type editData struct {
	viewdata.BaseVM
	ProjectID   string
	Name        string
	Description string
	CreatorID   string
	Members     []memberRow
	Error       template.HTML
	Notice      string
}

// deleteConfirmData is the view model for the delete confirmation page.
type deleteConfirmData struct {
	viewdata.BaseVM
	ProjectID   string
	Name        string
	MemberCount int64
	CaseCount   int
}
