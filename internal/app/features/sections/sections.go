// internal/app/features/sections/sections.go
package sections

import (
	"context"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	uierrors "github.com/softlexhq/softlex/internal/app/features/errors"
	"github.com/softlexhq/softlex/internal/app/system/gates"
	"github.com/softlexhq/softlex/internal/app/system/timeouts"
	"github.com/softlexhq/softlex/internal/app/system/viewdata"
	"github.com/softlexhq/softlex/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// newData is the view model for the new section form.
type newData struct {
	viewdata.BaseVM
	ProjectID string
	Name      string
	Parents   []parentOption
	ParentID  string
	Error     template.HTML
}

// parentOption is a candidate parent section in the new form.
type parentOption struct {
	ID   string
	Name string
}

// ServeNew renders the new section form.
// GET /projects/{id}/sections/new
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAuth(w, r, "/login")
	if !g.OK {
		return
	}

	pid, ok := urlObjectID(r, "id")
	if !ok {
		uierrors.RenderNotFound(w, r, "Project not found.", "/projects")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if !h.requireEditor(ctx, w, r, g.UserID, pid) {
		return
	}

	h.renderNew(ctx, w, r, pid, "", "", "")
}

// HandleCreate processes the new section form.
// POST /projects/{id}/sections
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAuth(w, r, "/login")
	if !g.OK {
		return
	}

	pid, ok := urlObjectID(r, "id")
	if !ok {
		uierrors.RenderNotFound(w, r, "Project not found.", "/projects")
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/projects/"+pid.Hex())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if !h.requireEditor(ctx, w, r, g.UserID, pid) {
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	parentHex := strings.TrimSpace(r.FormValue("parent_id"))

	if name == "" {
		h.renderNew(ctx, w, r, pid, name, parentHex, "Please enter a section name.")
		return
	}

	sec := models.Section{ProjectID: pid, Name: name}
	if parentHex != "" {
		parentID, err := primitive.ObjectIDFromHex(parentHex)
		if err != nil {
			h.renderNew(ctx, w, r, pid, name, "", "Invalid parent section.")
			return
		}
		sec.ParentID = &parentID
	}

	created, err := h.Sections.Create(ctx, sec)
	if err != nil {
		h.renderNew(ctx, w, r, pid, name, parentHex, "Could not create the section: "+err.Error())
		return
	}

	h.Log.Info("section created",
		zap.String("section_id", created.ID.Hex()),
		zap.String("project_id", pid.Hex()),
		zap.String("created_by", g.UserID.Hex()))

	http.Redirect(w, r, "/projects/"+pid.Hex(), http.StatusSeeOther)
}

// HandleRename processes a section rename.
// POST /projects/{id}/sections/{sectionID}/rename
func (h *Handler) HandleRename(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAuth(w, r, "/login")
	if !g.OK {
		return
	}

	pid, ok := urlObjectID(r, "id")
	if !ok {
		uierrors.RenderNotFound(w, r, "Project not found.", "/projects")
		return
	}
	sid, ok := urlObjectID(r, "sectionID")
	if !ok {
		uierrors.RenderNotFound(w, r, "Section not found.", "/projects/"+pid.Hex())
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/projects/"+pid.Hex())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if !h.requireEditor(ctx, w, r, g.UserID, pid) {
		return
	}
	if _, ok := h.loadProjectSection(ctx, w, r, pid, sid); !ok {
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		h.ErrLog.LogBadRequest(w, r, "empty section name", nil, "Please enter a section name.", "/projects/"+pid.Hex())
		return
	}

	if err := h.Sections.Rename(ctx, sid, name); err != nil {
		h.ErrLog.LogServerError(w, r, "rename section", err, "A database error occurred.", "/projects/"+pid.Hex())
		return
	}

	http.Redirect(w, r, "/projects/"+pid.Hex(), http.StatusSeeOther)
}

// HandleReorder sets a section's position among its siblings.
// POST /projects/{id}/sections/{sectionID}/reorder
func (h *Handler) HandleReorder(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAuth(w, r, "/login")
	if !g.OK {
		return
	}

	pid, ok := urlObjectID(r, "id")
	if !ok {
		uierrors.RenderNotFound(w, r, "Project not found.", "/projects")
		return
	}
	sid, ok := urlObjectID(r, "sectionID")
	if !ok {
		uierrors.RenderNotFound(w, r, "Section not found.", "/projects/"+pid.Hex())
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/projects/"+pid.Hex())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if !h.requireEditor(ctx, w, r, g.UserID, pid) {
		return
	}
	if _, ok := h.loadProjectSection(ctx, w, r, pid, sid); !ok {
		return
	}

	order, err := strconv.Atoi(r.FormValue("order"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad order value", err, "Invalid position.", "/projects/"+pid.Hex())
		return
	}

	if err := h.Sections.SetOrder(ctx, sid, order); err != nil {
		h.ErrLog.LogServerError(w, r, "reorder section", err, "A database error occurred.", "/projects/"+pid.Hex())
		return
	}

	http.Redirect(w, r, "/projects/"+pid.Hex(), http.StatusSeeOther)
}

// HandleDelete removes a section. Its child sections are re-parented and its
// test cases keep existing without a section.
// POST /projects/{id}/sections/{sectionID}/delete
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAuth(w, r, "/login")
	if !g.OK {
		return
	}

	pid, ok := urlObjectID(r, "id")
	if !ok {
		uierrors.RenderNotFound(w, r, "Project not found.", "/projects")
		return
	}
	sid, ok := urlObjectID(r, "sectionID")
	if !ok {
		uierrors.RenderNotFound(w, r, "Section not found.", "/projects/"+pid.Hex())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if !h.requireEditor(ctx, w, r, g.UserID, pid) {
		return
	}
	sec, ok := h.loadProjectSection(ctx, w, r, pid, sid)
	if !ok {
		return
	}

	if err := h.Sections.Delete(ctx, sid); err != nil {
		h.ErrLog.LogServerError(w, r, "delete section", err, "A database error occurred.", "/projects/"+pid.Hex())
		return
	}

	h.Log.Info("section deleted",
		zap.String("section_id", sid.Hex()),
		zap.String("project_id", pid.Hex()),
		zap.String("name", sec.Name),
		zap.String("deleted_by", g.UserID.Hex()))

	http.Redirect(w, r, "/projects/"+pid.Hex(), http.StatusSeeOther)
}

func (h *Handler) renderNew(ctx context.Context, w http.ResponseWriter, r *http.Request, pid primitive.ObjectID, name, parentHex, errMsg string) {
	existing, err := h.Sections.ListByProject(ctx, pid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list sections", err, "A server error occurred.", "/projects/"+pid.Hex())
		return
	}

	parents := make([]parentOption, 0, len(existing))
	for _, sec := range existing {
		parents = append(parents, parentOption{ID: sec.ID.Hex(), Name: sec.Name})
	}

	templates.Render(w, r, "section_new", newData{
		BaseVM:    viewdata.NewBaseVM(r, "New Section", "/projects/"+pid.Hex()),
		ProjectID: pid.Hex(),
		Name:      name,
		Parents:   parents,
		ParentID:  parentHex,
		Error:     template.HTML(errMsg),
	})
}
