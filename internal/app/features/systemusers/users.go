// internal/app/features/systemusers/users.go
package systemusers

import (
	"context"
	"net/http"

	uierrors "github.com/softlexhq/softlex/internal/app/features/errors"
	userstore "github.com/softlexhq/softlex/internal/app/store/users"
	"github.com/softlexhq/softlex/internal/app/system/gates"
	"github.com/softlexhq/softlex/internal/app/system/paging"
	"github.com/softlexhq/softlex/internal/app/system/status"
	"github.com/softlexhq/softlex/internal/app/system/timeouts"
	"github.com/softlexhq/softlex/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// userRow is one line of the admin user list.
type userRow struct {
	ID         string
	FullName   string
	Email      string
	Role       string
	Status     string
	AuthMethod string
	IsSelf     bool
}

// listData is the view model for the user list page.
type listData struct {
	viewdata.BaseVM
	Rows   []userRow
	Search string
	Total  int64
	Window paging.Window
}

// ServeList renders the paged, searchable user list.
// GET /system/users
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAdmin(w, r, "User administration requires the admin role.", "/projects")
	if !g.OK {
		return
	}

	search := query.Get(r, "q")
	page := paging.ParsePage(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	result, err := h.Users.List(ctx, search, paging.Skip(page), paging.PageSize)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list users", err, "A database error occurred.", "/projects")
		return
	}

	rows := make([]userRow, 0, len(result.Users))
	for _, u := range result.Users {
		rows = append(rows, userRow{
			ID:         u.ID.Hex(),
			FullName:   u.FullName,
			Email:      u.Email,
			Role:       u.Role,
			Status:     u.Status,
			AuthMethod: u.AuthMethod,
			IsSelf:     u.ID == g.UserID,
		})
	}

	templates.Render(w, r, "systemusers_list", listData{
		BaseVM: viewdata.NewBaseVM(r, "Users", "/projects"),
		Rows:   rows,
		Search: search,
		Total:  result.Total,
		Window: paging.NewWindow(page, result.Total),
	})
}

// HandleBlock blocks a user's account.
// POST /system/users/{userID}/block
func (h *Handler) HandleBlock(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, status.Blocked)
}

// HandleUnblock reactivates a blocked account.
// POST /system/users/{userID}/unblock
func (h *Handler) HandleUnblock(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, status.Active)
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request, st string) {
	g := gates.RequireAdmin(w, r, "User administration requires the admin role.", "/projects")
	if !g.OK {
		return
	}

	uid, ok := urlUserID(r)
	if !ok {
		uierrors.RenderNotFound(w, r, "User not found.", "/system/users")
		return
	}
	if uid == g.UserID {
		uierrors.RenderBadRequest(w, r, "You cannot block your own account.", "/system/users")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Users.SetStatus(ctx, uid, st); err != nil {
		h.ErrLog.LogServerError(w, r, "set user status", err, "A database error occurred.", "/system/users")
		return
	}

	h.Log.Info("user status changed",
		zap.String("user_id", uid.Hex()),
		zap.String("status", st),
		zap.String("changed_by", g.UserID.Hex()))

	http.Redirect(w, r, "/system/users", http.StatusSeeOther)
}

// HandleSetRole changes a user's site-wide role.
// POST /system/users/{userID}/role
func (h *Handler) HandleSetRole(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAdmin(w, r, "User administration requires the admin role.", "/projects")
	if !g.OK {
		return
	}

	uid, ok := urlUserID(r)
	if !ok {
		uierrors.RenderNotFound(w, r, "User not found.", "/system/users")
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/system/users")
		return
	}

	role := r.FormValue("role")
	if role != "admin" && role != "user" {
		h.ErrLog.LogBadRequest(w, r, "bad role value", nil, "Unknown role.", "/system/users")
		return
	}
	if uid == g.UserID && role != "admin" {
		uierrors.RenderBadRequest(w, r, "You cannot remove your own admin role.", "/system/users")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Users.Update(ctx, uid, userstore.Update{Role: role}); err != nil {
		h.ErrLog.LogServerError(w, r, "set user role", err, "A database error occurred.", "/system/users")
		return
	}

	h.Log.Info("user role changed",
		zap.String("user_id", uid.Hex()),
		zap.String("role", role),
		zap.String("changed_by", g.UserID.Hex()))

	http.Redirect(w, r, "/system/users", http.StatusSeeOther)
}

// HandleDelete removes a user account. The user's project memberships are
// deleted and any grants they made are kept with the grantor cleared, so
// other members' access survives the deletion.
// POST /system/users/{userID}/delete
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAdmin(w, r, "User administration requires the admin role.", "/projects")
	if !g.OK {
		return
	}

	uid, ok := urlUserID(r)
	if !ok {
		uierrors.RenderNotFound(w, r, "User not found.", "/system/users")
		return
	}
	if uid == g.UserID {
		uierrors.RenderBadRequest(w, r, "You cannot delete your own account.", "/system/users")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.deleteUser(ctx, uid); err != nil {
		h.ErrLog.LogServerError(w, r, "delete user", err, "A database error occurred.", "/system/users")
		return
	}

	h.Log.Info("user deleted",
		zap.String("user_id", uid.Hex()),
		zap.String("deleted_by", g.UserID.Hex()))

	http.Redirect(w, r, "/system/users", http.StatusSeeOther)
}

func (h *Handler) deleteUser(ctx context.Context, uid primitive.ObjectID) error {
	if _, err := h.Members.DeleteByUser(ctx, uid); err != nil {
		return err
	}
	if err := h.Members.ClearGrantor(ctx, uid); err != nil {
		return err
	}
	_, err := h.Users.Delete(ctx, uid)
	return err
}
