// internal/app/features/projects/members.go
package projects

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	uierrors "github.com/softlexhq/softlex/internal/app/features/errors"
	memberstore "github.com/softlexhq/softlex/internal/app/store/members"
	"github.com/softlexhq/softlex/internal/app/system/gates"
	"github.com/softlexhq/softlex/internal/app/system/timeouts"
	"github.com/softlexhq/softlex/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandleMembers handles POST /projects/{id}/members.
//
// The form carries the full desired member set as parallel arrays: each row
// has member_user_id (may be empty for email-only rows), member_email, and
// member_role. The submitted set replaces the project's membership; the
// creator's admin row is managed server-side and never part of the payload.
func (h *Handler) HandleMembers(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAuth(w, r, "/login")
	if !g.OK {
		return
	}

	pid, ok := projectID(r)
	if !ok {
		uierrors.RenderNotFound(w, r, "Project not found.", "/projects")
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/projects")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	acting, project, ok := h.requireProjectAdmin(ctx, w, r, g.UserID, pid)
	if !ok {
		return
	}

	desired, err := parseDesiredMembers(r)
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse member rows failed", err, "Invalid member data.", "/projects/"+pid.Hex()+"/edit")
		return
	}

	result, err := h.Reconciler.Reconcile(ctx, *acting, project, desired)
	switch {
	case errors.Is(err, memberstore.ErrNotProjectAdmin):
		uierrors.RenderForbidden(w, r, "Only project admins can manage members.", "/projects/"+pid.Hex())
		return
	case errors.Is(err, memberstore.ErrInvalidRole):
		h.renderEdit(ctx, w, r, project, "One of the submitted roles is not a valid project role.", "")
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "reconcile members", err, "A database error occurred.", "/projects/"+pid.Hex()+"/edit")
		return
	}

	h.Log.Info("project members reconciled",
		zap.String("project_id", pid.Hex()),
		zap.String("acting_user", g.UserID.Hex()),
		zap.Int("added", len(result.Added)),
		zap.Int("updated", len(result.Updated)),
		zap.Int("removed", len(result.Removed)))

	notice := fmt.Sprintf("Members saved: %d added, %d updated, %d removed.",
		len(result.Added), len(result.Updated), len(result.Removed))
	h.renderEdit(ctx, w, r, project, "", notice)
}

// parseDesiredMembers decodes the parallel form arrays into typed entries.
// Rows with neither a user ID nor an email are skipped. A malformed user ID
// is an error: silently treating it as email-only would resurface the row
// under the wrong identity.
func parseDesiredMembers(r *http.Request) ([]memberstore.DesiredMember, error) {
	ids := r.PostForm["member_user_id"]
	emails := r.PostForm["member_email"]
	roles := r.PostForm["member_role"]

	n := len(roles)
	if len(ids) > n {
		n = len(ids)
	}
	if len(emails) > n {
		n = len(emails)
	}

	at := func(ss []string, i int) string {
		if i < len(ss) {
			return strings.TrimSpace(ss[i])
		}
		return ""
	}

	desired := make([]memberstore.DesiredMember, 0, n)
	for i := 0; i < n; i++ {
		idHex, email, role := at(ids, i), at(emails, i), at(roles, i)
		if idHex == "" && email == "" {
			continue
		}

		d := memberstore.DesiredMember{
			Email: email,
			Role:  models.ProjectRole(role),
		}
		if idHex != "" {
			oid, err := primitive.ObjectIDFromHex(idHex)
			if err != nil {
				return nil, fmt.Errorf("member row %d: bad user id %q", i, idHex)
			}
			d.UserID = oid
		}
		desired = append(desired, d)
	}

	return desired, nil
}
