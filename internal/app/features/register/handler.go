// internal/app/features/register/handler.go
package register

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/softlexhq/softlex/internal/app/features/errors"
	userstore "github.com/softlexhq/softlex/internal/app/store/users"
	"github.com/softlexhq/softlex/internal/app/system/auth"
	"github.com/softlexhq/softlex/internal/app/system/authutil"
	"github.com/softlexhq/softlex/internal/app/system/timeouts"
	"github.com/softlexhq/softlex/internal/app/system/viewdata"
	"github.com/softlexhq/softlex/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
	Users  *userstore.Store
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Log:    logger,
		ErrLog: errLog,
		Users:  userstore.New(db),
	}
}

type registerFormData struct {
	viewdata.BaseVM
	Error         string
	FullName      string
	Email         string
	PasswordRules string
}

// ServeRegister handles GET /register.
func (h *Handler) ServeRegister(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "register", registerFormData{
		BaseVM:        viewdata.NewBaseVM(r, "Register", "/"),
		PasswordRules: authutil.PasswordRules,
	})
}

// HandleRegisterPost handles POST /register.
func (h *Handler) HandleRegisterPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/register")
		return
	}

	fullName := strings.TrimSpace(r.FormValue("full_name"))
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	if fullName == "" || email == "" {
		h.renderFormWithError(w, r, "Please fill in your name and email.", fullName, email)
		return
	}

	if err := authutil.ValidatePassword(password); err != nil {
		h.renderFormWithError(w, r, passwordErrorMessage(err), fullName, email)
		return
	}

	hash, err := authutil.HashPassword(password)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "hash password", err, "A server error occurred.", "/register")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Users.Create(ctx, models.User{
		FullName:     fullName,
		Email:        email,
		PasswordHash: hash,
		AuthMethod:   "internal",
		Role:         "user",
	})
	switch {
	case errors.Is(err, userstore.ErrDuplicateEmail):
		h.renderFormWithError(w, r, "An account with that email already exists.", fullName, email)
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "DB create user", err, "A server error occurred.", "/register")
		return
	}

	sess := auth.SessionUser{
		ID:    u.ID.Hex(),
		Name:  u.FullName,
		Email: u.Email,
		Role:  u.Role,
	}
	if err := auth.SignIn(w, r, sess); err != nil {
		h.Log.Error("save session failed after register", zap.Error(err), zap.String("user_id", u.ID.Hex()))
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	h.Log.Info("user registered",
		zap.String("user_id", u.ID.Hex()),
		zap.String("email", u.Email))

	http.Redirect(w, r, "/projects", http.StatusSeeOther)
}

func passwordErrorMessage(err error) string {
	switch {
	case errors.Is(err, authutil.ErrPasswordTooShort):
		return "Password is too short (minimum 6 characters)."
	case errors.Is(err, authutil.ErrPasswordTooLong):
		return "Password is too long (maximum 128 characters)."
	case errors.Is(err, authutil.ErrPasswordCommon):
		return "That password is too common. Please choose another."
	default:
		return "Invalid password."
	}
}

func (h *Handler) renderFormWithError(w http.ResponseWriter, r *http.Request, msg, fullName, email string) {
	templates.Render(w, r, "register", registerFormData{
		BaseVM:        viewdata.NewBaseVM(r, "Register", "/"),
		Error:         msg,
		FullName:      fullName,
		Email:         email,
		PasswordRules: authutil.PasswordRules,
	})
}
