// internal/app/features/login/handler.go
package login

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/halaqahub/halaqahub/internal/app/store/storeerr"
	"github.com/halaqahub/halaqahub/internal/app/system/auth"
	"github.com/halaqahub/halaqahub/internal/app/system/httpjson"
	"github.com/halaqahub/halaqahub/internal/app/system/timeouts"
	"github.com/halaqahub/halaqahub/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserStore resolves console accounts at sign-in.
type UserStore interface {
	FindByLoginID(ctx context.Context, loginID string) (models.User, error)
}

// Handler signs admins in against the users collection.
type Handler struct {
	Users  UserStore
	SM     *auth.SessionManager
	Log    *zap.Logger
	ErrLog *httpjson.ErrorLogger
}

func NewHandler(users UserStore, sm *auth.SessionManager, log *zap.Logger) *Handler {
	return &Handler{
		Users:  users,
		SM:     sm,
		Log:    log,
		ErrLog: httpjson.NewErrorLogger(log),
	}
}

type loginRequest struct {
	LoginID  string `json:"login_id"`
	Password string `json:"password"`
}

type loginResponse struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// HandleLogin verifies the password and opens a session. Bad login id
// and bad password get the same reply.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "login")
	defer cancel()

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.BadRequest(w, "Invalid JSON body.", nil)
		return
	}
	req.LoginID = strings.TrimSpace(req.LoginID)
	if req.LoginID == "" || req.Password == "" {
		httpjson.BadRequest(w, "login_id and password are required.", nil)
		return
	}

	user, err := h.Users.FindByLoginID(ctx, req.LoginID)
	if err != nil {
		if errors.Is(err, storeerr.ErrNotFound) {
			httpjson.Unauthorized(w)
			return
		}
		h.ErrLog.ServerError(w, r, "login lookup failed", err)
		return
	}
	if user.Status != "active" {
		httpjson.Unauthorized(w)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		h.Log.Info("failed login attempt", zap.String("login_id", req.LoginID))
		httpjson.Unauthorized(w)
		return
	}

	err = h.SM.SignIn(w, r, auth.SessionUser{
		ID:      user.ID.Hex(),
		Name:    user.FullName,
		LoginID: user.LoginID,
		Role:    user.Role,
	})
	if err != nil {
		h.ErrLog.ServerError(w, r, "open session failed", err)
		return
	}
	httpjson.Respond(w, http.StatusOK, loginResponse{
		ID:       user.ID.Hex(),
		FullName: user.FullName,
		Role:     user.Role,
	})
}
