// internal/app/features/login/handler_test.go
package login_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/halaqahub/halaqahub/internal/app/features/login"
	"github.com/halaqahub/halaqahub/internal/app/system/auth"
	"github.com/halaqahub/halaqahub/internal/domain/models"
	"github.com/halaqahub/halaqahub/internal/testutil"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newHandler(t *testing.T) (*login.Handler, *testutil.Store) {
	t.Helper()
	s := testutil.NewStore()
	sm, err := auth.NewSessionManager("", "test-session", "", false, zap.NewNop())
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	return login.NewHandler(s.Users(), sm, zap.NewNop()), s
}

func seedUser(t *testing.T, s *testutil.Store, loginID, password string) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user, err := s.Users().Create(context.Background(), models.User{
		FullName:     "Admin Pengurus",
		LoginID:      loginID,
		PasswordHash: string(hash),
		Role:         "admin",
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func TestHandleLogin_Success(t *testing.T) {
	h, s := newHandler(t)
	seedUser(t, s, "admin@example.org", "rahasia123")

	req := testutil.NewJSONRequest(http.MethodPost, "/login", map[string]string{
		"login_id": "admin@example.org",
		"password": "rahasia123",
	})
	rec := testutil.NewRecorder()
	h.HandleLogin(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	var resp struct {
		FullName string `json:"full_name"`
		Role     string `json:"role"`
	}
	rec.DecodeJSON(t, &resp)
	if resp.FullName != "Admin Pengurus" || resp.Role != "admin" {
		t.Errorf("response: got %+v", resp)
	}
	if len(rec.Result().Cookies()) == 0 {
		t.Error("no session cookie set on successful login")
	}
}

func TestHandleLogin_WrongPassword(t *testing.T) {
	h, s := newHandler(t)
	seedUser(t, s, "admin@example.org", "rahasia123")

	req := testutil.NewJSONRequest(http.MethodPost, "/login", map[string]string{
		"login_id": "admin@example.org",
		"password": "salah",
	})
	rec := testutil.NewRecorder()
	h.HandleLogin(rec, req)

	rec.AssertStatus(t, http.StatusUnauthorized)
	rec.AssertErrorCode(t, "unauthorized")
}

func TestHandleLogin_UnknownLoginID(t *testing.T) {
	h, _ := newHandler(t)

	req := testutil.NewJSONRequest(http.MethodPost, "/login", map[string]string{
		"login_id": "nobody@example.org",
		"password": "apapun",
	})
	rec := testutil.NewRecorder()
	h.HandleLogin(rec, req)

	// Unknown login and wrong password are indistinguishable.
	rec.AssertStatus(t, http.StatusUnauthorized)
	rec.AssertErrorCode(t, "unauthorized")
}
