// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/waffle/config"
	"github.com/halaqahub/halaqahub/internal/app/store/storeerr"
	userstore "github.com/halaqahub/halaqahub/internal/app/store/users"
	"github.com/halaqahub/halaqahub/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
// HalaqaHub seeds the first admin account here so a fresh deployment is
// reachable without touching the database by hand.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.AdminLoginID == "" {
		return nil
	}

	users := userstore.New(deps.MongoDatabase)
	_, err := users.FindByLoginID(ctx, appCfg.AdminLoginID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, storeerr.ErrNotFound) {
		return fmt.Errorf("look up admin account: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(appCfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	_, err = users.Create(ctx, models.User{
		FullName:     appCfg.AdminFullName,
		LoginID:      appCfg.AdminLoginID,
		PasswordHash: string(hash),
		Role:         "admin",
	})
	if err != nil {
		return fmt.Errorf("seed admin account: %w", err)
	}
	logger.Info("seeded admin account", zap.String("login_id", appCfg.AdminLoginID))
	return nil
}
