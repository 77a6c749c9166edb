// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/softlexhq/softlex/internal/app/resources"
	userstore "github.com/softlexhq/softlex/internal/app/store/users"
	"github.com/softlexhq/softlex/internal/app/system/status"
	"github.com/softlexhq/softlex/internal/domain/models"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()

	if appCfg.AdminEmail != "" {
		if err := ensureSiteAdmin(ctx, deps, appCfg.AdminEmail, logger); err != nil {
			return err
		}
	}

	return nil
}

// ensureSiteAdmin guarantees that the configured email belongs to an active
// admin account. An existing user is promoted; a missing one is created
// without a password (they sign in with Google or set a password later).
func ensureSiteAdmin(ctx context.Context, deps DBDeps, email string, logger *zap.Logger) error {
	users := userstore.New(deps.MongoDatabase)

	existing, err := users.GetByEmail(ctx, email)
	if err == nil {
		if existing.Role == "admin" && existing.Status == status.Active {
			return nil
		}
		if err := users.Update(ctx, existing.ID, userstore.Update{
			Role:   "admin",
			Status: status.Active,
		}); err != nil {
			return err
		}
		logger.Info("promoted existing user to site admin",
			zap.String("email", existing.Email))
		return nil
	}
	if err != mongo.ErrNoDocuments {
		return err
	}

	created, err := users.Create(ctx, models.User{
		FullName:   "Site Admin",
		Email:      email,
		Role:       "admin",
		Status:     status.Active,
		AuthMethod: "google",
	})
	if err != nil {
		return err
	}

	logger.Info("created site admin account",
		zap.String("email", created.Email),
		zap.String("user_id", created.ID.Hex()))
	return nil
}
