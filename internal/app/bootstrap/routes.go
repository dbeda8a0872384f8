// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	announcementsfeature "github.com/halaqahub/halaqahub/internal/app/features/announcements"
	groupsfeature "github.com/halaqahub/halaqahub/internal/app/features/groups"
	healthfeature "github.com/halaqahub/halaqahub/internal/app/features/health"
	importcsvfeature "github.com/halaqahub/halaqahub/internal/app/features/importcsv"
	loginfeature "github.com/halaqahub/halaqahub/internal/app/features/login"
	logoutfeature "github.com/halaqahub/halaqahub/internal/app/features/logout"
	menteesfeature "github.com/halaqahub/halaqahub/internal/app/features/mentees"
	mentorsfeature "github.com/halaqahub/halaqahub/internal/app/features/mentors"
	"github.com/halaqahub/halaqahub/internal/app/importer"
	"github.com/halaqahub/halaqahub/internal/app/lifecycle"
	"github.com/halaqahub/halaqahub/internal/app/membership"
	announcementstore "github.com/halaqahub/halaqahub/internal/app/store/announcements"
	groupstore "github.com/halaqahub/halaqahub/internal/app/store/groups"
	historystore "github.com/halaqahub/halaqahub/internal/app/store/history"
	menteestore "github.com/halaqahub/halaqahub/internal/app/store/mentees"
	mentorstore "github.com/halaqahub/halaqahub/internal/app/store/mentors"
	userstore "github.com/halaqahub/halaqahub/internal/app/store/users"
	"github.com/halaqahub/halaqahub/internal/app/system/auth"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and the Startup hook have completed. The core wiring order is stores,
// then the reconciler, then the lifecycle manager on top of it, then
// the import processor on top of both.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	groups := groupstore.New(deps.MongoDatabase)
	mentors := mentorstore.New(deps.MongoDatabase)
	mentees := menteestore.New(deps.MongoDatabase)
	history := historystore.New(deps.MongoDatabase)
	users := userstore.New(deps.MongoDatabase)
	announce := announcementstore.New(deps.MongoDatabase)

	rec := membership.NewReconciler(groups, mentees, history, logger)
	manager := lifecycle.NewManager(groups, mentors, mentees, rec, logger)
	processor := importer.NewProcessor(mentors, mentees, manager, logger)

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Authentication
	loginHandler := loginfeature.NewHandler(users, sessionMgr, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	// Group membership and lifecycle
	groupsHandler := groupsfeature.NewHandler(groups, mentors, mentees, manager, rec, logger)
	r.Mount("/groups", groupsfeature.Routes(groupsHandler, sessionMgr))

	// People
	mentorsHandler := mentorsfeature.NewHandler(mentors, groups, logger)
	r.Mount("/mentors", mentorsfeature.Routes(mentorsHandler, sessionMgr))

	menteesHandler := menteesfeature.NewHandler(mentees, history, rec, logger)
	r.Mount("/mentees", menteesfeature.Routes(menteesHandler, sessionMgr))

	// Bulk CSV import
	importHandler := importcsvfeature.NewHandler(processor, logger)
	r.Mount("/import", importcsvfeature.Routes(importHandler, sessionMgr))

	// Announcements
	announceHandler := announcementsfeature.NewHandler(announce, logger)
	r.Mount("/announcements", announcementsfeature.Routes(announceHandler, sessionMgr))

	return r, nil
}
