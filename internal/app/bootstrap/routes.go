// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"

	authgooglefeature "github.com/softlexhq/softlex/internal/app/features/authgoogle"
	errorsfeature "github.com/softlexhq/softlex/internal/app/features/errors"
	healthfeature "github.com/softlexhq/softlex/internal/app/features/health"
	homefeature "github.com/softlexhq/softlex/internal/app/features/home"
	loginfeature "github.com/softlexhq/softlex/internal/app/features/login"
	logoutfeature "github.com/softlexhq/softlex/internal/app/features/logout"
	projectsfeature "github.com/softlexhq/softlex/internal/app/features/projects"
	registerfeature "github.com/softlexhq/softlex/internal/app/features/register"
	sectionsfeature "github.com/softlexhq/softlex/internal/app/features/sections"
	systemusersfeature "github.com/softlexhq/softlex/internal/app/features/systemusers"
	testcasesfeature "github.com/softlexhq/softlex/internal/app/features/testcases"
	"github.com/softlexhq/softlex/internal/app/system/auth"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed. It initializes the session store and
// template engine, then mounts the feature routers: public pages and auth
// at the top level, project pages (with nested section and test case
// routers), and the admin user area.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	if err := auth.InitSessionStore(appCfg.SessionKey, appCfg.SessionDomain, secure, logger); err != nil {
		logger.Error("session store init failed", zap.Error(err))
		return nil, err
	}

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	errLog := errorsfeature.NewErrorLogger(logger)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	// CSRF protection for all state-changing form posts.
	r.Use(csrf.Protect([]byte(appCfg.CSRFKey),
		csrf.Secure(secure),
		csrf.Path("/")))

	// Loads the SessionUser into context if logged in, making the current
	// user available to all handlers via auth.CurrentUser(r).
	r.Use(auth.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Public pages
	homeHandler := homefeature.NewHandler(deps.MongoDatabase, logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	// Authentication
	googleEnabled := appCfg.GoogleClientID != "" && appCfg.GoogleClientSecret != ""

	loginHandler := loginfeature.NewHandler(deps.MongoDatabase, errLog, googleEnabled, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	registerHandler := registerfeature.NewHandler(deps.MongoDatabase, errLog, logger)
	r.Mount("/register", registerfeature.Routes(registerHandler))

	logoutHandler := logoutfeature.NewHandler(logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	if googleEnabled {
		googleHandler := authgooglefeature.NewHandler(deps.MongoDatabase,
			appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL, logger)
		r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))
	}

	// Projects with nested section and test case routers
	projectsHandler := projectsfeature.NewHandler(deps.MongoDatabase, errLog, logger)
	projectsRouter := projectsfeature.Routes(projectsHandler)

	sectionsHandler := sectionsfeature.NewHandler(deps.MongoDatabase, errLog, logger)
	projectsRouter.Mount("/{id}/sections", sectionsfeature.Routes(sectionsHandler))

	testcasesHandler := testcasesfeature.NewHandler(deps.MongoDatabase, errLog, logger)
	projectsRouter.Mount("/{id}/testcases", testcasesfeature.Routes(testcasesHandler))

	r.Mount("/projects", projectsRouter)

	// Site-wide user administration (admin role only)
	sysUsersHandler := systemusersfeature.NewHandler(deps.MongoDatabase, errLog, logger)
	r.Mount("/system/users", systemusersfeature.Routes(sysUsersHandler))

	return r, nil
}
