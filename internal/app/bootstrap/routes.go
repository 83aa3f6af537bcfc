// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	admincontentfeature "github.com/advocatechambers/lawsite/internal/app/features/admincontent"
	auditlogfeature "github.com/advocatechambers/lawsite/internal/app/features/auditlog"
	authgooglefeature "github.com/advocatechambers/lawsite/internal/app/features/authgoogle"
	bookingfeature "github.com/advocatechambers/lawsite/internal/app/features/booking"
	contenteventsfeature "github.com/advocatechambers/lawsite/internal/app/features/contentevents"
	dashboardfeature "github.com/advocatechambers/lawsite/internal/app/features/dashboard"
	errorsfeature "github.com/advocatechambers/lawsite/internal/app/features/errors"
	healthfeature "github.com/advocatechambers/lawsite/internal/app/features/health"
	inquiriesfeature "github.com/advocatechambers/lawsite/internal/app/features/inquiries"
	loginfeature "github.com/advocatechambers/lawsite/internal/app/features/login"
	logoutfeature "github.com/advocatechambers/lawsite/internal/app/features/logout"
	mediafeature "github.com/advocatechambers/lawsite/internal/app/features/media"
	pagesfeature "github.com/advocatechambers/lawsite/internal/app/features/pages"
	settingsfeature "github.com/advocatechambers/lawsite/internal/app/features/settings"
	sitefeature "github.com/advocatechambers/lawsite/internal/app/features/site"
	"github.com/advocatechambers/lawsite/internal/app/store/audit"
	inquirystore "github.com/advocatechambers/lawsite/internal/app/store/inquiries"
	"github.com/advocatechambers/lawsite/internal/app/store/oauthstate"
	"github.com/advocatechambers/lawsite/internal/app/store/ratelimit"
	"github.com/advocatechambers/lawsite/internal/app/system/auditlog"
	"github.com/advocatechambers/lawsite/internal/app/system/auth"
	"github.com/advocatechambers/lawsite/internal/app/system/jsonutil"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/middleware"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// requestTimeout bounds every request except the event stream.
const requestTimeout = 30 * time.Second

// BuildHandler constructs the root HTTP handler for the site.
//
// Layout:
//   - /api/*        public JSON, 503 until content has loaded
//   - /admin/api/*  admin JSON, CSRF protected; all but login/session need a session
//   - /admin/auth/google  Google sign-in (only when configured)
//   - /health, /ready, /readyz, /livez  probes
//   - StorageLocalURL/*   uploaded media when stored locally
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Re-check every session against the current admin email, so changing
	// it signs the previous address out.
	sessionMgr.SetAdminFetcher(loginfeature.AdminFetcher(deps.Content))

	errLog := errorsfeature.NewErrorLogger(logger)

	// Create audit store and logger for security event tracking.
	auditStore := audit.New(deps.MongoDatabase)
	auditLogger := auditlog.New(auditStore, logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})

	inquiries := inquirystore.New(deps.MongoDatabase)

	r := chi.NewRouter()

	// ─────────────────────────────────────────────────────────────────────────────
	// Global Middleware (applies to ALL routes)
	// ─────────────────────────────────────────────────────────────────────────────

	r.Use(chimw.RequestID)

	// CORS middleware: must be early in the chain to handle preflight requests.
	r.Use(middleware.CORSFromConfig(coreCfg))

	// Security headers middleware: adds X-Frame-Options, X-Content-Type-Options, etc.
	r.Use(middleware.SecurityHeadersFromConfig(coreCfg))

	// Session middleware: loads the admin into context if signed in.
	r.Use(sessionMgr.LoadSessionUser)

	errorsHandler := errorsfeature.NewHandler()
	r.NotFound(errorsHandler.NotFound)
	r.MethodNotAllowed(errorsHandler.MethodNotAllowed)

	// Health check endpoints for load balancers and orchestrators
	probes := []healthfeature.Probe{healthfeature.Mongo(deps.MongoClient)}
	if deps.Redis != nil {
		probes = append(probes, healthfeature.Redis(deps.Redis))
	}
	healthHandler := healthfeature.NewHandler(deps.Content, logger, probes...)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	healthfeature.MountRootEndpoints(r, healthHandler)

	// Uploaded media (local storage only)
	if appCfg.StorageType == "local" || appCfg.StorageType == "" {
		r.Handle(appCfg.StorageLocalURL+"/*", fileserver.Handler(appCfg.StorageLocalURL, appCfg.StorageLocalPath))
	}

	// ─────────────────────────────────────────────────────────────────────────────
	// Public API
	// ─────────────────────────────────────────────────────────────────────────────
	siteHandler := sitefeature.NewHandler(deps.Content, errLog, logger)
	bookingHandler := bookingfeature.NewHandler(deps.Content, inquiries, deps.Mailer, appCfg.AdminURL, errLog, logger)
	pagesHandler := pagesfeature.NewHandler(deps.MongoDatabase, errLog, auditLogger, logger)
	eventsHandler := contenteventsfeature.NewHandler(deps.Content, logger)

	r.Route("/api", func(api chi.Router) {
		api.Use(sitefeature.RequireReady(deps.Content))
		api.NotFound(errorsHandler.NotFound)

		// Long-lived stream; no request timeout.
		eventsHandler.MountRoutes(api)

		api.Group(func(api chi.Router) {
			api.Use(chimw.Timeout(requestTimeout))
			siteHandler.MountRoutes(api)
			bookingHandler.MountRoutes(api)
			pagesHandler.MountPublicRoutes(api)
		})
	})

	// ─────────────────────────────────────────────────────────────────────────────
	// Admin API
	// ─────────────────────────────────────────────────────────────────────────────
	csrfMiddleware := newCSRF(appCfg, secure, logger)

	// Rate limiting for login attempts. Redis when available, otherwise
	// the rate_limits collection. Left as a nil interface when disabled.
	var limiter ratelimit.Limiter
	if appCfg.RateLimitEnabled {
		policy := ratelimit.Policy{
			MaxAttempts: appCfg.RateLimitLoginAttempts,
			Window:      appCfg.RateLimitLoginWindow,
			Lockout:     appCfg.RateLimitLoginLockout,
		}
		if deps.Redis != nil {
			limiter = ratelimit.NewRedis(deps.Redis, policy)
		} else {
			limiter = ratelimit.New(deps.MongoDatabase, policy)
		}
	}

	loginHandler := loginfeature.NewHandler(deps.Content, sessionMgr, limiter, auditLogger, errLog, logger)
	logoutHandler := logoutfeature.NewHandler(sessionMgr, auditLogger, logger)
	adminContentHandler := admincontentfeature.NewHandler(deps.Content, errLog, auditLogger, logger)
	settingsHandler := settingsfeature.NewHandler(deps.Content, sessionMgr, errLog, auditLogger, logger)
	inquiriesHandler := inquiriesfeature.NewHandler(inquiries, errLog, auditLogger, logger)
	dashboardHandler := dashboardfeature.NewHandler(deps.Content, inquiries, failedLogins(appCfg, auditStore), errLog, logger)
	auditLogHandler := auditlogfeature.NewHandler(auditStore, errLog, logger)
	mediaHandler := mediafeature.NewHandler(deps.FileStorage, errLog, auditLogger, logger)

	r.Route("/admin/api", func(admin chi.Router) {
		admin.Use(chimw.Timeout(requestTimeout))
		admin.Use(noStore)
		admin.Use(csrfMiddleware)
		admin.NotFound(errorsHandler.NotFound)

		loginHandler.MountRoutes(admin)
		logoutHandler.MountRoutes(admin)

		admin.Group(func(admin chi.Router) {
			admin.Use(sessionMgr.RequireAdmin)
			adminContentHandler.MountRoutes(admin)
			settingsHandler.MountRoutes(admin)
			inquiriesHandler.MountRoutes(admin)
			dashboardHandler.MountRoutes(admin)
			pagesHandler.MountRoutes(admin)
			mediaHandler.MountRoutes(admin)
			auditLogHandler.MountRoutes(admin)
		})
	})

	// Google OAuth (only mount if configured)
	if appCfg.GoogleEnabled() {
		googleHandler := authgooglefeature.NewHandler(
			deps.Content,
			sessionMgr,
			errLog,
			auditLogger,
			oauthstate.New(deps.MongoDatabase),
			appCfg.GoogleClientID,
			appCfg.GoogleClientSecret,
			appCfg.BaseURL,
			logger,
		)
		r.Mount("/admin/auth/google", authgooglefeature.Routes(googleHandler))
		logger.Info("Google OAuth enabled", zap.String("redirect_url", appCfg.BaseURL+authgooglefeature.CallbackPath))
	}

	return r, nil
}

// newCSRF returns the admin API CSRF middleware. The admin client reads the
// token from GET /admin/api/session and echoes it in X-CSRF-Token.
func newCSRF(appCfg AppConfig, secure bool, logger *zap.Logger) func(http.Handler) http.Handler {
	opts := []csrf.Option{
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.CookieName("lawsite_csrf"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			logger.Warn("CSRF validation failed",
				zap.String("path", req.URL.Path),
				zap.String("method", req.Method),
				zap.String("reason", csrf.FailureReason(req).Error()),
			)
			jsonutil.Forbidden(w, "CSRF token invalid or missing")
		})),
	}

	trusted := append([]string(nil), appCfg.CSRFTrustedOrigins...)
	// In dev mode, trust localhost origins for CSRF validation.
	if !secure {
		trusted = append(trusted, "localhost:8080", "localhost:3000", "127.0.0.1:8080", "127.0.0.1:3000")
	}
	if len(trusted) > 0 {
		opts = append(opts, csrf.TrustedOrigins(trusted))
	}
	if appCfg.SessionDomain != "" {
		opts = append(opts, csrf.Domain(appCfg.SessionDomain))
	}
	return csrf.Protect([]byte(appCfg.CSRFKey), opts...)
}

// failedLogins returns the audit store for the dashboard counter, or nil
// when auth events are not written to the database.
func failedLogins(appCfg AppConfig, store *audit.Store) dashboardfeature.FailedLogins {
	switch appCfg.AuditLogAuth {
	case "all", "db", "":
		return store
	}
	return nil
}

// noStore keeps admin responses out of shared caches.
func noStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

