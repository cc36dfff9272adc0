// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	achievementsfeature "github.com/voluntahub/voluntahub/internal/app/features/achievements"
	eventsfeature "github.com/voluntahub/voluntahub/internal/app/features/events"
	healthfeature "github.com/voluntahub/voluntahub/internal/app/features/health"
	membersfeature "github.com/voluntahub/voluntahub/internal/app/features/members"
	organizationsfeature "github.com/voluntahub/voluntahub/internal/app/features/organizations"
	postsfeature "github.com/voluntahub/voluntahub/internal/app/features/posts"
	sessionfeature "github.com/voluntahub/voluntahub/internal/app/features/session"
	"github.com/voluntahub/voluntahub/internal/app/policy/orgpolicy"
	achievementstore "github.com/voluntahub/voluntahub/internal/app/store/achievements"
	attendancestore "github.com/voluntahub/voluntahub/internal/app/store/attendance"
	eventstore "github.com/voluntahub/voluntahub/internal/app/store/events"
	grantstore "github.com/voluntahub/voluntahub/internal/app/store/grants"
	membershipstore "github.com/voluntahub/voluntahub/internal/app/store/memberships"
	organizationstore "github.com/voluntahub/voluntahub/internal/app/store/organizations"
	poststore "github.com/voluntahub/voluntahub/internal/app/store/posts"
	statstore "github.com/voluntahub/voluntahub/internal/app/store/stats"
	userstore "github.com/voluntahub/voluntahub/internal/app/store/users"
	"github.com/voluntahub/voluntahub/internal/app/system/auth"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// Startup have completed. It builds the stores once, shares them across
// features, applies session middleware, and mounts each feature router.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	db := deps.MongoDatabase

	orgs := organizationstore.New(db)
	memberships := membershipstore.New(db, logger)
	events := eventstore.New(db, logger)
	attendance := attendancestore.New(db, logger)
	achievements := achievementstore.New(db)
	grants := grantstore.New(deps.MongoClient, db, logger)
	posts := poststore.New(db)
	stats := statstore.New(db)
	users := userstore.New(db)
	policy := orgpolicy.New(db)

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators.
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Sessions (sign-in, sign-out, profile).
	sessionHandler := sessionfeature.NewHandler(users, sessionMgr, appCfg.SuperAdminEmail, logger)
	r.Mount("/session", sessionfeature.Routes(sessionHandler, sessionMgr))

	// Organizations and their dashboards.
	orgHandler := organizationsfeature.NewHandler(orgs, stats, policy, logger)
	r.Mount("/organizations", organizationsfeature.Routes(orgHandler, sessionMgr))

	// Memberships and the hours ledger.
	membersHandler := membersfeature.NewHandler(memberships, attendance, grants, stats, policy, logger)
	r.Mount("/members", membersfeature.Routes(membersHandler, sessionMgr))

	// Events, enrollment, attendance.
	eventsHandler := eventsfeature.NewHandler(events, attendance, grants, policy, logger)
	r.Mount("/events", eventsfeature.Routes(eventsHandler, sessionMgr))

	// Achievements and grants.
	achievementsHandler := achievementsfeature.NewHandler(achievements, grants, policy, logger)
	r.Mount("/achievements", achievementsfeature.Routes(achievementsHandler, sessionMgr))

	// Organization walls.
	postsHandler := postsfeature.NewHandler(posts, policy, logger)
	r.Mount("/posts", postsfeature.Routes(postsHandler, sessionMgr))

	return r, nil
}
