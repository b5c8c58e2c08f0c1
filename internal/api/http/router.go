package http

import (
	nethttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/myhome/myhome-service/internal/api/http/handlers"
	"github.com/myhome/myhome-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health      *handlers.HealthHandler
	Auth        *handlers.AuthHandler
	Users       *handlers.UsersHandler
	Communities *handlers.CommunitiesHandler
	Houses      *handlers.HousesHandler
	// Metrics, when set, is served at GET /metrics.
	Metrics nethttp.Handler
	// CredentialLimiter, when set, guards login, password recovery and e-mail confirmation.
	CredentialLimiter fiber.Handler
}

// RegisterRoutes wires HTTP routes. Every route sees the principal resolved by the gate;
// routes that need one are wrapped in auth.RequireAuthenticated.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics))
	}

	limited := cfg.CredentialLimiter
	if limited == nil {
		limited = func(c *fiber.Ctx) error { return c.Next() }
	}
	requireAuth := auth.RequireAuthenticated()

	app.Post("/auth/login", limited, cfg.Auth.Login)

	users := app.Group("/users")
	users.Post("", cfg.Users.Signup)
	users.Post("/password", limited, cfg.Users.Password)
	users.Get("", requireAuth, cfg.Users.List)
	users.Get("/:userId", requireAuth, cfg.Users.Get)
	users.Get("/:userId/email-confirm/:token", limited, cfg.Users.ConfirmEmail)
	users.Post("/:userId/email-confirm-resend", limited, cfg.Users.ResendEmailConfirm)
	users.Get("/:userId/housemates", requireAuth, cfg.Houses.ListHousemates)

	communities := app.Group("/communities")
	communities.Get("", cfg.Communities.List)
	communities.Get("/:communityId", cfg.Communities.Get)
	communities.Get("/:communityId/admins", cfg.Communities.ListAdmins)
	communities.Post("", requireAuth, cfg.Communities.Create)
	communities.Post("/:communityId/admins", requireAuth, cfg.Communities.AddAdmins)
	communities.Delete("/:communityId/admins/:adminId", requireAuth, cfg.Communities.RemoveAdmin)
	communities.Delete("/:communityId", requireAuth, cfg.Communities.Delete)
	communities.Get("/:communityId/houses", cfg.Houses.ListForCommunity)
	communities.Post("/:communityId/houses", requireAuth, cfg.Houses.AddToCommunity)
	communities.Delete("/:communityId/houses/:houseId", requireAuth, cfg.Houses.RemoveFromCommunity)

	houses := app.Group("/houses")
	houses.Get("", cfg.Houses.List)
	houses.Get("/:houseId", cfg.Houses.Get)
	houses.Get("/:houseId/members", requireAuth, cfg.Houses.ListMembers)
	houses.Post("/:houseId/members", requireAuth, cfg.Houses.AddMembers)
	houses.Delete("/:houseId/members/:memberId", requireAuth, cfg.Houses.RemoveMember)
}
