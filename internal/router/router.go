package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/garagex/garagex/internal/config"
	"github.com/garagex/garagex/internal/handler"
	"github.com/garagex/garagex/internal/middleware"
	"github.com/garagex/garagex/internal/model"
)

// Handlers bundles everything the route table needs.
type Handlers struct {
	Auth   *handler.AuthHandler
	Jobs   *handler.JobHandler
	Status *handler.StatusHandler
	Parts  *handler.PartHandler
	Admin  *handler.AdminGarageHandler
}

// Register wires the full route table under /api.  Only the health check
// and the two login endpoints are reachable without a bearer token;
// every other route passes through JWTAuth and a role check.  The Redis
// client may be nil, in which case rate limiting and response caching
// are skipped (both middlewares also fail open at runtime).
func Register(e *echo.Echo, cfg config.Config, rdb *redis.Client, h Handlers) {
	api := e.Group("/api")

	api.GET("/health", handler.Health)

	// Logins are the only credential-bearing endpoints, so they are the
	// ones worth rate limiting.
	var limited []echo.MiddlewareFunc
	if rdb != nil {
		rlCfg := config.LoadRateLimitConfig()
		if rlCfg.Enabled {
			limited = append(limited, middleware.NewTokenBucket(rlCfg, rdb))
		}
	}
	api.POST("/garage/login", h.Auth.GarageLogin, limited...)
	api.POST("/admin/login", h.Auth.AdminLogin, limited...)

	var cached []echo.MiddlewareFunc
	if rdb != nil {
		cacheCfg := config.LoadCacheConfig()
		if cacheCfg.Enabled {
			cached = append(cached, middleware.NewRedisCache(cacheCfg, rdb))
		}
	}

	// Garage surface: any active garage role, plus platform admins.
	garage := api.Group("/garage")
	garage.Use(middleware.JWTAuth(cfg.JWTSecret))
	garage.Use(middleware.RequireRole(model.RoleAdmin, model.RoleGarageAdmin, model.RoleMechanic))
	garage.GET("/users/:user_id/jobs", h.Jobs.ListJobs, cached...)
	garage.POST("/users/:user_id/jobs", h.Jobs.CreateJob)
	garage.GET("/jobs/:job_id", h.Jobs.GetJob, cached...)
	garage.POST("/jobs/:job_id/status", h.Status.UpdateStatus)
	garage.POST("/jobs/:job_id/parts", h.Parts.AddParts)
	garage.POST("/jobs/:job_id/parts/:part_id", h.Parts.UpdatePart)
	garage.DELETE("/jobs/:job_id/parts/:part_id", h.Parts.RemovePart)

	// Admin directory: platform admins only.
	admin := api.Group("/admin")
	admin.Use(middleware.JWTAuth(cfg.JWTSecret))
	admin.Use(middleware.RequireRole(model.RoleAdmin))
	admin.GET("/garages", h.Admin.List, cached...)
	admin.POST("/garages", h.Admin.Create)
	admin.GET("/garages/:id", h.Admin.Get, cached...)
	admin.DELETE("/garages/:id", h.Admin.Delete)
}
