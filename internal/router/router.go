// Package router wires handlers and middleware onto the Echo instance.
// The composition order is the contract: RequireAdmin always sits behind
// SessionAuth, and the response cache (when enabled) runs after both so
// its keys can be scoped by identity.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/taskboard/internal/config"
	"github.com/iliyamo/taskboard/internal/handler"
	"github.com/iliyamo/taskboard/internal/middleware"
	"github.com/iliyamo/taskboard/internal/repository"
)

// Deps carries everything route registration needs.
type Deps struct {
	Cfg      config.Config
	CacheCfg config.CacheConfig
	Redis    *redis.Client
	Tokens   *repository.TokenRepo
	Auth     *handler.AuthHandler
	Users    *handler.UserHandler
	Tasks    *handler.TaskHandler
}

// Register sets up all application routes.
func Register(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health)

	sessionAuth := middleware.SessionAuth(d.Cfg.JWTSecret, d.Tokens)
	adminOnly := middleware.RequireAdmin()
	cached := middleware.ResponseCache(d.CacheCfg, d.Redis)

	api := e.Group("/api")

	// Session lifecycle. Logout is the only auth route that requires an
	// already-authenticated session.
	authGroup := api.Group("/auth")
	authGroup.POST("/signup", d.Auth.Signup)
	authGroup.POST("/login", d.Auth.Login)
	authGroup.POST("/logout", d.Auth.Logout, sessionAuth)

	// Admin-only user management.
	users := api.Group("/users", sessionAuth, adminOnly)
	users.GET("", d.Users.List, cached)
	users.GET("/:id", d.Users.Find)
	users.PATCH("/:id", d.Users.Update)
	users.DELETE("/:id", d.Users.Delete)

	// Per-user task CRUD.
	tasks := api.Group("/tasks", sessionAuth)
	tasks.POST("", d.Tasks.Create)
	tasks.GET("", d.Tasks.List, cached)
	tasks.GET("/:id", d.Tasks.Find)
	tasks.PATCH("/:id", d.Tasks.Update)
	tasks.DELETE("/:id", d.Tasks.Delete)
}
