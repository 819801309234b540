package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/iliyamo/taskboard/internal/apperr"
	"github.com/iliyamo/taskboard/internal/auth"
	"github.com/iliyamo/taskboard/internal/config"
	"github.com/iliyamo/taskboard/internal/database"
	"github.com/iliyamo/taskboard/internal/handler"
	"github.com/iliyamo/taskboard/internal/logger"
	"github.com/iliyamo/taskboard/internal/queue"
	"github.com/iliyamo/taskboard/internal/repository"
	"github.com/iliyamo/taskboard/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	logger.Init(cfg.Env)

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer func() { _ = db.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.EnsureSchema(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("schema bootstrap failed")
	}
	if err := database.SeedAdmin(ctx, db, cfg.AdminEmail, cfg.AdminPass, cfg.BcryptCost); err != nil {
		log.Fatal().Err(err).Msg("admin seed failed")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	tasks := repository.NewTaskRepo(db)
	sessions := auth.NewService(cfg.JWTSecret, cfg.BcryptCost, users, tokens)

	cacheCfg := config.LoadCacheConfig()
	var rdb *redis.Client
	if cacheCfg.Enabled {
		if rdb = config.NewRedisClient(); rdb == nil {
			log.Warn().Msg("redis unreachable, response cache disabled")
		}
	}

	go queue.StartAuditConsumer()

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = apperr.ErrorHandler

	router.Register(e, router.Deps{
		Cfg:      cfg,
		CacheCfg: cacheCfg,
		Redis:    rdb,
		Tokens:   tokens,
		Auth:     handler.NewAuthHandler(cfg, users, sessions),
		Users:    handler.NewUserHandler(users, sessions),
		Tasks:    handler.NewTaskHandler(tasks),
	})

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
	if err := e.Start(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
