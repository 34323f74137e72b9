package main

import (
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	_ "github.com/wkatir/todo-express-react-vite-ts-tailwind/docs" // swagger docs

	"github.com/wkatir/todo-express-react-vite-ts-tailwind/internal/auth"
	"github.com/wkatir/todo-express-react-vite-ts-tailwind/internal/cache"
	"github.com/wkatir/todo-express-react-vite-ts-tailwind/internal/config"
	"github.com/wkatir/todo-express-react-vite-ts-tailwind/internal/db"
	"github.com/wkatir/todo-express-react-vite-ts-tailwind/internal/handler"
	"github.com/wkatir/todo-express-react-vite-ts-tailwind/internal/model"
	"github.com/wkatir/todo-express-react-vite-ts-tailwind/internal/repository"
	"github.com/wkatir/todo-express-react-vite-ts-tailwind/internal/router"
	"github.com/wkatir/todo-express-react-vite-ts-tailwind/internal/service"
)

// @title Task Manager API
// @version 1.0
// @description Personal task management API with categories, filtering and dashboard statistics.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("database init")
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Info().Msg("RESET_DB=true detected, dropping all tables")
		tables := []interface{}{
			&model.TaskCategory{},
			&model.Task{},
			&model.Category{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Warn().Err(err).Msg("failed to drop table (may not exist)")
			}
		}
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Task{},
		&model.TaskCategory{},
	); err != nil {
		log.Fatal().Err(err).Msg("auto-migrate")
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	taskRepo := repository.NewTaskRepository(gormDB)
	categoryRepo := repository.NewCategoryRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	taskService := service.NewTaskService(taskRepo, categoryRepo, cacheClient)
	categoryService := service.NewCategoryService(categoryRepo, cacheClient)
	statsService := service.NewStatsService(taskRepo, categoryRepo, cacheClient)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	taskHandler := handler.NewTaskHandler(taskService, statsService)
	categoryHandler := handler.NewCategoryHandler(categoryService)

	router.Register(e, cfg, authHandler, taskHandler, categoryHandler)

	addr := ":" + cfg.ServerPort
	log.Info().Str("addr", addr).Msg("starting server")
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server start")
	}
}
