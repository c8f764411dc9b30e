package main

import (
	"log"
	"net/http"

	_ "finalexam/docs" // swagger docs

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"finalexam/internal/auth"
	"finalexam/internal/cache"
	"finalexam/internal/config"
	"finalexam/internal/db"
	"finalexam/internal/handler"
	"finalexam/internal/model"
	"finalexam/internal/ratelimit"
	"finalexam/internal/repository"
	"finalexam/internal/router"
	"finalexam/internal/service"
)

// @title Final Exam Game API
// @version 1.0
// @description Trivia game backend with accounts, score persistence, leaderboards and asynchronous challenges.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name X-App-Token
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.GameSession{},
		&model.LeaderboardEntry{},
		&model.Challenge{},
		&model.Team{},
		&model.PrizeRedemption{},
		&model.PracticeProgress{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})
	cacheClient := cache.New(redisClient)

	var limiter ratelimit.Limiter
	if cfg.RateLimitBackend == "redis" {
		limiter = ratelimit.NewRedisLimiter(redisClient)
	} else {
		limiter = ratelimit.NewMemoryLimiter()
	}

	// Repositories
	userRepo := repository.NewUserRepository(gormDB)
	challengeRepo := repository.NewChallengeRepository(gormDB)
	sessionRepo := repository.NewSessionRepository(gormDB)
	teamRepo := repository.NewTeamRepository(gormDB)
	prizeRepo := repository.NewPrizeRepository(gormDB)
	practiceRepo := repository.NewPracticeRepository(gormDB)

	// Services
	tokenService := auth.NewTokenService(cfg.JWTSecret)
	authService := service.NewAuthService(userRepo, tokenService)
	gameService := service.NewGameService(userRepo, sessionRepo, prizeRepo, practiceRepo, cacheClient)
	challengeService := service.NewChallengeService(challengeRepo, userRepo)
	teamService := service.NewTeamService(teamRepo)

	gameHandler := handler.NewGameHandler(
		authService,
		gameService,
		challengeService,
		teamService,
		limiter,
		handler.RateLimitPolicy{MaxAttempts: cfg.LoginMaxAttempts, Window: cfg.LoginWindow},
		handler.RateLimitPolicy{MaxAttempts: cfg.RegisterMaxAttempts, Window: cfg.RegisterWindow},
	)

	router.Register(e, cfg, tokenService, gameHandler)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
