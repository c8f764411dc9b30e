package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"finalexam/internal/auth"
	"finalexam/internal/config"
	"finalexam/internal/db"
	"finalexam/internal/model"
	"finalexam/internal/repository"
	"finalexam/internal/service"
)

type seedUser struct {
	Email    string
	Username string
	Password string
	Avatar   string
}

var demoUsers = []seedUser{
	{Email: "alice@example.com", Username: "alice", Password: "password123"},
	{Email: "bob@example.com", Username: "bob", Password: "password123"},
	{Email: "carol@example.com", Username: "carol", Password: "password123"},
}

func main() {
	log.Println("Starting seed script...")

	_ = godotenv.Load()
	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Challenge{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	challengeRepo := repository.NewChallengeRepository(gormDB)

	created := make([]*model.User, 0, len(demoUsers))
	for _, su := range demoUsers {
		if existing, err := userRepo.FindByEmail(ctx, su.Email); err == nil {
			log.Printf("User %s already exists, skipping", su.Email)
			created = append(created, existing)
			continue
		}

		hash, err := auth.HashPassword(su.Password)
		if err != nil {
			log.Fatalf("Failed to hash password for %s: %v", su.Email, err)
		}
		user := &model.User{
			Email:        su.Email,
			Username:     su.Username,
			PasswordHash: hash,
			Avatar:       su.Avatar,
		}
		if err := userRepo.Create(ctx, user); err != nil {
			log.Fatalf("Failed to create user %s: %v", su.Email, err)
		}
		log.Printf("Created user %s (%s)", su.Username, user.ID)
		created = append(created, user)
	}

	// One open demo challenge from the first user.
	if len(created) > 0 {
		challengeService := service.NewChallengeService(challengeRepo, userRepo)
		challenge, err := challengeService.Create(ctx, created[0].ID)
		if err != nil {
			log.Fatalf("Failed to create demo challenge: %v", err)
		}
		log.Printf("Created demo challenge %s (code %s)", challenge.ID, challenge.ChallengeCode)
	}

	log.Println("Seed complete")
}
