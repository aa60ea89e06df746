// Package main seeds the first admin account. It refuses to run when
// an admin already exists, so it is safe to call from provisioning
// scripts on every deploy.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/margoul1Malin/lda/internal/auth"
	"github.com/margoul1Malin/lda/internal/config"
	"github.com/margoul1Malin/lda/internal/database"
	"github.com/margoul1Malin/lda/internal/models"
	"github.com/margoul1Malin/lda/internal/repository"
)

func main() {
	email := flag.String("email", os.Getenv("LDA_ADMIN_EMAIL"), "admin email")
	password := flag.String("password", os.Getenv("LDA_ADMIN_PASSWORD"), "admin password")
	name := flag.String("name", envOr("LDA_ADMIN_NAME", "Administrateur"), "admin display name")
	role := flag.String("role", envOr("LDA_ADMIN_ROLE", "admin"), "admin role")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("email and password are required (flags or LDA_ADMIN_EMAIL / LDA_ADMIN_PASSWORD)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(cfg.Database); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	adminRepo := repository.NewAdminRepository(db.Pool())

	count, err := adminRepo.Count(ctx)
	if err != nil {
		log.Fatalf("Failed to count admins: %v", err)
	}
	if count > 0 {
		fmt.Println("An admin account already exists, nothing to do")
		return
	}

	hash, err := auth.HashPassword(*password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	admin := &models.Admin{
		Email:        *email,
		PasswordHash: hash,
		Name:         *name,
		Role:         *role,
		IsActive:     true,
	}
	if err := adminRepo.Create(ctx, admin); err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}

	fmt.Printf("Admin account created: %s (%s)\n", admin.Email, admin.ID)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
