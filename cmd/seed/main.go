package main

import (
	"context"
	"log"

	"gorm.io/gorm"

	"skillbridge/internal/auth"
	"skillbridge/internal/config"
	"skillbridge/internal/db"
	"skillbridge/internal/errors"
	"skillbridge/internal/model"
	"skillbridge/internal/repository"
	"skillbridge/internal/service"
	"skillbridge/internal/validation"
)

type seedCategory struct {
	Name        string
	Description string
}

var defaultCategories = []seedCategory{
	{Name: "Mathematics", Description: "Algebra, geometry, calculus and statistics"},
	{Name: "English", Description: "Grammar, writing, literature and conversation"},
	{Name: "Science", Description: "Physics, chemistry and biology"},
	{Name: "Programming", Description: "Software development and computer science"},
	{Name: "History", Description: "World, regional and modern history"},
}

func main() {
	log.Println("Starting seed script...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := db.Migrate(gormDB, false); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	store := repository.NewStore(gormDB)

	created, skipped := 0, 0
	for _, item := range defaultCategories {
		ok, err := upsertCategory(ctx, store, item)
		if err != nil {
			log.Fatalf("Failed to seed category %s: %v", item.Name, err)
		}
		if ok {
			created++
		} else {
			skipped++
		}
	}
	log.Printf("Categories: %d created, %d already present", created, skipped)

	// The seed never issues tokens, so the JWT service only satisfies the constructor.
	authService := service.NewAuthService(
		store,
		validation.New(),
		auth.NewJWTService(cfg.JWTSecret, cfg.JWTExpiry),
		auth.NewTokenStore(nil),
	)
	adminCreated, err := authService.EnsureAdmin(ctx, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		log.Fatalf("Failed to seed admin: %v", err)
	}
	if adminCreated {
		log.Printf("Admin account created: %s", cfg.AdminEmail)
	} else {
		log.Printf("Admin account already exists: %s", cfg.AdminEmail)
	}

	log.Println("Seed completed successfully")
}

// upsertCategory creates the category unless one with the same name exists.
func upsertCategory(ctx context.Context, store repository.Store, item seedCategory) (bool, error) {
	if _, err := store.Categories().FindByName(ctx, item.Name); err == nil {
		return false, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	description := item.Description
	category := &model.Category{Name: item.Name, Description: &description}
	if err := store.Categories().Create(ctx, category); err != nil {
		return false, err
	}
	return true, nil
}
