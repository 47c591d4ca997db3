package main

import (
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/pageza/mealweek/backend/config"
	"github.com/pageza/mealweek/backend/internal/model"
)

type seedUser struct {
	Name     string
	Username string
	Email    string
	Password string
}

var users = []seedUser{
	{Name: "Demo User", Username: "demo", Email: "demo@example.com", Password: "demopass123"},
	{Name: "Template Author", Username: "author", Email: "author@example.com", Password: "authorpass123"},
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	for _, u := range users {
		var count int64
		if err := db.Model(&model.User{}).Where("email = ?", u.Email).Count(&count).Error; err != nil {
			log.Fatalf("Failed to check for existing user %s: %v", u.Email, err)
		}
		if count > 0 {
			log.Printf("User already exists, skipping: %s", u.Email)
			continue
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("Failed to hash password for %s: %v", u.Email, err)
		}
		user := model.User{
			Name:         u.Name,
			Username:     u.Username,
			Email:        u.Email,
			PasswordHash: string(hashed),
		}
		if err := db.Create(&user).Error; err != nil {
			log.Fatalf("Failed to create user %s: %v", u.Email, err)
		}
		log.Printf("Seeded user: %s", u.Email)
	}
}
