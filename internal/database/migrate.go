package database

import (
	"log"

	"gorm.io/gorm"

	"github.com/pageza/mealweek/backend/internal/model"
)

// AutoMigrate creates the planner schema through gorm. Postgres deployments
// use the SQL files under migrations/ via cmd/migrate instead; this path
// serves sqlite (tests, local tooling).
func AutoMigrate(db *gorm.DB) error {
	if db.Dialector.Name() == "sqlite" {
		log.Printf("Using GORM auto-migration for SQLite")
	}
	return db.AutoMigrate(
		&model.User{},
		&model.Recipe{},
		&model.MealPlan{},
		&model.Template{},
		&model.TemplateFavorite{},
	)
}
