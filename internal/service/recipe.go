package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/mealweek/backend/internal/model"
	"github.com/pageza/mealweek/backend/internal/nutrition"
)

// RecipeService exposes the recipe catalog to the planner. The planner only
// reads recipes: it needs the picker list behind drag-and-drop and the
// per-serving nutrition snapshots behind the aggregator. Authoring lives in
// another subsystem.
type RecipeService struct {
	db *gorm.DB
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// Get retrieves a recipe by ID.
func (s *RecipeService) Get(id uuid.UUID) (*model.Recipe, error) {
	var recipe model.Recipe
	if err := s.db.First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("recipe %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &recipe, nil
}

// List returns the catalog, optionally filtered by category and ordered by
// search relevance.
func (s *RecipeService) List(query, category string) ([]model.Recipe, error) {
	tx := s.db
	if query != "" {
		if s.db.Dialector.Name() == "postgres" {
			vec := GenerateEmbedding(query)
			tx = tx.Clauses(clause.OrderBy{
				Expression: clause.Expr{SQL: "embedding <-> ?", Vars: []interface{}{vec}},
			})
		} else {
			like := "%" + strings.ToLower(query) + "%"
			tx = tx.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
		}
	}
	if category != "" {
		tx = tx.Where("category = ?", category)
	}

	var recipes []model.Recipe
	if err := tx.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// Snapshot converts a recipe into the aggregator's read-only nutrition view.
func Snapshot(r *model.Recipe) nutrition.Snapshot {
	return nutrition.Snapshot{
		RecipeID:         r.ID,
		BaselineServings: r.BaselineServings,
		Calories:         r.Calories,
		Protein:          r.Protein,
		Carbs:            r.Carbs,
		Fat:              r.Fat,
	}
}
