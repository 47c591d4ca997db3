package model

import (
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// Recipe is the planner's read-only view of the recipe catalog. Macros are
// stated per BaselineServings; the nutrition aggregator scales from there.
type Recipe struct {
	ID               uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
	DeletedAt        gorm.DeletedAt   `gorm:"index" json:"-"`
	Name             string           `gorm:"size:255;not null" json:"name"`
	Description      string           `gorm:"type:text" json:"description"`
	Category         string           `gorm:"size:50" json:"category"`
	ImageURL         string           `gorm:"size:255" json:"image_url"`
	Ingredients      JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"ingredients"`
	BaselineServings int              `gorm:"not null;default:1" json:"baseline_servings"`
	Calories         float64          `gorm:"type:float" json:"calories"`
	Protein          float64          `gorm:"type:float" json:"protein"`
	Carbs            float64          `gorm:"type:float" json:"carbs"`
	Fat              float64          `gorm:"type:float" json:"fat"`
	Embedding        pgvector.Vector  `gorm:"type:vector(3)" json:"-"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
