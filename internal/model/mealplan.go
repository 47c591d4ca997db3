package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MealPlan is one user's grid for one calendar week. Slots live in a single
// JSONB column and are always replaced wholesale; Version guards against a
// slower in-flight write clobbering a newer one. The owner/week key is held
// only by live rows, so a soft-deleted plan frees the week for re-creation.
type MealPlan struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	OwnerID      uuid.UUID      `gorm:"type:uuid;not null;index:idx_meal_plans_owner_week,unique,where:deleted_at IS NULL" json:"owner_id"`
	Week         string         `gorm:"size:8;not null;index:idx_meal_plans_owner_week,unique,where:deleted_at IS NULL" json:"week"`
	Slots        MealSlotList   `gorm:"type:jsonb;not null;default:'[]'" json:"slots"`
	ShoppingList JSONBlob       `gorm:"type:jsonb;not null;default:'{}'" json:"shopping_list"`
	TemplateID   *uuid.UUID     `gorm:"type:uuid;index" json:"template_id,omitempty"`
	Orphaned     bool           `gorm:"not null;default:false" json:"orphaned"`
	Version      int            `gorm:"not null;default:1" json:"version"`
}

func (p *MealPlan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
