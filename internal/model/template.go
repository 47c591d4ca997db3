package model

import (
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// Template is a published, reusable snapshot of a week's slot assignments.
// Slot servings are normalized to 1 at publish time; serving counts are a
// per-user concern and are not shared through templates.
type Template struct {
	ID          uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	DeletedAt   gorm.DeletedAt   `gorm:"index" json:"-"`
	AuthorID    uuid.UUID        `gorm:"type:uuid;not null;index" json:"author_id"`
	Title       string           `gorm:"size:255;not null" json:"title"`
	Description string           `gorm:"type:text;not null" json:"description"`
	Tags        JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"tags"`
	Difficulty  string           `gorm:"size:50" json:"difficulty"`
	ImageURL    string           `gorm:"size:255" json:"image_url"`
	Slots       MealSlotList     `gorm:"type:jsonb;not null;default:'[]'" json:"slots"`
	SourceWeek  string           `gorm:"size:8" json:"source_week"`
	Embedding   pgvector.Vector  `gorm:"type:vector(3)" json:"-"`
}

func (t *Template) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TemplateFavorite marks a template as favorited by a user. Rows are removed
// when the template is deleted.
type TemplateFavorite struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	TemplateID uuid.UUID `gorm:"type:uuid;not null;index" json:"template_id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
}

func (TemplateFavorite) TableName() string {
	return "template_favorites"
}

func (f *TemplateFavorite) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
