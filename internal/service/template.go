package service

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/mealweek/backend/internal/model"
	"github.com/pageza/mealweek/backend/internal/planner"
	"github.com/pageza/mealweek/backend/internal/week"
)

// TemplateMetadata is the publish payload. Title and description are
// required; the rest is optional catalog decoration.
type TemplateMetadata struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Difficulty  string   `json:"difficulty"`
	ImageURL    string   `json:"image_url"`
}

// TemplateService owns the template lifecycle: publish, copy into a week,
// and delete with its cascade over favorites and dependent plans.
type TemplateService struct {
	db      *gorm.DB
	plans   *MealPlanService
	nowWeek func() week.ID
}

// NewTemplateService creates a new TemplateService.
func NewTemplateService(db *gorm.DB, plans *MealPlanService) *TemplateService {
	return &TemplateService{
		db:      db,
		plans:   plans,
		nowWeek: week.Current,
	}
}

// Publish snapshots a plan's slot assignments into a new template. Only
// recipe references are shared: every slot's servings are reset to the
// baseline of 1.
func (s *TemplateService) Publish(planID, author uuid.UUID, meta TemplateMetadata) (*model.Template, error) {
	if strings.TrimSpace(meta.Title) == "" || strings.TrimSpace(meta.Description) == "" {
		return nil, fmt.Errorf("title and description are required: %w", ErrValidation)
	}

	plan, err := s.plans.Get(planID, author)
	if err != nil {
		return nil, err
	}

	slots := make([]planner.Slot, len(plan.Slots))
	for i, slot := range plan.Slots {
		slot.Servings = 1
		slots[i] = slot
	}

	tpl := model.Template{
		AuthorID:    author,
		Title:       meta.Title,
		Description: meta.Description,
		Tags:        model.JSONBStringArray(meta.Tags),
		Difficulty:  meta.Difficulty,
		ImageURL:    meta.ImageURL,
		Slots:       model.MealSlotList(slots),
		SourceWeek:  plan.Week,
		Embedding:   GenerateEmbedding(meta.Title + " " + meta.Description),
	}
	if err := s.db.Create(&tpl).Error; err != nil {
		return nil, err
	}
	return &tpl, nil
}

// CopyToWeek materializes a new plan for (owner, targetWeek) from the
// template's slots. An occupied week is a conflict; the caller must delete
// the existing plan first, copying never overwrites implicitly.
func (s *TemplateService) CopyToWeek(templateID uuid.UUID, targetWeek week.ID, owner uuid.UUID) (*model.MealPlan, error) {
	tpl, err := s.Get(templateID)
	if err != nil {
		return nil, err
	}

	// Template slots carry dates from the source week; rebind them onto the
	// target week's dates by weekday before creating the plan.
	slots, err := rebindSlots(tpl.Slots, targetWeek)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	// The template ref goes into the same insert as the slots; a plan must
	// never occupy the target week half-bound.
	return s.plans.createForWeek(owner, targetWeek, slots, &tpl.ID)
}

// rebindSlots maps template slots onto the target week, preserving weekday
// and meal type and forcing servings to 1.
func rebindSlots(slots []planner.Slot, target week.ID) ([]planner.Slot, error) {
	dates := target.Dates()
	out := make([]planner.Slot, 0, len(slots))
	for _, slot := range slots {
		if err := slot.Key.Validate(); err != nil {
			return nil, err
		}
		day, err := weekdayIndex(slot.Key.Date)
		if err != nil {
			return nil, err
		}
		slot.Key.Date = dates[day].Format(week.DateLayout)
		slot.Servings = 1
		out = append(out, slot)
	}
	return out, nil
}

// weekdayIndex maps a date to its ISO weekday position, Monday = 0.
func weekdayIndex(date string) (int, error) {
	d, err := time.ParseInLocation(week.DateLayout, date, time.UTC)
	if err != nil {
		return 0, err
	}
	wd := int(d.Weekday())
	if wd == 0 {
		wd = 7
	}
	return wd - 1, nil
}

// Get loads a template by id.
func (s *TemplateService) Get(id uuid.UUID) (*model.Template, error) {
	var tpl model.Template
	if err := s.db.First(&tpl, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("template %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &tpl, nil
}

// List returns the template catalog, optionally ordered by search relevance.
func (s *TemplateService) List(query, difficulty string) ([]model.Template, error) {
	tx := s.db
	if query != "" {
		if s.db.Dialector.Name() == "postgres" {
			vec := GenerateEmbedding(query)
			tx = tx.Clauses(clause.OrderBy{
				Expression: clause.Expr{SQL: "embedding <-> ?", Vars: []interface{}{vec}},
			})
		} else {
			like := "%" + strings.ToLower(query) + "%"
			tx = tx.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
		}
	}
	if difficulty != "" {
		tx = tx.Where("difficulty = ?", difficulty)
	}

	var templates []model.Template
	if err := tx.Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

// Delete removes the template and cascades in one transaction: favorites are
// dropped, dependent plans in non-current weeks are deleted, and current-week
// plans are kept but flagged orphaned so their next fetch surfaces the
// awaiting-user-choice state. A failure anywhere rolls the whole cascade
// back, leaving it retryable rather than half-applied.
func (s *TemplateService) Delete(templateID, author uuid.UUID) error {
	tpl, err := s.Get(templateID)
	if err != nil {
		return err
	}
	if tpl.AuthorID != author {
		return fmt.Errorf("template %s: %w", templateID, ErrForbidden)
	}

	current := string(s.nowWeek())
	var cleared []model.MealPlan
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var dependents []model.MealPlan
		if err := tx.Where("template_id = ?", templateID).Find(&dependents).Error; err != nil {
			return err
		}
		cleared = cleared[:0]
		for _, plan := range dependents {
			if plan.Week == current {
				if err := tx.Model(&plan).Update("orphaned", true).Error; err != nil {
					return err
				}
				continue
			}
			if err := tx.Delete(&plan).Error; err != nil {
				return err
			}
			cleared = append(cleared, plan)
		}

		if err := tx.Where("template_id = ?", templateID).Delete(&model.TemplateFavorite{}).Error; err != nil {
			return err
		}
		return tx.Delete(tpl).Error
	})
	if err != nil {
		return err
	}

	// Cached weekly roll-ups for the deleted dependents belong to other
	// owners; drop them so those weeks read as empty again.
	for _, plan := range cleared {
		s.plans.invalidateNutrition(plan.OwnerID, week.ID(plan.Week))
	}

	log.Printf("deleted template %s with cascade", templateID)
	return nil
}

// Favorite marks the template as a favorite of the user.
func (s *TemplateService) Favorite(templateID, user uuid.UUID) error {
	if _, err := s.Get(templateID); err != nil {
		return err
	}
	var count int64
	if err := s.db.Model(&model.TemplateFavorite{}).
		Where("template_id = ? AND user_id = ?", templateID, user).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return s.db.Create(&model.TemplateFavorite{TemplateID: templateID, UserID: user}).Error
}

// Unfavorite removes the user's favorite mark, if any.
func (s *TemplateService) Unfavorite(templateID, user uuid.UUID) error {
	return s.db.Where("template_id = ? AND user_id = ?", templateID, user).
		Delete(&model.TemplateFavorite{}).Error
}

// SetImageURL records the catalog image for a template.
func (s *TemplateService) SetImageURL(templateID, author uuid.UUID, url string) error {
	tpl, err := s.Get(templateID)
	if err != nil {
		return err
	}
	if tpl.AuthorID != author {
		return fmt.Errorf("template %s: %w", templateID, ErrForbidden)
	}
	return s.db.Model(tpl).Update("image_url", url).Error
}
