package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pageza/mealweek/backend/internal/model"
	"github.com/pageza/mealweek/backend/internal/planner"
	"github.com/pageza/mealweek/backend/internal/week"
)

// NavigationWindow bounds week navigation to current week +/- 2.
const NavigationWindow = 2

// TemplateBinding is the state of a plan's template reference as observed on
// fetch.
type TemplateBinding string

const (
	// BindingUnbound: the plan never referenced a template.
	BindingUnbound TemplateBinding = "unbound"
	// BindingValid: the referenced template still exists.
	BindingValid TemplateBinding = "valid"
	// BindingAwaitingUserChoice: the template is gone but the plan covers the
	// current week; the owner must delete it and pick a new one.
	BindingAwaitingUserChoice TemplateBinding = "awaiting_user_choice"
	// BindingAutoCleared: the template is gone and the plan covered a
	// non-current week, so it was deleted during the fetch.
	BindingAutoCleared TemplateBinding = "auto_cleared"
)

// MealPlanService owns meal plan persistence: one plan per (owner, week),
// slot sets replaced wholesale under an optimistic version check.
type MealPlanService struct {
	db      *gorm.DB
	redis   *redis.Client
	nowWeek func() week.ID
}

// NewMealPlanService creates a new MealPlanService. redisClient may be nil;
// the weekly nutrition cache is then simply never invalidated (nor used).
func NewMealPlanService(db *gorm.DB, redisClient *redis.Client) *MealPlanService {
	return &MealPlanService{
		db:      db,
		redis:   redisClient,
		nowWeek: week.Current,
	}
}

// FetchForWeek loads the owner's plan for the given week and probes the
// template binding. A dead template reference forks on week recency: the
// current week surfaces BindingAwaitingUserChoice with the plan kept, any
// other week deletes the plan and reports BindingAutoCleared.
func (s *MealPlanService) FetchForWeek(owner uuid.UUID, w week.ID) (*model.MealPlan, TemplateBinding, error) {
	var plan model.MealPlan
	err := s.db.Where("owner_id = ? AND week = ?", owner, string(w)).First(&plan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, BindingUnbound, fmt.Errorf("meal plan for week %s: %w", w, ErrNotFound)
	}
	if err != nil {
		return nil, BindingUnbound, err
	}

	if plan.TemplateID == nil {
		return &plan, BindingUnbound, nil
	}

	var tpl model.Template
	err = s.db.Select("id").First(&tpl, "id = ?", *plan.TemplateID).Error
	if err == nil && !plan.Orphaned {
		return &plan, BindingValid, nil
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, BindingUnbound, err
	}

	// Orphaned reference.
	if w == s.nowWeek() {
		if !plan.Orphaned {
			if err := s.db.Model(&plan).Update("orphaned", true).Error; err != nil {
				return nil, BindingUnbound, err
			}
			plan.Orphaned = true
		}
		return &plan, BindingAwaitingUserChoice, nil
	}

	// Editing a dead reference in a non-current week has no user-facing
	// benefit; clear it without prompting.
	if err := s.db.Delete(&plan).Error; err != nil {
		return nil, BindingUnbound, err
	}
	s.invalidateNutrition(owner, w)
	log.Printf("auto-cleared orphaned meal plan %s (week %s)", plan.ID, w)
	return nil, BindingAutoCleared, fmt.Errorf("meal plan for week %s: %w", w, ErrOrphanedTemplate)
}

// CreateForWeek creates the owner's plan for the week. Creating over an
// existing plan is a caller error.
func (s *MealPlanService) CreateForWeek(owner uuid.UUID, w week.ID, slots []planner.Slot) (*model.MealPlan, error) {
	return s.createForWeek(owner, w, slots, nil)
}

// createForWeek also binds a template reference when the plan originates
// from a template copy, so the ref lands in the same insert as the slots.
func (s *MealPlanService) createForWeek(owner uuid.UUID, w week.ID, slots []planner.Slot, templateID *uuid.UUID) (*model.MealPlan, error) {
	if err := s.checkWindow(w); err != nil {
		return nil, err
	}
	if err := planner.ValidateSlots(slots, w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	var count int64
	if err := s.db.Model(&model.MealPlan{}).
		Where("owner_id = ? AND week = ?", owner, string(w)).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("meal plan for week %s already exists: %w", w, ErrConflict)
	}

	plan := model.MealPlan{
		OwnerID:      owner,
		Week:         string(w),
		Slots:        model.MealSlotList(slots),
		ShoppingList: model.JSONBlob("{}"),
		TemplateID:   templateID,
		Version:      1,
	}
	if err := s.db.Create(&plan).Error; err != nil {
		return nil, err
	}
	// A copied plan can land with slots, so any cached zero breakdown for
	// this week is already stale.
	s.invalidateNutrition(owner, w)
	return &plan, nil
}

// ReplaceSlots swaps in the complete desired slot set plus the opaque
// shopping list payload. Not a patch: untouched slots must be included by the
// caller. The version check rejects writes issued against an outdated read so
// a slower in-flight request cannot clobber a newer one.
func (s *MealPlanService) ReplaceSlots(planID uuid.UUID, version int, slots []planner.Slot, shoppingList model.JSONBlob) (*model.MealPlan, error) {
	var plan model.MealPlan
	if err := s.db.First(&plan, "id = ?", planID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("meal plan %s: %w", planID, ErrNotFound)
		}
		return nil, err
	}
	if err := planner.ValidateSlots(slots, week.ID(plan.Week)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if len(shoppingList) == 0 {
		shoppingList = plan.ShoppingList
	}

	res := s.db.Model(&model.MealPlan{}).
		Where("id = ? AND version = ?", planID, version).
		Updates(map[string]interface{}{
			"slots":         model.MealSlotList(slots),
			"shopping_list": shoppingList,
			"version":       version + 1,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("meal plan %s at version %d: %w", planID, version, ErrStaleWrite)
	}

	plan.Slots = model.MealSlotList(slots)
	plan.ShoppingList = shoppingList
	plan.Version = version + 1
	s.invalidateNutrition(plan.OwnerID, week.ID(plan.Week))
	return &plan, nil
}

// Delete removes the owner's plan.
func (s *MealPlanService) Delete(planID, owner uuid.UUID) error {
	var plan model.MealPlan
	if err := s.db.First(&plan, "id = ?", planID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("meal plan %s: %w", planID, ErrNotFound)
		}
		return err
	}
	if plan.OwnerID != owner {
		return fmt.Errorf("meal plan %s: %w", planID, ErrForbidden)
	}
	if err := s.db.Delete(&plan).Error; err != nil {
		return err
	}
	s.invalidateNutrition(owner, week.ID(plan.Week))
	return nil
}

// Get loads a plan by id with an ownership check.
func (s *MealPlanService) Get(planID, owner uuid.UUID) (*model.MealPlan, error) {
	var plan model.MealPlan
	if err := s.db.First(&plan, "id = ?", planID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("meal plan %s: %w", planID, ErrNotFound)
		}
		return nil, err
	}
	if plan.OwnerID != owner {
		return nil, fmt.Errorf("meal plan %s: %w", planID, ErrForbidden)
	}
	return &plan, nil
}

func (s *MealPlanService) checkWindow(w week.ID) error {
	if d := week.Distance(s.nowWeek(), w); d < -NavigationWindow || d > NavigationWindow {
		return fmt.Errorf("week %s is outside the navigation window: %w", w, ErrValidation)
	}
	return nil
}

func (s *MealPlanService) invalidateNutrition(owner uuid.UUID, w week.ID) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(context.Background(), nutritionCacheKey(owner, w)).Err(); err != nil {
		log.Printf("failed to invalidate nutrition cache for %s/%s: %v", owner, w, err)
	}
}
