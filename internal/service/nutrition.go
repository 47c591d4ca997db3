package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pageza/mealweek/backend/internal/model"
	"github.com/pageza/mealweek/backend/internal/nutrition"
	"github.com/pageza/mealweek/backend/internal/week"
)

// nutritionCacheTTL bounds staleness for dashboard reads that race a plan
// mutation's cache invalidation.
const nutritionCacheTTL = 5 * time.Minute

func nutritionCacheKey(owner uuid.UUID, w week.ID) string {
	return fmt.Sprintf("nutrition:weekly:%s:%s", owner, w)
}

// WeeklyNutrition is the precomputed view the dashboard consumes: one
// summary per date plus the weekly average (total divided by exactly 7).
type WeeklyNutrition struct {
	Week    string                       `json:"week"`
	Days    map[string]nutrition.Summary `json:"days"`
	Average nutrition.Summary            `json:"average"`
}

// NutritionService computes weekly nutrition roll-ups from plan slots and
// recipe snapshots, with a redis read-through cache in front.
type NutritionService struct {
	db    *gorm.DB
	redis *redis.Client
}

// NewNutritionService creates a new NutritionService. redisClient may be
// nil, which disables caching.
func NewNutritionService(db *gorm.DB, redisClient *redis.Client) *NutritionService {
	return &NutritionService{db: db, redis: redisClient}
}

// GetWeekly returns the per-date breakdown and weekly average for the
// owner's plan. A week without a plan, or with unresolved recipes, yields
// zero summaries rather than an error.
func (s *NutritionService) GetWeekly(ctx context.Context, owner uuid.UUID, w week.ID) (*WeeklyNutrition, error) {
	if s.redis != nil {
		if raw, err := s.redis.Get(ctx, nutritionCacheKey(owner, w)).Bytes(); err == nil {
			var cached WeeklyNutrition
			if err := json.Unmarshal(raw, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	var plan model.MealPlan
	err := s.db.Where("owner_id = ? AND week = ?", owner, string(w)).First(&plan).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	lookup, err := s.snapshotLookup(plan.Slots)
	if err != nil {
		return nil, err
	}

	days := nutrition.WeekBreakdown(w, plan.Slots, lookup)
	for date, sum := range days {
		days[date] = sum.Rounded()
	}
	result := &WeeklyNutrition{
		Week:    string(w),
		Days:    days,
		Average: nutrition.WeeklyAverage(plan.Slots, lookup).Rounded(),
	}

	if s.redis != nil {
		if raw, err := json.Marshal(result); err == nil {
			if err := s.redis.Set(ctx, nutritionCacheKey(owner, w), raw, nutritionCacheTTL).Err(); err != nil {
				log.Printf("failed to cache weekly nutrition for %s/%s: %v", owner, w, err)
			}
		}
	}
	return result, nil
}

// snapshotLookup resolves the distinct recipes referenced by the slots.
// Recipes that no longer exist are simply absent from the lookup and
// contribute zero, matching the aggregator's unresolved-recipe rule.
func (s *NutritionService) snapshotLookup(slots model.MealSlotList) (nutrition.Lookup, error) {
	ids := make([]uuid.UUID, 0, len(slots))
	seen := make(map[uuid.UUID]bool, len(slots))
	for _, slot := range slots {
		if !seen[slot.RecipeID] {
			seen[slot.RecipeID] = true
			ids = append(ids, slot.RecipeID)
		}
	}
	if len(ids) == 0 {
		return nutrition.Lookup{}, nil
	}

	var recipes []model.Recipe
	if err := s.db.Where("id IN ?", ids).Find(&recipes).Error; err != nil {
		return nil, err
	}

	lookup := make(nutrition.Lookup, len(recipes))
	for _, r := range recipes {
		lookup[r.ID] = nutrition.Snapshot{
			RecipeID:         r.ID,
			BaselineServings: r.BaselineServings,
			Calories:         r.Calories,
			Protein:          r.Protein,
			Carbs:            r.Carbs,
			Fat:              r.Fat,
		}
	}
	return lookup, nil
}
