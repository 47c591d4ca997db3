package service

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/pageza/mealweek/backend/internal/model"
	"github.com/pageza/mealweek/backend/internal/planner"
	"github.com/pageza/mealweek/backend/internal/week"
)

// AssignmentService is the single entry point for slot mutations. Direct
// selection and drag-and-drop both reduce to a (recipe, target key) pair; the
// drag library's event shape never reaches this layer.
//
// Each plan's read-modify-write cycle runs under a per-plan lock so rapid
// consecutive drops are serialized instead of racing through the full-replace
// persistence path.
type AssignmentService struct {
	plans *MealPlanService
	locks sync.Map // uuid.UUID -> *sync.Mutex
}

// NewAssignmentService creates a new AssignmentService.
func NewAssignmentService(plans *MealPlanService) *AssignmentService {
	return &AssignmentService{plans: plans}
}

func (s *AssignmentService) lock(planID uuid.UUID) func() {
	v, _ := s.locks.LoadOrStore(planID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// Assign places the recipe into the target slot. Redropping a recipe onto a
// slot it already occupies preserves the existing serving count; any other
// assignment starts at 1 serving. Malformed keys are rejected before any
// state is touched.
func (s *AssignmentService) Assign(planID, owner, recipeID uuid.UUID, key planner.SlotKey) (*model.MealPlan, error) {
	if err := key.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	defer s.lock(planID)()

	plan, err := s.plans.Get(planID, owner)
	if err != nil {
		return nil, err
	}
	if err := key.ValidateInWeek(week.ID(plan.Week)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	servings := 1
	if cur, ok := planner.Get(plan.Slots, key); ok && cur.RecipeID == recipeID {
		servings = cur.Servings
	}
	slots := planner.Set(plan.Slots, key, recipeID, servings)
	return s.plans.ReplaceSlots(planID, plan.Version, slots, plan.ShoppingList)
}

// Unassign clears the target slot. Clearing an empty slot persists nothing.
func (s *AssignmentService) Unassign(planID, owner uuid.UUID, key planner.SlotKey) (*model.MealPlan, error) {
	if err := key.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	defer s.lock(planID)()

	plan, err := s.plans.Get(planID, owner)
	if err != nil {
		return nil, err
	}
	if _, ok := planner.Get(plan.Slots, key); !ok {
		return plan, nil
	}
	slots := planner.Remove(plan.Slots, key)
	return s.plans.ReplaceSlots(planID, plan.Version, slots, plan.ShoppingList)
}

// AdjustServings shifts the slot's serving count by delta. A missing slot or
// a result below 1 leaves the plan untouched and persists nothing.
func (s *AssignmentService) AdjustServings(planID, owner uuid.UUID, key planner.SlotKey, delta int) (*model.MealPlan, error) {
	if err := key.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	defer s.lock(planID)()

	plan, err := s.plans.Get(planID, owner)
	if err != nil {
		return nil, err
	}
	slots, changed := planner.UpdateServings(plan.Slots, key, delta)
	if !changed {
		return plan, nil
	}
	return s.plans.ReplaceSlots(planID, plan.Version, slots, plan.ShoppingList)
}
