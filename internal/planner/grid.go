// Package planner holds the pure weekly slot grid model: a 7-day by 4-meal
// key space and the operations that mutate a plan's slot set. Nothing in this
// package does I/O; callers persist the returned slot sets.
package planner

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pageza/mealweek/backend/internal/week"
)

// MealType is one of the four meal rows of the weekly grid.
type MealType string

const (
	Breakfast MealType = "breakfast"
	Lunch     MealType = "lunch"
	Dinner    MealType = "dinner"
	Snacks    MealType = "snacks"
)

// MealTypes lists the grid rows in display order.
var MealTypes = []MealType{Breakfast, Lunch, Dinner, Snacks}

// ParseMealType validates s as a known meal type.
func ParseMealType(s string) (MealType, error) {
	switch MealType(s) {
	case Breakfast, Lunch, Dinner, Snacks:
		return MealType(s), nil
	}
	return "", fmt.Errorf("unknown meal type %q", s)
}

// SlotKey addresses one cell of the grid: a date within the plan's week plus
// a meal type. At most one slot exists per key.
type SlotKey struct {
	Date string   `json:"date"`
	Meal MealType `json:"meal"`
}

// Validate checks the key is syntactically well formed.
func (k SlotKey) Validate() error {
	if _, err := time.ParseInLocation(week.DateLayout, k.Date, time.UTC); err != nil {
		return fmt.Errorf("invalid slot date %q", k.Date)
	}
	if _, err := ParseMealType(string(k.Meal)); err != nil {
		return err
	}
	return nil
}

// ValidateInWeek additionally checks the key's date belongs to w.
func (k SlotKey) ValidateInWeek(w week.ID) error {
	if err := k.Validate(); err != nil {
		return err
	}
	if !w.Contains(k.Date) {
		return fmt.Errorf("date %s is not in week %s", k.Date, w)
	}
	return nil
}

// Slot is one populated cell: a recipe and a serving count of at least 1.
type Slot struct {
	Key      SlotKey   `json:"key"`
	RecipeID uuid.UUID `json:"recipe_id"`
	Servings int       `json:"servings"`
}

// Get returns the slot at key, if any.
func Get(slots []Slot, key SlotKey) (Slot, bool) {
	for _, s := range slots {
		if s.Key == key {
			return s, true
		}
	}
	return Slot{}, false
}

// Set upserts a slot at key. Any existing slot at the key is replaced
// wholesale; servings below 1 are normalized to 1.
func Set(slots []Slot, key SlotKey, recipeID uuid.UUID, servings int) []Slot {
	if servings < 1 {
		servings = 1
	}
	out := make([]Slot, 0, len(slots)+1)
	for _, s := range slots {
		if s.Key != key {
			out = append(out, s)
		}
	}
	return append(out, Slot{Key: key, RecipeID: recipeID, Servings: servings})
}

// Remove deletes the slot at key; absent keys are a no-op.
func Remove(slots []Slot, key SlotKey) []Slot {
	out := make([]Slot, 0, len(slots))
	for _, s := range slots {
		if s.Key != key {
			out = append(out, s)
		}
	}
	return out
}

// UpdateServings adjusts the serving count at key by delta. The input is
// returned unchanged, with changed == false, when no slot exists at the key
// or when the result would drop below 1.
func UpdateServings(slots []Slot, key SlotKey, delta int) (out []Slot, changed bool) {
	cur, ok := Get(slots, key)
	if !ok || cur.Servings+delta < 1 {
		return slots, false
	}
	return Set(slots, key, cur.RecipeID, cur.Servings+delta), true
}

// ValidateSlots checks every slot in the set: syntactic keys, dates inside w,
// servings >= 1, and key uniqueness.
func ValidateSlots(slots []Slot, w week.ID) error {
	seen := make(map[SlotKey]bool, len(slots))
	for _, s := range slots {
		if err := s.Key.ValidateInWeek(w); err != nil {
			return err
		}
		if s.Servings < 1 {
			return fmt.Errorf("slot %s/%s: servings must be at least 1", s.Key.Date, s.Key.Meal)
		}
		if seen[s.Key] {
			return fmt.Errorf("duplicate slot at %s/%s", s.Key.Date, s.Key.Meal)
		}
		seen[s.Key] = true
	}
	return nil
}
