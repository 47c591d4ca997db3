package nutrition

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/mealweek/backend/internal/planner"
	"github.com/pageza/mealweek/backend/internal/week"
)

func slot(date string, meal planner.MealType, recipeID uuid.UUID, servings int) planner.Slot {
	return planner.Slot{
		Key:      planner.SlotKey{Date: date, Meal: meal},
		RecipeID: recipeID,
		Servings: servings,
	}
}

func TestForSlotScalesByServings(t *testing.T) {
	rid := uuid.New()
	// 800 kcal across 4 baseline servings, planned at 2 servings -> 400.
	snap := Snapshot{RecipeID: rid, BaselineServings: 4, Calories: 800, Protein: 40, Carbs: 80, Fat: 20}
	got := ForSlot(slot("2026-09-01", planner.Dinner, rid, 2), &snap)
	assert.Equal(t, Summary{Calories: 400, Protein: 20, Carbs: 40, Fat: 10}, got)
}

func TestForSlotZeroBaseline(t *testing.T) {
	rid := uuid.New()
	s := slot("2026-09-01", planner.Dinner, rid, 2)
	assert.Equal(t, Summary{}, ForSlot(s, nil))
	assert.Equal(t, Summary{}, ForSlot(s, &Snapshot{RecipeID: rid, BaselineServings: 0, Calories: 500}))
}

func TestForDay(t *testing.T) {
	breakfast := uuid.New()
	dinner := uuid.New()
	unresolved := uuid.New()
	lookup := Lookup{
		breakfast: {RecipeID: breakfast, BaselineServings: 1, Calories: 300, Protein: 20},
		dinner:    {RecipeID: dinner, BaselineServings: 2, Calories: 1000, Protein: 60},
	}
	slots := []planner.Slot{
		slot("2026-09-01", planner.Breakfast, breakfast, 1),
		slot("2026-09-01", planner.Dinner, dinner, 1),
		slot("2026-09-01", planner.Lunch, unresolved, 3), // contributes zero
		slot("2026-09-02", planner.Dinner, dinner, 2),    // different day
	}

	got := ForDay(slots, "2026-09-01", lookup)
	assert.Equal(t, Summary{Calories: 800, Protein: 50}, got)

	assert.Equal(t, Summary{}, ForDay(slots, "2026-09-03", lookup))
}

func TestWeeklyAverageDividesBySeven(t *testing.T) {
	rid := uuid.New()
	lookup := Lookup{rid: {RecipeID: rid, BaselineServings: 1, Calories: 1400, Protein: 70, Carbs: 140, Fat: 35}}

	// A single 1400 kcal meal in an otherwise empty week averages 200/day.
	slots := []planner.Slot{slot("2026-08-31", planner.Breakfast, rid, 1)}
	got := WeeklyAverage(slots, lookup)
	assert.Equal(t, Summary{Calories: 200, Protein: 10, Carbs: 20, Fat: 5}, got)
}

func TestWeeklyAverageEmptyPlan(t *testing.T) {
	assert.Equal(t, Summary{}, WeeklyAverage(nil, Lookup{}))
}

func TestWeekBreakdownCoversAllSevenDays(t *testing.T) {
	w := week.New(2026, 36) // Mon 2026-08-31 .. Sun 2026-09-06
	rid := uuid.New()
	lookup := Lookup{rid: {RecipeID: rid, BaselineServings: 1, Calories: 500}}
	slots := []planner.Slot{slot("2026-09-02", planner.Lunch, rid, 2)}

	got := WeekBreakdown(w, slots, lookup)
	require.Len(t, got, 7)
	assert.Equal(t, Summary{Calories: 1000}, got["2026-09-02"])
	assert.Equal(t, Summary{}, got["2026-08-31"])
	assert.Equal(t, Summary{}, got["2026-09-06"])
}

func TestRounded(t *testing.T) {
	s := Summary{Calories: 333.333, Protein: 16.5, Carbs: 41.49, Fat: 9.51}
	assert.Equal(t, Summary{Calories: 333, Protein: 17, Carbs: 41, Fat: 10}, s.Rounded())
}
