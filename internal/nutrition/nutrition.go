// Package nutrition aggregates per-serving recipe snapshots into slot, day
// and week totals for the planner grid.
package nutrition

import (
	"math"

	"github.com/google/uuid"

	"github.com/pageza/mealweek/backend/internal/planner"
	"github.com/pageza/mealweek/backend/internal/week"
)

// Snapshot is the read-only nutrition view of a recipe, per its baseline
// serving count.
type Snapshot struct {
	RecipeID         uuid.UUID `json:"recipe_id"`
	BaselineServings int       `json:"baseline_servings"`
	Calories         float64   `json:"calories"`
	Protein          float64   `json:"protein"`
	Carbs            float64   `json:"carbs"`
	Fat              float64   `json:"fat"`
}

// Summary holds aggregated macros. Values are unrounded; use Rounded for
// display.
type Summary struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

func (s Summary) add(o Summary) Summary {
	return Summary{
		Calories: s.Calories + o.Calories,
		Protein:  s.Protein + o.Protein,
		Carbs:    s.Carbs + o.Carbs,
		Fat:      s.Fat + o.Fat,
	}
}

// Rounded returns the summary with each field rounded to the nearest integer.
func (s Summary) Rounded() Summary {
	return Summary{
		Calories: math.Round(s.Calories),
		Protein:  math.Round(s.Protein),
		Carbs:    math.Round(s.Carbs),
		Fat:      math.Round(s.Fat),
	}
}

// Lookup resolves recipe ids to snapshots. A missing entry means the recipe
// is not resolved yet; such slots contribute zero.
type Lookup map[uuid.UUID]Snapshot

// ForSlot scales the snapshot's macros by the slot's serving multiplier
// (servings / baseline servings). An unresolved recipe yields a zero summary.
func ForSlot(slot planner.Slot, snap *Snapshot) Summary {
	if snap == nil || snap.BaselineServings <= 0 {
		return Summary{}
	}
	mult := float64(slot.Servings) / float64(snap.BaselineServings)
	return Summary{
		Calories: snap.Calories * mult,
		Protein:  snap.Protein * mult,
		Carbs:    snap.Carbs * mult,
		Fat:      snap.Fat * mult,
	}
}

// ForDay sums all slots on the given date.
func ForDay(slots []planner.Slot, date string, lookup Lookup) Summary {
	var total Summary
	for _, s := range slots {
		if s.Key.Date != date {
			continue
		}
		if snap, ok := lookup[s.RecipeID]; ok {
			total = total.add(ForSlot(s, &snap))
		}
	}
	return total
}

// WeeklyAverage sums every slot in the plan and divides by exactly 7,
// regardless of how many days are populated: one 1400 kcal breakfast in an
// otherwise empty week averages 200 kcal/day.
func WeeklyAverage(slots []planner.Slot, lookup Lookup) Summary {
	var total Summary
	for _, s := range slots {
		if snap, ok := lookup[s.RecipeID]; ok {
			total = total.add(ForSlot(s, &snap))
		}
	}
	return Summary{
		Calories: total.Calories / 7,
		Protein:  total.Protein / 7,
		Carbs:    total.Carbs / 7,
		Fat:      total.Fat / 7,
	}
}

// WeekBreakdown returns a per-date summary for each of the week's seven days.
// Every date appears in the result, empty days as zero summaries.
func WeekBreakdown(w week.ID, slots []planner.Slot, lookup Lookup) map[string]Summary {
	out := make(map[string]Summary, 7)
	for _, d := range w.Dates() {
		date := d.Format(week.DateLayout)
		out[date] = ForDay(slots, date, lookup)
	}
	return out
}
