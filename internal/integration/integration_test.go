package integration

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/mealweek/backend/internal/model"
	"github.com/pageza/mealweek/backend/internal/planner"
	"github.com/pageza/mealweek/backend/internal/service"
	"github.com/pageza/mealweek/backend/internal/testhelpers"
	"github.com/pageza/mealweek/backend/internal/week"
)

// Full planner lifecycle against real postgres with jsonb and pgvector:
// create a plan, assign recipes, publish a template, copy it, delete it with
// cascade, and read the nutrition roll-up. Skipped without docker.
func TestPlannerLifecycle(t *testing.T) {
	db := testhelpers.SetupPostgresDB(t)

	plans := service.NewMealPlanService(db, nil)
	assignments := service.NewAssignmentService(plans)
	templates := service.NewTemplateService(db, plans)
	nutritionSvc := service.NewNutritionService(db, nil)

	author := testhelpers.CreateTestUser(t, db)
	recipe := testhelpers.CreateTestRecipe(t, db, "Sheet Pan Salmon", 2, 1040, 72, 64, 54)

	cur := week.Current()
	monday := cur.Monday().Format(week.DateLayout)

	plan, err := plans.CreateForWeek(author.ID, cur, nil)
	require.NoError(t, err)

	key := planner.SlotKey{Date: monday, Meal: planner.Dinner}
	plan, err = assignments.Assign(plan.ID, author.ID, recipe.ID, key)
	require.NoError(t, err)
	plan, err = assignments.AdjustServings(plan.ID, author.ID, key, 1)
	require.NoError(t, err)

	// Slots survive the jsonb round trip.
	got, binding, err := plans.FetchForWeek(author.ID, cur)
	require.NoError(t, err)
	assert.Equal(t, service.BindingUnbound, binding)
	require.Len(t, got.Slots, 1)
	assert.Equal(t, 2, got.Slots[0].Servings)

	// 2 servings of a 2-serving 1040 kcal recipe -> full macros on Monday.
	weekly, err := nutritionSvc.GetWeekly(context.Background(), author.ID, cur)
	require.NoError(t, err)
	assert.Equal(t, 1040.0, weekly.Days[monday].Calories)

	tpl, err := templates.Publish(plan.ID, author.ID, service.TemplateMetadata{
		Title:       "Salmon week",
		Description: "Fish-forward planning",
	})
	require.NoError(t, err)

	// Vector search orders the catalog on postgres.
	found, err := templates.List("salmon", "")
	require.NoError(t, err)
	require.NotEmpty(t, found)
	assert.Equal(t, tpl.ID, found[0].ID)

	user := testhelpers.CreateTestUser(t, db)
	target := cur.Offset(1)
	copied, err := templates.CopyToWeek(tpl.ID, target, user.ID)
	require.NoError(t, err)
	require.NotNil(t, copied.TemplateID)

	// Deleting the template clears the future-week dependent outright.
	require.NoError(t, templates.Delete(tpl.ID, author.ID))
	_, err = plans.Get(copied.ID, user.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)

	var favorites int64
	require.NoError(t, db.Model(&model.TemplateFavorite{}).Where("template_id = ?", tpl.ID).Count(&favorites).Error)
	assert.Zero(t, favorites)
}

func TestOwnerWeekUniquenessUnderPostgres(t *testing.T) {
	db := testhelpers.SetupPostgresDB(t)
	plans := service.NewMealPlanService(db, nil)

	owner := uuid.New()
	cur := week.Current()
	_, err := plans.CreateForWeek(owner, cur, nil)
	require.NoError(t, err)
	_, err = plans.CreateForWeek(owner, cur, nil)
	assert.ErrorIs(t, err, service.ErrConflict)
}
