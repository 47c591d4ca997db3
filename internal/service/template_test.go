package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/mealweek/backend/internal/model"
	"github.com/pageza/mealweek/backend/internal/planner"
	"github.com/pageza/mealweek/backend/internal/week"
)

func newTemplateService(db *gorm.DB, plans *MealPlanService) *TemplateService {
	s := NewTemplateService(db, plans)
	s.nowWeek = plans.nowWeek
	return s
}

func publishTestTemplate(t *testing.T, svc *TemplateService, plans *MealPlanService, author uuid.UUID) *model.Template {
	slots := []planner.Slot{
		{Key: planner.SlotKey{Date: "2026-08-31", Meal: planner.Breakfast}, RecipeID: uuid.New(), Servings: 4},
		{Key: planner.SlotKey{Date: "2026-09-03", Meal: planner.Dinner}, RecipeID: uuid.New(), Servings: 2},
	}
	plan, err := plans.CreateForWeek(author, testNow, slots)
	require.NoError(t, err)

	tpl, err := svc.Publish(plan.ID, author, TemplateMetadata{
		Title:       "Budget week",
		Description: "Cheap and filling",
		Tags:        []string{"budget"},
		Difficulty:  "easy",
	})
	require.NoError(t, err)
	return tpl
}

func TestPublish(t *testing.T) {
	db := setupDB(t)
	plans := newPlanService(db)
	svc := newTemplateService(db, plans)
	author := uuid.New()

	tpl := publishTestTemplate(t, svc, plans, author)
	assert.Equal(t, author, tpl.AuthorID)
	assert.Equal(t, string(testNow), tpl.SourceWeek)
	require.Len(t, tpl.Slots, 2)
	for _, slot := range tpl.Slots {
		assert.Equal(t, 1, slot.Servings, "published slots reset to baseline servings")
	}
}

func TestPublishRequiresMetadata(t *testing.T) {
	db := setupDB(t)
	plans := newPlanService(db)
	svc := newTemplateService(db, plans)
	owner := uuid.New()

	plan, err := plans.CreateForWeek(owner, testNow, nil)
	require.NoError(t, err)

	_, err = svc.Publish(plan.ID, owner, TemplateMetadata{Title: "  ", Description: "d"})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.Publish(plan.ID, owner, TemplateMetadata{Title: "t", Description: ""})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPublishForeignPlan(t *testing.T) {
	db := setupDB(t)
	plans := newPlanService(db)
	svc := newTemplateService(db, plans)

	plan, err := plans.CreateForWeek(uuid.New(), testNow, nil)
	require.NoError(t, err)

	_, err = svc.Publish(plan.ID, uuid.New(), TemplateMetadata{Title: "t", Description: "d"})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCopyToWeek(t *testing.T) {
	db := setupDB(t)
	plans := newPlanService(db)
	svc := newTemplateService(db, plans)
	author := uuid.New()

	tpl := publishTestTemplate(t, svc, plans, author)

	// Copy into next week for a different user.
	user := uuid.New()
	target := testNow.Offset(1) // Mon 2026-09-07 .. Sun 2026-09-13
	plan, err := svc.CopyToWeek(tpl.ID, target, user)
	require.NoError(t, err)

	assert.Equal(t, user, plan.OwnerID)
	assert.Equal(t, string(target), plan.Week)
	require.NotNil(t, plan.TemplateID)
	assert.Equal(t, tpl.ID, *plan.TemplateID)

	// Weekday and meal are preserved; dates are rebound onto the target week.
	require.Len(t, plan.Slots, 2)
	byMeal := map[planner.MealType]planner.Slot{}
	for _, s := range plan.Slots {
		byMeal[s.Key.Meal] = s
	}
	assert.Equal(t, "2026-09-07", byMeal[planner.Breakfast].Key.Date, "Monday slot lands on the target Monday")
	assert.Equal(t, "2026-09-10", byMeal[planner.Dinner].Key.Date, "Thursday slot lands on the target Thursday")
	for _, s := range plan.Slots {
		assert.Equal(t, 1, s.Servings)
	}
}

func TestCopyToWeekPersistsBinding(t *testing.T) {
	db := setupDB(t)
	plans := newPlanService(db)
	svc := newTemplateService(db, plans)
	author := uuid.New()

	tpl := publishTestTemplate(t, svc, plans, author)
	user := uuid.New()
	target := testNow.Offset(1)
	plan, err := svc.CopyToWeek(tpl.ID, target, user)
	require.NoError(t, err)

	// The ref is on the stored row, not just the returned value.
	got, err := plans.Get(plan.ID, user)
	require.NoError(t, err)
	require.NotNil(t, got.TemplateID)
	assert.Equal(t, tpl.ID, *got.TemplateID)

	_, binding, err := plans.FetchForWeek(user, target)
	require.NoError(t, err)
	assert.Equal(t, BindingValid, binding)
}

func TestCopyToWeekOccupied(t *testing.T) {
	db := setupDB(t)
	plans := newPlanService(db)
	svc := newTemplateService(db, plans)
	author := uuid.New()

	tpl := publishTestTemplate(t, svc, plans, author)

	// The author already has a plan for testNow; copying over it must not
	// silently overwrite.
	_, err := svc.CopyToWeek(tpl.ID, testNow, author)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCopyToWeekMissingTemplate(t *testing.T) {
	db := setupDB(t)
	plans := newPlanService(db)
	svc := newTemplateService(db, plans)

	_, err := svc.CopyToWeek(uuid.New(), testNow, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteCascade(t *testing.T) {
	db := setupDB(t)
	plans := newPlanService(db)
	svc := newTemplateService(db, plans)
	author := uuid.New()

	tpl := publishTestTemplate(t, svc, plans, author)

	// One dependent plan in the current week, one in the next.
	currentUser := uuid.New()
	currentPlan, err := svc.CopyToWeek(tpl.ID, testNow, currentUser)
	require.NoError(t, err)
	futureUser := uuid.New()
	futurePlan, err := svc.CopyToWeek(tpl.ID, testNow.Offset(1), futureUser)
	require.NoError(t, err)

	require.NoError(t, svc.Favorite(tpl.ID, currentUser))

	assert.ErrorIs(t, svc.Delete(tpl.ID, uuid.New()), ErrForbidden)
	require.NoError(t, svc.Delete(tpl.ID, author))

	_, err = svc.Get(tpl.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// Current-week plan survives, flagged for the owner to resolve.
	got, err := plans.Get(currentPlan.ID, currentUser)
	require.NoError(t, err)
	assert.True(t, got.Orphaned)

	// Future-week plan is deleted outright.
	_, err = plans.Get(futurePlan.ID, futureUser)
	assert.ErrorIs(t, err, ErrNotFound)

	// Favorites are gone too.
	var favorites int64
	require.NoError(t, db.Model(&model.TemplateFavorite{}).Where("template_id = ?", tpl.ID).Count(&favorites).Error)
	assert.Zero(t, favorites)
}

func TestDeleteCascadeInvalidatesDependentNutritionCache(t *testing.T) {
	db := setupDB(t)
	rdb := newTestRedis(t)
	plans := NewMealPlanService(db, rdb)
	plans.nowWeek = func() week.ID { return testNow }
	svc := newTemplateService(db, plans)
	author := uuid.New()

	tpl := publishTestTemplate(t, svc, plans, author)
	futureUser := uuid.New()
	futureWeek := testNow.Offset(1)
	_, err := svc.CopyToWeek(tpl.ID, futureWeek, futureUser)
	require.NoError(t, err)

	ctx := context.Background()
	key := nutritionCacheKey(futureUser, futureWeek)
	require.NoError(t, rdb.Set(ctx, key, `{"week":"stale"}`, 0).Err())

	// Deleting the template removes the future-week plan, so its owner's
	// cached roll-up must go with it.
	require.NoError(t, svc.Delete(tpl.ID, author))
	assert.ErrorIs(t, rdb.Get(ctx, key).Err(), redis.Nil)
}

func TestFavoriteIdempotent(t *testing.T) {
	db := setupDB(t)
	plans := newPlanService(db)
	svc := newTemplateService(db, plans)
	author := uuid.New()
	user := uuid.New()

	tpl := publishTestTemplate(t, svc, plans, author)

	require.NoError(t, svc.Favorite(tpl.ID, user))
	require.NoError(t, svc.Favorite(tpl.ID, user))

	var count int64
	require.NoError(t, db.Model(&model.TemplateFavorite{}).Where("template_id = ? AND user_id = ?", tpl.ID, user).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	require.NoError(t, svc.Unfavorite(tpl.ID, user))
	require.NoError(t, db.Model(&model.TemplateFavorite{}).Where("template_id = ? AND user_id = ?", tpl.ID, user).Count(&count).Error)
	assert.Zero(t, count)

	assert.ErrorIs(t, svc.Favorite(uuid.New(), user), ErrNotFound)
}

func TestList(t *testing.T) {
	db := setupDB(t)
	plans := newPlanService(db)
	svc := newTemplateService(db, plans)

	require.NoError(t, db.Create(&model.Template{AuthorID: uuid.New(), Title: "Vegan week", Description: "plants only", Difficulty: "easy", Embedding: GenerateEmbedding("Vegan week plants only")}).Error)
	require.NoError(t, db.Create(&model.Template{AuthorID: uuid.New(), Title: "Meal prep marathon", Description: "batch cooking", Difficulty: "hard", Embedding: GenerateEmbedding("Meal prep marathon batch cooking")}).Error)

	all, err := svc.List("", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	vegan, err := svc.List("vegan", "")
	require.NoError(t, err)
	require.Len(t, vegan, 1)
	assert.Equal(t, "Vegan week", vegan[0].Title)

	hard, err := svc.List("", "hard")
	require.NoError(t, err)
	require.Len(t, hard, 1)
	assert.Equal(t, "Meal prep marathon", hard[0].Title)
}

func TestSetImageURL(t *testing.T) {
	db := setupDB(t)
	plans := newPlanService(db)
	svc := newTemplateService(db, plans)
	author := uuid.New()

	tpl := publishTestTemplate(t, svc, plans, author)

	assert.ErrorIs(t, svc.SetImageURL(tpl.ID, uuid.New(), "https://example.com/x.png"), ErrForbidden)
	require.NoError(t, svc.SetImageURL(tpl.ID, author, "https://example.com/x.png"))

	got, err := svc.Get(tpl.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/x.png", got.ImageURL)
}
