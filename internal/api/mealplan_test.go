package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/mealweek/backend/internal/planner"
	"github.com/pageza/mealweek/backend/internal/service"
	"github.com/pageza/mealweek/backend/internal/testhelpers"
	"github.com/pageza/mealweek/backend/internal/week"
)

func TestMealPlanRequiresAuth(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/mealplans/"+string(week.Current()), "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/mealplans", "", gin.H{"week": string(week.Current())})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetMealPlanMissingWeek(t *testing.T) {
	router, db := setupTestRouter(t)
	_, token := testhelpers.CreateTestUserAndToken(t, db)

	w := doJSON(t, router, http.MethodGet, "/api/v1/mealplans/"+string(week.Current()), token, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	var resp map[string]interface{}
	decodeJSON(t, w, &resp)
	assert.Equal(t, "unbound", resp["template_status"])
}

func TestGetMealPlanBadWeekID(t *testing.T) {
	router, db := setupTestRouter(t)
	_, token := testhelpers.CreateTestUserAndToken(t, db)

	w := doJSON(t, router, http.MethodGet, "/api/v1/mealplans/2026-W5", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateAndGetMealPlan(t *testing.T) {
	router, db := setupTestRouter(t)
	_, token := testhelpers.CreateTestUserAndToken(t, db)
	cur := string(week.Current())

	planID := createPlanViaAPI(t, router, token, cur)

	w := doJSON(t, router, http.MethodGet, "/api/v1/mealplans/"+cur, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp MealPlanResponse
	decodeJSON(t, w, &resp)
	assert.Equal(t, planID, resp.MealPlan.ID)
	assert.Equal(t, cur, resp.MealPlan.Week)
	assert.Equal(t, service.BindingUnbound, resp.TemplateStatus)

	// The same week again conflicts.
	w = doJSON(t, router, http.MethodPost, "/api/v1/mealplans", token, gin.H{"week": cur})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateMealPlanOutsideWindow(t *testing.T) {
	router, db := setupTestRouter(t)
	_, token := testhelpers.CreateTestUserAndToken(t, db)

	far := string(week.Current().Offset(5))
	w := doJSON(t, router, http.MethodPost, "/api/v1/mealplans", token, gin.H{"week": far})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAssignAndUnassign(t *testing.T) {
	router, db := setupTestRouter(t)
	_, token := testhelpers.CreateTestUserAndToken(t, db)
	recipe := testhelpers.CreateTestRecipe(t, db, "Sheet Pan Salmon", 2, 1040, 72, 64, 54)

	cur := week.Current()
	planID := createPlanViaAPI(t, router, token, string(cur))
	date := cur.Monday().Format(week.DateLayout)

	w := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/mealplans/%s/assignments", planID), token, gin.H{
		"recipe_id": recipe.ID,
		"date":      date,
		"meal":      "dinner",
	})
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())

	var resp MealPlanResponse
	decodeJSON(t, w, &resp)
	require.Len(t, resp.MealPlan.Slots, 1)
	assert.Equal(t, recipe.ID, resp.MealPlan.Slots[0].RecipeID)
	assert.Equal(t, 1, resp.MealPlan.Slots[0].Servings)

	w = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/v1/mealplans/%s/assignments/%s/dinner", planID, date), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &resp)
	assert.Empty(t, resp.MealPlan.Slots)
}

func TestAssignInvalidMeal(t *testing.T) {
	router, db := setupTestRouter(t)
	_, token := testhelpers.CreateTestUserAndToken(t, db)
	recipe := testhelpers.CreateTestRecipe(t, db, "Lentil Soup", 4, 920, 56, 152, 8)

	cur := week.Current()
	planID := createPlanViaAPI(t, router, token, string(cur))

	w := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/mealplans/%s/assignments", planID), token, gin.H{
		"recipe_id": recipe.ID,
		"date":      cur.Monday().Format(week.DateLayout),
		"meal":      "brunch",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdjustServingsEndpoint(t *testing.T) {
	router, db := setupTestRouter(t)
	_, token := testhelpers.CreateTestUserAndToken(t, db)
	recipe := testhelpers.CreateTestRecipe(t, db, "Chickpea Curry", 4, 1680, 44, 232, 64)

	cur := week.Current()
	planID := createPlanViaAPI(t, router, token, string(cur))
	date := cur.Monday().Format(week.DateLayout)

	w := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/mealplans/%s/assignments", planID), token, gin.H{
		"recipe_id": recipe.ID, "date": date, "meal": "lunch",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPatch, fmt.Sprintf("/api/v1/mealplans/%s/assignments/%s/lunch", planID, date), token, gin.H{"delta": 3})
	require.Equal(t, http.StatusOK, w.Code)

	var resp MealPlanResponse
	decodeJSON(t, w, &resp)
	require.Len(t, resp.MealPlan.Slots, 1)
	assert.Equal(t, 4, resp.MealPlan.Slots[0].Servings)

	// Clamped decrement leaves the count at 1, still a 200.
	w = doJSON(t, router, http.MethodPatch, fmt.Sprintf("/api/v1/mealplans/%s/assignments/%s/lunch", planID, date), token, gin.H{"delta": -10})
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &resp)
	assert.Equal(t, 4, resp.MealPlan.Slots[0].Servings)

	// A zero delta is a silent no-op, not a validation error.
	w = doJSON(t, router, http.MethodPatch, fmt.Sprintf("/api/v1/mealplans/%s/assignments/%s/lunch", planID, date), token, gin.H{"delta": 0})
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &resp)
	assert.Equal(t, 4, resp.MealPlan.Slots[0].Servings)
}

func TestReplaceSlotsStaleVersion(t *testing.T) {
	router, db := setupTestRouter(t)
	_, token := testhelpers.CreateTestUserAndToken(t, db)
	recipe := testhelpers.CreateTestRecipe(t, db, "Turkey Chili", 6, 1980, 168, 162, 66)

	cur := week.Current()
	planID := createPlanViaAPI(t, router, token, string(cur))
	date := cur.Monday().Format(week.DateLayout)

	slots := []planner.Slot{{
		Key:      planner.SlotKey{Date: date, Meal: planner.Dinner},
		RecipeID: recipe.ID,
		Servings: 2,
	}}

	w := doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/v1/mealplans/%s/slots", planID), token, ReplaceSlotsRequest{
		Version: 1,
		Slots:   slots,
	})
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())

	// Replaying the same version loses to the first write.
	w = doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/v1/mealplans/%s/slots", planID), token, ReplaceSlotsRequest{
		Version: 1,
		Slots:   nil,
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDeleteMealPlan(t *testing.T) {
	router, db := setupTestRouter(t)
	_, token := testhelpers.CreateTestUserAndToken(t, db)
	_, otherToken := testhelpers.CreateTestUserAndToken(t, db)

	cur := string(week.Current())
	planID := createPlanViaAPI(t, router, token, cur)

	// Another user cannot delete it.
	w := doJSON(t, router, http.MethodDelete, "/api/v1/mealplans/"+planID.String(), otherToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/api/v1/mealplans/"+planID.String(), token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/mealplans/"+cur, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
