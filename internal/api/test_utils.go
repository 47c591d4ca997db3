package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/mealweek/backend/internal/service"
	"github.com/pageza/mealweek/backend/internal/testhelpers"
)

// setupTestRouter wires all handlers onto a fresh engine backed by an
// in-memory database. Rate limiters and image storage stay off in tests.
func setupTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupTestDB(t)
	auth := service.NewAuthService(db, testhelpers.TestJWTSecret)
	plans := service.NewMealPlanService(db, nil)
	assignments := service.NewAssignmentService(plans)
	templates := service.NewTemplateService(db, plans)
	nutritionSvc := service.NewNutritionService(db, nil)
	recipes := service.NewRecipeService(db)

	engine := gin.New()
	v1 := engine.Group("/api/v1")
	NewAuthHandler(auth).RegisterRoutes(v1)
	NewRecipeHandler(recipes, auth).RegisterRoutes(v1)
	NewMealPlanHandler(plans, assignments, templates, auth, nil).RegisterRoutes(v1)
	NewTemplateHandler(templates, nil, auth, nil).RegisterRoutes(v1)
	NewNutritionHandler(nutritionSvc, auth).RegisterRoutes(v1)

	return engine, db
}

// doJSON performs an authenticated JSON request against the router.
func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// decodeJSON unmarshals the recorded response body into out.
func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), "body: %s", w.Body.String())
}

// createPlanViaAPI creates an empty plan for the week and returns its id.
func createPlanViaAPI(t *testing.T, router *gin.Engine, token, weekID string) uuid.UUID {
	w := doJSON(t, router, http.MethodPost, "/api/v1/mealplans", token, gin.H{"week": weekID})
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())

	var resp MealPlanResponse
	decodeJSON(t, w, &resp)
	require.NotNil(t, resp.MealPlan)
	return resp.MealPlan.ID
}
