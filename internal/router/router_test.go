package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/pageza/mealweek/backend/internal/service"
	"github.com/pageza/mealweek/backend/internal/testhelpers"
)

func TestSetupRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testhelpers.SetupTestDB(t)
	router := SetupRouter(Deps{
		DB:   db,
		Auth: service.NewAuthService(db, testhelpers.TestJWTSecret),
	})

	// Health is open.
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	// Everything under /api/v1 except auth requires a token.
	for _, path := range []string{
		"/api/v1/recipes",
		"/api/v1/mealplans/2026-W36",
		"/api/v1/templates",
		"/api/v1/nutrition/weekly/2026-W36",
	} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, "path %s", path)
	}
}
