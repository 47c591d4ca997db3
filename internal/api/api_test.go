package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/pageza/mealweek/backend/internal/service"
	"github.com/pageza/mealweek/backend/internal/testhelpers"
)

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", fmt.Errorf("bad input: %w", service.ErrValidation), http.StatusBadRequest},
		{"not found", fmt.Errorf("missing: %w", service.ErrNotFound), http.StatusNotFound},
		{"orphaned template", fmt.Errorf("gone: %w", service.ErrOrphanedTemplate), http.StatusNotFound},
		{"conflict", fmt.Errorf("taken: %w", service.ErrConflict), http.StatusConflict},
		{"stale write", fmt.Errorf("outdated: %w", service.ErrStaleWrite), http.StatusConflict},
		{"forbidden", fmt.Errorf("not yours: %w", service.ErrForbidden), http.StatusForbidden},
		{"transient", fmt.Errorf("s3 down: %w", service.ErrTransient), http.StatusBadGateway},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			respondError(c, tt.err)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testhelpers.SetupTestDB(t)

	engine := gin.New()
	engine.GET("/health", HealthCheck(db, nil))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}
