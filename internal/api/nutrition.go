package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/mealweek/backend/internal/middleware"
	"github.com/pageza/mealweek/backend/internal/service"
	"github.com/pageza/mealweek/backend/internal/week"
)

// NutritionHandler serves the precomputed weekly roll-up the dashboard and
// analysis views consume.
type NutritionHandler struct {
	nutrition   *service.NutritionService
	authService middleware.TokenValidator
}

func NewNutritionHandler(nutrition *service.NutritionService, authService middleware.TokenValidator) *NutritionHandler {
	return &NutritionHandler{nutrition: nutrition, authService: authService}
}

func (h *NutritionHandler) RegisterRoutes(router *gin.RouterGroup) {
	nutrition := router.Group("/nutrition")
	nutrition.Use(middleware.AuthMiddleware(h.authService))
	{
		nutrition.GET("/weekly/:week", h.GetWeekly)
	}
}

// GetWeekly returns one summary per date plus the weekly average. Weeks
// without a plan report zeros.
func (h *NutritionHandler) GetWeekly(c *gin.Context) {
	owner, ok := currentUserID(c)
	if !ok {
		return
	}
	w, err := week.Parse(c.Param("week"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.nutrition.GetWeekly(c.Request.Context(), owner, w)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
