package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/mealweek/backend/internal/middleware"
	"github.com/pageza/mealweek/backend/internal/model"
	"github.com/pageza/mealweek/backend/internal/planner"
	"github.com/pageza/mealweek/backend/internal/service"
	"github.com/pageza/mealweek/backend/internal/week"
)

// MealPlanHandler exposes the weekly grid: fetch/create/delete plans, full
// slot replaces, and the assignment endpoints drag-and-drop lands on.
type MealPlanHandler struct {
	plans       *service.MealPlanService
	assignments *service.AssignmentService
	templates   *service.TemplateService
	authService middleware.TokenValidator
	mutations   *middleware.RateLimiter
}

func NewMealPlanHandler(plans *service.MealPlanService, assignments *service.AssignmentService, templates *service.TemplateService, authService middleware.TokenValidator, mutations *middleware.RateLimiter) *MealPlanHandler {
	return &MealPlanHandler{
		plans:       plans,
		assignments: assignments,
		templates:   templates,
		authService: authService,
		mutations:   mutations,
	}
}

func (h *MealPlanHandler) RegisterRoutes(router *gin.RouterGroup) {
	plans := router.Group("/mealplans")
	plans.Use(middleware.AuthMiddleware(h.authService))
	{
		plans.GET("/:week", h.GetForWeek)
		plans.POST("", h.Create)
		plans.DELETE("/:id", h.Delete)

		mutating := plans.Group("")
		if h.mutations != nil {
			mutating.Use(h.mutations.RateLimitMiddleware())
		}
		{
			mutating.PUT("/:id/slots", h.ReplaceSlots)
			mutating.POST("/:id/assignments", h.Assign)
			mutating.DELETE("/:id/assignments/:date/:meal", h.Unassign)
			mutating.PATCH("/:id/assignments/:date/:meal", h.AdjustServings)
		}
	}
}

// MealPlanResponse pairs a plan with the template binding observed on fetch.
type MealPlanResponse struct {
	MealPlan       *model.MealPlan         `json:"meal_plan"`
	TemplateStatus service.TemplateBinding `json:"template_status"`
}

// GetForWeek returns the caller's plan for the week plus its template
// binding status. A dead template reference in a non-current week has the
// plan auto-cleared here; the distinct status tells the UI why it is gone.
func (h *MealPlanHandler) GetForWeek(c *gin.Context) {
	owner, ok := currentUserID(c)
	if !ok {
		return
	}
	w, err := week.Parse(c.Param("week"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan, binding, err := h.plans.FetchForWeek(owner, w)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) || errors.Is(err, service.ErrOrphanedTemplate) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":           "meal plan not found",
				"template_status": binding,
			})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MealPlanResponse{MealPlan: plan, TemplateStatus: binding})
}

type CreateMealPlanRequest struct {
	Week       string     `json:"week" binding:"required"`
	TemplateID *uuid.UUID `json:"template_id"`
}

// Create adds a plan for a week, either empty or copied from a template.
func (h *MealPlanHandler) Create(c *gin.Context) {
	owner, ok := currentUserID(c)
	if !ok {
		return
	}
	var req CreateMealPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	w, err := week.Parse(req.Week)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var plan *model.MealPlan
	if req.TemplateID != nil {
		plan, err = h.templates.CopyToWeek(*req.TemplateID, w, owner)
	} else {
		plan, err = h.plans.CreateForWeek(owner, w, nil)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, MealPlanResponse{MealPlan: plan, TemplateStatus: bindingFor(plan)})
}

func (h *MealPlanHandler) Delete(c *gin.Context) {
	owner, ok := currentUserID(c)
	if !ok {
		return
	}
	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid meal plan id"})
		return
	}

	if err := h.plans.Delete(planID, owner); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type ReplaceSlotsRequest struct {
	Version      int            `json:"version" binding:"required"`
	Slots        []planner.Slot `json:"slots"`
	ShoppingList model.JSONBlob `json:"shopping_list"`
}

// ReplaceSlots is the full-replace persistence path: the request must carry
// the complete desired slot set, not a patch.
func (h *MealPlanHandler) ReplaceSlots(c *gin.Context) {
	owner, ok := currentUserID(c)
	if !ok {
		return
	}
	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid meal plan id"})
		return
	}
	var req ReplaceSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.plans.Get(planID, owner); err != nil {
		respondError(c, err)
		return
	}
	plan, err := h.plans.ReplaceSlots(planID, req.Version, req.Slots, req.ShoppingList)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MealPlanResponse{MealPlan: plan, TemplateStatus: bindingFor(plan)})
}

type AssignRequest struct {
	RecipeID uuid.UUID `json:"recipe_id" binding:"required"`
	Date     string    `json:"date" binding:"required"`
	Meal     string    `json:"meal" binding:"required"`
}

// Assign handles both click-to-select and drag-and-drop: either way the
// request reduces to a recipe and a target slot key.
func (h *MealPlanHandler) Assign(c *gin.Context) {
	owner, ok := currentUserID(c)
	if !ok {
		return
	}
	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid meal plan id"})
		return
	}
	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	key := planner.SlotKey{Date: req.Date, Meal: planner.MealType(req.Meal)}
	plan, err := h.assignments.Assign(planID, owner, req.RecipeID, key)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MealPlanResponse{MealPlan: plan, TemplateStatus: bindingFor(plan)})
}

func (h *MealPlanHandler) Unassign(c *gin.Context) {
	owner, ok := currentUserID(c)
	if !ok {
		return
	}
	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid meal plan id"})
		return
	}

	key := planner.SlotKey{Date: c.Param("date"), Meal: planner.MealType(c.Param("meal"))}
	plan, err := h.assignments.Unassign(planID, owner, key)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MealPlanResponse{MealPlan: plan, TemplateStatus: bindingFor(plan)})
}

// AdjustServingsRequest carries the serving delta. A zero delta is a valid
// no-op, so the field carries no required binding.
type AdjustServingsRequest struct {
	Delta int `json:"delta"`
}

// AdjustServings shifts a slot's serving count. Decrements that would drop
// below 1 are silent no-ops, mirroring the grid semantics.
func (h *MealPlanHandler) AdjustServings(c *gin.Context) {
	owner, ok := currentUserID(c)
	if !ok {
		return
	}
	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid meal plan id"})
		return
	}
	var req AdjustServingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	key := planner.SlotKey{Date: c.Param("date"), Meal: planner.MealType(c.Param("meal"))}
	plan, err := h.assignments.AdjustServings(planID, owner, key, req.Delta)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MealPlanResponse{MealPlan: plan, TemplateStatus: bindingFor(plan)})
}

// bindingFor reports the binding state for responses that did not probe the
// template store: bound plans read as valid unless already flagged orphaned.
func bindingFor(plan *model.MealPlan) service.TemplateBinding {
	switch {
	case plan.TemplateID == nil:
		return service.BindingUnbound
	case plan.Orphaned:
		return service.BindingAwaitingUserChoice
	default:
		return service.BindingValid
	}
}
