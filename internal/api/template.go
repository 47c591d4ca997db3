package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/mealweek/backend/internal/middleware"
	"github.com/pageza/mealweek/backend/internal/service"
	"github.com/pageza/mealweek/backend/internal/week"
)

// TemplateHandler exposes the template catalog and lifecycle: publish a
// week, copy it into another week, favorite it, delete it with cascade.
type TemplateHandler struct {
	templates    *service.TemplateService
	images       *service.ImageService
	authService  middleware.TokenValidator
	publishLimit *middleware.RateLimiter
}

func NewTemplateHandler(templates *service.TemplateService, images *service.ImageService, authService middleware.TokenValidator, publishLimit *middleware.RateLimiter) *TemplateHandler {
	return &TemplateHandler{
		templates:    templates,
		images:       images,
		authService:  authService,
		publishLimit: publishLimit,
	}
}

func (h *TemplateHandler) RegisterRoutes(router *gin.RouterGroup) {
	templates := router.Group("/templates")
	templates.Use(middleware.AuthMiddleware(h.authService))
	{
		templates.GET("", h.List)
		templates.GET("/:id", h.Get)
		templates.POST("/:id/copy", h.Copy)
		templates.DELETE("/:id", h.Delete)
		templates.POST("/:id/favorite", h.Favorite)
		templates.DELETE("/:id/favorite", h.Unfavorite)
		templates.POST("/:id/image", h.UploadImage)

		publish := templates.Group("")
		if h.publishLimit != nil {
			publish.Use(h.publishLimit.RateLimitMiddleware())
		}
		publish.POST("", h.Publish)
	}
}

func (h *TemplateHandler) List(c *gin.Context) {
	templates, err := h.templates.List(c.Query("q"), c.Query("difficulty"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch templates"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"templates": templates})
}

func (h *TemplateHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid template id"})
		return
	}
	tpl, err := h.templates.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tpl)
}

type PublishTemplateRequest struct {
	PlanID      uuid.UUID `json:"plan_id" binding:"required"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	Difficulty  string    `json:"difficulty"`
	ImageURL    string    `json:"image_url"`
}

// Publish snapshots a plan into a shareable template.
func (h *TemplateHandler) Publish(c *gin.Context) {
	author, ok := currentUserID(c)
	if !ok {
		return
	}
	var req PublishTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tpl, err := h.templates.Publish(req.PlanID, author, service.TemplateMetadata{
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
		Difficulty:  req.Difficulty,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tpl)
}

type CopyTemplateRequest struct {
	Week string `json:"week" binding:"required"`
}

// Copy materializes the template into a new plan for the caller's week.
func (h *TemplateHandler) Copy(c *gin.Context) {
	owner, ok := currentUserID(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid template id"})
		return
	}
	var req CopyTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	w, err := week.Parse(req.Week)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan, err := h.templates.CopyToWeek(id, w, owner)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MealPlanResponse{MealPlan: plan, TemplateStatus: service.BindingValid})
}

// Delete removes the author's template and cascades over favorites and
// dependent plans.
func (h *TemplateHandler) Delete(c *gin.Context) {
	author, ok := currentUserID(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid template id"})
		return
	}

	if err := h.templates.Delete(id, author); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TemplateHandler) Favorite(c *gin.Context) {
	user, ok := currentUserID(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid template id"})
		return
	}

	if err := h.templates.Favorite(id, user); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "template favorited successfully", "id": id})
}

func (h *TemplateHandler) Unfavorite(c *gin.Context) {
	user, ok := currentUserID(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid template id"})
		return
	}

	if err := h.templates.Unfavorite(id, user); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "template unfavorited successfully", "id": id})
}

// UploadImage stores a catalog image for the template in S3.
func (h *TemplateHandler) UploadImage(c *gin.Context) {
	author, ok := currentUserID(c)
	if !ok {
		return
	}
	if h.images == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "image storage is not configured"})
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid template id"})
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image"})
		return
	}

	url, err := h.images.UploadTemplateImage(c.Request.Context(), data, header.Header.Get("Content-Type"))
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.templates.SetImageURL(id, author, url); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"image_url": url})
}
