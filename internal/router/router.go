package router

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pageza/mealweek/backend/internal/api"
	"github.com/pageza/mealweek/backend/internal/middleware"
	"github.com/pageza/mealweek/backend/internal/service"
)

// Deps carries the shared infrastructure handlers are built from.
// RedisClient and Images may be nil; the affected features degrade
// (no caching, no rate limiting, no image uploads) without failing startup.
type Deps struct {
	DB          *gorm.DB
	RedisClient *redis.Client
	Auth        *service.AuthService
	Images      *service.ImageService
}

// SetupRouter configures the application routes
func SetupRouter(deps Deps) *gin.Engine {
	router := gin.Default()

	// CORS middleware
	router.Use(middleware.CORS())

	// Services
	plans := service.NewMealPlanService(deps.DB, deps.RedisClient)
	assignments := service.NewAssignmentService(plans)
	templates := service.NewTemplateService(deps.DB, plans)
	recipes := service.NewRecipeService(deps.DB)
	nutrition := service.NewNutritionService(deps.DB, deps.RedisClient)

	// Rate limiters need redis; skip them when it is unavailable
	var mutationLimiter, publishLimiter *middleware.RateLimiter
	if deps.RedisClient != nil {
		mutationLimiter = middleware.NewPlanMutationRateLimiter(deps.RedisClient)
		publishLimiter = middleware.NewTemplatePublishRateLimiter(deps.RedisClient)
	}

	// Handlers
	authHandler := api.NewAuthHandler(deps.Auth)
	recipeHandler := api.NewRecipeHandler(recipes, deps.Auth)
	planHandler := api.NewMealPlanHandler(plans, assignments, templates, deps.Auth, mutationLimiter)
	templateHandler := api.NewTemplateHandler(templates, deps.Images, deps.Auth, publishLimiter)
	nutritionHandler := api.NewNutritionHandler(nutrition, deps.Auth)

	router.GET("/health", api.HealthCheck(deps.DB, deps.RedisClient))

	v1 := router.Group("/api/v1")
	authHandler.RegisterRoutes(v1)
	recipeHandler.RegisterRoutes(v1)
	planHandler.RegisterRoutes(v1)
	templateHandler.RegisterRoutes(v1)
	nutritionHandler.RegisterRoutes(v1)

	return router
}
