package testhelpers

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pageza/mealweek/backend/internal/database"
	"github.com/pageza/mealweek/backend/internal/model"
	"github.com/pageza/mealweek/backend/internal/service"
	"github.com/pageza/mealweek/backend/internal/types"
)

// TestJWTSecret signs tokens in handler tests.
const TestJWTSecret = "test-jwt-secret"

// SetupTestDB opens an in-memory SQLite database migrated with the planner
// schema. Each test gets its own database; shared cache keeps it alive
// across the connections gorm pools.
func SetupTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to open test database")

	require.NoError(t, database.AutoMigrate(db), "failed to migrate test database")
	return db
}

// CreateTestUser creates a user with a bcrypt-hashed known password.
func CreateTestUser(t *testing.T, db *gorm.DB) *model.User {
	hashed, err := bcrypt.GenerateFromPassword([]byte("testpassword123"), bcrypt.DefaultCost)
	require.NoError(t, err)

	id := uuid.New()
	user := &model.User{
		ID:           id,
		Name:         "Test User",
		Username:     fmt.Sprintf("testuser_%s", id.String()[:8]),
		Email:        fmt.Sprintf("testuser+%s@example.com", id.String()[:8]),
		PasswordHash: string(hashed),
	}
	require.NoError(t, db.Create(user).Error, "failed to create test user")
	return user
}

// CreateTestUserAndToken creates a user and a valid JWT for it.
func CreateTestUserAndToken(t *testing.T, db *gorm.DB) (uuid.UUID, string) {
	user := CreateTestUser(t, db)

	auth := service.NewAuthService(db, TestJWTSecret)
	token, err := auth.GenerateToken(&types.TokenClaims{
		UserID:   user.ID,
		Username: user.Username,
	})
	require.NoError(t, err, "failed to generate token")

	return user.ID, token
}

// CreateTestRecipe inserts a recipe with per-serving nutrition derived from
// the given totals at the given baseline serving count.
func CreateTestRecipe(t *testing.T, db *gorm.DB, name string, servings int, calories, protein, carbs, fat float64) *model.Recipe {
	recipe := &model.Recipe{
		Name:             name,
		Description:      "test recipe",
		Category:         "dinner",
		Ingredients:      model.JSONBStringArray{"ingredient1", "ingredient2"},
		BaselineServings: servings,
		Calories:         calories,
		Protein:          protein,
		Carbs:            carbs,
		Fat:              fat,
		Embedding:        service.GenerateEmbedding(name),
	}
	require.NoError(t, db.Create(recipe).Error, "failed to create test recipe")
	return recipe
}

// MockTokenValidator satisfies middleware.TokenValidator with fixed claims.
type MockTokenValidator struct {
	Claims *types.TokenClaims
	Error  error
}

func (m *MockTokenValidator) ValidateToken(token string) (*types.TokenClaims, error) {
	if m.Error != nil {
		return nil, m.Error
	}
	return m.Claims, nil
}

// JSONMarshal marshals v, failing the test on error.
func JSONMarshal(t *testing.T, v interface{}) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Failed to marshal JSON: %v", err)
	}
	return data
}
