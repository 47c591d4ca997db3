package main

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/pageza/mealweek/backend/config"
	"github.com/pageza/mealweek/backend/internal/model"
	"github.com/pageza/mealweek/backend/internal/service"
)

// seedRecipe is one catalog entry with per-serving nutrition at its
// baseline serving count.
type seedRecipe struct {
	Name        string
	Description string
	Category    string
	Ingredients []string
	Servings    int
	Calories    float64
	Protein     float64
	Carbs       float64
	Fat         float64
}

var catalog = []seedRecipe{
	{
		Name:        "Overnight Oats with Berries",
		Description: "Rolled oats soaked in milk with mixed berries and chia seeds.",
		Category:    "breakfast",
		Ingredients: []string{"rolled oats", "milk", "mixed berries", "chia seeds", "honey"},
		Servings:    2,
		Calories:    640, Protein: 22, Carbs: 98, Fat: 16,
	},
	{
		Name:        "Veggie Scramble",
		Description: "Eggs scrambled with bell pepper, spinach and feta.",
		Category:    "breakfast",
		Ingredients: []string{"eggs", "bell pepper", "spinach", "feta", "olive oil"},
		Servings:    1,
		Calories:    320, Protein: 21, Carbs: 8, Fat: 23,
	},
	{
		Name:        "Chicken Caesar Wrap",
		Description: "Grilled chicken, romaine and caesar dressing in a whole wheat wrap.",
		Category:    "lunch",
		Ingredients: []string{"chicken breast", "romaine", "caesar dressing", "whole wheat tortilla", "parmesan"},
		Servings:    2,
		Calories:    880, Protein: 64, Carbs: 60, Fat: 40,
	},
	{
		Name:        "Lentil Soup",
		Description: "Hearty red lentil soup with carrots, celery and cumin.",
		Category:    "lunch",
		Ingredients: []string{"red lentils", "carrot", "celery", "onion", "cumin", "vegetable stock"},
		Servings:    4,
		Calories:    920, Protein: 56, Carbs: 152, Fat: 8,
	},
	{
		Name:        "Sheet Pan Salmon",
		Description: "Salmon fillets roasted with broccoli and baby potatoes.",
		Category:    "dinner",
		Ingredients: []string{"salmon fillet", "broccoli", "baby potatoes", "lemon", "olive oil"},
		Servings:    2,
		Calories:    1040, Protein: 72, Carbs: 64, Fat: 54,
	},
	{
		Name:        "Beef and Broccoli Stir Fry",
		Description: "Flank steak and broccoli in a ginger soy glaze over rice.",
		Category:    "dinner",
		Ingredients: []string{"flank steak", "broccoli", "soy sauce", "ginger", "garlic", "jasmine rice"},
		Servings:    4,
		Calories:    1800, Protein: 112, Carbs: 196, Fat: 56,
	},
	{
		Name:        "Chickpea Curry",
		Description: "Chickpeas simmered in coconut milk with tomato and garam masala.",
		Category:    "dinner",
		Ingredients: []string{"chickpeas", "coconut milk", "tomato", "garam masala", "basmati rice"},
		Servings:    4,
		Calories:    1680, Protein: 44, Carbs: 232, Fat: 64,
	},
	{
		Name:        "Greek Yogurt Parfait",
		Description: "Greek yogurt layered with granola and honey.",
		Category:    "snacks",
		Ingredients: []string{"greek yogurt", "granola", "honey"},
		Servings:    1,
		Calories:    280, Protein: 18, Carbs: 38, Fat: 7,
	},
	{
		Name:        "Trail Mix",
		Description: "Almonds, cashews, raisins and dark chocolate chips.",
		Category:    "snacks",
		Ingredients: []string{"almonds", "cashews", "raisins", "dark chocolate chips"},
		Servings:    6,
		Calories:    1260, Protein: 30, Carbs: 108, Fat: 84,
	},
	{
		Name:        "Turkey Chili",
		Description: "Ground turkey chili with kidney beans and smoked paprika.",
		Category:    "dinner",
		Ingredients: []string{"ground turkey", "kidney beans", "crushed tomatoes", "smoked paprika", "onion"},
		Servings:    6,
		Calories:    1980, Protein: 168, Carbs: 162, Fat: 66,
	},
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	seeded := 0
	for _, s := range catalog {
		var count int64
		if err := db.Model(&model.Recipe{}).Where("name = ?", s.Name).Count(&count).Error; err != nil {
			log.Fatalf("Failed to check for existing recipe %q: %v", s.Name, err)
		}
		if count > 0 {
			log.Printf("Recipe already exists, skipping: %s", s.Name)
			continue
		}

		recipe := model.Recipe{
			Name:             s.Name,
			Description:      s.Description,
			Category:         s.Category,
			Ingredients:      model.JSONBStringArray(s.Ingredients),
			BaselineServings: s.Servings,
			Calories:         s.Calories,
			Protein:          s.Protein,
			Carbs:            s.Carbs,
			Fat:              s.Fat,
			Embedding:        service.GenerateEmbedding(s.Name + " " + s.Description),
		}
		if err := db.Create(&recipe).Error; err != nil {
			log.Fatalf("Failed to create recipe %q: %v", s.Name, err)
		}
		seeded++
		log.Printf("Seeded recipe: %s", s.Name)
	}

	log.Printf("Done, seeded %d recipes", seeded)
}
