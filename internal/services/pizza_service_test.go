package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/stylespizza/pizza-api/internal/models"
)

func createTestIngredients(t *testing.T, db *gorm.DB, names ...string) []uint {
	ids := make([]uint, 0, len(names))
	for _, name := range names {
		ingredient := models.Ingredient{Name: name, Description: name + " description"}
		require.NoError(t, db.Create(&ingredient).Error)
		ids = append(ids, ingredient.ID)
	}
	return ids
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Margherita", "margherita"},
		{"BBQ  Chicken Deluxe", "bbq-chicken-deluxe"},
		{"Quattro Formaggi!", "quattro-formaggi"},
		{"  Diavola -- Hot  ", "diavola-hot"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, slugify(tt.name))
	}
}

func TestCreatePizzaWithIngredients(t *testing.T) {
	db := setupTestDB(t)
	service := NewPizzaService(db)
	ids := createTestIngredients(t, db, "Tomato Sauce", "Mozzarella", "Basil")

	pizza, err := service.CreatePizza(&models.PizzaInput{
		Name:          "Margherita Classica",
		Description:   "The classic",
		Price:         10.99,
		Size:          "medium",
		IngredientIDs: ids,
	})
	require.NoError(t, err)

	assert.Equal(t, "margherita-classica", pizza.Slug)
	assert.Len(t, pizza.Ingredients, 3)
}

func TestCreatePizzaSlugCollision(t *testing.T) {
	db := setupTestDB(t)
	service := NewPizzaService(db)

	first, err := service.CreatePizza(&models.PizzaInput{Name: "Pepperoni", Price: 12.99, Size: "large"})
	require.NoError(t, err)
	second, err := service.CreatePizza(&models.PizzaInput{Name: "Pepperoni", Price: 13.99, Size: "large"})
	require.NoError(t, err)

	assert.Equal(t, "pepperoni", first.Slug)
	assert.NotEqual(t, first.Slug, second.Slug)
	assert.Contains(t, second.Slug, "pepperoni-")
}

func TestCreatePizzaUnknownIngredient(t *testing.T) {
	db := setupTestDB(t)
	service := NewPizzaService(db)
	ids := createTestIngredients(t, db, "Tomato Sauce")

	_, err := service.CreatePizza(&models.PizzaInput{
		Name:          "Mystery",
		Price:         9.99,
		Size:          "small",
		IngredientIDs: append(ids, 9999),
	})
	assert.ErrorIs(t, err, ErrIngredientNotFound)

	// The whole aggregate rolls back, not just the association.
	var count int64
	require.NoError(t, db.Model(&models.Pizza{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestGetPizzasFilters(t *testing.T) {
	db := setupTestDB(t)
	service := NewPizzaService(db)

	fixtures := []models.PizzaInput{
		{Name: "Margherita", Price: 10.99, Size: "medium"},
		{Name: "Pepperoni", Price: 12.99, Size: "large"},
		{Name: "Vegetarian Deluxe", Price: 11.99, Size: "large"},
	}
	for i := range fixtures {
		_, err := service.CreatePizza(&fixtures[i])
		require.NoError(t, err)
	}

	t.Run("by price range", func(t *testing.T) {
		min, max := 11.0, 13.0
		pizzas, total, err := service.GetPizzas(PizzaListParams{MinPrice: &min, MaxPrice: &max})
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
		assert.Len(t, pizzas, 2)
	})

	t.Run("by size", func(t *testing.T) {
		_, total, err := service.GetPizzas(PizzaListParams{Size: "large"})
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
	})

	t.Run("by partial name", func(t *testing.T) {
		pizzas, total, err := service.GetPizzas(PizzaListParams{Search: "Veg"})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, pizzas, 1)
		assert.Equal(t, "Vegetarian Deluxe", pizzas[0].Name)
	})
}

func TestUpdatePizzaReplacesIngredients(t *testing.T) {
	db := setupTestDB(t)
	service := NewPizzaService(db)
	ids := createTestIngredients(t, db, "Tomato Sauce", "Mozzarella", "Pepperoni")

	created, err := service.CreatePizza(&models.PizzaInput{
		Name:          "Pepperoni",
		Price:         12.99,
		Size:          "large",
		IngredientIDs: ids[:2],
	})
	require.NoError(t, err)

	updated, err := service.UpdatePizza(created.ID, &models.PizzaInput{
		Name:          "Pepperoni Extra",
		Price:         14.99,
		Size:          "large",
		IngredientIDs: ids[2:],
	})
	require.NoError(t, err)

	assert.Equal(t, "Pepperoni Extra", updated.Name)
	assert.Equal(t, created.Slug, updated.Slug, "slug stays stable across renames")
	require.Len(t, updated.Ingredients, 1)
	assert.Equal(t, "Pepperoni", updated.Ingredients[0].Name)
}

func TestUpdatePizzaMissing(t *testing.T) {
	db := setupTestDB(t)
	service := NewPizzaService(db)

	_, err := service.UpdatePizza(42, &models.PizzaInput{Name: "Ghost", Price: 1, Size: "small"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeletePizzaKeepsIngredients(t *testing.T) {
	db := setupTestDB(t)
	service := NewPizzaService(db)
	ids := createTestIngredients(t, db, "Tomato Sauce", "Mozzarella")

	created, err := service.CreatePizza(&models.PizzaInput{
		Name:          "Margherita",
		Price:         10.99,
		Size:          "medium",
		IngredientIDs: ids,
	})
	require.NoError(t, err)

	require.NoError(t, service.DeletePizza(created.ID))

	var associations int64
	require.NoError(t, db.Table("pizza_ingredients").Count(&associations).Error)
	assert.Zero(t, associations)

	var ingredients int64
	require.NoError(t, db.Model(&models.Ingredient{}).Count(&ingredients).Error)
	assert.EqualValues(t, 2, ingredients)
}
