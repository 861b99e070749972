package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stylespizza/pizza-api/internal/models"
)

func TestCreateIngredientDuplicateName(t *testing.T) {
	db := setupTestDB(t)
	service := NewIngredientService(db)

	_, err := service.CreateIngredient(&models.IngredientInput{Name: "Mozzarella", Description: "Cheese"})
	require.NoError(t, err)

	_, err = service.CreateIngredient(&models.IngredientInput{Name: "Mozzarella", Description: "Another cheese"})
	assert.ErrorIs(t, err, ErrIngredientExists)
}

func TestGetIngredientsOrderedByName(t *testing.T) {
	db := setupTestDB(t)
	service := NewIngredientService(db)

	for _, name := range []string{"Olives", "Basil", "Mozzarella"} {
		_, err := service.CreateIngredient(&models.IngredientInput{Name: name, Description: name})
		require.NoError(t, err)
	}

	ingredients, total, err := service.GetIngredients(1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, ingredients, 3)
	assert.Equal(t, "Basil", ingredients[0].Name)
	assert.Equal(t, "Olives", ingredients[2].Name)
}

func TestUpdateIngredientMissing(t *testing.T) {
	db := setupTestDB(t)
	service := NewIngredientService(db)

	_, err := service.UpdateIngredient(42, &models.IngredientInput{Name: "Ghost", Description: "Missing"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteIngredientInUse(t *testing.T) {
	db := setupTestDB(t)
	ingredientService := NewIngredientService(db)
	pizzaService := NewPizzaService(db)

	ingredient, err := ingredientService.CreateIngredient(&models.IngredientInput{Name: "Mozzarella", Description: "Cheese"})
	require.NoError(t, err)

	pizza, err := pizzaService.CreatePizza(&models.PizzaInput{
		Name:          "Margherita",
		Price:         10.99,
		Size:          "medium",
		IngredientIDs: []uint{ingredient.ID},
	})
	require.NoError(t, err)

	err = ingredientService.DeleteIngredient(ingredient.ID)
	assert.ErrorIs(t, err, ErrIngredientInUse)

	// Removing the referencing pizza unblocks the delete.
	require.NoError(t, pizzaService.DeletePizza(pizza.ID))
	require.NoError(t, ingredientService.DeleteIngredient(ingredient.ID))

	_, err = ingredientService.GetIngredientByID(ingredient.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteIngredientMissing(t *testing.T) {
	db := setupTestDB(t)
	service := NewIngredientService(db)

	err := service.DeleteIngredient(42)
	assert.ErrorIs(t, err, ErrNotFound)
}
