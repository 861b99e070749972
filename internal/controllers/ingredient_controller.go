package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stylespizza/pizza-api/internal/cache"
	"github.com/stylespizza/pizza-api/internal/models"
	"github.com/stylespizza/pizza-api/internal/services"
)

// IngredientController handles HTTP requests related to ingredients
type IngredientController interface {
	CreateIngredient(c *gin.Context)
	GetIngredients(c *gin.Context)
	GetIngredientByID(c *gin.Context)
	UpdateIngredient(c *gin.Context)
	DeleteIngredient(c *gin.Context)
}

type ingredientController struct {
	service services.IngredientService
	cache   *cache.CatalogCache
}

// NewIngredientController creates a new instance of IngredientController
func NewIngredientController(service services.IngredientService, catalogCache *cache.CatalogCache) IngredientController {
	return &ingredientController{service: service, cache: catalogCache}
}

// CreateIngredient godoc
// @Summary Create a new ingredient
// @Tags ingredients
// @Accept json
// @Produce json
// @Param ingredient body models.IngredientInput true "Ingredient payload"
// @Success 201 {object} map[string]interface{}
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]interface{}
// @Security BearerAuth
// @Router /api/v1/ingredients [post]
func (c *ingredientController) CreateIngredient(ctx *gin.Context) {
	var input models.IngredientInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondValidationError(ctx, err)
		return
	}

	ingredient, err := c.service.CreateIngredient(&input)
	if err != nil {
		respondServiceError(ctx, err, "Failed to create ingredient")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    ingredient,
		"message": "Ingredient created successfully",
	})
}

// GetIngredients godoc
// @Summary Get all ingredients
// @Tags ingredients
// @Produce json
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/ingredients [get]
func (c *ingredientController) GetIngredients(ctx *gin.Context) {
	page, limit := parsePagination(ctx, 20)

	ingredients, total, err := c.service.GetIngredients(page, limit)
	if err != nil {
		respondServiceError(ctx, err, "Failed to retrieve ingredients")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       ingredients,
		"pagination": models.Pagination{Page: page, Limit: limit, Total: total},
	})
}

// GetIngredientByID godoc
// @Summary Get ingredient by ID
// @Tags ingredients
// @Produce json
// @Param id path int true "Ingredient ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /api/v1/ingredients/{id} [get]
func (c *ingredientController) GetIngredientByID(ctx *gin.Context) {
	ingredientID, ok := parseIDParam(ctx, "id")
	if !ok {
		respondError(ctx, http.StatusBadRequest, "Invalid ingredient ID", nil)
		return
	}

	ingredient, err := c.service.GetIngredientByID(ingredientID)
	if err != nil {
		respondServiceError(ctx, err, "Failed to retrieve ingredient")
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": ingredient})
}

// UpdateIngredient godoc
// @Summary Update an ingredient
// @Tags ingredients
// @Accept json
// @Produce json
// @Param id path int true "Ingredient ID"
// @Param ingredient body models.IngredientInput true "Ingredient payload"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/ingredients/{id} [put]
func (c *ingredientController) UpdateIngredient(ctx *gin.Context) {
	ingredientID, ok := parseIDParam(ctx, "id")
	if !ok {
		respondError(ctx, http.StatusBadRequest, "Invalid ingredient ID", nil)
		return
	}

	var input models.IngredientInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondError(ctx, http.StatusBadRequest, "Name is required", err)
		return
	}

	ingredient, err := c.service.UpdateIngredient(ingredientID, &input)
	if err != nil {
		respondServiceError(ctx, err, "Failed to update ingredient")
		return
	}

	// Ingredient details are embedded in cached pizza aggregates.
	c.cache.Invalidate(ctx.Request.Context())

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    ingredient,
		"message": "Ingredient updated successfully",
	})
}

// DeleteIngredient godoc
// @Summary Delete an ingredient
// @Description Delete an ingredient; fails while any pizza references it
// @Tags ingredients
// @Produce json
// @Param id path int true "Ingredient ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/ingredients/{id} [delete]
func (c *ingredientController) DeleteIngredient(ctx *gin.Context) {
	ingredientID, ok := parseIDParam(ctx, "id")
	if !ok {
		respondError(ctx, http.StatusBadRequest, "Invalid ingredient ID", nil)
		return
	}

	if err := c.service.DeleteIngredient(ingredientID); err != nil {
		respondServiceError(ctx, err, "Failed to delete ingredient")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Ingredient deleted successfully",
	})
}
