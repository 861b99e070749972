package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/stylespizza/pizza-api/internal/cache"
	"github.com/stylespizza/pizza-api/internal/models"
	"github.com/stylespizza/pizza-api/internal/services"
)

// PizzaController handles HTTP requests related to pizzas
type PizzaController interface {
	// GetPizzas retrieves all pizzas with filters and pagination
	GetPizzas(c *gin.Context)
	// GetPizzaByID retrieves a pizza by its ID
	GetPizzaByID(c *gin.Context)
	// CreatePizza creates a new pizza
	CreatePizza(c *gin.Context)
	// UpdatePizza updates an existing pizza
	UpdatePizza(c *gin.Context)
	// DeletePizza deletes a pizza by its ID
	DeletePizza(c *gin.Context)
}

type pizzaController struct {
	service services.PizzaService
	cache   *cache.CatalogCache
}

// NewPizzaController creates a new instance of PizzaController. The cache
// may be nil; listing then always hits the database.
func NewPizzaController(service services.PizzaService, catalogCache *cache.CatalogCache) PizzaController {
	return &pizzaController{service: service, cache: catalogCache}
}

// GetPizzas godoc
// @Summary Get all pizzas
// @Description Get a page of pizzas with optional price/size/name filters
// @Tags pizzas
// @Produce json
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(10)
// @Param minPrice query number false "Minimum price"
// @Param maxPrice query number false "Maximum price"
// @Param size query string false "Pizza size"
// @Param search query string false "Name search (partial match)"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]string
// @Router /api/v1/pizzas [get]
func (c *pizzaController) GetPizzas(ctx *gin.Context) {
	params := parsePizzaListParams(ctx)
	cacheKey := pizzaListCacheKey(params)

	if cached, ok := c.cache.GetPizzaList(ctx.Request.Context(), cacheKey); ok {
		ctx.JSON(http.StatusOK, gin.H{
			"success":    true,
			"data":       cached.Pizzas,
			"pagination": models.Pagination{Page: params.Page, Limit: params.Limit, Total: cached.Total},
		})
		return
	}

	pizzas, total, err := c.service.GetPizzas(params)
	if err != nil {
		respondServiceError(ctx, err, "Failed to retrieve pizzas")
		return
	}

	c.cache.SetPizzaList(ctx.Request.Context(), cacheKey, &cache.PizzaList{Pizzas: pizzas, Total: total})

	ctx.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       pizzas,
		"pagination": models.Pagination{Page: params.Page, Limit: params.Limit, Total: total},
	})
}

func parsePizzaListParams(ctx *gin.Context) services.PizzaListParams {
	page, limit := parsePagination(ctx, 10)
	params := services.PizzaListParams{
		Page:   page,
		Limit:  limit,
		Size:   ctx.Query("size"),
		Search: ctx.Query("search"),
	}
	if raw := ctx.Query("minPrice"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			params.MinPrice = &v
		}
	}
	if raw := ctx.Query("maxPrice"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			params.MaxPrice = &v
		}
	}
	return params
}

func pizzaListCacheKey(params services.PizzaListParams) string {
	min, max := "", ""
	if params.MinPrice != nil {
		min = strconv.FormatFloat(*params.MinPrice, 'f', -1, 64)
	}
	if params.MaxPrice != nil {
		max = strconv.FormatFloat(*params.MaxPrice, 'f', -1, 64)
	}
	return fmt.Sprintf("page=%d:limit=%d:min=%s:max=%s:size=%s:search=%s",
		params.Page, params.Limit, min, max, params.Size, params.Search)
}

// GetPizzaByID godoc
// @Summary Get pizza by ID
// @Description Get a single pizza with its ingredients
// @Tags pizzas
// @Produce json
// @Param id path int true "Pizza ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/pizzas/{id} [get]
func (c *pizzaController) GetPizzaByID(ctx *gin.Context) {
	pizzaID, ok := parseIDParam(ctx, "id")
	if !ok {
		respondError(ctx, http.StatusBadRequest, "Invalid pizza ID", nil)
		return
	}

	pizza, err := c.service.GetPizzaByID(pizzaID)
	if err != nil {
		respondServiceError(ctx, err, "Failed to retrieve pizza")
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": pizza})
}

// CreatePizza godoc
// @Summary Create a new pizza
// @Description Create a pizza with its ingredient associations in one transaction
// @Tags pizzas
// @Accept json
// @Produce json
// @Param pizza body models.PizzaInput true "Pizza payload"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/pizzas [post]
func (c *pizzaController) CreatePizza(ctx *gin.Context) {
	var input models.PizzaInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondError(ctx, http.StatusBadRequest, "Name, price, and size are required", err)
		return
	}

	pizza, err := c.service.CreatePizza(&input)
	if err != nil {
		respondServiceError(ctx, err, "Pizza creation failed")
		return
	}

	c.cache.Invalidate(ctx.Request.Context())

	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    pizza,
		"message": "Pizza created successfully",
	})
}

// UpdatePizza godoc
// @Summary Update a pizza
// @Description Update a pizza and replace its ingredient associations
// @Tags pizzas
// @Accept json
// @Produce json
// @Param id path int true "Pizza ID"
// @Param pizza body models.PizzaInput true "Pizza payload"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/pizzas/{id} [put]
func (c *pizzaController) UpdatePizza(ctx *gin.Context) {
	pizzaID, ok := parseIDParam(ctx, "id")
	if !ok {
		respondError(ctx, http.StatusBadRequest, "Invalid pizza ID", nil)
		return
	}

	var input models.PizzaInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondError(ctx, http.StatusBadRequest, "Name, price, and size are required", err)
		return
	}

	pizza, err := c.service.UpdatePizza(pizzaID, &input)
	if err != nil {
		respondServiceError(ctx, err, "Failed to update pizza")
		return
	}

	c.cache.Invalidate(ctx.Request.Context())

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    pizza,
		"message": "Pizza updated successfully",
	})
}

// DeletePizza godoc
// @Summary Delete a pizza
// @Description Delete a pizza and its ingredient associations
// @Tags pizzas
// @Produce json
// @Param id path int true "Pizza ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/pizzas/{id} [delete]
func (c *pizzaController) DeletePizza(ctx *gin.Context) {
	pizzaID, ok := parseIDParam(ctx, "id")
	if !ok {
		respondError(ctx, http.StatusBadRequest, "Invalid pizza ID", nil)
		return
	}

	if err := c.service.DeletePizza(pizzaID); err != nil {
		respondServiceError(ctx, err, "Failed to delete pizza")
		return
	}

	c.cache.Invalidate(ctx.Request.Context())

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Pizza deleted successfully",
	})
}
