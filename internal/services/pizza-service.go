package services

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/stylespizza/pizza-api/internal/models"
)

// PizzaListParams are the filters for the public pizza listing.
type PizzaListParams struct {
	Page     int
	Limit    int
	MinPrice *float64
	MaxPrice *float64
	Size     string
	Search   string
}

// PizzaService provides catalog operations for pizzas, including slug
// generation and the ingredient association table.
type PizzaService interface {
	// CreatePizza inserts the pizza and its ingredient associations in one
	// transaction and returns the full aggregate.
	CreatePizza(input *models.PizzaInput) (*models.Pizza, error)
	// GetPizzas returns a filtered page of pizzas with their ingredients.
	GetPizzas(params PizzaListParams) ([]models.Pizza, int64, error)
	// GetPizzaByID retrieves a single pizza with its ingredients.
	GetPizzaByID(id uint) (*models.Pizza, error)
	// UpdatePizza updates the pizza and replaces all ingredient
	// associations in one transaction.
	UpdatePizza(id uint, input *models.PizzaInput) (*models.Pizza, error)
	// DeletePizza removes the pizza and its associations, leaving the
	// ingredient entities themselves untouched.
	DeletePizza(id uint) error
}

type pizzaService struct {
	db *gorm.DB
}

// NewPizzaService creates a new instance of PizzaService
func NewPizzaService(db *gorm.DB) PizzaService {
	return &pizzaService{db: db}
}

var nonWordChars = regexp.MustCompile(`[^\w\-]+`)
var multiHyphens = regexp.MustCompile(`\-\-+`)

// slugify lowercases the name, turns whitespace into hyphens, strips
// non-word characters and collapses and trims hyphens.
func slugify(name string) string {
	slug := strings.ToLower(name)
	slug = strings.Join(strings.Fields(slug), "-")
	slug = nonWordChars.ReplaceAllString(slug, "")
	slug = multiHyphens.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// uniqueSlug derives a slug from the name and, on collision, appends a
// base-36 timestamp plus a counter and retries until the slug is free.
func (s *pizzaService) uniqueSlug(tx *gorm.DB, name string) (string, error) {
	baseSlug := slugify(name)
	finalSlug := baseSlug

	for counter := 1; ; counter++ {
		var count int64
		if err := tx.Model(&models.Pizza{}).Where("slug = ?", finalSlug).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return finalSlug, nil
		}
		finalSlug = fmt.Sprintf("%s-%s-%d", baseSlug, strconv.FormatInt(time.Now().UnixMilli(), 36), counter)
	}
}

// loadIngredients resolves ingredient ids, failing when any id is unknown.
func loadIngredients(tx *gorm.DB, ids []uint) ([]models.Ingredient, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var ingredients []models.Ingredient
	if err := tx.Where("id IN ?", ids).Find(&ingredients).Error; err != nil {
		return nil, err
	}
	if len(ingredients) != len(ids) {
		return nil, ErrIngredientNotFound
	}
	return ingredients, nil
}

func (s *pizzaService) CreatePizza(input *models.PizzaInput) (*models.Pizza, error) {
	var pizza models.Pizza

	err := s.db.Transaction(func(tx *gorm.DB) error {
		slug, err := s.uniqueSlug(tx, input.Name)
		if err != nil {
			return err
		}

		pizza = models.Pizza{
			Name:        input.Name,
			Slug:        slug,
			Description: input.Description,
			Price:       input.Price,
			Size:        input.Size,
			Image:       input.Image,
		}
		if err := tx.Create(&pizza).Error; err != nil {
			return err
		}

		ingredients, err := loadIngredients(tx, input.IngredientIDs)
		if err != nil {
			return err
		}
		if len(ingredients) > 0 {
			if err := tx.Model(&pizza).Association("Ingredients").Append(&ingredients); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Re-read the full aggregate for the response
	return s.GetPizzaByID(pizza.ID)
}

func (s *pizzaService) GetPizzas(params PizzaListParams) ([]models.Pizza, int64, error) {
	page, limit := normalizePage(params.Page, params.Limit, 10)

	query := s.db.Model(&models.Pizza{})
	if params.MinPrice != nil {
		query = query.Where("price >= ?", *params.MinPrice)
	}
	if params.MaxPrice != nil {
		query = query.Where("price <= ?", *params.MaxPrice)
	}
	if params.Size != "" {
		query = query.Where("size = ?", params.Size)
	}
	if params.Search != "" {
		query = query.Where("name LIKE ?", "%"+params.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var pizzas []models.Pizza
	err := query.
		Preload("Ingredients").
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&pizzas).Error
	if err != nil {
		return nil, 0, err
	}

	return pizzas, total, nil
}

func (s *pizzaService) GetPizzaByID(id uint) (*models.Pizza, error) {
	var pizza models.Pizza
	if err := s.db.Preload("Ingredients").First(&pizza, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &pizza, nil
}

func (s *pizzaService) UpdatePizza(id uint, input *models.PizzaInput) (*models.Pizza, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var pizza models.Pizza
		if err := tx.First(&pizza, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		// The slug stays stable across renames; it identifies the pizza in
		// URLs already in circulation.
		updates := map[string]interface{}{
			"name":        input.Name,
			"description": input.Description,
			"price":       input.Price,
			"size":        input.Size,
			"image":       input.Image,
		}
		if err := tx.Model(&pizza).Updates(updates).Error; err != nil {
			return err
		}

		ingredients, err := loadIngredients(tx, input.IngredientIDs)
		if err != nil {
			return err
		}
		// Replace all associations: delete-then-reinsert
		if err := tx.Model(&pizza).Association("Ingredients").Replace(&ingredients); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetPizzaByID(id)
}

func (s *pizzaService) DeletePizza(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var pizza models.Pizza
		if err := tx.First(&pizza, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		// Cascade the association rows only; ingredients stay.
		if err := tx.Model(&pizza).Association("Ingredients").Clear(); err != nil {
			return err
		}
		return tx.Delete(&pizza).Error
	})
}
