package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/stylespizza/pizza-api/internal/models"
)

// IngredientService provides catalog operations for ingredients.
type IngredientService interface {
	CreateIngredient(input *models.IngredientInput) (*models.Ingredient, error)
	GetIngredients(page, limit int) ([]models.Ingredient, int64, error)
	GetIngredientByID(id uint) (*models.Ingredient, error)
	UpdateIngredient(id uint, input *models.IngredientInput) (*models.Ingredient, error)
	// DeleteIngredient refuses to delete an ingredient that any pizza still
	// references.
	DeleteIngredient(id uint) error
}

type ingredientService struct {
	db *gorm.DB
}

// NewIngredientService creates a new instance of IngredientService
func NewIngredientService(db *gorm.DB) IngredientService {
	return &ingredientService{db: db}
}

func (s *ingredientService) CreateIngredient(input *models.IngredientInput) (*models.Ingredient, error) {
	var existing models.Ingredient
	if err := s.db.Where("name = ?", input.Name).First(&existing).Error; err == nil {
		return nil, ErrIngredientExists
	}

	ingredient := models.Ingredient{
		Name:        input.Name,
		Description: input.Description,
	}
	if err := s.db.Create(&ingredient).Error; err != nil {
		return nil, err
	}
	return &ingredient, nil
}

func (s *ingredientService) GetIngredients(page, limit int) ([]models.Ingredient, int64, error) {
	page, limit = normalizePage(page, limit, 20)

	var total int64
	if err := s.db.Model(&models.Ingredient{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ingredients []models.Ingredient
	err := s.db.
		Order("name").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&ingredients).Error
	if err != nil {
		return nil, 0, err
	}

	return ingredients, total, nil
}

func (s *ingredientService) GetIngredientByID(id uint) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := s.db.First(&ingredient, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ingredient, nil
}

func (s *ingredientService) UpdateIngredient(id uint, input *models.IngredientInput) (*models.Ingredient, error) {
	result := s.db.Model(&models.Ingredient{}).Where("id = ?", id).Updates(map[string]interface{}{
		"name":        input.Name,
		"description": input.Description,
	})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	return s.GetIngredientByID(id)
}

func (s *ingredientService) DeleteIngredient(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var references int64
		if err := tx.Table("pizza_ingredients").Where("ingredient_id = ?", id).Count(&references).Error; err != nil {
			return err
		}
		if references > 0 {
			return ErrIngredientInUse
		}

		result := tx.Delete(&models.Ingredient{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
