package models

import "time"

// Ingredient is a catalog entity referenced by pizzas. It cannot be deleted
// while any pizza still references it.
type Ingredient struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null" json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IngredientInput is the write payload for ingredient creation and update.
type IngredientInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
}
