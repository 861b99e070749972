package models

import "time"

// Pizza is a catalog entry. Slug is derived from the name at creation time
// and is globally unique; ingredients are linked through the
// pizza_ingredients association table.
type Pizza struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"not null" json:"name"`
	Slug        string       `gorm:"uniqueIndex;not null" json:"slug"`
	Description string       `json:"description"`
	Price       float64      `gorm:"not null" json:"price"`
	Size        string       `gorm:"not null" json:"size"`
	Image       string       `json:"image,omitempty"`
	Ingredients []Ingredient `gorm:"many2many:pizza_ingredients" json:"ingredients"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// PizzaInput is the write payload for pizza creation and update.
type PizzaInput struct {
	Name          string  `json:"name" binding:"required"`
	Description   string  `json:"description"`
	Price         float64 `json:"price" binding:"required,gt=0"`
	Size          string  `json:"size" binding:"required"`
	Image         string  `json:"image"`
	IngredientIDs []uint  `json:"ingredients"`
}
