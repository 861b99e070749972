package services

import "errors"

// Sentinel errors returned by services. Controllers translate these into the
// HTTP error taxonomy; anything else becomes a 500.
var (
	ErrNotFound  = errors.New("resource not found")
	ErrForbidden = errors.New("unauthorized access")

	ErrInvalidOrderItems       = errors.New("invalid order items")
	ErrDeliveryAddressRequired = errors.New("delivery address is required")
	ErrInvalidStatus           = errors.New("invalid status value")

	ErrIngredientExists   = errors.New("ingredient already exists")
	ErrIngredientInUse    = errors.New("cannot delete ingredient used in pizzas")
	ErrIngredientNotFound = errors.New("one or more ingredients do not exist")

	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnverified         = errors.New("please verify your email before logging in")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrInvalidRole        = errors.New("invalid role")
)
