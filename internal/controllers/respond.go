package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"

	"github.com/stylespizza/pizza-api/internal/config"
	"github.com/stylespizza/pizza-api/internal/middleware"
	"github.com/stylespizza/pizza-api/internal/models"
	"github.com/stylespizza/pizza-api/internal/services"
)

// respondError logs the failure and writes the failure envelope. Messages of
// 5xx responses are masked in production.
func respondError(ctx *gin.Context, status int, message string, err error) {
	fields := log.Fields{"status": status, "path": ctx.Request.URL.Path}
	if err != nil {
		fields["error"] = err.Error()
	}
	log.WithFields(fields).Error(message)

	if status >= http.StatusInternalServerError &&
		config.GetEnvWithDefault("APP_ENV", "development") == "production" {
		message = "An unexpected error occurred"
	}

	ctx.JSON(status, gin.H{
		"success": false,
		"error":   message,
	})
}

// respondServiceError maps service sentinel errors to HTTP statuses; unknown
// errors become a 500 with the supplied fallback message.
func respondServiceError(ctx *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		respondError(ctx, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, services.ErrForbidden):
		respondError(ctx, http.StatusForbidden, err.Error(), nil)
	case errors.Is(err, services.ErrUnverified):
		respondError(ctx, http.StatusForbidden, err.Error(), nil)
	case errors.Is(err, services.ErrInvalidCredentials):
		respondError(ctx, http.StatusUnauthorized, err.Error(), nil)
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrIngredientExists):
		respondError(ctx, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, services.ErrInvalidOrderItems),
		errors.Is(err, services.ErrDeliveryAddressRequired),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrIngredientInUse),
		errors.Is(err, services.ErrIngredientNotFound),
		errors.Is(err, services.ErrInvalidRole),
		errors.Is(err, services.ErrInvalidToken):
		respondError(ctx, http.StatusBadRequest, err.Error(), nil)
	default:
		respondError(ctx, http.StatusInternalServerError, fallback, err)
	}
}

// respondValidationError writes a 422 with the individual binding failures,
// one message per invalid field.
func respondValidationError(ctx *gin.Context, err error) {
	var verrs validator.ValidationErrors
	var messages []string
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			messages = append(messages, "Validation failed on field '"+fe.Field()+"' ("+fe.Tag()+")")
		}
	} else {
		messages = append(messages, err.Error())
	}
	log.WithField("errors", messages).Error("Validation failed")

	ctx.JSON(http.StatusUnprocessableEntity, gin.H{
		"success": false,
		"errors":  messages,
	})
}

// currentUserID returns the authenticated user's id from the request context.
func currentUserID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(middleware.ContextUserID)
	if !exists {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok
}

// currentUserRole returns the authenticated user's role, or the empty role.
func currentUserRole(ctx *gin.Context) models.Role {
	value, exists := ctx.Get(middleware.ContextUserRole)
	if !exists {
		return ""
	}
	role, _ := value.(models.Role)
	return role
}

// parseIDParam parses a numeric path parameter.
func parseIDParam(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// parsePagination reads page/limit query parameters with defaults.
func parsePagination(ctx *gin.Context, defaultLimit int) (int, int) {
	page, err := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit < 1 {
		limit = defaultLimit
	}
	return page, limit
}
