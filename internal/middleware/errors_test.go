package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func errorRouter(production bool, err error) *gin.Engine {
	router := gin.New()
	router.Use(ErrorHandler(production))
	router.GET("/boom", func(c *gin.Context) {
		_ = c.Error(err)
	})
	return router
}

func TestErrorHandlerMapsKnownErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"duplicate key", gorm.ErrDuplicatedKey, http.StatusConflict, "Duplicate entry detected"},
		{"record not found", gorm.ErrRecordNotFound, http.StatusNotFound, "Resource not found"},
		{"unknown error", errors.New("disk on fire"), http.StatusInternalServerError, "disk on fire"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := errorRouter(false, tt.err)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/boom", nil)
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
			assert.Contains(t, w.Body.String(), `"success":false`)
		})
	}
}

func TestErrorHandlerMasksInternalInProduction(t *testing.T) {
	router := errorRouter(true, errors.New("disk on fire"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "disk on fire")
	assert.Contains(t, w.Body.String(), "An unexpected error occurred")
}

func TestErrorHandlerSkipsWrittenResponses(t *testing.T) {
	router := gin.New()
	router.Use(ErrorHandler(false))
	router.GET("/handled", func(c *gin.Context) {
		c.JSON(http.StatusTeapot, gin.H{"success": false, "error": "handled in place"})
		_ = c.Error(errors.New("already answered"))
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/handled", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.NotContains(t, w.Body.String(), "already answered")
}
