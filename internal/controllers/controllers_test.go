package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/stylespizza/pizza-api/internal/auth"
	"github.com/stylespizza/pizza-api/internal/config"
	"github.com/stylespizza/pizza-api/internal/mailer"
	"github.com/stylespizza/pizza-api/internal/middleware"
	"github.com/stylespizza/pizza-api/internal/models"
	"github.com/stylespizza/pizza-api/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.User{}, &models.Ingredient{}, &models.Pizza{}, &models.Order{}, &models.OrderItem{})
	require.NoError(t, err)

	return db
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:            "test-jwt-secret-key-32-characters",
		AccessTokenTTL:       15 * time.Minute,
		RefreshTokenTTL:      168 * time.Hour,
		VerificationTokenTTL: time.Hour,
		ResetTokenTTL:        15 * time.Minute,
	}
}

// asUser fakes an authenticated request without running the full token
// middleware; the handlers only read the context keys.
func asUser(id uint, role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, id)
		c.Set(middleware.ContextUserRole, role)
		c.Next()
	}
}

func jsonRequest(method, path string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func createVerifiedUser(t *testing.T, db *gorm.DB, email string, role models.Role) *models.User {
	user := &models.User{
		Name:       "Test User",
		Email:      email,
		Password:   "hashed",
		Phone:      "555-0100",
		Role:       role,
		IsVerified: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestCreateOrderEnvelope(t *testing.T) {
	db := setupTestDB(t)
	user := createVerifiedUser(t, db, "customer@example.com", models.RoleCustomer)
	controller := NewOrderController(services.NewOrderService(db))

	router := gin.New()
	router.POST("/orders", asUser(user.ID, user.Role), controller.CreateOrder)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodPost, "/orders", models.CreateOrderRequest{
		Items: []models.OrderItemInput{
			{PizzaID: 1, Quantity: 2, Price: 10.00},
		},
		DeliveryAddress: "1 Main Street",
	}))

	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Order created successfully", body["message"])

	order, ok := body["order"].(map[string]interface{})
	require.True(t, ok, "created order rides under the order key")
	assert.Equal(t, 20.00, order["total_amount"])
}

func TestCreateOrderValidation(t *testing.T) {
	db := setupTestDB(t)
	user := createVerifiedUser(t, db, "customer@example.com", models.RoleCustomer)
	controller := NewOrderController(services.NewOrderService(db))

	router := gin.New()
	router.POST("/orders", asUser(user.ID, user.Role), controller.CreateOrder)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodPost, "/orders", gin.H{
		"items": []gin.H{{"pizza_id": 1, "quantity": 1, "price": 10.0}},
	}))

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["errors"])
}

func TestGetOrderStatusCodes(t *testing.T) {
	db := setupTestDB(t)
	owner := createVerifiedUser(t, db, "owner@example.com", models.RoleCustomer)
	other := createVerifiedUser(t, db, "other@example.com", models.RoleCustomer)
	orderService := services.NewOrderService(db)
	controller := NewOrderController(orderService)

	created, err := orderService.CreateOrder(owner.ID, &models.CreateOrderRequest{
		Items:           []models.OrderItemInput{{PizzaID: 1, Quantity: 1, Price: 10.00}},
		DeliveryAddress: "1 Main Street",
	})
	require.NoError(t, err)

	newRouter := func(user *models.User) *gin.Engine {
		router := gin.New()
		router.GET("/orders/:id", asUser(user.ID, user.Role), controller.GetOrder)
		return router
	}

	t.Run("owner gets 200", func(t *testing.T) {
		w := httptest.NewRecorder()
		newRouter(owner).ServeHTTP(w, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/orders/%d", created.ID), nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("other customer gets 403", func(t *testing.T) {
		w := httptest.NewRecorder()
		newRouter(other).ServeHTTP(w, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/orders/%d", created.ID), nil))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("missing order gets 404 before ownership", func(t *testing.T) {
		w := httptest.NewRecorder()
		newRouter(other).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders/9999", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestGetOrdersByCustomerEmptyListIs200(t *testing.T) {
	db := setupTestDB(t)
	user := createVerifiedUser(t, db, "customer@example.com", models.RoleCustomer)
	controller := NewOrderController(services.NewOrderService(db))

	router := gin.New()
	router.GET("/orders/customer/:customerId", asUser(user.ID, user.Role), controller.GetOrdersByCustomer)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/orders/customer/%d", user.ID), nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])

	data, ok := body["data"].([]interface{})
	require.True(t, ok, "zero orders yield an empty array, not null")
	assert.Empty(t, data)
}

func TestUpdateOrderStatusInvalidValue(t *testing.T) {
	db := setupTestDB(t)
	user := createVerifiedUser(t, db, "staff@example.com", models.RoleStaff)
	orderService := services.NewOrderService(db)
	controller := NewOrderController(orderService)

	created, err := orderService.CreateOrder(user.ID, &models.CreateOrderRequest{
		Items:           []models.OrderItemInput{{PizzaID: 1, Quantity: 1, Price: 10.00}},
		DeliveryAddress: "1 Main Street",
	})
	require.NoError(t, err)

	router := gin.New()
	router.PUT("/orders/:id/status", asUser(user.ID, user.Role), controller.UpdateOrderStatus)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodPut, fmt.Sprintf("/orders/%d/status", created.ID), gin.H{"status": "teleported"}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreatePizzaEnvelope(t *testing.T) {
	db := setupTestDB(t)
	controller := NewPizzaController(services.NewPizzaService(db), nil)

	router := gin.New()
	router.POST("/pizzas", controller.CreatePizza)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodPost, "/pizzas", models.PizzaInput{
		Name:  "Margherita",
		Price: 10.99,
		Size:  "medium",
	}))

	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])

	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "margherita", data["slug"])
}

func TestCreatePizzaMissingFields(t *testing.T) {
	db := setupTestDB(t)
	controller := NewPizzaController(services.NewPizzaService(db), nil)

	router := gin.New()
	router.POST("/pizzas", controller.CreatePizza)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodPost, "/pizzas", gin.H{"name": "Nameless"}))

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Name, price, and size are required", body["error"])
}

func TestGetPizzasPaginationEnvelope(t *testing.T) {
	db := setupTestDB(t)
	pizzaService := services.NewPizzaService(db)
	controller := NewPizzaController(pizzaService, nil)

	for i := 0; i < 3; i++ {
		_, err := pizzaService.CreatePizza(&models.PizzaInput{
			Name:  fmt.Sprintf("Pizza %d", i),
			Price: 10.00 + float64(i),
			Size:  "medium",
		})
		require.NoError(t, err)
	}

	router := gin.New()
	router.GET("/pizzas", controller.GetPizzas)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/pizzas?page=1&limit=2", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)

	pagination, ok := body["pagination"].(map[string]interface{})
	require.True(t, ok)
	assert.EqualValues(t, 1, pagination["page"])
	assert.EqualValues(t, 2, pagination["limit"])
	assert.EqualValues(t, 3, pagination["total"])
	assert.Len(t, body["data"], 2)
}

func TestCreateIngredientConflict(t *testing.T) {
	db := setupTestDB(t)
	controller := NewIngredientController(services.NewIngredientService(db), nil)

	router := gin.New()
	router.POST("/ingredients", controller.CreateIngredient)

	payload := models.IngredientInput{Name: "Mozzarella", Description: "Cheese"}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodPost, "/ingredients", payload))
	require.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodPost, "/ingredients", payload))
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDeleteIngredientInUseIs400(t *testing.T) {
	db := setupTestDB(t)
	ingredientService := services.NewIngredientService(db)
	pizzaService := services.NewPizzaService(db)
	controller := NewIngredientController(ingredientService, nil)

	ingredient, err := ingredientService.CreateIngredient(&models.IngredientInput{Name: "Mozzarella", Description: "Cheese"})
	require.NoError(t, err)
	_, err = pizzaService.CreatePizza(&models.PizzaInput{
		Name:          "Margherita",
		Price:         10.99,
		Size:          "medium",
		IngredientIDs: []uint{ingredient.ID},
	})
	require.NoError(t, err)

	router := gin.New()
	router.DELETE("/ingredients/:id", controller.DeleteIngredient)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/ingredients/%d", ingredient.ID), nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserOnboardingOverHTTP(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()
	tokens := auth.NewTokenIssuer(cfg)
	userService := services.NewUserService(db, tokens, mailer.NewNoopMailer())
	controller := NewUserController(userService, cfg)

	router := gin.New()
	router.POST("/users/register", controller.Register)
	router.GET("/users/verify-email", controller.VerifyEmail)
	router.POST("/users/login", controller.Login)

	// Register
	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodPost, "/users/register", models.RegisterInput{
		Name:     "Test User",
		Email:    "user@example.com",
		Phone:    "555-0100",
		Password: "supersecret",
	}))
	require.Equal(t, http.StatusCreated, w.Code)

	login := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest(http.MethodPost, "/users/login", gin.H{
			"email":    "user@example.com",
			"password": "supersecret",
		}))
		return w
	}

	// Unverified login is refused before the password is even considered
	assert.Equal(t, http.StatusForbidden, login().Code)

	// Verify with the token stored on the row
	var stored models.User
	require.NoError(t, db.Where("email = ?", "user@example.com").First(&stored).Error)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/verify-email?token="+stored.VerificationToken, nil))
	require.Equal(t, http.StatusOK, w.Code)

	// Login succeeds, returns an access token and sets the refresh cookie
	resp := login()
	require.Equal(t, http.StatusOK, resp.Code)
	body := decodeBody(t, resp)
	assert.NotEmpty(t, body["accessToken"])

	cookies := resp.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, "refreshToken", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
}

func TestRegisterDuplicateEmailIs409(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()
	userService := services.NewUserService(db, auth.NewTokenIssuer(cfg), mailer.NewNoopMailer())
	controller := NewUserController(userService, cfg)

	router := gin.New()
	router.POST("/users/register", controller.Register)

	payload := models.RegisterInput{
		Name:     "Test User",
		Email:    "user@example.com",
		Phone:    "555-0100",
		Password: "supersecret",
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodPost, "/users/register", payload))
	require.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodPost, "/users/register", payload))
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRefreshFromCookie(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()
	tokens := auth.NewTokenIssuer(cfg)
	userService := services.NewUserService(db, tokens, mailer.NewNoopMailer())
	controller := NewUserController(userService, cfg)

	user := createVerifiedUser(t, db, "user@example.com", models.RoleCustomer)
	refreshToken, err := tokens.RefreshToken(user.ID)
	require.NoError(t, err)
	require.NoError(t, db.Model(user).Update("refresh_token", refreshToken).Error)

	router := gin.New()
	router.GET("/users/token/refresh", controller.RefreshToken)

	t.Run("valid cookie", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/users/token/refresh", nil)
		req.AddCookie(&http.Cookie{Name: "refreshToken", Value: refreshToken})
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.NotEmpty(t, body["accessToken"])
	})

	t.Run("missing cookie", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/token/refresh", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rotated-out cookie", func(t *testing.T) {
		require.NoError(t, db.Model(user).Update("refresh_token", "different").Error)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/users/token/refresh", nil)
		req.AddCookie(&http.Cookie{Name: "refreshToken", Value: refreshToken})
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
