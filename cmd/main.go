package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	_ "github.com/stylespizza/pizza-api/docs" // Import generated docs
	"github.com/stylespizza/pizza-api/internal/auth"
	"github.com/stylespizza/pizza-api/internal/cache"
	"github.com/stylespizza/pizza-api/internal/config"
	"github.com/stylespizza/pizza-api/internal/controllers"
	"github.com/stylespizza/pizza-api/internal/database"
	"github.com/stylespizza/pizza-api/internal/mailer"
	"github.com/stylespizza/pizza-api/internal/middleware"
	"github.com/stylespizza/pizza-api/internal/models"
	"github.com/stylespizza/pizza-api/internal/services"
)

// @title Styles Pizza API
// @version 1.0
// @description REST backend for the Styles Pizza ordering service
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load environment variables
	loadDotenvFile()

	// Initialize logger
	setUpLogger()

	// Load configuration
	configuration := loadConfig()

	// Initialize database connection and schema
	db := setupDatabase(configuration)

	// Token issuer and mail transport
	tokenIssuer := auth.NewTokenIssuer(configuration)
	mail := setupMailer(configuration)

	// Catalog cache; nil-safe, disabled when REDIS_ADDR is empty
	catalogCache := cache.New(configuration.RedisAddr)

	// Initialize services and controllers
	userService := services.NewUserService(db, tokenIssuer, mail)
	pizzaService := services.NewPizzaService(db)
	ingredientService := services.NewIngredientService(db)
	orderService := services.NewOrderService(db)

	userController := controllers.NewUserController(userService, configuration)
	pizzaController := controllers.NewPizzaController(pizzaService, catalogCache)
	ingredientController := controllers.NewIngredientController(ingredientService, catalogCache)
	orderController := controllers.NewOrderController(orderService)

	// Initialize Gin router
	router := setupRouter(configuration)
	setupRoutes(router, routeDeps{
		tokens:     tokenIssuer,
		users:      userService,
		user:       userController,
		pizza:      pizzaController,
		ingredient: ingredientController,
		order:      orderController,
	})

	// Start the server and wait for a shutdown signal
	runServer(router, configuration, db, catalogCache)
}

// checkPanicErr checks if an error occurred and panics if it did
func checkPanicErr(err error) {
	if err != nil {
		panic(err)
	}
}

// loadDotenvFile loads environment variables from a .env file
// If the file is not found, it will log a warning and use system environment variables
func loadDotenvFile() {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system environment variables")
	}
}

// setUpLogger initializes the logger with a JSON formatter and sets the log level based on the environment
func setUpLogger() {
	log.SetFormatter(&log.JSONFormatter{})
	environment := config.GetEnvWithDefault("APP_ENV", "development")
	switch environment {
	case "development":
		log.SetLevel(log.DebugLevel)
	case "production":
		log.SetLevel(log.ErrorLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
}

// loadConfig loads the application configuration from environment variables
// It returns a Config struct or panics if there is an error
func loadConfig() *config.Config {
	conf, err := config.LoadConfig()
	checkPanicErr(err)
	return conf
}

// setupDatabase initializes the database connection and migrates the schema
func setupDatabase(conf *config.Config) *gorm.DB {
	db, err := database.InitDatabase(database.DatabaseConfig{
		Driver:   conf.DBDriver,
		Host:     conf.DBHost,
		Port:     conf.DBPort,
		User:     conf.DBUser,
		Password: conf.DBPassword,
		Name:     conf.DBName,
		SSLMode:  conf.DBSSLMode,
		Path:     conf.DBPath,
	})
	checkPanicErr(err)
	checkPanicErr(database.Migrate(db))
	return db
}

// setupMailer returns the SMTP mailer when SMTP is configured, otherwise a
// no-op mailer so registration still works in development.
func setupMailer(conf *config.Config) mailer.Mailer {
	mail, err := mailer.NewSMTPMailer(conf)
	if err != nil {
		log.WithError(err).Warn("SMTP not configured, outgoing mail is disabled")
		return mailer.NewNoopMailer()
	}
	return mail
}

// setupRouter initializes the Gin router with the global middleware chain
func setupRouter(conf *config.Config) *gin.Engine {
	if conf.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{conf.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(middleware.ErrorHandler(conf.IsProduction()))

	return router
}

type routeDeps struct {
	tokens     *auth.TokenIssuer
	users      services.UserService
	user       controllers.UserController
	pizza      controllers.PizzaController
	ingredient controllers.IngredientController
	order      controllers.OrderController
}

// setupRoutes defines the routes for the Gin router
func setupRoutes(router *gin.Engine, deps routeDeps) {
	// Health check endpoint
	router.GET("/health", healthCheckHandler)

	authenticated := middleware.Authenticate(deps.tokens, deps.users)
	staffOnly := middleware.RequireRole(models.RoleStaff, models.RoleAdmin)
	adminOnly := middleware.RequireRole(models.RoleAdmin)
	loginLimiter := middleware.RateLimit(rate.Every(time.Minute/10), 10)

	v1 := router.Group("/api/v1")
	{
		users := v1.Group("/users")
		{
			users.POST("/register", deps.user.Register)
			users.GET("/verify-email", deps.user.VerifyEmail)
			users.POST("/login", loginLimiter, deps.user.Login)
			users.GET("/token/refresh", deps.user.RefreshToken)
			users.POST("/forgot-password", deps.user.ForgotPassword)
			users.POST("/reset-password", deps.user.ResetPassword)

			users.POST("/logout", authenticated, deps.user.Logout)
			users.GET("/profile", authenticated, deps.user.GetProfile)
			users.PUT("/profile", authenticated, deps.user.UpdateProfile)
			users.DELETE("/:id", authenticated, adminOnly, deps.user.DeleteUser)
		}

		pizzas := v1.Group("/pizzas")
		{
			pizzas.GET("", deps.pizza.GetPizzas)
			pizzas.GET("/:id", deps.pizza.GetPizzaByID)

			pizzas.POST("", authenticated, adminOnly, deps.pizza.CreatePizza)
			pizzas.PUT("/:id", authenticated, adminOnly, deps.pizza.UpdatePizza)
			pizzas.DELETE("/:id", authenticated, adminOnly, deps.pizza.DeletePizza)
		}

		ingredients := v1.Group("/ingredients")
		{
			ingredients.GET("", deps.ingredient.GetIngredients)
			ingredients.GET("/:id", deps.ingredient.GetIngredientByID)

			ingredients.POST("", authenticated, adminOnly, deps.ingredient.CreateIngredient)
			ingredients.PUT("/:id", authenticated, adminOnly, deps.ingredient.UpdateIngredient)
			ingredients.DELETE("/:id", authenticated, adminOnly, deps.ingredient.DeleteIngredient)
		}

		orders := v1.Group("/orders")
		orders.Use(authenticated)
		{
			orders.POST("", deps.order.CreateOrder)
			orders.GET("/customer/:customerId", deps.order.GetOrdersByCustomer)
			orders.GET("/:id", deps.order.GetOrder)

			orders.GET("", staffOnly, deps.order.GetOrders)
			orders.PUT("/:id/status", staffOnly, deps.order.UpdateOrderStatus)
			orders.PUT("/:id/payment-status", staffOnly, deps.order.UpdatePaymentStatus)
			orders.PUT("/:id/delivery-status", staffOnly, deps.order.UpdateDeliveryStatus)
			orders.DELETE("/:id", staffOnly, deps.order.DeleteOrder)
		}
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// runServer starts the HTTP server and shuts it down cleanly on SIGINT/SIGTERM
func runServer(router *gin.Engine, conf *config.Config, db *gorm.DB, catalogCache *cache.CatalogCache) {
	server := &http.Server{
		Addr:    fmt.Sprintf("%v:%d", conf.Host, conf.Port),
		Handler: router,
	}

	go func() {
		log.Infof("Starting server on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Forced server shutdown")
	}

	if err := catalogCache.Close(); err != nil {
		log.WithError(err).Warn("Failed to close cache connection")
	}
	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.WithError(err).Warn("Failed to close database connection")
		}
	}

	log.Info("Server stopped")
}

// healthCheckHandler handles the health check endpoint
// @Summary Health check
// @Description Check if the service is running
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "styles-pizza-api",
	})
}
