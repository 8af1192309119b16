package routes

import (
	"time"

	"rentvideo/internal/adapters/http/handlers"
	"rentvideo/internal/adapters/http/middleware"
	"rentvideo/internal/config"
	"rentvideo/internal/core/domain"
	"rentvideo/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize services
	authService := services.NewAuthService(db, cfg.JWT)
	userService := services.NewUserService(db)
	videoService := services.NewVideoService(db)
	rentalService := services.NewRentalService(db)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, userService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	videoHandler := handlers.NewVideoHandler(videoService)
	rentalHandler := handlers.NewRentalHandler(rentalService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API group
	api := app.Group("/api")

	// Auth routes (public, rate limited)
	authRoutes := api.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, cfg)

	// User management routes (authenticated)
	userRoutes := api.Group("/users")
	userRoutes.Use(middleware.AuthMiddleware(cfg))
	setupUserRoutes(userRoutes, userHandler)

	// Video catalog routes (authenticated)
	videoRoutes := api.Group("/videos")
	videoRoutes.Use(middleware.AuthMiddleware(cfg))
	setupVideoRoutes(videoRoutes, videoHandler)

	// Rental routes (authenticated)
	rentalRoutes := api.Group("/rentals")
	rentalRoutes.Use(middleware.AuthMiddleware(cfg))
	rentalRoutes.Use(middleware.NoCacheHeaders())
	setupRentalRoutes(rentalRoutes, rentalHandler)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes
	router.Post("/register", middleware.AuthRateLimiter(), handler.Register)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
	router.Post("/logout-all", middleware.AuthMiddleware(cfg), handler.LogoutAll)
}

// setupUserRoutes configures user management routes. Listing and
// destructive operations are admin only; reads and email changes allow
// self-access (enforced in the handler).
func setupUserRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Get("/", middleware.AdminOnly(), handler.List)
	router.Get("/:id", handler.GetByID)
	router.Put("/:id/email", handler.UpdateEmail)
	router.Delete("/:id", middleware.AdminOnly(), handler.Delete)
	router.Post("/:id/roles", middleware.AdminOnly(), handler.AssignRole)
	router.Delete("/:id/roles", middleware.AdminOnly(), handler.RemoveRole)
}

// setupVideoRoutes configures video catalog routes. Reads are open to
// all authenticated users; writes are admin only.
func setupVideoRoutes(router fiber.Router, handler *handlers.VideoHandler) {
	router.Get("/", middleware.CacheControl(5*time.Minute), handler.List)
	router.Get("/search", handler.Search)
	router.Get("/:id", handler.GetByID)

	router.Post("/", middleware.AdminOnly(), handler.Create)
	router.Put("/:id", middleware.AdminOnly(), handler.Update)
	router.Delete("/:id", middleware.AdminOnly(), handler.Delete)
}

// setupRentalRoutes configures rental lifecycle routes
func setupRentalRoutes(router fiber.Router, handler *handlers.RentalHandler) {
	router.Post("/", middleware.RequireRoles(domain.RoleUser), handler.Rent)
	router.Post("/return", handler.Return)
	router.Post("/:id/return", handler.ReturnByID)

	router.Get("/", middleware.AdminOnly(), handler.List)
	router.Get("/me", handler.ListMine)
	router.Get("/user/:id", handler.ListByUser)
	router.Get("/:id", handler.GetByID)
}
