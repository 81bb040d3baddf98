package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stepwise/stepwise-backend/internal/config"
	"github.com/stepwise/stepwise-backend/internal/handler"
	"github.com/stepwise/stepwise-backend/internal/middleware"
	"github.com/stepwise/stepwise-backend/internal/response"
	"github.com/stepwise/stepwise-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	Class      *handler.ClassHandler
	Booking    *handler.BookingHandler
	Course     *handler.CourseHandler
	Enrollment *handler.EnrollmentHandler
	Occupancy  *handler.OccupancyHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.Login)
		auth.POST("/forgot-password", handlers.Auth.ForgotPassword)

		// Authenticated profile routes
		auth.GET("/me", middleware.RequireJWT(authService), handlers.Auth.Me)
		auth.POST("/logout", middleware.RequireJWT(authService), handlers.Auth.Logout)
	}

	// ─── 2. Public Catalog (No Auth, Cacheable) ────────────────────────
	catalog := router.Group("/api/v1")
	catalog.Use(middleware.CacheControl(30))
	{
		catalog.GET("/classes", handlers.Class.List)
		catalog.GET("/classes/:id", handlers.Class.Get)
		catalog.GET("/courses", handlers.Course.List)
		catalog.GET("/courses/:id", handlers.Course.Get)
		catalog.GET("/accounts/:id", handlers.Auth.GetAccount)
	}

	// ─── 3. Authenticated Group (JWT) ──────────────────────────────────
	api := router.Group("/api/v1")
	api.Use(middleware.RequireJWT(authService))
	{
		api.POST("/classes/:id/book", handlers.Booking.Book)
		api.GET("/bookings", handlers.Booking.ListMine)
		api.POST("/bookings/:id/confirm", handlers.Booking.Confirm)
		api.POST("/bookings/:id/cancel", handlers.Booking.Cancel)

		api.POST("/courses/:id/enroll", handlers.Enrollment.Enroll)
		api.GET("/enrollments", handlers.Enrollment.ListMine)
		api.POST("/enrollments/:id/lessons/:position/complete", handlers.Enrollment.CompleteLesson)
	}

	// ─── 4. Admin Group (JWT + Role) ───────────────────────────────────
	admin := router.Group("/api/v1")
	admin.Use(middleware.RequireJWT(authService), middleware.RequireAdmin())
	{
		admin.POST("/classes", handlers.Class.Create)
		admin.PUT("/classes/:id", handlers.Class.Update)
		admin.DELETE("/classes/:id", handlers.Class.Delete)

		admin.POST("/courses", handlers.Course.Create)
		admin.PUT("/courses/:id", handlers.Course.Update)
		admin.DELETE("/courses/:id", handlers.Course.Delete)
	}

	// ─── 5. WebSocket Group (Token via Query) ──────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireWSAuth(authService))
	{
		ws.GET("/admin/classes/:id/occupancy", handlers.Occupancy.Stream)
	}

	return router
}
