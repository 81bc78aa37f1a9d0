package routes

import (
	"github.com/Ahmad9bh/party2book-api/internal/container"
	"github.com/Ahmad9bh/party2book-api/internal/handlers"
	"github.com/Ahmad9bh/party2book-api/internal/helpers"
	"github.com/Ahmad9bh/party2book-api/internal/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) *gin.Engine {
	// Set Gin mode for production
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     container.Config.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// Add middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(middleware.ErrorHandler(container.Logger))
	r.Use(middleware.RateLimit(container.Config.RateLimitRPS, container.Config.RateLimitBurst))
	r.Use(gin.Recovery())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API version 1
	v1 := r.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "OK",
				"service": "party2book-api",
			})
		})

		// public routes
		v1.POST("/signup", handlers.CreateUser(container.UserService))
		v1.POST("/login", handlers.AuthenticateUser(container.UserService))
		v1.POST("/logout", handlers.Logout())

		v1.GET("/venues", handlers.ListVenues(container.VenueService))
		v1.GET("/venues/:id", handlers.GetVenueByID(container.VenueService))
	}

	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(container.SupabaseClient, container.UserService, container.Logger))

	userRoutes := protected.Group("/users")
	{
		protected.GET("/profile", func(c *gin.Context) {
			user, exist := c.Get("user")
			if !exist {
				c.JSON(401, gin.H{"error": "Unauthorized"})
				return
			}

			// Cast to EnhancedClaims to access role and other profile data
			enhancedClaims, ok := user.(*helpers.EnhancedClaims)
			if !ok {
				c.JSON(500, gin.H{"error": "Invalid user claims format"})
				return
			}

			c.JSON(200, gin.H{
				"status":   "OK",
				"user_id":  enhancedClaims.UserID,
				"email":    enhancedClaims.Email,
				"role":     enhancedClaims.Role,
				"username": enhancedClaims.Username,
				"is_admin": enhancedClaims.IsAdmin(),
			})
		})

		userRoutes.GET("/:id", handlers.GetUser(container.UserService))
		userRoutes.PATCH("/:id", handlers.UpdateUser(container.UserService))
		userRoutes.DELETE("/:id", handlers.DeleteUser(container.UserService))
	}

	venueRoutes := protected.Group("/venues")
	{
		venueRoutes.POST("/", handlers.CreateVenueHandler(container.VenueService))
		venueRoutes.DELETE("/:id", handlers.DeleteVenue(container.VenueService))
		venueRoutes.GET("/host-venues/:host_id", handlers.ListVenuesByHost(container.VenueService))
	}

	bookingRoutes := protected.Group("/bookings")
	{
		bookingRoutes.POST("/", handlers.CreateBooking(container.BookingService))
		bookingRoutes.GET("/", handlers.ListMyBookings(container.BookingService))
		bookingRoutes.GET("/:id", handlers.GetBooking(container.BookingService))
		bookingRoutes.GET("/:id/history", handlers.GetBookingHistory(container.BookingService))

		// Booking change flow: preview, submit, then host/payment resolution.
		bookingRoutes.GET("/:id/change-request", handlers.PrepareChangeRequest(container.BookingService))
		bookingRoutes.POST("/:id/change-request", handlers.SubmitChangeRequest(container.BookingService))
		bookingRoutes.POST("/:id/change-request/approve", handlers.ApproveChangeRequest(container.BookingService))
		bookingRoutes.POST("/:id/change-request/reject", handlers.RejectChangeRequest(container.BookingService))
		bookingRoutes.POST("/:id/change-request/payment-complete", handlers.ConfirmChangePayment(container.BookingService))

		bookingRoutes.POST("/:id/cancel-request", handlers.RequestCancellation(container.BookingService))
		bookingRoutes.POST("/:id/cancel-request/resolve", handlers.ResolveCancellation(container.BookingService))
	}

	hostRoutes := protected.Group("/host")
	{
		hostRoutes.GET("/stats", handlers.GetHostStats(container.StatsService))
	}

	protected.GET("/venue-bookings/:venue_id", handlers.ListVenueBookings(container.BookingService))

	return r
}
