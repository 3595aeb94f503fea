package router

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"skillbridge/internal/auth"
	"skillbridge/internal/config"
	"skillbridge/internal/handler"
	"skillbridge/internal/model"
	"skillbridge/internal/ratelimit"
	"skillbridge/internal/validation"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth         *handler.AuthHandler
	Tutor        *handler.TutorHandler
	Category     *handler.CategoryHandler
	Booking      *handler.BookingHandler
	Review       *handler.ReviewHandler
	Availability *handler.AvailabilityHandler
	Admin        *handler.AdminHandler
}

// Limiters are the rate limiters applied to the API.
type Limiters struct {
	API  *ratelimit.Limiter
	Auth *ratelimit.Limiter
}

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	h Handlers,
	limiters Limiters,
	jwtService *auth.JWTService,
	tokenStore auth.TokenStoreInterface,
) {
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{echo.GET, echo.POST, echo.PUT, echo.PATCH, echo.DELETE, echo.OPTIONS},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	e.Validator = validation.New()

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api", limiters.API.Middleware())
	api.GET("/health", handler.Health)

	requireAuth := auth.JWTMiddleware(jwtService, tokenStore)
	student := auth.RequireRole(model.RoleStudent)
	tutor := auth.RequireRole(model.RoleTutor)
	admin := auth.RequireRole(model.RoleAdmin)

	// Auth
	authLimit := limiters.Auth.Middleware()
	api.POST("/auth/register", h.Auth.Register, authLimit)
	api.POST("/auth/login", h.Auth.Login, authLimit)
	api.GET("/auth/me", h.Auth.Me, requireAuth)
	api.POST("/auth/logout", h.Auth.Logout, requireAuth)

	// Tutors. Static segments are registered before /:id.
	api.GET("/tutors", h.Tutor.ListTutors)
	api.PUT("/tutors/profile", h.Tutor.UpdateProfile, requireAuth, tutor)
	api.GET("/tutors/me/bookings", h.Tutor.MyBookings, requireAuth, tutor)
	api.GET("/tutors/:id", h.Tutor.GetTutor)

	// Categories
	api.GET("/categories", h.Category.ListCategories)
	api.GET("/categories/:id", h.Category.GetCategory)
	api.POST("/categories", h.Category.CreateCategory, requireAuth, admin)
	api.PUT("/categories/:id", h.Category.UpdateCategory, requireAuth, admin)
	api.DELETE("/categories/:id", h.Category.DeleteCategory, requireAuth, admin)

	// Bookings
	bookings := api.Group("/bookings", requireAuth)
	bookings.POST("", h.Booking.CreateBooking, student)
	bookings.GET("", h.Booking.ListBookings)
	bookings.GET("/:id", h.Booking.GetBooking)
	bookings.PATCH("/:id", h.Booking.UpdateStatus)
	bookings.DELETE("/:id", h.Booking.CancelBooking)

	// Reviews
	api.GET("/reviews/tutor/:tutorId", h.Review.ListTutorReviews)
	api.GET("/reviews/:id", h.Review.GetReview)
	api.POST("/reviews", h.Review.CreateReview, requireAuth, student)
	api.PUT("/reviews/:id", h.Review.UpdateReview, requireAuth, student)
	api.DELETE("/reviews/:id", h.Review.DeleteReview, requireAuth, student)

	// Availability
	availability := api.Group("/availability", requireAuth, tutor)
	availability.GET("", h.Availability.ListSlots)
	availability.POST("", h.Availability.AddSlot)
	availability.DELETE("/:id", h.Availability.DeleteSlot)

	// Admin
	adminGroup := api.Group("/admin", requireAuth, admin)
	adminGroup.GET("/dashboard", h.Admin.Dashboard)
	adminGroup.GET("/users", h.Admin.ListUsers)
	adminGroup.GET("/users/:id", h.Admin.GetUser)
	adminGroup.PATCH("/users/:id", h.Admin.SetUserActive)
	adminGroup.DELETE("/users/:id", h.Admin.DeleteUser)
	adminGroup.GET("/bookings", h.Admin.ListBookings)
}
