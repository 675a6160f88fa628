package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	"carrental/internal/config"
	"carrental/internal/handler"
	appmiddleware "carrental/internal/middleware"
	"carrental/internal/service"
)

// Register wires routes and middleware.
// Guards are always listed before the handler they protect.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authService service.AuthService,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	carHandler *handler.CarHandler,
	rentalHandler *handler.RentalHandler,
) {
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.Secure())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowCredentials: true,
	}))
	e.Use(middleware.BodyLimit("1M"))
	e.Use(rateLimiter(cfg))

	e.Validator = &CustomValidator{validator: validator.New()}
	e.HTTPErrorHandler = NewErrorHandler(cfg)

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")
	session := appmiddleware.Session(authService)
	admin := appmiddleware.RequireAdmin()

	authGroup := api.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/logout", authHandler.Logout)
	authGroup.GET("/me", authHandler.Me, session)

	cars := api.Group("/cars")
	cars.GET("/getAllCars", carHandler.ListCars)
	cars.GET("/getCarById/:id", carHandler.GetCar)
	cars.POST("/addCar", carHandler.AddCar, session, admin)
	cars.PUT("/updateCar/:id", carHandler.UpdateCar, session, admin)
	cars.DELETE("/deleteCar/:id", carHandler.DeleteCar, session, admin)

	rentals := api.Group("/rentals", session)
	rentals.GET("/getAllRentals", rentalHandler.ListRentals)
	rentals.GET("/getRentalById/:id", rentalHandler.GetRental)
	rentals.POST("/createRental", rentalHandler.CreateRental)
	rentals.PATCH("/updateRental/:id", rentalHandler.UpdateRental, admin)
	rentals.PATCH("/getRentalStatus/:id/status", rentalHandler.UpdateRentalStatus, admin)
	rentals.DELETE("/deleteRental/:id", rentalHandler.DeleteRental, admin)

	users := api.Group("/users", session)
	users.GET("/getAllUsers", userHandler.ListUsers, admin)
	users.GET("/getUserById/:id", userHandler.GetUser)
	users.PUT("/updateTheme", userHandler.UpdateTheme)
	users.PUT("/updateUser/:id", userHandler.UpdateUser, admin)
	users.DELETE("/deleteUser/:id", userHandler.DeleteUser, admin)
	users.GET("/getUserCount", userHandler.GetUserCount, admin)
	users.GET("/getAdminCount", userHandler.GetAdminCount, admin)
	users.GET("/getRegularUserCount", userHandler.GetRegularUserCount, admin)
}

// rateLimiter allows RateLimitMax requests per RateLimitWindow for each client IP.
func rateLimiter(cfg *config.Config) echo.MiddlewareFunc {
	if cfg.RateLimitMax <= 0 || cfg.RateLimitWindow <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}

	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(float64(cfg.RateLimitMax) / cfg.RateLimitWindow.Seconds()),
		Burst:     cfg.RateLimitMax,
		ExpiresIn: cfg.RateLimitWindow,
	})
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/healthz"
		},
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests, please try again later")
		},
	})
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
