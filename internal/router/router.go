package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"finalexam/internal/auth"
	"finalexam/internal/config"
	"finalexam/internal/handler"
	"finalexam/internal/validate"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	tokens *auth.TokenService,
	gameHandler *handler.GameHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
		AllowHeaders: []string{
			echo.HeaderAuthorization,
			echo.HeaderContentType,
			"X-App-Token",
		},
	}))

	e.Validator = NewValidator()

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// The token middleware runs on every dispatch but never rejects by
	// itself: failures are parked in the context and the dispatcher enforces
	// them per action, since login/register/getLeaderboard are public.
	api.POST("/game", gameHandler.Dispatch, echojwt.WithConfig(echojwt.Config{
		TokenLookup:            "header:X-App-Token,header:Authorization:Bearer ",
		ContinueOnIgnoredError: true,
		ErrorHandler:           handler.StoreAuthError,
		ParseTokenFunc: func(c echo.Context, tokenString string) (interface{}, error) {
			return tokens.Verify(tokenString)
		},
	}))
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator builds the request validator with the game-specific rules
// registered.
func NewValidator() *CustomValidator {
	v := validator.New()
	_ = v.RegisterValidation("game_email", func(fl validator.FieldLevel) bool {
		return validate.IsEmail(fl.Field().String())
	})
	_ = v.RegisterValidation("challenge_code", func(fl validator.FieldLevel) bool {
		return validate.IsChallengeCode(fl.Field().String())
	})
	return &CustomValidator{validator: v}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
