package router

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"cribhub/docs"
	"cribhub/internal/config"
	"cribhub/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	log *zap.Logger,
	healthHandler *handler.HealthHandler,
	userHandler *handler.UserHandler,
	cribHandler *handler.CribHandler,
) {
	e.Use(middleware.RequestID())
	e.Use(requestLogger(log))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit(cfg.MaxUploadSize))

	// Add validator
	e.Validator = NewValidator()

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e.GET("/", healthHandler.Ping)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// User directory
	e.POST("/user/create", userHandler.CreateUser)
	e.PUT("/user/update/:userId", userHandler.UpdateUser)
	e.POST("/user/signin", userHandler.SignIn)
	e.GET("/users", userHandler.ListUsers)
	e.GET("/user/:userId", userHandler.GetUser)
	e.DELETE("/user/:userId", userHandler.DeleteUser)

	// Crib store
	e.POST("/crib/create", cribHandler.CreateCrib)
	e.POST("/crib/join", cribHandler.JoinCrib)
	e.PUT("/crib/update/:cribId", cribHandler.UpdateCrib)
	e.GET("/cribs", cribHandler.ListCribs)
	e.GET("/cribs/user/:userId", cribHandler.ListUserCribs)
	e.GET("/crib/:cribId", cribHandler.GetCrib)
	e.DELETE("/crib/:cribId", cribHandler.DeleteCrib)
	e.PUT("/crib/:cribId/members", cribHandler.AddMembers)
	e.GET("/crib/:cribId/members", cribHandler.ListMembers)
	e.DELETE("/crib/:cribId/member/:memberId", cribHandler.RemoveMember)
	e.POST("/crib/:cribId/message", cribHandler.PostMessage)
}

func requestLogger(log *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			log.Info("request", fields...)
			return nil
		},
	})
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates the request validator.
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
