package http

import (
	"context"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"

	"github.com/spec-kit/subscriber-service/internal/auth"
	"github.com/spec-kit/subscriber-service/internal/observability"
	apperrors "github.com/spec-kit/subscriber-service/pkg/util"
)

// MiddlewareConfig bundles dependencies for global middleware registration.
type MiddlewareConfig struct {
	Logger        *zap.Logger
	Metrics       *observability.Metrics
	Authenticator *auth.Authenticator
	Timeout       time.Duration
	AllowCORS     bool
}

// RegisterMiddlewares attaches global middlewares: CORS (when enabled),
// request timeout, error mapping, request logging and authentication.
func RegisterMiddlewares(app *fiber.App, cfg MiddlewareConfig) {
	if cfg.AllowCORS {
		app.Use(cors.New())
	}
	if cfg.Timeout > 0 {
		app.Use(requestTimeoutMiddleware(cfg.Timeout))
	}
	app.Use(errorHandlingMiddleware(cfg.Logger, cfg.Metrics))
	app.Use(observability.RequestLogger(cfg.Logger, cfg.Metrics))
	app.Use(cfg.Authenticator.Middleware())
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err != nil {
				domainErr := apperrors.ToDomainError(err)
				metrics.RecordError(c.Path(), c.Method(), domainErr.Code)

				response := fiber.Map{"error": fiber.Map{
					"code":    domainErr.Code,
					"message": domainErr.Message,
				}}
				if len(domainErr.Details) > 0 {
					response["error"].(fiber.Map)["details"] = domainErr.Details
				}
				if domainErr.HTTPStatus == http.StatusUnauthorized {
					c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
				}
				if domainErr.HTTPStatus >= 500 {
					logger.Error("request failed", zap.Error(domainErr))
				}
				c.Status(domainErr.HTTPStatus)
				_ = c.JSON(response)
				err = nil
			}
		}()
		return c.Next()
	}
}
