// app/echoServer/middleware.go
package echoServer

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	jwtutil "github.com/jnvillamor/smart-parking-app/util/jwt"
)

func RegisterMiddlewares(e *echo.Echo) {

	e.Use(middleware.Recover())

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return uuid.NewString() },
	}))

	e.Use(Slog())
}

func Slog() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			lat := time.Since(start).Milliseconds()

			rid := c.Response().Header().Get(echo.HeaderXRequestID)
			slog.Info("http",
				"method", c.Request().Method,
				"path", c.Path(),
				"status", c.Response().Status,
				"latency_ms", lat,
				"req_id", rid,
				"ip", c.RealIP(),
				"ua", c.Request().UserAgent(),
			)
			return err
		}
	}
}

// JWTAuth re-reads the bearer token and stashes the principal's
// user_id and role on the context for the handlers.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := jwtutil.ParseAuth(c.Request().Header.Get("Authorization"), secret)
			if err != nil {
				return echo.NewHTTPError(401, "unauthenticated")
			}
			sub, ok := claims["sub"].(float64)
			if !ok {
				return echo.NewHTTPError(401, "unauthenticated")
			}
			role, ok := claims["role"].(string)
			if !ok {
				return echo.NewHTTPError(401, "unauthenticated")
			}
			c.Set("user_id", int64(sub))
			c.Set("role", role)
			return next(c)
		}
	}
}

// AdminOnly runs after the claims middleware and rejects non-admin
// principals.
func AdminOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if role != "admin" {
				return echo.NewHTTPError(403, "admin only")
			}
			return next(c)
		}
	}
}
