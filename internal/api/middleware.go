package api

import (
	"strings"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/dilekiremozbay/2homework/internal/models"
	"github.com/dilekiremozbay/2homework/internal/service"
)

const bearerPrefix = "Bearer "

// AuthorizerMiddleware verifies the bearer access token on protected routes.
// The session cookie resolves the fingerprint recorded at login; tokens
// carrying a fingerprint claim must match it.
func AuthorizerMiddleware(authService *service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractBearerToken(c)
			if token == "" {
				return service.ErrUnauthorized
			}

			var sessionID string
			if cookie, err := c.Cookie(models.SessionCookieName); err == nil {
				sessionID = cookie.Value
			}
			fingerprint := authService.SessionFingerprint(c.Request().Context(), sessionID)

			claims, err := authService.Authorize(c.Request().Context(), token, fingerprint)
			if err != nil {
				return err
			}

			c.Set(models.MwClaimsKey, claims)

			return next(c)
		}
	}
}

func extractBearerToken(c echo.Context) string {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return ""
	}
	return strings.TrimPrefix(authHeader, bearerPrefix)
}

func GetLoggerMiddlewareConfig(a *API) echomiddleware.RequestLoggerConfig {
	return echomiddleware.RequestLoggerConfig{
		LogMethod: true,
		LogURI:    true,
		LogStatus: true,
		LogError:  true,

		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			fields := []interface{}{
				"method", c.Request().Method,
				"uri", v.URI,
				"status", v.Status,
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
				a.log.Errorw("Request", fields...)
			} else {
				a.log.Infow("Request", fields...)
			}
			return nil
		},
	}
}
