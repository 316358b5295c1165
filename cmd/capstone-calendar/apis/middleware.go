package apis

import (
	"capstone-calendar-backend/cmd/capstone-calendar/apperr"
	"capstone-calendar-backend/cmd/capstone-calendar/model"
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

const accessTokenCookie = "accessToken"

type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*model.User, error)
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if cookie, err := c.Cookie(accessTokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}

// JWTAuth accepts an access token from the Authorization header or the
// accessToken cookie and stores the user id on the context.
func JWTAuth(authn Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c)
			if token == "" {
				return errorResponse(c, apperr.Unauthorized("missing access token"))
			}

			user, err := authn.Authenticate(c.Request().Context(), token)
			if err != nil {
				return errorResponse(c, err)
			}

			c.Set(userIDKey, user.ID)
			return next(c)
		}
	}
}

// RequestLogger logs one line per request, at Error for 5xx and Warn for 4xx.
func RequestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			status := c.Response().Status
			fields := []zap.Field{
				zap.Int("status", status),
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.String("query", req.URL.RawQuery),
				zap.String("ip", c.RealIP()),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
				zap.Duration("latency", time.Since(start)),
			}
			if err == nil {
				err, _ = c.Get(handlerErrorKey).(error)
			}
			if err != nil {
				fields = append(fields, zap.Error(err))
			}

			switch {
			case status >= http.StatusInternalServerError:
				logger.Error("request failed", fields...)
			case status >= http.StatusBadRequest:
				logger.Warn("client error", fields...)
			default:
				logger.Info("request completed", fields...)
			}

			return nil
		}
	}
}

// RateLimit limits requests per client IP using store.
func RateLimit(store middleware.RateLimiterStore) echo.MiddlewareFunc {
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(
				http.StatusForbidden,
				model.BaseResponse{
					Message: "could not identify client",
				},
			)
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.JSON(
				http.StatusTooManyRequests,
				model.BaseResponse{
					Message: "too many requests, please try again later",
				},
			)
		},
	})
}
