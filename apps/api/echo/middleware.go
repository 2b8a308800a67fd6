package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

func supervisorMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if claims.IsSupervisor {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

func headMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if claims.IsHead {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}
