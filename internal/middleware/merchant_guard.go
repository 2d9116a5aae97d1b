package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"marketplace/internal/domain/model"
)

// Allows only merchants past. Must run after AuthJWT.
func MerchantGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rawRole := c.Get(CtxUserRoleKey)
			role, ok := rawRole.(string)
			if !ok || role == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			if role != string(model.RoleMerchant) {
				return c.JSON(http.StatusForbidden, errorJSON("merchant only"))
			}

			return next(c)
		}
	}
}
