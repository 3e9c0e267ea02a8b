package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"adminplatform/internal/caching"
	"adminplatform/internal/common"
	"adminplatform/internal/services"
)

// JWTMiddleware validates the bearer token and checks the session is still
// alive in the session store, so logout revokes tokens immediately.
func JWTMiddleware(tokens services.TokenService, sessions caching.SessionStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Falta el token")
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				return echo.NewHTTPError(http.StatusUnauthorized, "Formato de token inválido")
			}

			claims, err := tokens.Validate(tokenString)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Token inválido")
			}

			if _, err := sessions.Get(c.Request().Context(), claims.SessionID); err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Sesión expirada")
			}

			userID, err := claims.UserID()
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Token inválido")
			}

			ctx := context.WithValue(c.Request().Context(), common.UserIDKey, userID)
			ctx = context.WithValue(ctx, common.RolKey, claims.Rol)
			ctx = context.WithValue(ctx, common.SessionIDKey, claims.SessionID)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}
