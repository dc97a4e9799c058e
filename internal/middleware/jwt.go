package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ciclored/ciclored-api/internal/utils"
)

// JWTAuth validates the Bearer access token and exposes the caller through
// c.Get(CtxUserID), c.Get(CtxEmail) and the request context.  Requests
// without a valid token never reach next.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			scheme, raw, found := strings.Cut(auth, " ")
			raw = strings.TrimSpace(raw)
			if !found || !strings.EqualFold(scheme, "Bearer") || raw == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}

			claims, err := utils.ParseAccessToken(secret, raw)
			if errors.Is(err, utils.ErrTokenExpired) {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "token expired"})
			}
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			uid, _ := claims.UserID() // checked by ParseAccessToken

			c.Set(CtxUserID, uid)
			c.Set(CtxEmail, claims.Email)
			req := c.Request()
			c.SetRequest(req.WithContext(WithIdentity(req.Context(), Identity{UserID: uid, Email: claims.Email})))
			return next(c)
		}
	}
}
