package router

import (
	"github.com/labstack/echo/v4"

	"github.com/ciclored/ciclored-api/internal/handler"
)

// RegisterAuth registers registration and login, which only pass the rate
// limiter, and /me, which requires a token.
func RegisterAuth(g *echo.Group, a *handler.AuthHandler, limit echo.MiddlewareFunc, protected []echo.MiddlewareFunc) {
	g.POST("/register", a.Register, limit)
	g.POST("/login", a.Login, limit)
	g.GET("/me", a.Me, protected...)
}
