package router

import (
	"github.com/labstack/echo/v4"

	"github.com/ciclored/ciclored-api/internal/handler"
)

// RegisterResources registers the ownership-scoped endpoints.  Each route
// carries the protected chain itself so no handler is reachable without a
// verified token.
func RegisterResources(g *echo.Group, r *handler.RouteHandler, i *handler.IncidentHandler, p *handler.ProfileHandler, protected []echo.MiddlewareFunc) {
	// ---- Routes ----
	g.GET("/routes", r.List, protected...)
	g.POST("/routes", r.Create, protected...)
	g.DELETE("/routes/:id", r.Delete, protected...)

	// ---- Incidents ----
	g.GET("/incidents", i.List, protected...)
	g.POST("/incidents", i.Create, protected...)
	g.PATCH("/incidents/:id/report", i.Report, protected...)
	g.PATCH("/incidents/:id/status", i.SetStatus, protected...)
	g.DELETE("/incidents/:id", i.Delete, protected...)

	// ---- Profile ----
	g.GET("/profile", p.Get, protected...)
	g.POST("/profile", p.Upsert, protected...)
	g.PATCH("/profile/settings", p.PatchSetting, protected...)
}
