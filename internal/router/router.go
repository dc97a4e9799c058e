// Package router assembles the echo instance: global middleware, public
// endpoints and the JWT-protected resource routes.
package router

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ciclored/ciclored-api/internal/config"
	"github.com/ciclored/ciclored-api/internal/handler"
	"github.com/ciclored/ciclored-api/internal/middleware"
	"github.com/ciclored/ciclored-api/internal/utils"
)

// APIPrefix is the base path the mobile client uses.  Every route is also
// served from the root.
const APIPrefix = "/api"

// Deps are the collaborators the HTTP layer needs.  Redis and Events may be
// nil; Registry defaults to a fresh registry.
type Deps struct {
	Cfg       config.Config
	DB        handler.Pinger
	Users     handler.UserStore
	Routes    handler.RouteStore
	Incidents handler.IncidentStore
	Profiles  handler.ProfileStore
	Events    handler.EventPublisher
	Redis     *redis.Client
	Log       *zap.Logger
	Registry  *prometheus.Registry
}

// New builds the echo instance with every route registered.
func New(d Deps) *echo.Echo {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Registry == nil {
		d.Registry = prometheus.NewRegistry()
		d.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	metrics := utils.NewMetrics(d.Registry)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = middleware.NewRequestValidator()
	e.Use(
		echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}),
		middleware.RequestLogger(d.Log, metrics),
		middleware.Recover(d.Log),
	)

	RegisterRoutes(e, d.DB, d.Registry)

	auth := handler.NewAuthHandler(d.Users, d.Cfg.JWTSecret, d.Cfg.AccessTTL, d.Log, metrics)
	routes := handler.NewRouteHandler(d.Routes, d.Log, metrics)
	incidents := handler.NewIncidentHandler(d.Incidents, d.Events, d.Log, metrics)
	profiles := handler.NewProfileHandler(d.Profiles, d.Log, metrics)

	limit := middleware.NewTokenBucket(d.Cfg.RateLimit, d.Redis, d.Log)
	protected := []echo.MiddlewareFunc{middleware.JWTAuth(d.Cfg.JWTSecret), limit}

	for _, prefix := range []string{"", APIPrefix} {
		g := e.Group(prefix)
		RegisterAuth(g, auth, limit, protected)
		RegisterResources(g, routes, incidents, profiles, protected)
	}
	return e
}

// RegisterRoutes registers the unauthenticated operational endpoints.
func RegisterRoutes(e *echo.Echo, db handler.Pinger, reg *prometheus.Registry) {
	e.GET("/healthz", handler.Health(db))
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
}
