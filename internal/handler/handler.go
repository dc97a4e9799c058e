// Package handler translates HTTP requests into repository calls and maps
// their results and errors back to JSON responses.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ciclored/ciclored-api/internal/middleware"
	"github.com/ciclored/ciclored-api/internal/model"
	"github.com/ciclored/ciclored-api/internal/queue"
	"github.com/ciclored/ciclored-api/internal/utils"
)

// dbTimeout bounds the store work of a single request.
const dbTimeout = 5 * time.Second

// UserStore is implemented by repository.UserRepo.
type UserStore interface {
	Register(ctx context.Context, in model.NewUser) (*model.User, error)
	Verify(ctx context.Context, email, password string) (*model.User, error)
	GetByID(ctx context.Context, id uint64) (*model.User, error)
}

// RouteStore is implemented by repository.RouteRepo.
type RouteStore interface {
	ListByOwner(ctx context.Context, ownerID uint64) ([]*model.Route, error)
	Create(ctx context.Context, rt *model.Route) error
	DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) error
}

// IncidentStore is implemented by repository.IncidentRepo.
type IncidentStore interface {
	ListByOwner(ctx context.Context, ownerID uint64) ([]*model.Incident, error)
	Create(ctx context.Context, inc *model.Incident) error
	IncrementReports(ctx context.Context, id, ownerID uint64) (*model.Incident, error)
	SetStatus(ctx context.Context, id, ownerID uint64, status string) (*model.Incident, error)
	DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) error
}

// ProfileStore is implemented by repository.ProfileRepo.
type ProfileStore interface {
	Get(ctx context.Context, userID uint64) (*model.UserProfile, error)
	Upsert(ctx context.Context, p *model.Profile) (*model.UserProfile, error)
	PatchSetting(ctx context.Context, userID uint64, name string, value bool) (*model.UserProfile, error)
}

// EventPublisher is implemented by service.AMQPPublisher and
// service.NopPublisher.
type EventPublisher interface {
	PublishIncident(ctx context.Context, ev queue.IncidentEvent) error
}

// errNoIdentity means a protected handler was reached without JWTAuth.
var errNoIdentity = errors.New("missing user identity")

// responder carries the logger and metrics every handler reports errors to.
type responder struct {
	log     *zap.Logger
	metrics *utils.Metrics
}

func newResponder(log *zap.Logger, m *utils.Metrics) responder {
	if log == nil {
		log = zap.NewNop()
	}
	return responder{log: log, metrics: m}
}

// getUserID returns the authenticated caller set by JWTAuth.
func getUserID(c echo.Context) (uint64, error) {
	id, ok := middleware.UserID(c)
	if !ok {
		return 0, errNoIdentity
	}
	return id, nil
}

// parseID reads the positive numeric :id path parameter.
func parseID(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}

// bindAndValidate decodes the body into req and runs the echo validator.
// A false return means the response has already been written.
func (r responder) bindAndValidate(c echo.Context, op string, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(req); err != nil {
		return false, r.fail(c, op, err)
	}
	return true, nil
}

func dbContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}
