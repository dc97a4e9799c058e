package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ciclored/ciclored-api/internal/model"
	"github.com/ciclored/ciclored-api/internal/queue"
	"github.com/ciclored/ciclored-api/internal/utils"
)

const publishTimeout = 2 * time.Second

// IncidentHandler serves road incident reports and publishes their
// lifecycle events.
type IncidentHandler struct {
	responder
	incidents IncidentStore
	events    EventPublisher
}

func NewIncidentHandler(incidents IncidentStore, events EventPublisher, log *zap.Logger, m *utils.Metrics) *IncidentHandler {
	return &IncidentHandler{responder: newResponder(log, m), incidents: incidents, events: events}
}

// List returns the caller's incidents, newest first, with their current
// severity.
func (h *IncidentHandler) List(c echo.Context) error {
	uid, err := getUserID(c) // owner id stored by JWTAuth
	if err != nil {
		return h.fail(c, "list_incidents", err)
	}
	ctx, cancel := dbContext(c) // request context capped at dbTimeout
	defer cancel()

	incs, err := h.incidents.ListByOwner(ctx, uid)
	if err != nil {
		return h.fail(c, "list_incidents", err)
	}
	return c.JSON(http.StatusOK, mapSlice(incs, toIncidentResp))
}

// Create stores a new incident for the caller and announces it.
func (h *IncidentHandler) Create(c echo.Context) error {
	uid, err := getUserID(c) // owner id stored by JWTAuth
	if err != nil {
		return h.fail(c, "create_incident", err)
	}
	var req incidentReq
	if ok, err := h.bindAndValidate(c, "create_incident", &req); !ok { // response already written on failure
		return err
	}

	ctx, cancel := dbContext(c) // request context capped at dbTimeout
	defer cancel()

	inc := req.toModel(uid) // reports and status are set by the repository, not the client
	if err := h.incidents.Create(ctx, inc); err != nil {
		return h.fail(c, "create_incident", err)
	}
	h.publish(c, queue.EventIncidentCreated, inc)
	return c.JSON(http.StatusCreated, toIncidentResp(inc))
}

// Report confirms an incident, adding one to its reports counter.
func (h *IncidentHandler) Report(c echo.Context) error {
	uid, err := getUserID(c) // owner id stored by JWTAuth
	if err != nil {
		return h.fail(c, "report_incident", err)
	}
	id, ok := parseID(c) // numeric :id from the path
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := dbContext(c) // request context capped at dbTimeout
	defer cancel()

	inc, err := h.incidents.IncrementReports(ctx, id, uid) // atomic +1, scoped to the owner
	if err != nil {
		return h.fail(c, "report_incident", err)
	}
	h.publish(c, queue.EventIncidentReported, inc)
	return c.JSON(http.StatusOK, toIncidentResp(inc))
}

// SetStatus moves an incident between Activo, Reportado and Atendido.
func (h *IncidentHandler) SetStatus(c echo.Context) error {
	uid, err := getUserID(c) // owner id stored by JWTAuth
	if err != nil {
		return h.fail(c, "set_incident_status", err)
	}
	id, ok := parseID(c) // numeric :id from the path
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req statusReq
	if ok, err := h.bindAndValidate(c, "set_incident_status", &req); !ok { // response already written on failure
		return err
	}

	ctx, cancel := dbContext(c) // request context capped at dbTimeout
	defer cancel()

	inc, err := h.incidents.SetStatus(ctx, id, uid, req.Status) // 409 once Atendido
	if err != nil {
		return h.fail(c, "set_incident_status", err)
	}
	h.publish(c, queue.EventIncidentStatus, inc)
	return c.JSON(http.StatusOK, toIncidentResp(inc))
}

func (h *IncidentHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c) // owner id stored by JWTAuth
	if err != nil {
		return h.fail(c, "delete_incident", err)
	}
	id, ok := parseID(c) // numeric :id from the path
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := dbContext(c) // request context capped at dbTimeout
	defer cancel()

	if err := h.incidents.DeleteByIDAndOwner(ctx, id, uid); err != nil { // absent rows are not an error
		return h.fail(c, "delete_incident", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "incident deleted"})
}

// publish emits the event best-effort.  A broker failure is logged and
// counted but never changes the response.
func (h *IncidentHandler) publish(c echo.Context, typ string, inc *model.Incident) {
	if h.events == nil {
		return
	}
	// detached from the request so a client hanging up does not drop the event
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request().Context()), publishTimeout)
	defer cancel()

	result := "ok"
	if err := h.events.PublishIncident(ctx, queue.NewIncidentEvent(typ, inc)); err != nil {
		result = "failed"
		h.log.Warn("publish incident event failed",
			zap.String("type", typ), zap.Uint64("incident_id", inc.ID), zap.Error(err))
	}
	if h.metrics != nil {
		h.metrics.EventCount.WithLabelValues(typ, result).Inc()
	}
}
