package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ciclored/ciclored-api/internal/utils"
)

// RouteHandler serves the caller's cycling routes.
type RouteHandler struct {
	responder
	routes RouteStore
}

func NewRouteHandler(routes RouteStore, log *zap.Logger, m *utils.Metrics) *RouteHandler {
	return &RouteHandler{responder: newResponder(log, m), routes: routes}
}

// List returns the caller's routes, newest first.
func (h *RouteHandler) List(c echo.Context) error {
	uid, err := getUserID(c) // owner id stored by JWTAuth
	if err != nil {
		return h.fail(c, "list_routes", err)
	}
	ctx, cancel := dbContext(c) // request context capped at dbTimeout
	defer cancel()

	routes, err := h.routes.ListByOwner(ctx, uid)
	if err != nil {
		return h.fail(c, "list_routes", err)
	}
	return c.JSON(http.StatusOK, mapSlice(routes, toRouteResp))
}

// Create stores a traced route.  Difficulty, duration and elevation in the
// body are ignored; they are derived from the distance.
func (h *RouteHandler) Create(c echo.Context) error {
	uid, err := getUserID(c) // owner id stored by JWTAuth
	if err != nil {
		return h.fail(c, "create_route", err)
	}
	var req routeReq
	if ok, err := h.bindAndValidate(c, "create_route", &req); !ok { // response already written on failure
		return err
	}

	ctx, cancel := dbContext(c) // request context capped at dbTimeout
	defer cancel()

	rt := req.toModel(uid) // client-sent derived fields are dropped here
	if err := h.routes.Create(ctx, rt); err != nil { // validates, derives and fills id/created_at
		return h.fail(c, "create_route", err)
	}
	return c.JSON(http.StatusCreated, toRouteResp(rt))
}

// Delete removes one of the caller's routes.  Missing or foreign ids still
// answer 200.
func (h *RouteHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c) // owner id stored by JWTAuth
	if err != nil {
		return h.fail(c, "delete_route", err)
	}
	id, ok := parseID(c) // numeric :id from the path
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := dbContext(c) // request context capped at dbTimeout
	defer cancel()

	if err := h.routes.DeleteByIDAndOwner(ctx, id, uid); err != nil {
		return h.fail(c, "delete_route", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "route deleted"})
}
