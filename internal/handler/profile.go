package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ciclored/ciclored-api/internal/utils"
)

// ProfileHandler serves the caller's profile, settings and statistics.
type ProfileHandler struct {
	responder
	profiles ProfileStore
}

func NewProfileHandler(profiles ProfileStore, log *zap.Logger, m *utils.Metrics) *ProfileHandler {
	return &ProfileHandler{responder: newResponder(log, m), profiles: profiles}
}

// Get returns the caller's profile merged with account fields and stats.
func (h *ProfileHandler) Get(c echo.Context) error {
	uid, err := getUserID(c) // owner id stored by JWTAuth
	if err != nil {
		return h.fail(c, "get_profile", err)
	}
	ctx, cancel := dbContext(c) // request context capped at dbTimeout
	defer cancel()

	up, err := h.profiles.Get(ctx, uid) // defaults when no profile row exists yet
	if err != nil {
		return h.fail(c, "get_profile", err)
	}
	return c.JSON(http.StatusOK, toProfileResp(up))
}

// Upsert replaces every profile field.  Omitted fields fall back to their
// defaults.
func (h *ProfileHandler) Upsert(c echo.Context) error {
	uid, err := getUserID(c) // owner id stored by JWTAuth
	if err != nil {
		return h.fail(c, "upsert_profile", err)
	}
	var req profileReq
	if ok, err := h.bindAndValidate(c, "upsert_profile", &req); !ok { // response already written on failure
		return err
	}

	ctx, cancel := dbContext(c) // request context capped at dbTimeout
	defer cancel()

	up, err := h.profiles.Upsert(ctx, req.toModel(uid))
	if err != nil {
		return h.fail(c, "upsert_profile", err)
	}
	return c.JSON(http.StatusOK, toProfileResp(up))
}

// PatchSetting sets one of notifications, dark_mode or private_profile.
func (h *ProfileHandler) PatchSetting(c echo.Context) error {
	uid, err := getUserID(c) // owner id stored by JWTAuth
	if err != nil {
		return h.fail(c, "patch_setting", err)
	}
	var req settingReq
	if ok, err := h.bindAndValidate(c, "patch_setting", &req); !ok { // response already written on failure
		return err
	}

	ctx, cancel := dbContext(c) // request context capped at dbTimeout
	defer cancel()

	up, err := h.profiles.PatchSetting(ctx, uid, req.Field, *req.Value) // Value is non-nil after validation
	if err != nil {
		return h.fail(c, "patch_setting", err)
	}
	return c.JSON(http.StatusOK, toProfileResp(up))
}
