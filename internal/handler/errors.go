package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ciclored/ciclored-api/internal/middleware"
	"github.com/ciclored/ciclored-api/internal/model"
	"github.com/ciclored/ciclored-api/internal/repository"
	"github.com/ciclored/ciclored-api/internal/utils"
)

// classify maps an error to its HTTP status, public message and metric kind.
func classify(err error) (int, string, string) {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, "validation failed", "validation"
	case errors.Is(err, repository.ErrDuplicateIdentity):
		return http.StatusBadRequest, "email already registered", "duplicate"
	case errors.Is(err, repository.ErrInvalidField):
		return http.StatusBadRequest, "invalid field", "invalid_field"
	case errors.Is(err, repository.ErrInvalidCredential),
		errors.Is(err, errNoIdentity),
		errors.Is(err, utils.ErrInvalidToken),
		errors.Is(err, utils.ErrTokenExpired):
		return http.StatusUnauthorized, "unauthorized", "auth"
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "not found", "not_found"
	case errors.Is(err, repository.ErrInvalidTransition):
		return http.StatusConflict, "invalid status transition", "transition"
	default:
		return http.StatusInternalServerError, "internal error", "internal"
	}
}

// fail writes the JSON error for err.  Server errors are logged with the
// full cause; clients only ever see the generic message.
func (r responder) fail(c echo.Context, op string, err error) error {
	status, msg, kind := classify(err)
	if r.metrics != nil {
		r.metrics.ErrorCount.WithLabelValues(op, kind).Inc()
	}

	if status >= http.StatusInternalServerError {
		fields := []zap.Field{
			zap.String("op", op),
			zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			zap.String("path", c.Request().URL.Path),
			zap.Error(err),
		}
		if uid, ok := middleware.UserID(c); ok {
			fields = append(fields, zap.Uint64("user_id", uid))
		}
		r.log.Error("request failed", fields...)
	}

	body := echo.Map{"error": msg}
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		body["fields"] = verr.Fields
	}
	return c.JSON(status, body)
}
