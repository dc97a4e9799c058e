package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ciclored/ciclored-api/internal/utils"
)

// RequestLogger logs one line per request and records request metrics.
// The route template (c.Path) is used as the metric label so ids in the
// URL do not explode cardinality.
func RequestLogger(log *zap.Logger, m *utils.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req, res := c.Request(), c.Response()
			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			elapsed := time.Since(start)

			if m != nil {
				m.ReqCount.WithLabelValues(req.Method, path, strconv.Itoa(res.Status)).Inc()
				m.ReqDuration.WithLabelValues(req.Method, path).Observe(elapsed.Seconds())
			}

			fields := []zap.Field{
				zap.String("request_id", res.Header().Get(echo.HeaderXRequestID)),
				zap.String("method", req.Method),
				zap.String("uri", req.RequestURI),
				zap.Int("status", res.Status),
				zap.Duration("latency", elapsed),
				zap.String("remote_ip", c.RealIP()),
			}
			if uid, ok := UserID(c); ok {
				fields = append(fields, zap.Uint64("user_id", uid))
			}
			switch {
			case res.Status >= 500:
				log.Error("request", fields...)
			case res.Status >= 400:
				log.Info("request", fields...)
			default:
				log.Debug("request", fields...)
			}
			return nil
		}
	}
}
