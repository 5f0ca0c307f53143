package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Logging writes a structured line for each HTTP request and exposes a
// request-scoped logger through LoggerFromContext.
func Logging(log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			rid, _ := c.Get(ContextKeyRequestID).(string)
			reqLog := log.With().Str("request_id", rid).Logger()
			req := c.Request()
			c.SetRequest(req.WithContext(reqLog.WithContext(req.Context())))

			err := next(c)
			latency := time.Since(start)

			if err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			event := log.Info()
			switch {
			case status >= 500:
				event = log.Error().Err(err)
			case status >= 400:
				event = log.Warn()
			}

			event.
				Str("request_id", rid).
				Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Int("status", status).
				Dur("latency", latency).
				Msg("http request")

			return err
		}
	}
}

// LoggerFromContext returns the logger installed by Logging, or a disabled one.
func LoggerFromContext(c echo.Context) *zerolog.Logger {
	return zerolog.Ctx(c.Request().Context())
}
