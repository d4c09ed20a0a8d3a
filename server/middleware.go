package server

import (
	"time"

	"github.com/existflow/pintask/internal/logger"
	"github.com/labstack/echo/v4"
)

// requestLogger logs each finished request. Health probes only log at debug.
func requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		began := time.Now()
		err := next(c)

		req, res := c.Request(), c.Response()
		fields := []logger.Field{
			logger.F("id", res.Header().Get(echo.HeaderXRequestID)),
			logger.F("method", req.Method),
			logger.F("path", c.Path()),
			logger.F("status", res.Status),
			logger.F("bytes", res.Size),
			logger.F("took", time.Since(began).String()),
		}
		if err != nil {
			fields = append(fields, logger.F("error", err))
		}

		if c.Path() == "/health" {
			logger.Debug("Request served", fields...)
		} else {
			logger.Info("Request served", fields...)
		}
		return err
	}
}
