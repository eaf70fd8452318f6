package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// NewLogger logs one line per request with the matched route, the city queried and the query outcome.
// Handler errors are written out through the app's error handler first so the logged status is the one sent.
func NewLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		startTime := time.Now()
		err := c.Next()

		if err != nil {
			if handlerErr := c.App().Config().ErrorHandler(c, err); handlerErr != nil {
				c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		code := c.Response().StatusCode()
		outcome := statusOutcome(code)

		ipAddress := c.IP()
		if cloudflareConnectingIP := c.Get("CF-Connecting-IP", ""); cloudflareConnectingIP != "" {
			ipAddress = cloudflareConnectingIP
		}

		event := requestEvent(code).
			Int("status", code).
			Str("outcome", outcome).
			Str("method", c.Method()).
			Str("route", c.Route().Path).
			Str("path", c.Path()).
			Str("ip", ipAddress).
			Dur("latency", time.Since(startTime))

		if city := c.Params("city"); city != "" {
			event = event.Str("city", city)
		}
		if query := c.Context().QueryArgs().String(); query != "" {
			event = event.Str("query", query)
		}
		if err != nil {
			event = event.Err(err)
		}

		event.Msg("HTTP Request")

		return nil
	}
}

func requestEvent(code int) *zerolog.Event {
	switch {
	case code >= fiber.StatusInternalServerError:
		return log.Error()
	case code >= fiber.StatusBadRequest:
		return log.Warn()
	default:
		return log.Info()
	}
}
