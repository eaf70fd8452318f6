package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/travigo/journeyplanner/pkg/api/stats"
)

// NewMetrics records every handled query against collector, labelled by route
func NewMetrics(collector *stats.Collector) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if collector == nil {
			return c.Next()
		}

		startTime := time.Now()
		err := c.Next()

		code := c.Response().StatusCode()
		if err != nil {
			code = fiber.StatusInternalServerError
		}

		collector.ObserveQuery(c.Route().Path, statusOutcome(code), time.Since(startTime))

		return err
	}
}

func statusOutcome(code int) string {
	switch {
	case code == fiber.StatusBadRequest:
		return "bad_request"
	case code == fiber.StatusNotFound:
		return "not_found"
	case code == fiber.StatusServiceUnavailable:
		return "unavailable"
	case code >= fiber.StatusInternalServerError:
		return "error"
	default:
		return "ok"
	}
}
