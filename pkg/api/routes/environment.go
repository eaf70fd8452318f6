package routes

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/travigo/journeyplanner/pkg/api/stats"
	"github.com/travigo/journeyplanner/pkg/config"
	"github.com/travigo/journeyplanner/pkg/ctdf"
	"github.com/travigo/journeyplanner/pkg/dataaggregator"
	"github.com/travigo/journeyplanner/pkg/timetable"
)

// Environment is what the route handlers query against
type Environment struct {
	Config     *config.Config
	Timetable  *timetable.Holder
	Aggregator *dataaggregator.Aggregator
	Metrics    *stats.Collector
}

const coordinatesError = "start_coordinates and end_coordinates are required in 'lat,lon' format"
const coordinatesExample = "51.1079,17.0385"

func parseCoordinates(value string) (ctdf.Location, bool) {
	location, err := ctdf.ParseLocation(value)
	return location, err == nil
}

// parseStartTime accepts RFC3339 instants. Values without an offset are read in the configured timezone.
func parseStartTime(value string, location *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)

	if startTime, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return startTime, nil
	}

	startTime, err := time.ParseInLocation("2006-01-02T15:04:05", value, location)
	if err != nil {
		return time.Time{}, &ctdf.InputError{Parameter: "start_time", Reason: "must be an ISO-8601 datetime"}
	}

	return startTime, nil
}

// queryOutcome is the metrics label for the result of a query
func queryOutcome(err error) string {
	var inputError *ctdf.InputError
	var collaboratorError *ctdf.CollaboratorError

	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &inputError):
		return "bad_request"
	case errors.Is(err, ctdf.ErrNotFound):
		return "not_found"
	case errors.As(err, &collaboratorError), errors.Is(err, context.DeadlineExceeded):
		return "unavailable"
	default:
		return "error"
	}
}

// sendError writes the most specific status available for err
func sendError(c *fiber.Ctx, err error, notFoundMessage string) error {
	switch queryOutcome(err) {
	case "bad_request":
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	case "not_found":
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": notFoundMessage,
		})
	case "unavailable":
		log.Error().Err(err).Str("path", c.Path()).Msg("Timetable unavailable")

		c.SendStatus(fiber.StatusServiceUnavailable)
		return c.JSON(fiber.Map{
			"error": "Service Unavailable",
		})
	default:
		log.Error().Err(err).Str("path", c.Path()).Msg("Query failed")

		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Internal Server Error",
		})
	}
}
