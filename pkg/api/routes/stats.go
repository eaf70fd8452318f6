package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/travigo/journeyplanner/pkg/api/stats"
)

func (e *Environment) Stats(c *fiber.Ctx) error {
	recordsStats, err := stats.CurrentRecordsStats(e.Timetable)
	if err != nil {
		return sendError(c, err, "")
	}

	return c.JSON(recordsStats)
}
