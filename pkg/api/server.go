package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/travigo/journeyplanner/pkg/api/routes"
)

func NewApp(env *routes.Environment) *fiber.App {
	webApp := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})
	webApp.Use(recover.New())
	webApp.Use(NewLogger())

	webApp.Get("/health", routes.Health)
	webApp.Get("/version", routes.APIVersion)
	webApp.Get("/stats", env.Stats)

	if env.Metrics != nil {
		webApp.Get("/metrics", adaptor.HTTPHandler(env.Metrics.Handler()))
	}

	group := webApp.Group("/public_transport/city", NewMetrics(env.Metrics))
	routes.PublicTransportRouter(group, env)

	return webApp
}

func SetupServer(listen string, env *routes.Environment) error {
	return NewApp(env).Listen(listen)
}

func errorHandler(c *fiber.Ctx, err error) error {
	var fiberError *fiber.Error
	if errors.As(err, &fiberError) && fiberError.Code < fiber.StatusInternalServerError {
		c.Status(fiberError.Code)
		return c.JSON(fiber.Map{
			"error": fiberError.Message,
		})
	}

	c.Status(fiber.StatusInternalServerError)
	return c.JSON(fiber.Map{
		"error": "Internal Server Error",
	})
}
