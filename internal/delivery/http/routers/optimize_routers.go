package routers

import (
	"image-optimizer/internal/delivery/http/handlers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

func SetupOptimizeRoutes(app *fiber.App, optimizeHandler *handlers.OptimizeHandler) {
	app.Get("/health", handlers.Health)

	// Swagger UI
	app.Get("/swagger/*", swagger.HandlerDefault)

	api := app.Group("/api")
	api.Post("/optimize", optimizeHandler.Optimize)
}
