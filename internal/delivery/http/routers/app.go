package routers

import (
	"image-optimizer/internal/pkg/config"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// NewApp builds the fiber app with the middleware stack shared by the server and tests.
func NewApp(cfg config.ServerConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "image-optimizer",
		BodyLimit:    int(cfg.BodyLimit),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		JSONEncoder:  sonic.Marshal,
		JSONDecoder:  sonic.Unmarshal,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	return app
}
