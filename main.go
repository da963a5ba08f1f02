package main

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"savora-api/configs"
	"savora-api/livequery"
	"savora-api/routes"
)

func main() {
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

	app := fiber.New()

	// surface document-store permission failures independent of whichever
	// subscriber tripped them
	go func() {
		for err := range livequery.PermissionEvents() {
			log.Error().Err(err).Msg("document store permission error")
		}
	}()

	routes.UserRoute(app)
	routes.ProductsRoute(app)
	routes.CartRoutes(app)
	routes.AccountRoute(app)
	routes.AddressRoutes(app)
	routes.OrderRoutes(app)
	routes.VendorRoutes(app)
	routes.AdminRoutes(app)
	routes.ReviewRoutes(app)
	routes.ChatRoutes(app)

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "time": time.Now()})
	})

	addr := ":" + configs.EnvPort()
	log.Info().Str("addr", addr).Msg("starting savora api")
	if err := app.Listen(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
