package routes

import (
	controllers "savora-api/controllers/accounts"
	"savora-api/middlewares"

	"github.com/gofiber/fiber/v2"
)

func AccountRoute(app *fiber.App) {
	app.Post("/api/update-profile", middlewares.AuthMiddleware, controllers.UpdateUserProfile)
	app.Get("/api/get-user-profile", middlewares.AuthMiddleware, controllers.GetUserProfile)

	// one-time UI hint flags (has-shown-before boundary)
	app.Get("/api/ui/flags/:name", middlewares.AuthMiddleware, controllers.GetUIFlag)
	app.Post("/api/ui/flags/:name", middlewares.AuthMiddleware, controllers.SetUIFlag)
}
