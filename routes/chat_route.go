package routes

import (
	chatController "savora-api/controllers/chat"

	"github.com/gofiber/fiber/v2"
)

func ChatRoutes(app *fiber.App) {
	app.Post("/api/chat", chatController.Ask)
}
