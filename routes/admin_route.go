package routes

import (
	adminController "savora-api/controllers/admin"
	"savora-api/middlewares"

	"github.com/gofiber/fiber/v2"
)

func AdminRoutes(app *fiber.App) {
	app.Get("/api/admin/orders", middlewares.AuthMiddleware, middlewares.AdminMiddleware, adminController.ListOrders)
	app.Get("/api/admin/orders/live", middlewares.AuthMiddleware, middlewares.AdminMiddleware, adminController.StreamOrders)
	app.Put("/api/admin/orders/status", middlewares.AuthMiddleware, middlewares.AdminMiddleware, adminController.UpdateOrderStatus)
}
