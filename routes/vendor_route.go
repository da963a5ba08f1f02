package routes

import (
	vendorController "savora-api/controllers/vendors"
	"savora-api/middlewares"

	"github.com/gofiber/fiber/v2"
)

func VendorRoutes(app *fiber.App) {
	app.Post("/api/vendor/apply", middlewares.AuthMiddleware, vendorController.Apply)
	app.Get("/api/vendor/me", middlewares.AuthMiddleware, vendorController.GetMyVendor)
	app.Get("/api/vendor/price", middlewares.AuthMiddleware, vendorController.PriceQuote)

	app.Get("/api/admin/vendors", middlewares.AuthMiddleware, middlewares.AdminMiddleware, vendorController.ListVendors)
	app.Put("/api/admin/vendors/status", middlewares.AuthMiddleware, middlewares.AdminMiddleware, vendorController.SetStatus)
	app.Put("/api/admin/vendors/discounts", middlewares.AuthMiddleware, middlewares.AdminMiddleware, vendorController.UpdateDiscounts)
	app.Get("/api/admin/vendors/history", middlewares.AuthMiddleware, middlewares.AdminMiddleware, vendorController.ListHistory)
}
