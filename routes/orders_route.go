package routes

import (
	orderController "savora-api/controllers/orders"
	"savora-api/middlewares"

	"github.com/gofiber/fiber/v2"
)

func OrderRoutes(app *fiber.App) {
	// single authenticated payment path; there is no unauthenticated twin
	app.Post("/api/razorpay/create-order", middlewares.AuthMiddleware, orderController.CreateOrder)
	app.Post("/api/razorpay/verify-payment", middlewares.AuthMiddleware, orderController.VerifyPayment)

	app.Post("/api/orders/cod", middlewares.AuthMiddleware, orderController.CreateCodOrder)
	app.Get("/api/orders", middlewares.AuthMiddleware, orderController.GetOrders)
	app.Get("/api/orders/detail", middlewares.AuthMiddleware, orderController.GetOrderById)
}
