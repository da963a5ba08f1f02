package routes

import (
	cartController "savora-api/controllers/cart"
	"savora-api/middlewares"

	"github.com/gofiber/fiber/v2"
)

func CartRoutes(app *fiber.App) {
	app.Post("/api/add-to-cart", middlewares.AuthMiddleware, cartController.AddToCart)
	app.Post("/api/remove-from-cart", middlewares.AuthMiddleware, cartController.RemoveFromCart)
	app.Post("/api/decrement-from-cart", middlewares.AuthMiddleware, cartController.DecrementFromCart)
	app.Get("/api/fetchCartItems", middlewares.AuthMiddleware, cartController.GetCartItems)
	app.Get("/api/getCartTotal", middlewares.AuthMiddleware, cartController.GetCartTotals)
}
