package routes

import (
	controllers "savora-api/controllers/products"
	"savora-api/middlewares"

	"github.com/gofiber/fiber/v2"
)

func ProductsRoute(app *fiber.App) {
	app.Get("/api/get-all-products", controllers.GetAllProducts)
	app.Get("/api/search", controllers.SearchProducts)
	app.Get("/api/details", controllers.FetchProductDetails)

	// admin catalog management
	app.Post("/api/admin/add-product", middlewares.AuthMiddleware, middlewares.AdminMiddleware, controllers.AddProduct)
	app.Put("/api/admin/edit-product", middlewares.AuthMiddleware, middlewares.AdminMiddleware, controllers.EditProduct)
	app.Delete("/api/admin/delete-product", middlewares.AuthMiddleware, middlewares.AdminMiddleware, controllers.DeleteProduct)
}
