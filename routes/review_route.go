package routes

import (
	reviewController "savora-api/controllers/reviews"
	"savora-api/middlewares"

	"github.com/gofiber/fiber/v2"
)

func ReviewRoutes(app *fiber.App) {
	app.Post("/api/reviews", middlewares.AuthMiddleware, reviewController.AddReview)
	app.Get("/api/reviews", reviewController.GetProductReviews)
}
