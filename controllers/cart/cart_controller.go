package cartController

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"savora-api/configs"
	"savora-api/models"
	"savora-api/responses"
)

var userCollection *mongo.Collection = configs.GetCollection(configs.DB, "users")
var productCollection *mongo.Collection = configs.GetCollection(configs.DB, "products")

var validate = validator.New()

type AddToCartRequest struct {
	ProductID string `json:"id" validate:"required"`
	Variant   string `json:"variant"`
	Quantity  int    `json:"quantity" validate:"omitempty,min=1"`
}

func currentUser(c *fiber.Ctx) (primitive.ObjectID, error) {
	userId, ok := c.Locals("userId").(string)
	if !ok || userId == "" {
		return primitive.NilObjectID, errors.New("user ID not found in token")
	}
	return primitive.ObjectIDFromHex(userId)
}

// AddToCart puts one unit (or the requested quantity) of a product variant
// into the cart, merging with an existing line for the same product+variant.
func AddToCart(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	userObjectID, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(responses.UserResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "User ID not found in token",
			Result:  nil,
		})
	}

	var request AddToCartRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request",
			Result:  nil,
		})
	}
	if err := validate.Struct(request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request: " + err.Error(),
			Result:  nil,
		})
	}
	if request.Quantity == 0 {
		request.Quantity = 1
	}

	productID, err := primitive.ObjectIDFromHex(request.ProductID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid product Id",
			Result:  nil,
		})
	}

	var product models.Product
	if err := productCollection.FindOne(ctx, bson.M{"_id": productID}).Decode(&product); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return c.Status(fiber.StatusNotFound).JSON(responses.UserResponse{
				Status:  fiber.StatusNotFound,
				Message: "Product not found",
				Result:  nil,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Error fetching product details",
			Result:  nil,
		})
	}

	// resolve unit price: variants carry their own price
	unitPrice := product.EffectivePrice()
	if request.Variant != "" {
		found := false
		for _, v := range product.Variants {
			if v.Name == request.Variant {
				unitPrice = v.Price
				found = true
				break
			}
		}
		if !found {
			return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
				Status:  fiber.StatusBadRequest,
				Message: "Unknown product variant",
				Result:  nil,
			})
		}
	}

	var user models.User
	if err := userCollection.FindOne(ctx, bson.M{"_id": userObjectID}).Decode(&user); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Error fetching user",
			Result:  nil,
		})
	}

	merged := false
	for i, item := range user.Cart {
		if item.ProductID == productID && item.Variant == request.Variant {
			user.Cart[i].Quantity += request.Quantity
			merged = true
			break
		}
	}
	if !merged {
		user.Cart = append(user.Cart, models.CartItem{
			ProductID: productID,
			Name:      product.Name,
			Variant:   request.Variant,
			UnitPrice: unitPrice,
			Quantity:  request.Quantity,
		})
	}

	if _, err := userCollection.UpdateOne(ctx,
		bson.M{"_id": userObjectID},
		bson.M{"$set": bson.M{"cart": user.Cart}},
	); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Error updating cart",
			Result:  nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "Added to cart",
		Result:  &fiber.Map{"cart": user.Cart},
	})
}

type cartLineRequest struct {
	ProductID string `json:"id" validate:"required"`
	Variant   string `json:"variant"`
}

// DecrementFromCart reduces a line by one, dropping it at zero.
func DecrementFromCart(c *fiber.Ctx) error {
	return adjustCart(c, func(cart []models.CartItem, productID primitive.ObjectID, variant string) []models.CartItem {
		out := cart[:0]
		for _, item := range cart {
			if item.ProductID == productID && item.Variant == variant {
				item.Quantity--
				if item.Quantity <= 0 {
					continue
				}
			}
			out = append(out, item)
		}
		return out
	})
}

// RemoveFromCart drops a line entirely.
func RemoveFromCart(c *fiber.Ctx) error {
	return adjustCart(c, func(cart []models.CartItem, productID primitive.ObjectID, variant string) []models.CartItem {
		out := cart[:0]
		for _, item := range cart {
			if item.ProductID == productID && item.Variant == variant {
				continue
			}
			out = append(out, item)
		}
		return out
	})
}

func adjustCart(c *fiber.Ctx, apply func([]models.CartItem, primitive.ObjectID, string) []models.CartItem) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	userObjectID, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(responses.UserResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "User ID not found in token",
			Result:  nil,
		})
	}

	var request cartLineRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request",
			Result:  nil,
		})
	}

	productID, err := primitive.ObjectIDFromHex(request.ProductID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid product Id",
			Result:  nil,
		})
	}

	var user models.User
	if err := userCollection.FindOne(ctx, bson.M{"_id": userObjectID}).Decode(&user); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Error fetching user",
			Result:  nil,
		})
	}

	user.Cart = apply(user.Cart, productID, request.Variant)

	if _, err := userCollection.UpdateOne(ctx,
		bson.M{"_id": userObjectID},
		bson.M{"$set": bson.M{"cart": user.Cart}},
	); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Error updating cart",
			Result:  nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "Cart updated",
		Result:  &fiber.Map{"cart": user.Cart},
	})
}

// GetCartItems returns the raw cart lines.
func GetCartItems(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	userObjectID, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(responses.UserResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "User ID not found in token",
			Result:  nil,
		})
	}

	var user models.User
	if err := userCollection.FindOne(ctx, bson.M{"_id": userObjectID}).Decode(&user); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Error fetching cart",
			Result:  nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "Cart fetched successfully",
		Result:  &fiber.Map{"cart": user.Cart},
	})
}

// GetCartTotals computes subtotal, flat shipping and total for the checkout
// summary. Shipping is free above the threshold.
func GetCartTotals(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	userObjectID, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(responses.UserResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "User ID not found in token",
			Result:  nil,
		})
	}

	var user models.User
	if err := userCollection.FindOne(ctx, bson.M{"_id": userObjectID}).Decode(&user); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Error fetching cart",
			Result:  nil,
		})
	}

	const freeShippingAbove = 500.0
	const flatShipping = 40.0

	var subtotal float64
	var itemCount int
	for _, item := range user.Cart {
		subtotal += item.UnitPrice * float64(item.Quantity)
		itemCount += item.Quantity
	}

	shipping := flatShipping
	if subtotal >= freeShippingAbove || subtotal == 0 {
		shipping = 0
	}

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "Cart totals computed",
		Result: &fiber.Map{
			"subtotal":  subtotal,
			"shipping":  shipping,
			"total":     subtotal + shipping,
			"itemCount": itemCount,
		},
	})
}
