package adminController

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"savora-api/configs"
	"savora-api/events"
	"savora-api/models"
	"savora-api/responses"
)

var orderCollection *mongo.Collection = configs.GetCollection(configs.DB, "orders")

var validate = validator.New()

var orderEvents = events.NewPublisher(configs.NewOrderEventWriter())

// ListOrders returns orders across all users for the back-office console.
func ListOrders(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	page, err := strconv.ParseInt(c.Query("page", "1"), 10, 64)
	if err != nil {
		page = 1
	}
	limit, err := strconv.ParseInt(c.Query("limit", "20"), 10, 64)
	if err != nil {
		limit = 20
	}
	skip := (page - 1) * limit

	filter := bson.M{}
	if status := c.Query("status", ""); status != "" {
		filter["status"] = status
	}

	total, err := orderCollection.CountDocuments(ctx, filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to count orders",
			Result:  nil,
		})
	}

	findOptions := options.Find().
		SetSkip(skip).
		SetLimit(limit).
		SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := orderCollection.Find(ctx, filter, findOptions)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to fetch orders",
			Result:  nil,
		})
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to decode orders",
			Result:  nil,
		})
	}

	totalPages := (total + limit - 1) / limit
	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "Orders fetched successfully",
		Result: &fiber.Map{
			"orders":      orders,
			"currentPage": page,
			"totalPages":  totalPages,
			"totalOrders": total,
		},
	})
}

type StatusUpdateRequest struct {
	OrderID string `json:"orderId" validate:"required"`
	Status  string `json:"status" validate:"required,oneof=pending_payment placed confirmed packed shipped out_for_delivery delivered cancelled"`
	Note    string `json:"note"`
}

// UpdateOrderStatus applies a free transition chosen by the admin and appends
// it to the status history. Concurrent payment verification can race this
// write; the document store's per-field atomic $set keeps the document
// consistent and the last writer wins.
func UpdateOrderStatus(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	adminId, _ := c.Locals("userId").(string)

	var req StatusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Result:  nil,
		})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid status update: " + err.Error(),
			Result:  nil,
		})
	}

	orderObjectID, err := primitive.ObjectIDFromHex(req.OrderID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid order ID format",
			Result:  nil,
		})
	}

	now := time.Now()
	change := models.StatusChange{
		Status:    req.Status,
		ChangedBy: adminId,
		Note:      req.Note,
		ChangedAt: now,
	}

	var order models.Order
	err = orderCollection.FindOneAndUpdate(ctx,
		bson.M{"_id": orderObjectID},
		bson.M{
			"$set":  bson.M{"status": req.Status, "updatedAt": now},
			"$push": bson.M{"statusHistory": change},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return c.Status(fiber.StatusNotFound).JSON(responses.UserResponse{
				Status:  fiber.StatusNotFound,
				Message: "Order not found",
				Result:  nil,
			})
		}
		log.Error().Err(err).Str("orderId", req.OrderID).Msg("admin status update")
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to update order",
			Result:  nil,
		})
	}

	orderEvents.PublishOrderEvent(context.Background(), events.OrderEvent{
		OrderID:     order.ID.Hex(),
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID.Hex(),
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		OccurredAt:  now,
	})

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "Order status updated",
		Result:  &fiber.Map{"order": order},
	})
}
