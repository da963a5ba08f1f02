package controllers

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/razorpay/razorpay-go"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"savora-api/configs"
	"savora-api/events"
	"savora-api/mailer"
	"savora-api/models"
	"savora-api/payments"
	"savora-api/responses"
	"savora-api/sequence"
)

var orderCollection *mongo.Collection = configs.GetCollection(configs.DB, "orders")
var userCollection *mongo.Collection = configs.GetCollection(configs.DB, "users")
var counterCollection *mongo.Collection = configs.GetCollection(configs.DB, "counters")

var razorpayKeyID = configs.EnvRazorpayKeyId()
var razorpayKeySecret = configs.EnvRazorpayKeySecret()

var validate = validator.New()

var orderMailer = mailer.FromEnv()
var orderEvents = events.NewPublisher(configs.NewOrderEventWriter())

// OrderPayload is the client's view of the checkout being paid for.
type OrderPayload struct {
	Items        []models.OrderItem  `json:"items" validate:"required,min=1,dive"`
	ShippingInfo models.ShippingInfo `json:"shippingInfo" validate:"required"`
	Subtotal     float64             `json:"subtotal" validate:"required,gt=0"`
	Shipping     float64             `json:"shipping" validate:"min=0"`
}

// CreateOrderRequest holds the data required to create a payment order.
type CreateOrderRequest struct {
	Amount       float64      `json:"amount" validate:"required,gt=0"`
	Receipt      string       `json:"receipt" validate:"required"`
	OrderPayload OrderPayload `json:"orderPayload" validate:"required"`
}

// VerifyPaymentRequest carries the client-submitted capture confirmation.
// Every field is attacker-controlled.
type VerifyPaymentRequest struct {
	RazorpayOrderID string `json:"razorpay_order_id" validate:"required"`
	PaymentID       string `json:"razorpay_payment_id" validate:"required"`
	Signature       string `json:"razorpay_signature" validate:"required"`
}

// CreateOrder persists the order first, then creates the gateway-side order
// and back-fills its id. If the gateway call fails the order stays
// pending_payment with no gateway id; the customer simply retries checkout
// and the stale record is harmless.
func CreateOrder(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	userId, ok := c.Locals("userId").(string)
	if !ok || userId == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(responses.UserResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "User ID not found in token",
			Result:  nil,
		})
	}

	userObjectID, err := primitive.ObjectIDFromHex(userId)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid user ID format",
			Result:  nil,
		})
	}

	var orderReq CreateOrderRequest
	if err := c.BodyParser(&orderReq); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Result:  nil,
		})
	}
	if err := validate.Struct(orderReq); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid order request: " + err.Error(),
			Result:  nil,
		})
	}

	seq, err := sequence.Next(ctx, counterCollection, "orderNumber")
	if err != nil {
		log.Error().Err(err).Msg("order number sequence")
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to allocate order number",
			Result:  nil,
		})
	}

	now := time.Now()
	order := models.Order{
		ID:            primitive.NewObjectID(),
		OrderNumber:   sequence.Format("SAV", seq),
		UserID:        userObjectID,
		Items:         orderReq.OrderPayload.Items,
		ShippingInfo:  orderReq.OrderPayload.ShippingInfo,
		Subtotal:      orderReq.OrderPayload.Subtotal,
		Shipping:      orderReq.OrderPayload.Shipping,
		TotalAmount:   orderReq.Amount,
		PaymentMethod: models.PaymentMethodRazorpay,
		Status:        models.OrderStatusPendingPayment,
		PaymentStatus: models.PaymentStatusPending,
		StatusHistory: []models.StatusChange{{
			Status:    models.OrderStatusPendingPayment,
			ChangedBy: userId,
			Note:      "checkout submitted, receipt " + orderReq.Receipt,
			ChangedAt: now,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := orderCollection.InsertOne(ctx, order); err != nil {
		log.Error().Err(err).Msg("insert order")
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to create order in database",
			Result:  nil,
		})
	}

	// The gateway receipt is the order's own id: the linkage key for
	// reconciliation.
	client := razorpay.NewClient(razorpayKeyID, razorpayKeySecret)
	data := map[string]interface{}{
		"amount":   payments.ToPaise(orderReq.Amount),
		"currency": "INR",
		"receipt":  order.ID.Hex(),
	}

	razorpayOrder, err := client.Order.Create(data, nil)
	if err != nil {
		// No compensating rollback: the order stays pending_payment without
		// a gateway id and the user retries.
		log.Error().Err(err).Str("orderId", order.ID.Hex()).Msg("razorpay order create failed")
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to create payment order, please retry",
			Result:  nil,
		})
	}

	razorpayOrderID, _ := razorpayOrder["id"].(string)
	_, err = orderCollection.UpdateOne(ctx,
		bson.M{"_id": order.ID},
		bson.M{"$set": bson.M{
			"paymentDetails.razorpayOrderId": razorpayOrderID,
			"updatedAt":                      time.Now(),
		}},
	)
	if err != nil {
		log.Error().Err(err).Str("orderId", order.ID.Hex()).Msg("back-fill gateway order id")
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to link payment order",
			Result:  nil,
		})
	}

	orderEvents.PublishOrderEvent(context.Background(), events.OrderEvent{
		OrderID:     order.ID.Hex(),
		OrderNumber: order.OrderNumber,
		UserID:      userId,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		OccurredAt:  now,
	})

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "Order created successfully",
		Result: &fiber.Map{
			"orderId":     order.ID.Hex(),
			"orderNumber": order.OrderNumber,
			"razorpayId":  razorpayOrderID,
			"amount":      razorpayOrder["amount"],
			"currency":    razorpayOrder["currency"],
			"key_id":      razorpayKeyID,
		},
	})
}

// VerifyPayment recomputes the gateway signature over the client-supplied
// ids, locates the order through the indexed razorpayOrderId field and
// applies the capture transition.
func VerifyPayment(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	var verifyReq VerifyPaymentRequest
	if err := c.BodyParser(&verifyReq); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Result:  nil,
		})
	}
	if err := validate.Struct(verifyReq); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid verification request: " + err.Error(),
			Result:  nil,
		})
	}

	if !payments.VerifySignature(verifyReq.RazorpayOrderID, verifyReq.PaymentID, verifyReq.Signature, razorpayKeySecret) {
		// Mark the failure where the order can be located; never trust the
		// supplied ids beyond that.
		_, err := orderCollection.UpdateOne(ctx,
			bson.M{
				"paymentDetails.razorpayOrderId": verifyReq.RazorpayOrderID,
				"status":                         models.OrderStatusPendingPayment,
			},
			bson.M{"$set": bson.M{
				"paymentStatus": models.PaymentStatusFailed,
				"updatedAt":     time.Now(),
			}},
		)
		if err != nil {
			log.Error().Err(err).Msg("mark payment failed")
		}
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid payment signature",
			Result:  nil,
		})
	}

	// Direct secondary-index lookup; razorpayOrderId is unique per order.
	var order models.Order
	err := orderCollection.FindOne(ctx,
		bson.M{"paymentDetails.razorpayOrderId": verifyReq.RazorpayOrderID},
	).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return c.Status(fiber.StatusNotFound).JSON(responses.UserResponse{
				Status:  fiber.StatusNotFound,
				Message: "No order matches this payment",
				Result:  nil,
			})
		}
		log.Error().Err(err).Msg("lookup order by gateway id")
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to locate order",
			Result:  nil,
		})
	}

	now := time.Now()
	changed, err := payments.ApplyCapture(&order, verifyReq.PaymentID, verifyReq.Signature, now)
	if err != nil {
		status := fiber.StatusConflict
		return c.Status(status).JSON(responses.UserResponse{
			Status:  status,
			Message: err.Error(),
			Result:  &fiber.Map{"orderId": order.ID.Hex()},
		})
	}

	if changed {
		_, err = orderCollection.UpdateOne(ctx,
			bson.M{"_id": order.ID},
			bson.M{"$set": bson.M{
				"status":                   order.Status,
				"paymentStatus":            order.PaymentStatus,
				"paymentDetails.paymentId": order.PaymentDetails.PaymentID,
				"paymentDetails.signature": order.PaymentDetails.Signature,
				"paidAt":                   order.PaidAt,
				"updatedAt":                order.UpdatedAt,
				"statusHistory":            order.StatusHistory,
			}},
		)
		if err != nil {
			log.Error().Err(err).Str("orderId", order.ID.Hex()).Msg("persist capture")
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

		var user models.User
		if err := userCollection.FindOne(ctx, bson.M{"_id": order.UserID}).Decode(&user); err == nil {
			if err := orderMailer.SendOrderConfirmation(user.Email, user.Name, order.OrderNumber, order.TotalAmount); err != nil {
				log.Error().Err(err).Str("orderId", order.ID.Hex()).Msg("order confirmation mail")
			}
		}
	}

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "Payment verified successfully",
		Result: &fiber.Map{
			"success": true,
			"orderId": order.ID.Hex(),
		},
	})
}

// CreateCodOrder places a cash-on-delivery order; no gateway involved, so it
// starts at placed rather than pending_payment.
func CreateCodOrder(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	userId, ok := c.Locals("userId").(string)
	if !ok || userId == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(responses.UserResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "User ID not found in token",
			Result:  nil,
		})
	}
	userObjectID, err := primitive.ObjectIDFromHex(userId)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid user ID format",
			Result:  nil,
		})
	}

	var payload OrderPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Result:  nil,
		})
	}
	if err := validate.Struct(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid order payload: " + err.Error(),
			Result:  nil,
		})
	}

	seq, err := sequence.Next(ctx, counterCollection, "orderNumber")
	if err != nil {
		log.Error().Err(err).Msg("order number sequence")
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to allocate order number",
			Result:  nil,
		})
	}

	now := time.Now()
	order := models.Order{
		ID:            primitive.NewObjectID(),
		OrderNumber:   sequence.Format("SAV", seq),
		UserID:        userObjectID,
		Items:         payload.Items,
		ShippingInfo:  payload.ShippingInfo,
		Subtotal:      payload.Subtotal,
		Shipping:      payload.Shipping,
		TotalAmount:   payload.Subtotal + payload.Shipping,
		PaymentMethod: models.PaymentMethodCOD,
		Status:        models.OrderStatusPlaced,
		PaymentStatus: models.PaymentStatusPending,
		StatusHistory: []models.StatusChange{{
			Status:    models.OrderStatusPlaced,
			ChangedBy: userId,
			Note:      "cash on delivery",
			ChangedAt: now,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := orderCollection.InsertOne(ctx, order); err != nil {
		log.Error().Err(err).Msg("insert cod order")
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to create order in database",
			Result:  nil,
		})
	}

	orderEvents.PublishOrderEvent(context.Background(), events.OrderEvent{
		OrderID:     order.ID.Hex(),
		OrderNumber: order.OrderNumber,
		UserID:      userId,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		OccurredAt:  now,
	})

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "Order placed successfully",
		Result: &fiber.Map{
			"orderId":     order.ID.Hex(),
			"orderNumber": order.OrderNumber,
		},
	})
}

func GetOrders(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	userId, ok := c.Locals("userId").(string)
	if !ok || userId == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(responses.UserResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "User ID not found in token",
			Result:  nil,
		})
	}

	userObjectID, err := primitive.ObjectIDFromHex(userId)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid user ID format",
			Result:  nil,
		})
	}

	page, err := strconv.ParseInt(c.Query("page", "1"), 10, 64)
	if err != nil {
		page = 1
	}
	limit, err := strconv.ParseInt(c.Query("limit", "10"), 10, 64)
	if err != nil {
		limit = 10
	}
	skip := (page - 1) * limit

	filter := bson.M{"userId": userObjectID}
	if status := c.Query("status", ""); status != "" {
		filter["status"] = status
	}

	totalOrders, err := orderCollection.CountDocuments(ctx, filter)
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

	var orders []fiber.Map
	for cursor.Next(ctx) {
		var order models.Order
		if err := cursor.Decode(&order); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
				Status:  fiber.StatusInternalServerError,
				Message: "Failed to decode order",
				Result:  nil,
			})
		}

		orders = append(orders, fiber.Map{
			"id":          order.ID.Hex(),
			"orderNumber": order.OrderNumber,
			"items":       order.Items,
			"status":      order.Status,
			"total":       order.TotalAmount,
			"createdAt":   order.CreatedAt,
		})
	}
	if err := cursor.Err(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Cursor error",
			Result:  nil,
		})
	}

	totalPages := (totalOrders + limit - 1) / limit
	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "Orders fetched successfully",
		Result: &fiber.Map{
			"orders":      orders,
			"currentPage": page,
			"totalPages":  totalPages,
			"totalOrders": totalOrders,
		},
	})
}

func GetOrderById(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	userId, ok := c.Locals("userId").(string)
	if !ok || userId == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(responses.UserResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "User ID not found in token",
			Result:  nil,
		})
	}

	orderId := c.Query("id")
	if orderId == "" {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Order ID is required",
			Result:  nil,
		})
	}

	orderObjectID, err := primitive.ObjectIDFromHex(orderId)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid order ID format",
			Result:  nil,
		})
	}
	userObjectID, err := primitive.ObjectIDFromHex(userId)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid user ID format",
			Result:  nil,
		})
	}

	var order models.Order
	err = orderCollection.FindOne(ctx, bson.M{"_id": orderObjectID, "userId": userObjectID}).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return c.Status(fiber.StatusNotFound).JSON(responses.UserResponse{
				Status:  fiber.StatusNotFound,
				Message: "Order not found",
				Result:  nil,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to fetch order",
			Result:  nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "Order fetched successfully",
		Result:  &fiber.Map{"order": order},
	})
}
