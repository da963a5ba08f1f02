package vendorController

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"savora-api/configs"
	"savora-api/models"
	"savora-api/pricing"
	"savora-api/responses"
	"savora-api/sequence"
)

var vendorCollection *mongo.Collection = configs.GetCollection(configs.DB, "vendors")
var historyCollection *mongo.Collection = configs.GetCollection(configs.DB, "vendor_discount_history")
var productCollection *mongo.Collection = configs.GetCollection(configs.DB, "products")
var counterCollection *mongo.Collection = configs.GetCollection(configs.DB, "counters")

var validate = validator.New()

type ApplyRequest struct {
	BusinessName string `json:"businessName" validate:"required"`
	ContactEmail string `json:"contactEmail" validate:"required,email"`
}

// Apply submits a wholesale reseller application. The vendor number comes
// from an atomic counter so concurrent applications never collide.
func Apply(c *fiber.Ctx) error {
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

	var req ApplyRequest
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
			Message: "Invalid application: " + err.Error(),
			Result:  nil,
		})
	}

	// one application per user
	err = vendorCollection.FindOne(ctx, bson.M{"userId": userObjectID}).Err()
	if err == nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "A vendor application already exists for this account",
			Result:  nil,
		})
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Error checking existing application",
			Result:  nil,
		})
	}

	seq, err := sequence.Next(ctx, counterCollection, "vendorNumber")
	if err != nil {
		log.Error().Err(err).Msg("vendor number sequence")
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to allocate vendor number",
			Result:  nil,
		})
	}

	now := time.Now()
	vendor := models.Vendor{
		Id:           primitive.NewObjectID(),
		UserId:       userObjectID,
		VendorNumber: sequence.Format("VND", seq),
		BusinessName: req.BusinessName,
		ContactEmail: req.ContactEmail,
		Status:       models.VendorStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := vendorCollection.InsertOne(ctx, vendor); err != nil {
		log.Error().Err(err).Msg("insert vendor application")
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to save application",
			Result:  nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "Vendor application submitted",
		Result:  &fiber.Map{"vendor": vendor},
	})
}

// GetMyVendor returns the caller's vendor record, whatever its status.
func GetMyVendor(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	userId, _ := c.Locals("userId").(string)
	userObjectID, err := primitive.ObjectIDFromHex(userId)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid user ID format",
			Result:  nil,
		})
	}

	var vendor models.Vendor
	err = vendorCollection.FindOne(ctx, bson.M{"userId": userObjectID}).Decode(&vendor)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return c.Status(fiber.StatusNotFound).JSON(responses.UserResponse{
				Status:  fiber.StatusNotFound,
				Message: "No vendor record for this account",
				Result:  nil,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to fetch vendor",
			Result:  nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "Vendor fetched successfully",
		Result:  &fiber.Map{"vendor": vendor},
	})
}

// PriceQuote computes the effective discount and unit price for an approved
// vendor buying a product at a quantity.
func PriceQuote(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	userId, _ := c.Locals("userId").(string)
	userObjectID, err := primitive.ObjectIDFromHex(userId)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid user ID format",
			Result:  nil,
		})
	}

	productId := c.Query("productId")
	productObjectID, err := primitive.ObjectIDFromHex(productId)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid product ID format",
			Result:  nil,
		})
	}
	quantity := c.QueryInt("quantity", 0)

	var vendor models.Vendor
	err = vendorCollection.FindOne(ctx, bson.M{
		"userId": userObjectID,
		"status": models.VendorStatusApproved,
	}).Decode(&vendor)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return c.Status(fiber.StatusForbidden).JSON(responses.UserResponse{
				Status:  fiber.StatusForbidden,
				Message: "No approved vendor record for this account",
				Result:  nil,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to fetch vendor",
			Result:  nil,
		})
	}

	var product models.Product
	if err := productCollection.FindOne(ctx, bson.M{"_id": productObjectID}).Decode(&product); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return c.Status(fiber.StatusNotFound).JSON(responses.UserResponse{
				Status:  fiber.StatusNotFound,
				Message: "Product not found",
				Result:  nil,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to fetch product",
			Result:  nil,
		})
	}

	var discount, unitPrice float64
	if quantity > 0 {
		discount = pricing.GetVendorDiscount(&vendor, productId, quantity)
		unitPrice = pricing.CalculateVendorPrice(product.EffectivePrice(), &vendor, productId, quantity)
	} else {
		discount = pricing.GetVendorDiscount(&vendor, productId)
		unitPrice = pricing.CalculateVendorPrice(product.EffectivePrice(), &vendor, productId)
	}

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "Quote computed successfully",
		Result: &fiber.Map{
			"productId": productId,
			"quantity":  quantity,
			"discount":  discount,
			"unitPrice": unitPrice,
			"listPrice": product.EffectivePrice(),
		},
	})
}

// ---- admin operations ----

type StatusRequest struct {
	VendorID string `json:"vendorId" validate:"required"`
	Status   string `json:"status" validate:"required,oneof=approved rejected"`
}

// SetStatus approves or rejects an application and records the change in the
// audit trail.
func SetStatus(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	adminId, _ := c.Locals("userId").(string)

	var req StatusRequest
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
			Message: "Invalid status request: " + err.Error(),
			Result:  nil,
		})
	}

	vendorObjectID, err := primitive.ObjectIDFromHex(req.VendorID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid vendor ID format",
			Result:  nil,
		})
	}

	var vendor models.Vendor
	if err := vendorCollection.FindOne(ctx, bson.M{"_id": vendorObjectID}).Decode(&vendor); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return c.Status(fiber.StatusNotFound).JSON(responses.UserResponse{
				Status:  fiber.StatusNotFound,
				Message: "Vendor not found",
				Result:  nil,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to fetch vendor",
			Result:  nil,
		})
	}

	_, err = vendorCollection.UpdateOne(ctx,
		bson.M{"_id": vendorObjectID},
		bson.M{"$set": bson.M{"status": req.Status, "updatedAt": time.Now()}},
	)
	if err != nil {
		log.Error().Err(err).Msg("update vendor status")
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to update vendor",
			Result:  nil,
		})
	}

	appendHistory(ctx, vendorObjectID, models.DiscountChangeStatus, "", vendor.Status, req.Status, adminId)

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "Vendor status updated",
		Result:  &fiber.Map{"vendorId": req.VendorID, "status": req.Status},
	})
}

type DiscountUpdateRequest struct {
	VendorID        string                    `json:"vendorId" validate:"required"`
	DefaultDiscount *float64                  `json:"defaultDiscount" validate:"omitempty,min=0,max=100"`
	ProductID       string                    `json:"productId"`
	ProductDiscount *float64                  `json:"productDiscount" validate:"omitempty,min=0,max=100"`
	BulkTiers       []models.BulkDiscountTier `json:"bulkDiscountTiers" validate:"omitempty,dive"`
}

// UpdateDiscounts mutates one or more discount fields. Every mutation writes
// an immutable history record with previous and new values.
func UpdateDiscounts(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	adminId, _ := c.Locals("userId").(string)

	var req DiscountUpdateRequest
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
			Message: "Invalid discount update: " + err.Error(),
			Result:  nil,
		})
	}
	if req.DefaultDiscount == nil && req.ProductDiscount == nil && req.BulkTiers == nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Nothing to update",
			Result:  nil,
		})
	}
	if req.ProductDiscount != nil && req.ProductID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "productId is required for a product discount",
			Result:  nil,
		})
	}

	vendorObjectID, err := primitive.ObjectIDFromHex(req.VendorID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid vendor ID format",
			Result:  nil,
		})
	}

	var vendor models.Vendor
	if err := vendorCollection.FindOne(ctx, bson.M{"_id": vendorObjectID}).Decode(&vendor); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return c.Status(fiber.StatusNotFound).JSON(responses.UserResponse{
				Status:  fiber.StatusNotFound,
				Message: "Vendor not found",
				Result:  nil,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to fetch vendor",
			Result:  nil,
		})
	}

	set := bson.M{"updatedAt": time.Now()}

	if req.DefaultDiscount != nil {
		set["defaultDiscount"] = *req.DefaultDiscount
		appendHistory(ctx, vendorObjectID, models.DiscountChangeDefault, "", vendor.DefaultDiscount, *req.DefaultDiscount, adminId)
	}
	if req.ProductDiscount != nil {
		var prev interface{}
		if vendor.ProductDiscounts != nil {
			if v, ok := vendor.ProductDiscounts[req.ProductID]; ok {
				prev = v
			}
		}
		set["productDiscounts."+req.ProductID] = *req.ProductDiscount
		appendHistory(ctx, vendorObjectID, models.DiscountChangeProduct, req.ProductID, prev, *req.ProductDiscount, adminId)
	}
	if req.BulkTiers != nil {
		set["bulkDiscountTiers"] = req.BulkTiers
		appendHistory(ctx, vendorObjectID, models.DiscountChangeTiers, "", vendor.BulkTiers, req.BulkTiers, adminId)
	}

	if _, err := vendorCollection.UpdateOne(ctx, bson.M{"_id": vendorObjectID}, bson.M{"$set": set}); err != nil {
		log.Error().Err(err).Msg("update vendor discounts")
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to update vendor",
			Result:  nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "Vendor discounts updated",
		Result:  &fiber.Map{"vendorId": req.VendorID},
	})
}

// appendHistory writes one audit record. History failures are logged, not
// surfaced: losing an audit line must not abort the admin's change.
func appendHistory(ctx context.Context, vendorID primitive.ObjectID, changeType, productID string, prev, next interface{}, changedBy string) {
	entry := models.VendorDiscountHistory{
		Id:            primitive.NewObjectID(),
		EntryId:       uuid.NewString(),
		VendorId:      vendorID,
		ChangeType:    changeType,
		ProductId:     productID,
		PreviousValue: prev,
		NewValue:      next,
		ChangedBy:     changedBy,
		ChangedAt:     time.Now(),
	}
	if _, err := historyCollection.InsertOne(ctx, entry); err != nil {
		log.Error().Err(err).Str("vendorId", vendorID.Hex()).Str("changeType", changeType).Msg("append discount history")
	}
}

// ListVendors returns all vendors for the admin console, optionally filtered
// by status.
func ListVendors(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if status := c.Query("status", ""); status != "" {
		filter["status"] = status
	}

	cursor, err := vendorCollection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to fetch vendors",
			Result:  nil,
		})
	}
	defer cursor.Close(ctx)

	var vendors []models.Vendor
	if err := cursor.All(ctx, &vendors); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to decode vendors",
			Result:  nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "Vendors fetched successfully",
		Result:  &fiber.Map{"vendors": vendors},
	})
}

// ListHistory returns the audit trail for one vendor, newest first.
func ListHistory(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	vendorObjectID, err := primitive.ObjectIDFromHex(c.Query("vendorId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid vendor ID format",
			Result:  nil,
		})
	}

	cursor, err := historyCollection.Find(ctx,
		bson.M{"vendorId": vendorObjectID},
		options.Find().SetSort(bson.D{{Key: "changedAt", Value: -1}}),
	)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to fetch history",
			Result:  nil,
		})
	}
	defer cursor.Close(ctx)

	var history []models.VendorDiscountHistory
	if err := cursor.All(ctx, &history); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to decode history",
			Result:  nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "History fetched successfully",
		Result:  &fiber.Map{"history": history},
	})
}
