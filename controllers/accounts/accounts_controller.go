package controllers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"savora-api/configs"
	"savora-api/models"
	"savora-api/responses"
)

var userCollection *mongo.Collection = configs.GetCollection(configs.DB, "users")

func UpdateUserProfile(c *fiber.Ctx) error {
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
		return c.Status(fiber.StatusUnauthorized).JSON(responses.UserResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "Invalid UserID format",
			Result:  nil,
		})
	}

	var reqBody struct {
		Name     string `json:"name" validate:"required"`
		ImageUrl string `json:"profileImage"`
	}
	if err := c.BodyParser(&reqBody); err != nil || reqBody.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request format",
			Result:  nil,
		})
	}

	result, err := userCollection.UpdateOne(ctx,
		bson.M{"_id": userObjectID},
		bson.M{"$set": bson.M{"name": reqBody.Name, "profileImage": reqBody.ImageUrl}},
	)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Error updating profile",
			Result:  nil,
		})
	}
	if result.MatchedCount == 0 {
		return c.Status(fiber.StatusNotFound).JSON(responses.UserResponse{
			Status:  fiber.StatusNotFound,
			Message: "User not found",
			Result:  nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "Profile updated successfully",
		Result:  nil,
	})
}

func GetUserProfile(c *fiber.Ctx) error {
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
		return c.Status(fiber.StatusUnauthorized).JSON(responses.UserResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "Invalid UserID format",
			Result:  nil,
		})
	}

	var user models.User
	err = userCollection.FindOne(ctx, bson.M{"_id": userObjectID}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return c.Status(fiber.StatusNotFound).JSON(responses.UserResponse{
				Status:  fiber.StatusNotFound,
				Message: "User not found",
				Result:  nil,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Error fetching profile",
			Result:  nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "Profile fetched successfully",
		Result:  &fiber.Map{"user": user},
	})
}

// UI flags back the one-time hints the storefront shows (e.g. the vendor
// pricing tooltip). Per-user, no expiry: once shown, shown forever.

func flagKey(userId, name string) string {
	return "uiflag:" + userId + ":" + name
}

// GetUIFlag reports whether the named flag was ever set for this user.
func GetUIFlag(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 3*time.Second)
	defer cancel()

	userId, _ := c.Locals("userId").(string)
	name := c.Params("name")
	if name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Flag name is required",
			Result:  nil,
		})
	}

	shown, err := configs.Redis.Exists(ctx, flagKey(userId, name)).Result()
	if err != nil {
		// redis down: treat as not shown, the worst case is a repeated hint
		log.Error().Err(err).Str("flag", name).Msg("read ui flag")
		shown = 0
	}

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "Flag fetched",
		Result:  &fiber.Map{"name": name, "shown": shown > 0},
	})
}

// SetUIFlag marks the named flag as shown.
func SetUIFlag(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 3*time.Second)
	defer cancel()

	userId, _ := c.Locals("userId").(string)
	name := c.Params("name")
	if name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Flag name is required",
			Result:  nil,
		})
	}

	if err := configs.Redis.Set(ctx, flagKey(userId, name), "1", 0).Err(); err != nil {
		log.Error().Err(err).Str("flag", name).Msg("set ui flag")
	}

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "Flag set",
		Result:  &fiber.Map{"name": name, "shown": true},
	})
}
