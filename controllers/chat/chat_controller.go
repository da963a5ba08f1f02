package chatController

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"savora-api/configs"
	"savora-api/models"
	"savora-api/responses"
)

var productCollection *mongo.Collection = configs.GetCollection(configs.DB, "products")

var httpClient = &http.Client{Timeout: 20 * time.Second}

// answerTTL bounds how long a cached FAQ answer is reused. Product facts
// change when the catalog does, so cached answers age out within a day.
const answerTTL = 24 * time.Hour

type ChatRequest struct {
	Question    string `json:"question"`
	ProductSlug string `json:"productSlug"`
}

type completionRequest struct {
	Prompt    string `json:"prompt"`
	MaxTokens int    `json:"max_tokens"`
}

type completionResponse struct {
	Text string `json:"text"`
}

func cacheKey(question, slug string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(question)) + "|" + slug))
	return "faq:" + hex.EncodeToString(sum[:])
}

// Ask answers a product FAQ question through the hosted completion service,
// grounding the prompt in catalog data and caching answers in redis.
func Ask(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 25*time.Second)
	defer cancel()

	var req ChatRequest
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Question) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "A question is required",
			Result:  nil,
		})
	}

	key := cacheKey(req.Question, req.ProductSlug)
	if cached, err := configs.Redis.Get(ctx, key).Result(); err == nil && cached != "" {
		return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
			Status:  fiber.StatusOK,
			Message: "Answer fetched",
			Result:  &fiber.Map{"answer": cached, "cached": true},
		})
	}

	prompt, err := buildPrompt(ctx, req)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to prepare the question",
			Result:  nil,
		})
	}

	answer, err := complete(ctx, prompt)
	if err != nil {
		log.Error().Err(err).Msg("chat completion")
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "The assistant is unavailable right now",
			Result:  nil,
		})
	}

	if err := configs.Redis.Set(ctx, key, answer, answerTTL).Err(); err != nil {
		log.Error().Err(err).Msg("cache chat answer")
	}

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "Answer fetched",
		Result:  &fiber.Map{"answer": answer, "cached": false},
	})
}

// buildPrompt grounds the question in the product the shopper is looking at,
// or a short catalog digest for general questions.
func buildPrompt(ctx context.Context, req ChatRequest) (string, error) {
	var sb strings.Builder
	sb.WriteString("You are the FAQ assistant for Savora, a packaged-food brand. ")
	sb.WriteString("Answer briefly and only from the facts below. If the facts don't cover the question, say so.\n\n")

	if req.ProductSlug != "" {
		var product models.Product
		err := productCollection.FindOne(ctx, bson.M{"slug": req.ProductSlug}).Decode(&product)
		if err != nil && err != mongo.ErrNoDocuments {
			return "", err
		}
		if err == nil {
			fmt.Fprintf(&sb, "Product: %s\nCategory: %s\nDescription: %s\nPrice: %.2f\n\n",
				product.Name, product.Category, product.Description, product.EffectivePrice())
		}
	} else {
		cursor, err := productCollection.Find(ctx, bson.M{}, options.Find().SetLimit(10))
		if err != nil {
			return "", err
		}
		defer cursor.Close(ctx)
		sb.WriteString("Catalog:\n")
		for cursor.Next(ctx) {
			var p models.Product
			if err := cursor.Decode(&p); err != nil {
				continue
			}
			fmt.Fprintf(&sb, "- %s (%s): %.2f\n", p.Name, p.Category, p.EffectivePrice())
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Question: " + strings.TrimSpace(req.Question))
	return sb.String(), nil
}

// complete calls the hosted prompt/completion service. The service is an
// opaque collaborator: one POST in, one answer out.
func complete(ctx context.Context, prompt string) (string, error) {
	url := configs.EnvChatCompletionURL()
	if url == "" {
		return "", fmt.Errorf("no completion service configured")
	}

	body, err := json.Marshal(completionRequest{Prompt: prompt, MaxTokens: 300})
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+configs.EnvChatCompletionKey())

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("completion service returned %d", resp.StatusCode)
	}

	var out completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	return strings.TrimSpace(out.Text), nil
}
