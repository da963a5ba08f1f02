package adminController

import (
	"bufio"
	"context"
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/valyala/fasthttp"
	"go.mongodb.org/mongo-driver/bson"

	"savora-api/configs"
	"savora-api/livequery"
	"savora-api/responses"
)

var liveStore = livequery.NewStore(configs.GetDatabase(configs.DB))

// ordersQuery is built once; subscriptions must reuse the same canonical
// query value.
var ordersQuery, ordersQueryErr = livequery.NewQuery("orders",
	livequery.WithSort(bson.D{{Key: "createdAt", Value: -1}}),
	livequery.WithLimit(50),
)

// StreamOrders pushes the most recent orders to the back-office console as
// server-sent events, re-emitting on every change to the collection.
func StreamOrders(c *fiber.Ctx) error {
	if ordersQueryErr != nil {
		log.Error().Err(ordersQueryErr).Msg("orders live query")
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Live feed unavailable",
			Result:  nil,
		})
	}

	ctx, cancel := context.WithCancel(context.Background())

	snapshots, err := liveStore.Subscribe(ctx, ordersQuery)
	if err != nil {
		cancel()
		log.Error().Err(err).Msg("subscribe orders feed")
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Live feed unavailable",
			Result:  nil,
		})
	}

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()
		for snap := range snapshots {
			if snap.Err != nil {
				log.Error().Err(snap.Err).Msg("orders feed snapshot")
				return
			}

			docs := make([]json.RawMessage, 0, len(snap.Docs))
			for _, d := range snap.Docs {
				if j, err := bson.MarshalExtJSON(d, false, false); err == nil {
					docs = append(docs, j)
				}
			}
			payload, err := json.Marshal(docs)
			if err != nil {
				return
			}

			if _, err := w.WriteString("data: " + string(payload) + "\n\n"); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				// client went away
				return
			}
		}
	}))
	return nil
}
