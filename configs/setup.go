package configs

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func ConnectDB() *mongo.Client {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(EnvMongoURI()))
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connect failed")
	}

	if err := client.Ping(ctx, nil); err != nil {
		log.Fatal().Err(err).Msg("mongo ping failed")
	}

	log.Info().Msg("connected to MongoDB")
	return client
}

var DB *mongo.Client = ConnectDB()

func GetCollection(client *mongo.Client, collectionName string) *mongo.Collection {
	return client.Database(EnvMongoDatabase()).Collection(collectionName)
}

// GetDatabase exposes the raw database handle for change-stream subscribers.
func GetDatabase(client *mongo.Client) *mongo.Database {
	return client.Database(EnvMongoDatabase())
}

// ConnectRedis returns a shared client for caching, UI flags and capture
// idempotency keys. Callers must tolerate redis being down; it is a cache,
// not a source of truth.
func ConnectRedis() *redis.Client {
	return redis.NewClient(&redis.Options{Addr: EnvRedisAddr()})
}

var Redis *redis.Client = ConnectRedis()

// NewOrderEventWriter builds the Kafka writer for order lifecycle events.
// Returns nil when no broker is configured; publishing is then a no-op.
func NewOrderEventWriter() *kafka.Writer {
	broker := EnvKafkaBroker()
	if broker == "" {
		log.Info().Msg("no Kafka broker configured, order events disabled")
		return nil
	}
	return &kafka.Writer{
		Addr:     kafka.TCP(broker),
		Topic:    EnvKafkaOrderTopic(),
		Balancer: &kafka.LeastBytes{},
	}
}
