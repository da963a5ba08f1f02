// Package sequence issues gap-free human-readable numbers from a counters
// collection. The increment is a single atomic findOneAndUpdate, so
// concurrent signups or checkouts can never observe the same value.
package sequence

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Next atomically increments and returns the named counter, creating it at 1
// on first use.
func Next(ctx context.Context, counters *mongo.Collection, name string) (int64, error) {
	var doc struct {
		Seq int64 `bson:"seq"`
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	err := counters.FindOneAndUpdate(
		ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("next %s sequence: %w", name, err)
	}
	return doc.Seq, nil
}

// Format renders a sequence value with a fixed prefix, e.g. "VND-00042".
func Format(prefix string, n int64) string {
	return fmt.Sprintf("%s-%05d", prefix, n)
}
