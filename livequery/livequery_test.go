package livequery

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestValidateCollectionPath(t *testing.T) {
	valid := []string{"orders", "users/42/orders", "a/b/c/d/e", "/orders/"}
	for _, p := range valid {
		assert.NoError(t, ValidateCollectionPath(p), p)
	}

	invalid := []string{"", "/", "users/42", "a/b/c/d", "users//orders"}
	for _, p := range invalid {
		assert.Error(t, ValidateCollectionPath(p), p)
	}
}

func TestCollectionName(t *testing.T) {
	assert.Equal(t, "orders", collectionName("orders"))
	assert.Equal(t, "orders", collectionName("users/42/orders"))
}

func TestNewQueryRejectsDocumentPath(t *testing.T) {
	_, err := NewQuery("users/42")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "document")
}

func TestNewQueryKeyIsStable(t *testing.T) {
	q1, err := NewQuery("orders", WithFilter(bson.D{{Key: "status", Value: "placed"}}), WithLimit(10))
	require.NoError(t, err)
	q2, err := NewQuery("orders", WithFilter(bson.D{{Key: "status", Value: "placed"}}), WithLimit(10))
	require.NoError(t, err)

	assert.Equal(t, q1.Key(), q2.Key())

	q3, err := NewQuery("orders", WithFilter(bson.D{{Key: "status", Value: "shipped"}}), WithLimit(10))
	require.NoError(t, err)
	assert.NotEqual(t, q1.Key(), q3.Key())
}

func TestSubscribeRejectsHandBuiltQuery(t *testing.T) {
	s := NewStore(nil)

	// zero-value query never went through NewQuery
	_, err := s.Subscribe(context.Background(), Query{path: "orders"})
	assert.ErrorIs(t, err, ErrUnstableQuery)

	_, err = s.FetchOnce(context.Background(), Query{path: "orders"})
	assert.ErrorIs(t, err, ErrUnstableQuery)
}

func TestScopedFilter(t *testing.T) {
	q, err := NewQuery("users/42/orders", WithFilter(bson.D{{Key: "status", Value: "placed"}}))
	require.NoError(t, err)

	f := q.scopedFilter()
	assert.Contains(t, f, bson.E{Key: "status", Value: "placed"})
	assert.Contains(t, f, bson.E{Key: "userId", Value: "42"})
}
