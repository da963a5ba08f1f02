// Package livequery mirrors document-store queries into live-updating state.
// A subscription emits the materialized result set on every remote change via
// a change stream; a one-shot fetch runs the query once. Queries must be
// built with NewQuery so each subscriber holds one canonical, identity-stable
// query value instead of rebuilding it per call, which on the original client
// caused resubscription storms.
package livequery

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrUnstableQuery is returned when a query was not built through NewQuery.
var ErrUnstableQuery = errors.New("livequery: query was not built with NewQuery; construct it once and reuse the value")

// Query is a canonical, reusable description of a collection query.
// The zero value is invalid on purpose.
type Query struct {
	path      string
	filter    bson.D
	sort      bson.D
	limit     int64
	key       string
	canonical bool
}

// QueryOption customizes a Query at construction time.
type QueryOption func(*Query)

func WithFilter(filter bson.D) QueryOption {
	return func(q *Query) { q.filter = filter }
}

func WithSort(sort bson.D) QueryOption {
	return func(q *Query) { q.sort = sort }
}

func WithLimit(n int64) QueryOption {
	return func(q *Query) { q.limit = n }
}

// NewQuery validates the collection path and produces the canonical query
// value callers must hold on to for the lifetime of a subscription.
func NewQuery(path string, opts ...QueryOption) (Query, error) {
	if err := ValidateCollectionPath(path); err != nil {
		return Query{}, err
	}

	q := Query{path: strings.Trim(path, "/")}
	for _, opt := range opts {
		opt(&q)
	}

	filterJSON, err := bson.MarshalExtJSON(q.filter, true, false)
	if err != nil {
		return Query{}, fmt.Errorf("livequery: filter not canonicalizable: %w", err)
	}
	sortJSON, err := bson.MarshalExtJSON(q.sort, true, false)
	if err != nil {
		return Query{}, fmt.Errorf("livequery: sort not canonicalizable: %w", err)
	}

	q.key = fmt.Sprintf("%s?f=%s&s=%s&l=%d", q.path, filterJSON, sortJSON, q.limit)
	q.canonical = true
	return q, nil
}

// Key identifies the query; two NewQuery calls with equal inputs yield equal
// keys, so callers can dedupe subscriptions.
func (q Query) Key() string { return q.key }

// Snapshot is one emission of a subscription: the full materialized result
// set, or the error that interrupted it.
type Snapshot struct {
	Docs []bson.Raw
	Err  error
}

// Store wraps a database handle for live and one-shot queries.
type Store struct {
	db *mongo.Database
}

func NewStore(db *mongo.Database) *Store {
	return &Store{db: db}
}

// permissionEvents is the global channel permission failures are mirrored to,
// so an app-level listener can report them independent of whichever
// subscriber tripped them.
var permissionEvents = make(chan error, 16)

// PermissionEvents exposes the global permission-error feed.
func PermissionEvents() <-chan error {
	return permissionEvents
}

func reportPermission(err error) {
	select {
	case permissionEvents <- err:
	default:
		// listener is behind; the subscriber still sees the error inline
	}
}

func isPermissionError(err error) bool {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		// 13 Unauthorized, 18 AuthenticationFailed
		return cmdErr.Code == 13 || cmdErr.Code == 18
	}
	return false
}

// FetchOnce runs the query a single time.
func (s *Store) FetchOnce(ctx context.Context, q Query) ([]bson.Raw, error) {
	if !q.canonical {
		return nil, ErrUnstableQuery
	}
	return s.materialize(ctx, q)
}

// Subscribe emits the current result set immediately, then re-emits it after
// every change to the underlying collection until ctx is cancelled. The
// returned channel is closed on cancellation or unrecoverable stream error.
func (s *Store) Subscribe(ctx context.Context, q Query) (<-chan Snapshot, error) {
	if !q.canonical {
		return nil, ErrUnstableQuery
	}

	coll := s.db.Collection(collectionName(q.path))
	stream, err := coll.Watch(ctx, mongo.Pipeline{})
	if err != nil {
		if isPermissionError(err) {
			reportPermission(err)
		}
		return nil, fmt.Errorf("livequery: watch %s: %w", q.path, err)
	}

	out := make(chan Snapshot, 1)
	go func() {
		defer close(out)
		defer stream.Close(context.Background())

		send := func(snap Snapshot) bool {
			select {
			case out <- snap:
				return true
			case <-ctx.Done():
				return false
			}
		}
		emit := func() bool {
			docs, err := s.materialize(ctx, q)
			if err != nil {
				if isPermissionError(err) {
					reportPermission(err)
				}
				send(Snapshot{Err: err})
				return false
			}
			return send(Snapshot{Docs: docs})
		}

		if !emit() {
			return
		}
		for stream.Next(ctx) {
			if !emit() {
				return
			}
		}
		if err := stream.Err(); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Str("query", q.key).Msg("change stream closed")
			send(Snapshot{Err: err})
		}
	}()
	return out, nil
}

func (s *Store) materialize(ctx context.Context, q Query) ([]bson.Raw, error) {
	opts := options.Find()
	if q.sort != nil {
		opts.SetSort(q.sort)
	}
	if q.limit > 0 {
		opts.SetLimit(q.limit)
	}

	filter := q.scopedFilter()
	cursor, err := s.db.Collection(collectionName(q.path)).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []bson.Raw
	for cursor.Next(ctx) {
		raw := make(bson.Raw, len(cursor.Current))
		copy(raw, cursor.Current)
		docs = append(docs, raw)
	}
	return docs, cursor.Err()
}

// scopedFilter folds parent document segments of a nested path into the
// filter, so "users/42/orders" matches orders owned by user 42.
func (q Query) scopedFilter() bson.D {
	segments := strings.Split(q.path, "/")
	filter := q.filter
	if filter == nil {
		filter = bson.D{}
	}
	for i := 0; i+2 < len(segments); i += 2 {
		owner := strings.TrimSuffix(segments[i], "s") + "Id"
		filter = append(filter, bson.E{Key: owner, Value: segments[i+1]})
	}
	return filter
}
