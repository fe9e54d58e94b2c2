// Package store persists layout documents in MongoDB.
//
// The store holds one collection of [scene.Layout] documents keyed by
// layout ID. It is used by the render service to make solved layouts
// retrievable after the fact; rendering itself never requires a store.
package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/matzehuels/easel/pkg/cache"
	"github.com/matzehuels/easel/pkg/errors"
	"github.com/matzehuels/easel/pkg/scene"
)

const collectionName = "layouts"

// Store is a MongoDB-backed layout store.
type Store struct {
	client *mongo.Client
	col    *mongo.Collection
}

// Open connects to MongoDB at uri and verifies the connection. Transient
// ping failures are retried with backoff.
func Open(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "connect to %s", uri)
	}

	err = cache.RetryWithBackoff(ctx, func() error {
		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			return cache.Retryable(err)
		}
		return nil
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "ping %s", uri)
	}

	return &Store{
		client: client,
		col:    client.Database(database).Collection(collectionName),
	}, nil
}

// SaveLayout upserts a layout document by ID.
func (s *Store) SaveLayout(ctx context.Context, l *scene.Layout) error {
	opts := options.Replace().SetUpsert(true)
	_, err := s.col.ReplaceOne(ctx, bson.M{"_id": l.ID}, l, opts)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "save layout %s", l.ID)
	}
	return nil
}

// GetLayout fetches a layout document by ID.
func (s *Store) GetLayout(ctx context.Context, id string) (*scene.Layout, error) {
	var l scene.Layout
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&l)
	if err == mongo.ErrNoDocuments {
		return nil, errors.New(errors.ErrCodeLayoutNotFound, "layout %s not found", id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "get layout %s", id)
	}
	return &l, nil
}

// ListLayouts returns the most recent layouts, newest first.
func (s *Store) ListLayouts(ctx context.Context, limit int64) ([]scene.Layout, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)
	cur, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "list layouts")
	}
	defer cur.Close(ctx)

	var out []scene.Layout
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode layouts")
	}
	return out, nil
}

// DeleteLayout removes a layout document by ID.
func (s *Store) DeleteLayout(ctx context.Context, id string) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "delete layout %s", id)
	}
	if res.DeletedCount == 0 {
		return errors.New(errors.ErrCodeLayoutNotFound, "layout %s not found", id)
	}
	return nil
}

// Close disconnects from MongoDB.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
