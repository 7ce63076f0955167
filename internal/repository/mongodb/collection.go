package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/ricemill/internal/domain/models"
	"github.com/mamadbah2/ricemill/internal/repository"
)

// Collection implements repository.Store on top of one MongoDB collection.
type Collection[E any, T interface {
	*E
	models.Document
}] struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewCollection binds a record type to the named collection.
func NewCollection[E any, T interface {
	*E
	models.Document
}](db *mongo.Database, name string) *Collection[E, T] {
	return &Collection[E, T]{coll: db.Collection(name), now: time.Now}
}

// Verify interface compliance
var _ repository.Store[*models.Lot] = (*Collection[models.Lot, *models.Lot])(nil)

// Insert stores a new document, assigning its id and timestamps.
func (c *Collection[E, T]) Insert(ctx context.Context, doc T) error {
	meta := doc.Meta()
	if meta.ID.IsZero() {
		meta.ID = primitive.NewObjectID()
	}
	now := c.now().UTC().Truncate(time.Millisecond)
	meta.CreatedAt = now
	meta.UpdatedAt = now

	if _, err := c.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %v", repository.ErrDuplicate, err)
		}
		return fmt.Errorf("insert into %s: %w", c.coll.Name(), err)
	}
	return nil
}

// FindByID returns the document with the given hex id.
func (c *Collection[E, T]) FindByID(ctx context.Context, id string) (T, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}

	doc := T(new(E))
	if err := c.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("find %s %s: %w", c.coll.Name(), id, err)
	}
	return doc, nil
}

// FindByIDs returns the documents that exist among ids.
func (c *Collection[E, T]) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]T, error) {
	if len(ids) == 0 {
		return []T{}, nil
	}
	return c.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find())
}

// List returns matching documents, newest first.
func (c *Collection[E, T]) List(ctx context.Context, opts repository.ListOptions) ([]T, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	if opts.Limit > 0 {
		findOpts.SetLimit(opts.Limit)
	}
	return c.find(ctx, buildFilter(opts), findOpts)
}

// Count returns the number of matching documents, ignoring Limit.
func (c *Collection[E, T]) Count(ctx context.Context, opts repository.ListOptions) (int64, error) {
	n, err := c.coll.CountDocuments(ctx, buildFilter(opts))
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", c.coll.Name(), err)
	}
	return n, nil
}

// Replace overwrites an existing document and bumps its updatedAt.
func (c *Collection[E, T]) Replace(ctx context.Context, doc T) error {
	meta := doc.Meta()
	meta.UpdatedAt = c.now().UTC().Truncate(time.Millisecond)

	res, err := c.coll.ReplaceOne(ctx, bson.M{"_id": meta.ID}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %v", repository.ErrDuplicate, err)
		}
		return fmt.Errorf("replace %s %s: %w", c.coll.Name(), meta.ID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes the document with the given hex id.
func (c *Collection[E, T]) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repository.ErrNotFound
	}

	res, err := c.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete %s %s: %w", c.coll.Name(), id, err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (c *Collection[E, T]) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]T, error) {
	cursor, err := c.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", c.coll.Name(), err)
	}

	var items []E
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.coll.Name(), err)
	}

	result := make([]T, 0, len(items))
	for i := range items {
		result = append(result, T(&items[i]))
	}
	return result, nil
}

func buildFilter(opts repository.ListOptions) bson.M {
	filter := bson.M{}
	for key, value := range opts.Where {
		filter[key] = value
	}

	if opts.DateField != "" {
		window := bson.M{}
		if !opts.From.IsZero() {
			window["$gte"] = opts.From
		}
		if !opts.To.IsZero() {
			window["$lt"] = opts.To
		}
		if len(window) == 0 {
			window["$exists"] = true
		}
		filter[opts.DateField] = window
	}
	return filter
}
