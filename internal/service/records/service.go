// Package records implements create, read, update and delete for the stored
// record types on top of a repository.Store.
package records

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/ricemill/internal/domain/models"
	"github.com/mamadbah2/ricemill/internal/repository"
)

// Hook runs after validation and before the record is written. stored is nil
// when the record is being created.
type Hook[T models.Document] func(doc, stored T) error

// Service handles one record type.
type Service[E any, T interface {
	*E
	models.Document
}] struct {
	name       string
	store      repository.Store[T]
	beforeSave Hook[T]
	logger     *zap.Logger
}

// Option customises a Service.
type Option[E any, T interface {
	*E
	models.Document
}] func(*Service[E, T])

// WithBeforeSave registers a hook that derives fields before every write.
func WithBeforeSave[E any, T interface {
	*E
	models.Document
}](hook Hook[T]) Option[E, T] {
	return func(s *Service[E, T]) {
		s.beforeSave = hook
	}
}

// NewService wires a records service. name is used in logs.
func NewService[E any, T interface {
	*E
	models.Document
}](name string, store repository.Store[T], logger *zap.Logger, opts ...Option[E, T]) *Service[E, T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service[E, T]{name: name, store: store, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create decodes a JSON body into a new record, validates it and stores it.
// Caller-supplied ids and timestamps are ignored.
func (s *Service[E, T]) Create(ctx context.Context, body []byte) (T, error) {
	doc := T(new(E))
	if err := decode(body, doc); err != nil {
		return nil, err
	}
	*doc.Meta() = models.Base{}

	if err := s.Insert(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Insert validates and stores an already decoded record.
func (s *Service[E, T]) Insert(ctx context.Context, doc T) error {
	if err := s.prepare(doc, nil); err != nil {
		return err
	}
	if err := s.store.Insert(ctx, doc); err != nil {
		return fmt.Errorf("create %s: %w", s.name, err)
	}

	s.logger.Info("record created", zap.String("collection", s.name), zap.String("id", doc.Meta().ID.Hex()))
	return nil
}

// Get returns one record by id.
func (s *Service[E, T]) Get(ctx context.Context, id string) (T, error) {
	doc, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get %s %s: %w", s.name, id, err)
	}
	return doc, nil
}

// List returns records newest first.
func (s *Service[E, T]) List(ctx context.Context, opts repository.ListOptions) ([]T, error) {
	docs, err := s.store.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.name, err)
	}
	return docs, nil
}

// Update merges a partial JSON body onto the stored record. Each top-level
// field named in the body replaces the stored value whole, so arrays and
// nested objects are not merged element by element. Fields absent from the
// body keep their stored values; identity and timestamps cannot change.
func (s *Service[E, T]) Update(ctx context.Context, id string, body []byte) (T, error) {
	stored, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update %s %s: %w", s.name, id, err)
	}

	doc := T(new(E))
	if err := merge(stored, body, doc); err != nil {
		return nil, err
	}
	*doc.Meta() = *stored.Meta()

	if err := s.Replace(ctx, doc, stored); err != nil {
		return nil, err
	}
	return doc, nil
}

// Replace validates doc and overwrites the stored version.
func (s *Service[E, T]) Replace(ctx context.Context, doc, stored T) error {
	if err := s.prepare(doc, stored); err != nil {
		return err
	}
	if err := s.store.Replace(ctx, doc); err != nil {
		return fmt.Errorf("update %s %s: %w", s.name, doc.Meta().ID.Hex(), err)
	}

	s.logger.Info("record updated", zap.String("collection", s.name), zap.String("id", doc.Meta().ID.Hex()))
	return nil
}

// Delete removes one record by id. Nothing referencing it is touched.
func (s *Service[E, T]) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete %s %s: %w", s.name, id, err)
	}

	s.logger.Info("record deleted", zap.String("collection", s.name), zap.String("id", id))
	return nil
}

func (s *Service[E, T]) prepare(doc, stored T) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	if s.beforeSave != nil {
		if err := s.beforeSave(doc, stored); err != nil {
			return err
		}
	}
	return nil
}

// merge writes stored with the top-level keys of body overlaid into doc.
func merge(stored any, body []byte, doc any) error {
	var patch map[string]json.RawMessage
	if err := json.Unmarshal(body, &patch); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", models.ErrValidation, err)
	}

	raw, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("encode stored record: %w", err)
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return fmt.Errorf("encode stored record: %w", err)
	}
	for key, value := range patch {
		fields[key] = value
	}

	merged, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("%w: invalid request body: %v", models.ErrValidation, err)
	}
	return decode(merged, doc)
}

func decode(body []byte, doc any) error {
	if err := json.Unmarshal(body, doc); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", models.ErrValidation, err)
	}
	return nil
}
