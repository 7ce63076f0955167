// Package memory provides in-memory record storage with the same semantics as
// the MongoDB repositories. It backs STORAGE_DRIVER=memory and the tests.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mamadbah2/ricemill/internal/domain/models"
	"github.com/mamadbah2/ricemill/internal/repository"
)

type entry struct {
	raw    []byte
	fields bson.M
}

// Store keeps documents as BSON so reads never alias caller memory.
type Store[E any, T interface {
	*E
	models.Document
}] struct {
	mu        sync.RWMutex
	docs      map[primitive.ObjectID]entry
	uniqueKey string
	now       func() time.Time
}

// NewStore creates an empty store. uniqueKey, when non-empty, is enforced like a unique index.
func NewStore[E any, T interface {
	*E
	models.Document
}](uniqueKey string) *Store[E, T] {
	return &Store[E, T]{
		docs:      make(map[primitive.ObjectID]entry),
		uniqueKey: uniqueKey,
		now:       time.Now,
	}
}

// NewStores builds an in-memory repository set.
func NewStores() repository.Stores {
	return repository.Stores{
		CmrYears:        NewStore[models.CmrYear](repository.UniqueKeys[repository.CmrYearsCollection]),
		Mills:           NewStore[models.Mill](repository.UniqueKeys[repository.MillsCollection]),
		Brokers:         NewStore[models.Broker](repository.UniqueKeys[repository.BrokersCollection]),
		Parties:         NewStore[models.Party](repository.UniqueKeys[repository.PartiesCollection]),
		Vehicles:        NewStore[models.Vehicle](repository.UniqueKeys[repository.VehiclesCollection]),
		Agreements:      NewStore[models.Agreement](repository.UniqueKeys[repository.AgreementsCollection]),
		Saudas:          NewStore[models.Sauda](repository.UniqueKeys[repository.SaudasCollection]),
		Lots:            NewStore[models.Lot](repository.UniqueKeys[repository.LotsCollection]),
		Payments:        NewStore[models.Payment](""),
		BagTransactions: NewStore[models.BagTransaction](""),
		Snapshots:       NewStore[models.DashboardSnapshot](""),
	}
}

// Verify interface compliance
var _ repository.Store[*models.Lot] = (*Store[models.Lot, *models.Lot])(nil)

// Insert stores a new document, assigning its id and timestamps.
func (s *Store[E, T]) Insert(_ context.Context, doc T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	meta := doc.Meta()
	if meta.ID.IsZero() {
		meta.ID = primitive.NewObjectID()
	}
	if _, exists := s.docs[meta.ID]; exists {
		return fmt.Errorf("%w: _id %s", repository.ErrDuplicate, meta.ID.Hex())
	}

	now := s.timestamp()
	meta.CreatedAt = now
	meta.UpdatedAt = now

	e, err := encode(doc)
	if err != nil {
		return err
	}
	if err := s.checkUnique(meta.ID, e); err != nil {
		return err
	}

	s.docs[meta.ID] = e
	return nil
}

// FindByID returns the document with the given hex id.
func (s *Store[E, T]) FindByID(_ context.Context, id string) (T, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}

	s.mu.RLock()
	e, ok := s.docs[oid]
	s.mu.RUnlock()
	if !ok {
		return nil, repository.ErrNotFound
	}
	return decode[E, T](e)
}

// FindByIDs returns the documents that exist among ids, in no particular order.
func (s *Store[E, T]) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]T, 0, len(ids))
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		e, ok := s.docs[id]
		if !ok {
			continue
		}
		doc, err := decode[E, T](e)
		if err != nil {
			return nil, err
		}
		result = append(result, doc)
	}
	return result, nil
}

// List returns matching documents, newest first.
func (s *Store[E, T]) List(_ context.Context, opts repository.ListOptions) ([]T, error) {
	s.mu.RLock()
	matches := make([]entry, 0, len(s.docs))
	for _, e := range s.docs {
		if matchesOptions(e.fields, opts) {
			matches = append(matches, e)
		}
	}
	s.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool {
		ci, cj := createdAt(matches[i].fields), createdAt(matches[j].fields)
		if ci != cj {
			return ci > cj
		}
		return bytes.Compare(objectID(matches[i].fields), objectID(matches[j].fields)) > 0
	})

	if opts.Limit > 0 && int64(len(matches)) > opts.Limit {
		matches = matches[:opts.Limit]
	}

	result := make([]T, 0, len(matches))
	for _, e := range matches {
		doc, err := decode[E, T](e)
		if err != nil {
			return nil, err
		}
		result = append(result, doc)
	}
	return result, nil
}

// Count returns the number of matching documents, ignoring Limit.
func (s *Store[E, T]) Count(_ context.Context, opts repository.ListOptions) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total int64
	for _, e := range s.docs {
		if matchesOptions(e.fields, opts) {
			total++
		}
	}
	return total, nil
}

// Replace overwrites an existing document and bumps its updatedAt.
func (s *Store[E, T]) Replace(_ context.Context, doc T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	meta := doc.Meta()
	if _, ok := s.docs[meta.ID]; !ok {
		return repository.ErrNotFound
	}
	meta.UpdatedAt = s.timestamp()

	e, err := encode(doc)
	if err != nil {
		return err
	}
	if err := s.checkUnique(meta.ID, e); err != nil {
		return err
	}

	s.docs[meta.ID] = e
	return nil
}

// Delete removes the document with the given hex id.
func (s *Store[E, T]) Delete(_ context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repository.ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[oid]; !ok {
		return repository.ErrNotFound
	}
	delete(s.docs, oid)
	return nil
}

// timestamp matches the millisecond precision of BSON dates.
func (s *Store[E, T]) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

func (s *Store[E, T]) checkUnique(id primitive.ObjectID, candidate entry) error {
	if s.uniqueKey == "" {
		return nil
	}
	value, ok := candidate.fields[s.uniqueKey]
	if !ok || value == nil {
		return nil
	}

	for otherID, other := range s.docs {
		if otherID == id {
			continue
		}
		if sameValue(other.fields[s.uniqueKey], value) {
			return fmt.Errorf("%w: %s %v", repository.ErrDuplicate, s.uniqueKey, value)
		}
	}
	return nil
}

func encode(doc any) (entry, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return entry{}, fmt.Errorf("encode document: %w", err)
	}

	var fields bson.M
	if err := bson.Unmarshal(raw, &fields); err != nil {
		return entry{}, fmt.Errorf("index document: %w", err)
	}
	return entry{raw: raw, fields: fields}, nil
}

func decode[E any, T interface {
	*E
	models.Document
}](e entry) (T, error) {
	doc := T(new(E))
	if err := bson.Unmarshal(e.raw, doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}

func matchesOptions(fields bson.M, opts repository.ListOptions) bool {
	for key, want := range opts.Where {
		got, ok := fields[key]
		if want == nil {
			if ok && got != nil {
				return false
			}
			continue
		}
		if !ok || !sameValue(got, want) {
			return false
		}
	}

	if opts.DateField != "" {
		dt, ok := fields[opts.DateField].(primitive.DateTime)
		if !ok {
			return false
		}
		t := dt.Time()
		if !opts.From.IsZero() && t.Before(opts.From) {
			return false
		}
		if !opts.To.IsZero() && !t.Before(opts.To) {
			return false
		}
	}
	return true
}

// sameValue compares two values by their BSON encoding so that typed strings
// and ObjectIDs compare the way MongoDB would.
func sameValue(a, b any) bool {
	ta, ra, errA := bson.MarshalValue(a)
	tb, rb, errB := bson.MarshalValue(b)
	if errA != nil || errB != nil {
		return false
	}
	return ta == tb && bytes.Equal(ra, rb)
}

func createdAt(fields bson.M) primitive.DateTime {
	dt, _ := fields["createdAt"].(primitive.DateTime)
	return dt
}

func objectID(fields bson.M) []byte {
	oid, _ := fields["_id"].(primitive.ObjectID)
	return oid[:]
}
