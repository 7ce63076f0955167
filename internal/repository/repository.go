// Package repository defines the storage contract shared by every record type.
package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mamadbah2/ricemill/internal/domain/models"
)

var (
	// ErrNotFound indicates no record exists for the identifier, including malformed identifiers.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate indicates a unique key such as lot_no is already taken.
	ErrDuplicate = errors.New("duplicate key")
)

// ListOptions narrows a List or Count call. Where holds equality filters on
// stored field names; a nil value matches documents where the field is
// missing or null. DateField, when set, limits results to From <= field < To.
type ListOptions struct {
	Where     map[string]any
	DateField string
	From      time.Time
	To        time.Time
	Limit     int64
}

// Store persists one record type. Lists are ordered newest first.
type Store[T models.Document] interface {
	Insert(ctx context.Context, doc T) error
	FindByID(ctx context.Context, id string) (T, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]T, error)
	List(ctx context.Context, opts ListOptions) ([]T, error)
	Count(ctx context.Context, opts ListOptions) (int64, error)
	Replace(ctx context.Context, doc T) error
	Delete(ctx context.Context, id string) error
}

// Stores groups the per-entity repositories used by the application.
type Stores struct {
	CmrYears        Store[*models.CmrYear]
	Mills           Store[*models.Mill]
	Brokers         Store[*models.Broker]
	Parties         Store[*models.Party]
	Vehicles        Store[*models.Vehicle]
	Agreements      Store[*models.Agreement]
	Saudas          Store[*models.Sauda]
	Lots            Store[*models.Lot]
	Payments        Store[*models.Payment]
	BagTransactions Store[*models.BagTransaction]
	Snapshots       Store[*models.DashboardSnapshot]
}

// Collection names, shared by every Store implementation.
const (
	CmrYearsCollection        = "cmryears"
	MillsCollection           = "mills"
	BrokersCollection         = "brokers"
	PartiesCollection         = "parties"
	VehiclesCollection        = "vehicles"
	AgreementsCollection      = "agreements"
	SaudasCollection          = "saudas"
	LotsCollection            = "lots"
	PaymentsCollection        = "payments"
	BagTransactionsCollection = "bagtransactions"
	SnapshotsCollection       = "dashboard_snapshots"
)

// UniqueKeys lists the unique business key of each collection.
var UniqueKeys = map[string]string{
	CmrYearsCollection:   "year_range",
	MillsCollection:      "mill_code",
	BrokersCollection:    "broker_code",
	PartiesCollection:    "party_code",
	VehiclesCollection:   "vehicle_no",
	AgreementsCollection: "agreement_no",
	SaudasCollection:     "sauda_code",
	LotsCollection:       "lot_no",
}
