package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/mamadbah2/ricemill/internal/domain/models"
	"github.com/mamadbah2/ricemill/internal/repository"
)

// MongoDBRepository owns the MongoDB connection and hands out per-entity collections.
type MongoDBRepository struct {
	client *mongo.Client
	db     *mongo.Database
	logger *zap.Logger
}

// NewMongoDBRepository connects to MongoDB and verifies the connection.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string, logger *zap.Logger) (*MongoDBRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	logger.Info("mongodb connected", zap.String("database", dbName))

	return &MongoDBRepository{
		client: client,
		db:     client.Database(dbName),
		logger: logger,
	}, nil
}

// Stores returns a repository for every record type.
func (r *MongoDBRepository) Stores() repository.Stores {
	return repository.Stores{
		CmrYears:        NewCollection[models.CmrYear](r.db, repository.CmrYearsCollection),
		Mills:           NewCollection[models.Mill](r.db, repository.MillsCollection),
		Brokers:         NewCollection[models.Broker](r.db, repository.BrokersCollection),
		Parties:         NewCollection[models.Party](r.db, repository.PartiesCollection),
		Vehicles:        NewCollection[models.Vehicle](r.db, repository.VehiclesCollection),
		Agreements:      NewCollection[models.Agreement](r.db, repository.AgreementsCollection),
		Saudas:          NewCollection[models.Sauda](r.db, repository.SaudasCollection),
		Lots:            NewCollection[models.Lot](r.db, repository.LotsCollection),
		Payments:        NewCollection[models.Payment](r.db, repository.PaymentsCollection),
		BagTransactions: NewCollection[models.BagTransaction](r.db, repository.BagTransactionsCollection),
		Snapshots:       NewCollection[models.DashboardSnapshot](r.db, repository.SnapshotsCollection),
	}
}

// EnsureIndexes creates the unique business-key indexes and the lookup indexes.
func (r *MongoDBRepository) EnsureIndexes(ctx context.Context) error {
	for coll, key := range repository.UniqueKeys {
		model := mongo.IndexModel{
			Keys:    bson.D{{Key: key, Value: 1}},
			Options: options.Index().SetUnique(true),
		}
		if _, err := r.db.Collection(coll).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("create unique index %s.%s: %w", coll, key, err)
		}
	}

	secondary := []struct {
		coll string
		key  string
	}{
		{repository.LotsCollection, "sauda"},
		{repository.PaymentsCollection, "payment_date"},
		{repository.SnapshotsCollection, "date"},
	}
	for _, idx := range secondary {
		model := mongo.IndexModel{Keys: bson.D{{Key: idx.key, Value: 1}}}
		if _, err := r.db.Collection(idx.coll).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("create index %s.%s: %w", idx.coll, idx.key, err)
		}
	}

	r.logger.Info("mongodb indexes ensured", zap.Int("unique", len(repository.UniqueKeys)), zap.Int("secondary", len(secondary)))
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
