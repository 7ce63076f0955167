package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/ricemill/internal/domain/models"
	"github.com/mamadbah2/ricemill/internal/repository"
	"github.com/mamadbah2/ricemill/internal/service/dashboard"
	"github.com/mamadbah2/ricemill/internal/service/lots"
	"github.com/mamadbah2/ricemill/internal/service/populate"
	"github.com/mamadbah2/ricemill/internal/service/records"
)

// Registrar mounts routes on a router group.
type Registrar interface {
	Register(group *gin.RouterGroup)
}

// Resource binds a handler to its path under /api.
type Resource struct {
	Path    string
	Handler Registrar
}

// API groups every handler served by the application.
type API struct {
	Resources []Resource
	Lots      *LotsHandler
	Dashboard *DashboardHandler
}

// NewAPI builds the record handlers for every collection.
func NewAPI(stores repository.Stores, lotSvc *lots.Service, populator *populate.Service, dash *dashboard.Service, logger *zap.Logger) *API {
	if logger == nil {
		logger = zap.NewNop()
	}
	svcLogger := logger.Named("svc.records")

	return &API{
		Resources: []Resource{
			{"cmr-years", NewResourceHandler("CMR year",
				records.NewService[models.CmrYear](repository.CmrYearsCollection, stores.CmrYears, svcLogger), nil, logger)},
			{"mills", NewResourceHandler("Mill",
				records.NewService[models.Mill](repository.MillsCollection, stores.Mills, svcLogger), Expand(populator.Mills), logger)},
			{"brokers", NewResourceHandler("Broker",
				records.NewService[models.Broker](repository.BrokersCollection, stores.Brokers, svcLogger), nil, logger)},
			{"parties", NewResourceHandler("Party",
				records.NewService[models.Party](repository.PartiesCollection, stores.Parties, svcLogger), nil, logger)},
			{"vehicles", NewResourceHandler("Vehicle",
				records.NewService[models.Vehicle](repository.VehiclesCollection, stores.Vehicles, svcLogger), nil, logger)},
			{"agreements", NewResourceHandler("Agreement",
				records.NewService[models.Agreement](repository.AgreementsCollection, stores.Agreements, svcLogger), Expand(populator.Agreements), logger)},
			{"saudas", NewResourceHandler("Sauda",
				records.NewService[models.Sauda](repository.SaudasCollection, stores.Saudas, svcLogger), Expand(populator.Saudas), logger)},
			{"lots", NewResourceHandler("Lot", lotSvc.Service, Expand(populator.Lots), logger)},
			{"payments", NewResourceHandler("Payment",
				records.NewService[models.Payment](repository.PaymentsCollection, stores.Payments, svcLogger), Expand(populator.Payments), logger)},
			{"bag-transactions", NewResourceHandler("Bag transaction",
				records.NewService[models.BagTransaction](repository.BagTransactionsCollection, stores.BagTransactions, svcLogger), nil, logger)},
		},
		Lots:      NewLotsHandler(lotSvc, populator, logger),
		Dashboard: NewDashboardHandler(dash, logger),
	}
}
