// Package lots manages lot records and keeps their settlement amount derived.
package lots

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mamadbah2/ricemill/internal/domain/models"
	"github.com/mamadbah2/ricemill/internal/domain/settlement"
	"github.com/mamadbah2/ricemill/internal/repository"
	"github.com/mamadbah2/ricemill/internal/service/records"
)

// ErrNoNetAmount is returned when a settlement is requested for a lot without net_amount.
var ErrNoNetAmount = errors.New("lot has no net amount")

// Service is the lot record service. Every write recomputes nett_amount_final.
type Service struct {
	*records.Service[models.Lot, *models.Lot]
	logger *zap.Logger
}

// NewService wires a lots service on top of the lot store.
func NewService(store repository.Store[*models.Lot], logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{logger: logger}
	s.Service = records.NewService[models.Lot](repository.LotsCollection, store, logger,
		records.WithBeforeSave[models.Lot, *models.Lot](s.derive))
	return s
}

// Save stores a new lot. Any nett_amount_final on the input is discarded and
// re-derived; lot is updated in place with its id, timestamps and final amount.
func (s *Service) Save(ctx context.Context, lot *models.Lot) (*models.Lot, error) {
	if lot == nil {
		return nil, fmt.Errorf("%w: lot is required", models.ErrValidation)
	}
	*lot.Meta() = models.Base{}
	if err := s.Insert(ctx, lot); err != nil {
		return nil, err
	}
	return lot, nil
}

// ListBySauda returns the lots recorded against a sauda, newest first.
func (s *Service) ListBySauda(ctx context.Context, sauda primitive.ObjectID) ([]*models.Lot, error) {
	return s.List(ctx, repository.ListOptions{Where: map[string]any{"sauda": sauda}})
}

// Settlement returns the itemised settlement for one lot.
func (s *Service) Settlement(ctx context.Context, id string) (settlement.Breakdown, error) {
	lot, err := s.Get(ctx, id)
	if err != nil {
		return settlement.Breakdown{}, err
	}

	b, ok := settlement.Compute(*lot)
	if !ok {
		return settlement.Breakdown{}, fmt.Errorf("settle lot %s: %w", lot.LotNo, ErrNoNetAmount)
	}
	return b, nil
}

// derive never trusts a caller-supplied final amount: new lots start without
// one and updates keep the stored value until settlement.Apply replaces it.
func (s *Service) derive(lot, stored *models.Lot) error {
	lot.NettAmountFinal = nil
	if stored != nil && stored.NettAmountFinal != nil {
		previous := *stored.NettAmountFinal
		lot.NettAmountFinal = &previous
	}

	if !settlement.Apply(lot) {
		s.logger.Debug("lot has no net amount, final amount not derived", zap.String("lot_no", lot.LotNo))
	}
	return nil
}
