// Package ledger mirrors the lot ledger into a Google Sheet.
package ledger

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/ricemill/internal/domain/models"
	"github.com/mamadbah2/ricemill/internal/export"
	"github.com/mamadbah2/ricemill/internal/repository"
	"github.com/mamadbah2/ricemill/internal/repository/sheets"
	"github.com/mamadbah2/ricemill/internal/service/populate"
)

const (
	sheetRange = "Lots!A:N"
	startCell  = "Lots!A1"
)

// Service rewrites the ledger sheet from the lot store.
type Service struct {
	sheet    sheets.Repository
	lots     repository.Store[*models.Lot]
	populate *populate.Service
	logger   *zap.Logger
}

// NewService wires a ledger sync service.
func NewService(sheet sheets.Repository, lots repository.Store[*models.Lot], populator *populate.Service, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{sheet: sheet, lots: lots, populate: populator, logger: logger}
}

// Sync clears the ledger range and writes a header row followed by one row per lot.
// It returns the number of lot rows written.
func (s *Service) Sync(ctx context.Context) (int, error) {
	lots, err := s.lots.List(ctx, repository.ListOptions{})
	if err != nil {
		return 0, fmt.Errorf("load lots: %w", err)
	}
	views, err := s.populate.Lots(ctx, lots)
	if err != nil {
		return 0, fmt.Errorf("populate lots: %w", err)
	}

	header := make([]interface{}, 0, len(export.LedgerHeader))
	for _, h := range export.LedgerHeader {
		header = append(header, h)
	}
	rows := append([][]interface{}{header}, export.LedgerRows(views)...)

	if err := s.sheet.ClearRange(ctx, sheetRange); err != nil {
		return 0, err
	}
	if err := s.sheet.WriteRows(ctx, startCell, rows); err != nil {
		return 0, err
	}

	s.logger.Info("ledger sheet synced", zap.Int("lots", len(views)))
	return len(views), nil
}
