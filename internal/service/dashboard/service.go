// Package dashboard computes the headline operations figures.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/ricemill/internal/domain/models"
	"github.com/mamadbah2/ricemill/internal/repository"
)

// Service aggregates counts across the repositories.
type Service struct {
	stores   repository.Stores
	location *time.Location
	logger   *zap.Logger
}

// NewService wires a dashboard service. Month boundaries are taken in loc.
func NewService(stores repository.Stores, loc *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{stores: stores, location: loc, logger: logger}
}

// MonthWindow returns the start of the month containing now and the start of the next one.
func (s *Service) MonthWindow(now time.Time) (time.Time, time.Time) {
	local := now.In(s.location)
	start := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, s.location)
	return start, start.AddDate(0, 1, 0)
}

// Summary returns the dashboard figures as of now.
func (s *Service) Summary(ctx context.Context, now time.Time) (models.DashboardStats, error) {
	var stats models.DashboardStats
	var err error

	if stats.TotalAgreements, err = s.stores.Agreements.Count(ctx, repository.ListOptions{}); err != nil {
		return stats, fmt.Errorf("count agreements: %w", err)
	}

	for _, status := range []models.SaudaStatus{models.SaudaOpen, models.SaudaPartial} {
		n, err := s.stores.Saudas.Count(ctx, repository.ListOptions{Where: map[string]any{"status": status}})
		if err != nil {
			return stats, fmt.Errorf("count %s saudas: %w", status, err)
		}
		stats.ActiveSaudas += n
	}

	if stats.PendingLots, err = s.stores.Lots.Count(ctx, repository.ListOptions{Where: map[string]any{"rice_pass_date": nil}}); err != nil {
		return stats, fmt.Errorf("count pending lots: %w", err)
	}

	if stats.TotalPayments, err = s.stores.Payments.Count(ctx, repository.ListOptions{}); err != nil {
		return stats, fmt.Errorf("count payments: %w", err)
	}

	start, end := s.MonthWindow(now)
	payments, err := s.stores.Payments.List(ctx, repository.ListOptions{DateField: "payment_date", From: start, To: end})
	if err != nil {
		return stats, fmt.Errorf("load payments for %s: %w", start.Format("2006-01"), err)
	}
	revenue := decimal.Zero
	for _, p := range payments {
		if p.Amount != nil {
			revenue = revenue.Add(decimal.NewFromFloat(*p.Amount))
		}
	}
	stats.TotalRevenue = revenue.InexactFloat64()

	if stats.ActiveMills, err = s.stores.Mills.Count(ctx, repository.ListOptions{Where: map[string]any{"is_active": true}}); err != nil {
		return stats, fmt.Errorf("count active mills: %w", err)
	}

	return stats, nil
}

// Snapshot computes the summary and stores it for later reference.
func (s *Service) Snapshot(ctx context.Context, now time.Time) (*models.DashboardSnapshot, error) {
	stats, err := s.Summary(ctx, now)
	if err != nil {
		return nil, err
	}

	start, end := s.MonthWindow(now)
	snap := &models.DashboardSnapshot{Date: now.UTC(), PeriodStart: start, PeriodEnd: end, Stats: stats}
	if err := s.stores.Snapshots.Insert(ctx, snap); err != nil {
		return nil, fmt.Errorf("store dashboard snapshot: %w", err)
	}

	s.logger.Info("dashboard snapshot stored",
		zap.String("id", snap.ID.Hex()),
		zap.Int64("pending_lots", stats.PendingLots),
		zap.Float64("revenue", stats.TotalRevenue))
	return snap, nil
}

// Format renders stats as a short text message.
func Format(stats models.DashboardStats, now time.Time) string {
	return fmt.Sprintf("Rice mill summary %s\nAgreements: %d\nActive saudas: %d\nPending lots: %d\nPayments: %d\nRevenue this month: Rs. %s\nActive mills: %d",
		now.Format("2006-01-02"),
		stats.TotalAgreements,
		stats.ActiveSaudas,
		stats.PendingLots,
		stats.TotalPayments,
		decimal.NewFromFloat(stats.TotalRevenue).StringFixed(2),
		stats.ActiveMills)
}
