package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mamadbah2/ricemill/internal/domain/models"
)

type fakeSnapshot struct {
	err   error
	calls int
}

func (f *fakeSnapshot) Snapshot(_ context.Context, now time.Time) (*models.DashboardSnapshot, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &models.DashboardSnapshot{Date: now, Stats: models.DashboardStats{PendingLots: 4}}, nil
}

type fakeLedger struct {
	err   error
	calls int
}

func (f *fakeLedger) Sync(context.Context) (int, error) {
	f.calls++
	return 1, f.err
}

type fakeNotifier struct {
	stats *models.DashboardStats
}

func (f *fakeNotifier) SendSummary(_ context.Context, stats models.DashboardStats, _ time.Time) error {
	f.stats = &stats
	return nil
}

func TestNewScheduler_InvalidSchedule(t *testing.T) {
	if _, err := NewScheduler("every day", time.UTC, &fakeSnapshot{}, nil, nil, nil); err == nil {
		t.Fatal("Expected error for invalid cron expression")
	}
}

func TestRunOnce(t *testing.T) {
	snap := &fakeSnapshot{}
	ledger := &fakeLedger{}
	notifier := &fakeNotifier{}

	s, err := NewScheduler("0 20 * * *", time.UTC, snap, ledger, notifier, nil)
	if err != nil {
		t.Fatalf("NewScheduler failed: %v", err)
	}

	if failures := s.RunOnce(context.Background()); failures != 0 {
		t.Errorf("Expected no failures, got %d", failures)
	}
	if snap.calls != 1 || ledger.calls != 1 {
		t.Errorf("Expected each step once, got snapshot=%d ledger=%d", snap.calls, ledger.calls)
	}
	if notifier.stats == nil || notifier.stats.PendingLots != 4 {
		t.Errorf("Expected snapshot stats to be sent, got %+v", notifier.stats)
	}
}

func TestRunOnce_ContinuesAfterFailures(t *testing.T) {
	snap := &fakeSnapshot{err: errors.New("mongo down")}
	ledger := &fakeLedger{}
	notifier := &fakeNotifier{}

	s, err := NewScheduler("0 20 * * *", nil, snap, ledger, notifier, nil)
	if err != nil {
		t.Fatalf("NewScheduler failed: %v", err)
	}

	if failures := s.RunOnce(context.Background()); failures != 1 {
		t.Errorf("Expected 1 failure, got %d", failures)
	}
	if ledger.calls != 1 {
		t.Error("Expected ledger sync to run after snapshot failure")
	}
	if notifier.stats != nil {
		t.Error("Expected no summary without a snapshot")
	}
}

func TestRunOnce_OptionalSteps(t *testing.T) {
	s, err := NewScheduler("@daily", time.UTC, &fakeSnapshot{}, nil, nil, nil)
	if err != nil {
		t.Fatalf("NewScheduler failed: %v", err)
	}
	if failures := s.RunOnce(context.Background()); failures != 0 {
		t.Errorf("Expected no failures, got %d", failures)
	}

	s.Start()
	<-s.Stop().Done()
}
