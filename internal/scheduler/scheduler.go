package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/ricemill/internal/domain/models"
)

const jobTimeout = 2 * time.Minute

// Snapshotter stores the dashboard figures for a point in time.
type Snapshotter interface {
	Snapshot(ctx context.Context, now time.Time) (*models.DashboardSnapshot, error)
}

// LedgerSyncer mirrors the lot ledger to an external sheet.
type LedgerSyncer interface {
	Sync(ctx context.Context) (int, error)
}

// SummaryNotifier sends the dashboard figures to someone.
type SummaryNotifier interface {
	SendSummary(ctx context.Context, stats models.DashboardStats, now time.Time) error
}

// Scheduler runs the daily report job.
type Scheduler struct {
	cron     *cron.Cron
	snapshot Snapshotter
	ledger   LedgerSyncer
	notifier SummaryNotifier
	now      func() time.Time
	logger   *zap.Logger
}

// NewScheduler registers the daily job on schedule, evaluated in loc.
// ledger and notifier may be nil when those integrations are disabled.
func NewScheduler(schedule string, loc *time.Location, snapshot Snapshotter, ledger LedgerSyncer, notifier SummaryNotifier, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}

	s := &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		snapshot: snapshot,
		ledger:   ledger,
		notifier: notifier,
		now:      time.Now,
		logger:   logger,
	}

	if _, err := s.cron.AddFunc(schedule, s.runScheduled); err != nil {
		return nil, fmt.Errorf("schedule daily report %q: %w", schedule, err)
	}
	return s, nil
}

// Start starts the scheduler.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.Int("jobs", len(s.cron.Entries())))
	s.cron.Start()
}

// Stop stops the scheduler and returns a context that is done once running jobs finish.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("stopping scheduler")
	return s.cron.Stop()
}

// RunOnce executes the daily job. Each step is attempted even when an earlier
// one fails; the number of failed steps is returned.
func (s *Scheduler) RunOnce(ctx context.Context) int {
	now := s.now()
	failures := 0

	snap, err := s.snapshot.Snapshot(ctx, now)
	if err != nil {
		s.logger.Error("failed to snapshot dashboard", zap.Error(err))
		failures++
	}

	if s.ledger != nil {
		if _, err := s.ledger.Sync(ctx); err != nil {
			s.logger.Error("failed to sync ledger sheet", zap.Error(err))
			failures++
		}
	}

	if s.notifier != nil && snap != nil {
		if err := s.notifier.SendSummary(ctx, snap.Stats, now); err != nil {
			s.logger.Error("failed to send daily summary", zap.Error(err))
			failures++
		}
	}

	s.logger.Info("daily report finished", zap.Int("failures", failures))
	return failures
}

func (s *Scheduler) runScheduled() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	s.RunOnce(ctx)
}
