// Package notify sends the daily dashboard summary over WhatsApp.
package notify

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/ricemill/internal/domain/models"
	"github.com/mamadbah2/ricemill/internal/service/dashboard"
	"github.com/mamadbah2/ricemill/pkg/clients/whatsapp"
)

// Service delivers summaries to a single configured recipient.
type Service struct {
	sender    whatsapp.Sender
	recipient string
	logger    *zap.Logger
}

// NewService wires a notify service.
func NewService(sender whatsapp.Sender, recipient string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{sender: sender, recipient: recipient, logger: logger}
}

// SendSummary formats stats and sends them to the recipient.
func (s *Service) SendSummary(ctx context.Context, stats models.DashboardStats, now time.Time) error {
	id, err := s.sender.SendText(ctx, s.recipient, dashboard.Format(stats, now))
	if err != nil {
		return fmt.Errorf("send summary to %s: %w", s.recipient, err)
	}

	s.logger.Info("summary sent", zap.String("to", s.recipient), zap.String("message_id", id))
	return nil
}
