package service

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NotifierService fans out change events over Redis pub/sub so every open
// client of a user sees edits as they land.
type NotifierService struct {
	client *redis.Client
	prefix string
	logger *zap.Logger
}

// NewNotifierService constructs the notifier. A nil client disables fan-out.
func NewNotifierService(client *redis.Client, prefix string, logger *zap.Logger) *NotifierService {
	if prefix == "" {
		prefix = "logs"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotifierService{client: client, prefix: prefix, logger: logger}
}

func (s *NotifierService) channel(userID string) string {
	return fmt.Sprintf("%s:%s", s.prefix, userID)
}

// LogsChanged signals that the user's entries changed. Delivery is best
// effort; subscribers resync on the next event either way.
func (s *NotifierService) LogsChanged(ctx context.Context, userID string) {
	if s.client == nil {
		return
	}
	if err := s.client.Publish(ctx, s.channel(userID), "changed").Err(); err != nil {
		s.logger.Warn("change notification failed", zap.String("user_id", userID), zap.Error(err))
	}
}

// Subscribe opens a subscription for one user's change events. The caller
// must close the returned PubSub when done.
func (s *NotifierService) Subscribe(ctx context.Context, userID string) (*redis.PubSub, error) {
	if s.client == nil {
		return nil, fmt.Errorf("realtime notifications are not configured")
	}
	sub := s.client.Subscribe(ctx, s.channel(userID))
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", s.channel(userID), err)
	}
	return sub, nil
}
