package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/tot-logger/visit-log-api/internal/models"
	appErrors "github.com/tot-logger/visit-log-api/pkg/errors"
)

type logRepository interface {
	ListByAuthor(ctx context.Context, authorID string) ([]models.LogEntry, error)
	FindByID(ctx context.Context, id string) (*models.LogEntry, error)
	Delete(ctx context.Context, id string) error
}

// DailyReadout bundles the derived state clients need to render a day.
type DailyReadout struct {
	Date      string            `json:"date"`
	State     models.DailyState `json:"state"`
	NextCount int               `json:"next_count"`
}

// LogService serves the recorded history and handles deletions.
type LogService struct {
	logs      logRepository
	publisher reportPublisher
	notifier  changeNotifier
	logger    *zap.Logger
}

// NewLogService constructs the service.
func NewLogService(logs logRepository, publisher reportPublisher, notifier changeNotifier, logger *zap.Logger) *LogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogService{logs: logs, publisher: publisher, notifier: notifier, logger: logger}
}

// List returns the user's full history in display order: date descending,
// newest first within a date.
func (s *LogService) List(ctx context.Context, userID string) ([]models.LogEntry, error) {
	entries, err := s.logs.ListByAuthor(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load log entries")
	}
	return DisplayOrder(entries), nil
}

// DailyState returns the aggregated state for one date plus the next count.
// excludeID masks an entry from the fold, used while that entry is edited.
func (s *LogService) DailyState(ctx context.Context, userID, date, excludeID string) (*DailyReadout, error) {
	entries, err := s.logs.ListByAuthor(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load log entries")
	}
	return &DailyReadout{
		Date:      date,
		State:     AggregateDailyState(date, SubmissionOrder(entries), excludeID),
		NextCount: NextCount(date, entries),
	}, nil
}

// Delete removes one entry after confirmation, with stronger wording when the
// entry's date is published. A published day is rebuilt (or pruned when the
// last entry goes) in the background.
func (s *LogService) Delete(ctx context.Context, userID, entryID string, confirm bool) (*models.Confirmation, error) {
	entry, err := s.logs.FindByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrStaleReference, "entry no longer exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load entry")
	}
	if entry.AuthorID != userID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "entry belongs to another user")
	}

	published, perr := s.publisher.IsPublished(ctx, userID, entry.Date)
	if perr != nil {
		s.logger.Warn("publish check failed", zap.String("date", entry.Date), zap.Error(perr))
		published = false
	}

	if !confirm {
		if published {
			return models.NewConfirmation(models.ConfirmDeletePublished,
				fmt.Sprintf("delete count %d of %s? this day is published and the shared board will be updated", entry.Count, entry.Date)), nil
		}
		return models.NewConfirmation(models.ConfirmDeleteEntry,
			fmt.Sprintf("delete count %d of %s?", entry.Count, entry.Date)), nil
	}

	if err := s.logs.Delete(ctx, entryID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrStaleReference, "entry no longer exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to delete entry")
	}

	s.notifier.LogsChanged(ctx, userID)
	if published {
		s.publisher.EnqueueRepublish(userID, entry.Date)
	}
	return nil, nil
}
