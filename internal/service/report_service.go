package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/tot-logger/visit-log-api/internal/models"
	appErrors "github.com/tot-logger/visit-log-api/pkg/errors"
	"github.com/tot-logger/visit-log-api/pkg/export"
	"github.com/tot-logger/visit-log-api/pkg/jobs"
)

const reportsListCacheKey = "reports:list"

type reportRepository interface {
	Upsert(ctx context.Context, report *models.PublishedReport) (*models.PublishedReport, error)
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*models.PublishedReport, error)
	List(ctx context.Context, limit int) ([]models.PublishedReport, error)
	ListDatesByAuthor(ctx context.Context, authorID string) ([]string, error)
	Exists(ctx context.Context, id string) (bool, error)
}

type reportLogRepository interface {
	ListByAuthor(ctx context.Context, authorID string) ([]models.LogEntry, error)
}

type reportCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Invalidate(ctx context.Context, keys ...string)
}

type republishPayload struct {
	AuthorID string
	Date     string
}

// ReportService manages the shared board: publishing a user's day wholesale,
// keeping published days in sync with later edits, and exporting snapshots.
type ReportService struct {
	reports  reportRepository
	logs     reportLogRepository
	cache    reportCache
	notifier changeNotifier
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	queue    *jobs.Queue
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewReportService constructs the service and its republish worker queue.
// Call StartWorkers before serving traffic and StopWorkers on shutdown.
func NewReportService(reports reportRepository, logs reportLogRepository, cache reportCache, notifier changeNotifier, cacheTTL time.Duration, workers, retries int, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 2 * time.Minute
	}
	s := &ReportService{
		reports:  reports,
		logs:     logs,
		cache:    cache,
		notifier: notifier,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		cacheTTL: cacheTTL,
		logger:   logger,
	}
	s.queue = jobs.NewQueue("report-republish", s.handleRepublish, jobs.QueueConfig{
		Workers:    workers,
		MaxRetries: retries,
		Logger:     logger,
	})
	return s
}

// StartWorkers starts the background republish queue.
func (s *ReportService) StartWorkers(ctx context.Context) {
	s.queue.Start(ctx)
}

// StopWorkers drains and stops the republish queue.
func (s *ReportService) StopWorkers() {
	s.queue.Stop()
}

// IsPublished reports whether the author has the date on the shared board.
func (s *ReportService) IsPublished(ctx context.Context, authorID, date string) (bool, error) {
	return s.reports.Exists(ctx, models.ReportID(date, authorID))
}

// Publish snapshots the author's entries for the date onto the shared board,
// replacing any previous snapshot for that day wholesale.
func (s *ReportService) Publish(ctx context.Context, author models.Author, date string, confirm bool) (*models.PublishedReport, *models.Confirmation, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "invalid date format, expected YYYY-MM-DD")
	}
	if !confirm {
		return nil, models.NewConfirmation(models.ConfirmPublish,
			fmt.Sprintf("publish your records for %s to the shared board?", date)), nil
	}

	report, err := s.buildReport(ctx, author, date)
	if err != nil {
		return nil, nil, err
	}
	if report == nil {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "no entries recorded for this date")
	}

	stored, err := s.reports.Upsert(ctx, report)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to publish report")
	}
	s.cache.Invalidate(ctx, reportsListCacheKey)
	s.notifier.LogsChanged(ctx, author.ID)
	return stored, nil, nil
}

// Unpublish removes the author's snapshot for the date. Removing a date that
// is not published succeeds silently.
func (s *ReportService) Unpublish(ctx context.Context, authorID, date string, confirm bool) (*models.Confirmation, error) {
	if !confirm {
		return models.NewConfirmation(models.ConfirmUnpublish,
			fmt.Sprintf("remove your records for %s from the shared board?", date)), nil
	}
	if err := s.reports.Delete(ctx, models.ReportID(date, authorID)); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to unpublish report")
	}
	s.cache.Invalidate(ctx, reportsListCacheKey)
	s.notifier.LogsChanged(ctx, authorID)
	return nil, nil
}

// EnqueueRepublish schedules a background rebuild of a published day after
// its underlying entries changed.
func (s *ReportService) EnqueueRepublish(authorID, date string) {
	err := s.queue.Enqueue(jobs.Job{
		ID:      models.ReportID(date, authorID),
		Type:    "republish",
		Payload: republishPayload{AuthorID: authorID, Date: date},
	})
	if err != nil {
		s.logger.Warn("failed to enqueue republish",
			zap.String("author_id", authorID), zap.String("date", date), zap.Error(err))
	}
}

// Republish rebuilds a published day from the current entries. A day whose
// entries are all gone is removed from the board instead.
func (s *ReportService) Republish(ctx context.Context, authorID, date string) error {
	id := models.ReportID(date, authorID)
	existing, err := s.reports.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("load report %s: %w", id, err)
	}

	author := models.Author{
		ID:         existing.AuthorID,
		Name:       existing.AuthorName,
		AvatarURL:  existing.AuthorAvatarURL,
		ScreenName: existing.AuthorScreenName,
	}
	report, err := s.buildReport(ctx, author, date)
	if err != nil {
		return err
	}

	if report == nil {
		if err := s.reports.Delete(ctx, id); err != nil {
			return fmt.Errorf("prune empty report %s: %w", id, err)
		}
	} else if _, err := s.reports.Upsert(ctx, report); err != nil {
		return fmt.Errorf("republish report %s: %w", id, err)
	}

	s.cache.Invalidate(ctx, reportsListCacheKey)
	return nil
}

func (s *ReportService) handleRepublish(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(republishPayload)
	if !ok {
		s.logger.Error("republish job with unexpected payload", zap.String("job_id", job.ID))
		return nil
	}
	return s.Republish(ctx, payload.AuthorID, payload.Date)
}

// buildReport assembles the snapshot for one author's day. Returns nil when
// the day has no entries.
func (s *ReportService) buildReport(ctx context.Context, author models.Author, date string) (*models.PublishedReport, error) {
	entries, err := s.logs.ListByAuthor(ctx, author.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load log entries")
	}

	ordered := SubmissionOrder(entries)
	state := AggregateDailyState(date, ordered, "")

	reportLogs := models.ReportLogs{}
	for _, entry := range ordered {
		if entry.Date != date {
			continue
		}
		reportLogs = append(reportLogs, models.ReportLog{
			ID:        entry.ID,
			Time:      entry.Time,
			Count:     entry.Count,
			Tour:      entry.Tour,
			Floor:     entry.Floor,
			Vehicle:   entry.Vehicle,
			Profile:   entry.Profile,
			IsSpecial: entry.IsSpecial,
		})
	}
	if len(reportLogs) == 0 {
		return nil, nil
	}

	summary := models.ReportSummary{}
	for room, vehicle := range state.Assignments {
		tour, floor := room.Split()
		if _, ok := summary[tour]; !ok {
			summary[tour] = map[string]string{}
		}
		summary[tour][strconv.Itoa(int(floor))] = vehicle
	}

	suspended := []string{}
	for _, tour := range models.Tours() {
		if state.Suspended[tour] {
			suspended = append(suspended, string(tour))
		}
	}

	return &models.PublishedReport{
		ID:               models.ReportID(date, author.ID),
		Date:             date,
		AuthorID:         author.ID,
		AuthorName:       author.Name,
		AuthorAvatarURL:  author.AvatarURL,
		AuthorScreenName: author.ScreenName,
		Summary:          summary,
		Suspended:        suspended,
		Logs:             reportLogs,
	}, nil
}

// List returns the shared board, newest date first. The default page is
// served from cache; explicit limits bypass it.
func (s *ReportService) List(ctx context.Context, limit int) ([]models.PublishedReport, error) {
	useCache := limit <= 0
	if useCache {
		cached := []models.PublishedReport{}
		if err := s.cache.Get(ctx, reportsListCacheKey, &cached); err == nil {
			return cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("report list cache read failed", zap.Error(err))
		}
	}

	reports, err := s.reports.List(ctx, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list reports")
	}

	if useCache {
		if err := s.cache.Set(ctx, reportsListCacheKey, reports, s.cacheTTL); err != nil {
			s.logger.Warn("report list cache write failed", zap.Error(err))
		}
	}
	return reports, nil
}

// PublishedDates returns the dates the author currently has on the board.
func (s *ReportService) PublishedDates(ctx context.Context, authorID string) ([]string, error) {
	dates, err := s.reports.ListDatesByAuthor(ctx, authorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list published dates")
	}
	return dates, nil
}

// Export renders one published report as CSV or PDF bytes.
func (s *ReportService) Export(ctx context.Context, authorID, date, format string) ([]byte, string, error) {
	id := models.ReportID(date, authorID)
	report, err := s.reports.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", appErrors.Clone(appErrors.ErrNotFound, "report not found")
		}
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load report")
	}

	dataset := export.Dataset{
		Headers: []string{"Count", "Time", "Tour", "Floor", "Vehicle", "Profile", "Special"},
	}
	for _, entry := range report.Logs {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Count":   strconv.Itoa(entry.Count),
			"Time":    entry.Time,
			"Tour":    string(entry.Tour),
			"Floor":   strconv.Itoa(int(entry.Floor)),
			"Vehicle": entry.Vehicle,
			"Profile": entry.Profile.Label(),
			"Special": strconv.FormatBool(entry.IsSpecial),
		})
	}

	switch format {
	case "csv":
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return payload, fmt.Sprintf("report_%s.csv", report.Date), nil
	case "pdf":
		title := fmt.Sprintf("Visit log %s", report.Date)
		payload, err := s.pdf.Render(dataset, title)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return payload, fmt.Sprintf("report_%s.pdf", report.Date), nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}
