package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tot-logger/visit-log-api/internal/models"
	appErrors "github.com/tot-logger/visit-log-api/pkg/errors"
)

type reportRepoStub struct {
	reports map[string]models.PublishedReport
	upserts int
	deletes int
	lists   int
}

func newReportRepoStub() *reportRepoStub {
	return &reportRepoStub{reports: map[string]models.PublishedReport{}}
}

func (s *reportRepoStub) Upsert(ctx context.Context, report *models.PublishedReport) (*models.PublishedReport, error) {
	s.upserts++
	report.UpdatedAt = time.Now().UTC()
	s.reports[report.ID] = *report
	return report, nil
}

func (s *reportRepoStub) Delete(ctx context.Context, id string) error {
	s.deletes++
	delete(s.reports, id)
	return nil
}

func (s *reportRepoStub) FindByID(ctx context.Context, id string) (*models.PublishedReport, error) {
	report, ok := s.reports[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &report, nil
}

func (s *reportRepoStub) List(ctx context.Context, limit int) ([]models.PublishedReport, error) {
	s.lists++
	out := []models.PublishedReport{}
	for _, r := range s.reports {
		out = append(out, r)
	}
	return out, nil
}

func (s *reportRepoStub) ListDatesByAuthor(ctx context.Context, authorID string) ([]string, error) {
	out := []string{}
	for _, r := range s.reports {
		if r.AuthorID == authorID {
			out = append(out, r.Date)
		}
	}
	return out, nil
}

func (s *reportRepoStub) Exists(ctx context.Context, id string) (bool, error) {
	_, ok := s.reports[id]
	return ok, nil
}

type cacheStub struct {
	data        map[string][]byte
	invalidated []string
}

func newCacheStub() *cacheStub {
	return &cacheStub{data: map[string][]byte{}}
}

func (s *cacheStub) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := s.data[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (s *cacheStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.data[key] = raw
	return nil
}

func (s *cacheStub) Invalidate(ctx context.Context, keys ...string) {
	for _, key := range keys {
		s.invalidated = append(s.invalidated, key)
		delete(s.data, key)
	}
}

func newTestReportService(reports *reportRepoStub, logs *logRepoStub, cache *cacheStub) *ReportService {
	return NewReportService(reports, logs, cache, &notifierStub{}, time.Minute, 1, 1, nil)
}

func publishableEntries() []models.LogEntry {
	base := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	return []models.LogEntry{
		entry("e1", "2026-06-01", base, func(e *models.LogEntry) {
			e.AuthorID = "u1"
			e.Count = 1
			e.Vehicle = "3"
		}),
		entry("e2", "2026-06-01", base.Add(time.Hour), func(e *models.LogEntry) {
			e.AuthorID = "u1"
			e.Count = 2
			e.Tour = models.TourB
			e.Floor = 2
			e.Vehicle = "6"
			e.Suspended = []string{"C"}
		}),
		entry("e3", "2026-06-02", base.Add(2*time.Hour), func(e *models.LogEntry) {
			e.AuthorID = "u1"
			e.Count = 1
		}),
	}
}

func TestReportPublishNeedsConfirmation(t *testing.T) {
	svc := newTestReportService(newReportRepoStub(), newLogRepoStub(publishableEntries()...), newCacheStub())

	report, confirmation, err := svc.Publish(context.Background(), models.Author{ID: "u1"}, "2026-06-01", false)
	require.NoError(t, err)
	require.NotNil(t, confirmation)
	assert.Equal(t, models.ConfirmPublish, confirmation.Code)
	assert.Nil(t, report)
}

func TestReportPublishBuildsSnapshot(t *testing.T) {
	reports := newReportRepoStub()
	cache := newCacheStub()
	svc := newTestReportService(reports, newLogRepoStub(publishableEntries()...), cache)

	report, confirmation, err := svc.Publish(context.Background(),
		models.Author{ID: "u1", Name: "Rex", ScreenName: "rex"}, "2026-06-01", true)
	require.NoError(t, err)
	require.Nil(t, confirmation)
	require.NotNil(t, report)

	assert.Equal(t, "2026-06-01_u1", report.ID)
	assert.Equal(t, "Rex", report.AuthorName)
	require.Len(t, report.Logs, 2)
	// Logs run in submission order, day 2 is excluded.
	assert.Equal(t, "e1", report.Logs[0].ID)
	assert.Equal(t, "e2", report.Logs[1].ID)

	assert.Equal(t, "3", report.Summary[models.TourA]["1"])
	assert.Equal(t, "6", report.Summary[models.TourB]["2"])
	assert.Equal(t, []string{"C"}, []string(report.Suspended))

	assert.Contains(t, cache.invalidated, reportsListCacheKey)
}

func TestReportPublishEmptyDayRejected(t *testing.T) {
	svc := newTestReportService(newReportRepoStub(), newLogRepoStub(), newCacheStub())

	_, _, err := svc.Publish(context.Background(), models.Author{ID: "u1"}, "2026-06-01", true)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestReportUnpublishIsIdempotent(t *testing.T) {
	reports := newReportRepoStub()
	svc := newTestReportService(reports, newLogRepoStub(), newCacheStub())

	confirmation, err := svc.Unpublish(context.Background(), "u1", "2026-06-01", false)
	require.NoError(t, err)
	require.NotNil(t, confirmation)
	assert.Equal(t, models.ConfirmUnpublish, confirmation.Code)

	confirmation, err = svc.Unpublish(context.Background(), "u1", "2026-06-01", true)
	require.NoError(t, err)
	assert.Nil(t, confirmation)
	assert.Equal(t, 1, reports.deletes)
}

func TestReportRepublishRebuilds(t *testing.T) {
	reports := newReportRepoStub()
	logs := newLogRepoStub(publishableEntries()...)
	svc := newTestReportService(reports, logs, newCacheStub())

	_, _, err := svc.Publish(context.Background(), models.Author{ID: "u1"}, "2026-06-01", true)
	require.NoError(t, err)
	require.Equal(t, 1, reports.upserts)

	require.NoError(t, svc.Republish(context.Background(), "u1", "2026-06-01"))
	assert.Equal(t, 2, reports.upserts)
}

func TestReportRepublishPrunesEmptyDay(t *testing.T) {
	reports := newReportRepoStub()
	logs := newLogRepoStub(publishableEntries()...)
	svc := newTestReportService(reports, logs, newCacheStub())

	_, _, err := svc.Publish(context.Background(), models.Author{ID: "u1"}, "2026-06-01", true)
	require.NoError(t, err)

	require.NoError(t, logs.Delete(context.Background(), "e1"))
	require.NoError(t, logs.Delete(context.Background(), "e2"))

	require.NoError(t, svc.Republish(context.Background(), "u1", "2026-06-01"))
	assert.Equal(t, 1, reports.deletes)

	exists, err := reports.Exists(context.Background(), models.ReportID("2026-06-01", "u1"))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestReportRepublishUnpublishedDayIsNoop(t *testing.T) {
	reports := newReportRepoStub()
	svc := newTestReportService(reports, newLogRepoStub(), newCacheStub())

	require.NoError(t, svc.Republish(context.Background(), "u1", "2026-06-01"))
	assert.Zero(t, reports.upserts)
	assert.Zero(t, reports.deletes)
}

func TestReportListUsesCacheForDefaultPage(t *testing.T) {
	reports := newReportRepoStub()
	svc := newTestReportService(reports, newLogRepoStub(publishableEntries()...), newCacheStub())

	_, _, err := svc.Publish(context.Background(), models.Author{ID: "u1"}, "2026-06-01", true)
	require.NoError(t, err)

	_, err = svc.List(context.Background(), 0)
	require.NoError(t, err)
	_, err = svc.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, reports.lists)

	// Explicit limits bypass the cache.
	_, err = svc.List(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 2, reports.lists)
}

func TestReportExportCSV(t *testing.T) {
	reports := newReportRepoStub()
	svc := newTestReportService(reports, newLogRepoStub(publishableEntries()...), newCacheStub())

	_, _, err := svc.Publish(context.Background(), models.Author{ID: "u1"}, "2026-06-01", true)
	require.NoError(t, err)

	payload, filename, err := svc.Export(context.Background(), "u1", "2026-06-01", "csv")
	require.NoError(t, err)
	assert.Equal(t, "report_2026-06-01.csv", filename)

	lines := strings.Split(strings.TrimSpace(string(payload)), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Vehicle")
	assert.Contains(t, lines[1], "3")
}

func TestReportExportUnknownFormat(t *testing.T) {
	reports := newReportRepoStub()
	svc := newTestReportService(reports, newLogRepoStub(publishableEntries()...), newCacheStub())

	_, _, err := svc.Publish(context.Background(), models.Author{ID: "u1"}, "2026-06-01", true)
	require.NoError(t, err)

	_, _, err = svc.Export(context.Background(), "u1", "2026-06-01", "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, _, err = svc.Export(context.Background(), "u1", "2026-06-09", "csv")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
