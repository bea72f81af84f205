package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tot-logger/visit-log-api/internal/models"
	"github.com/tot-logger/visit-log-api/internal/service"
)

type logServiceMock struct {
	entries      []models.LogEntry
	readout      *service.DailyReadout
	confirmation *models.Confirmation
	err          error
}

func (m *logServiceMock) List(ctx context.Context, userID string) ([]models.LogEntry, error) {
	return m.entries, m.err
}

func (m *logServiceMock) DailyState(ctx context.Context, userID, date, excludeID string) (*service.DailyReadout, error) {
	return m.readout, m.err
}

func (m *logServiceMock) Delete(ctx context.Context, userID, entryID string, confirm bool) (*models.Confirmation, error) {
	return m.confirmation, m.err
}

func TestLogHandlerStreamEventsCarryEntries(t *testing.T) {
	mock := &logServiceMock{
		entries: []models.LogEntry{
			{ID: "e2", Date: "2026-06-02", Count: 1},
			{ID: "e1", Date: "2026-06-01", Count: 1},
		},
	}
	h := NewLogHandler(mock, nil, nil, nil)

	entries, ok := h.snapshot(context.Background(), "u1")
	require.True(t, ok)
	require.Len(t, entries, 2)
	assert.Equal(t, "e2", entries[0].ID)
	assert.Equal(t, "e1", entries[1].ID)
}

func TestLogHandlerStreamSnapshotSurvivesLoadFailure(t *testing.T) {
	h := NewLogHandler(&logServiceMock{err: assert.AnError}, nil, nil, nil)

	_, ok := h.snapshot(context.Background(), "u1")
	assert.False(t, ok)
}

func TestLogHandlerDeleteConfirmationAnswers409(t *testing.T) {
	mock := &logServiceMock{
		confirmation: models.NewConfirmation(models.ConfirmDeleteEntry, "delete this entry?"),
	}
	h := NewLogHandler(mock, nil, nil, nil)

	c, w := testContext(t, http.MethodDelete, "/logs/e1", nil)
	c.Params = gin.Params{{Key: "id", Value: "e1"}}
	h.Delete(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLogHandlerDeleteApplied(t *testing.T) {
	h := NewLogHandler(&logServiceMock{}, nil, nil, nil)

	c, w := testContext(t, http.MethodDelete, "/logs/e1?confirm=true", nil)
	c.Params = gin.Params{{Key: "id", Value: "e1"}}
	h.Delete(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, w.Code)
}
