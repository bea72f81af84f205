package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tot-logger/visit-log-api/internal/dto"
	"github.com/tot-logger/visit-log-api/internal/middleware"
	"github.com/tot-logger/visit-log-api/internal/models"
	"github.com/tot-logger/visit-log-api/pkg/response"
)

type sessionServiceMock struct {
	session      *models.InputSession
	confirmation *models.Confirmation
	entry        *models.LogEntry
	err          error
}

func (m *sessionServiceMock) Get(ctx context.Context, userID string) (*models.InputSession, error) {
	return m.session, m.err
}

func (m *sessionServiceMock) StartNew(ctx context.Context, userID string, clearSuspended bool) (*models.InputSession, error) {
	return m.session, m.err
}

func (m *sessionServiceMock) ChangeDate(ctx context.Context, userID, date string, confirm bool) (*models.InputSession, *models.Confirmation, error) {
	return m.session, m.confirmation, m.err
}

func (m *sessionServiceMock) StartEdit(ctx context.Context, userID, entryID string, confirm bool) (*models.InputSession, *models.Confirmation, error) {
	return m.session, m.confirmation, m.err
}

func (m *sessionServiceMock) SelectFloor(ctx context.Context, userID string, floor models.Floor) (*models.InputSession, error) {
	return m.session, m.err
}

func (m *sessionServiceMock) SelectTour(ctx context.Context, userID string, tour models.Tour, confirm bool) (*models.InputSession, *models.Confirmation, error) {
	return m.session, m.confirmation, m.err
}

func (m *sessionServiceMock) SelectProfile(ctx context.Context, userID string, profile models.Profile, confirm bool) (*models.InputSession, *models.Confirmation, error) {
	return m.session, m.confirmation, m.err
}

func (m *sessionServiceMock) SelectVehicle(ctx context.Context, userID string, num int, freeText string, confirm bool) (*models.InputSession, *models.Confirmation, error) {
	return m.session, m.confirmation, m.err
}

func (m *sessionServiceMock) ToggleSuspend(ctx context.Context, userID string, tour models.Tour, confirm bool) (*models.InputSession, *models.Confirmation, error) {
	return m.session, m.confirmation, m.err
}

func (m *sessionServiceMock) AdjustCount(ctx context.Context, userID string, delta int) (*models.InputSession, error) {
	return m.session, m.err
}

func (m *sessionServiceMock) SetMemo(ctx context.Context, userID, memo string) (*models.InputSession, error) {
	return m.session, m.err
}

func (m *sessionServiceMock) SetTime(ctx context.Context, userID, clock string) (*models.InputSession, error) {
	return m.session, m.err
}

func (m *sessionServiceMock) SetSpecial(ctx context.Context, userID string, on, confirm bool) (*models.InputSession, *models.Confirmation, error) {
	return m.session, m.confirmation, m.err
}

func (m *sessionServiceMock) Submit(ctx context.Context, userID string, author models.Author, acks []string) (*models.LogEntry, *models.Confirmation, error) {
	return m.entry, m.confirmation, m.err
}

func (m *sessionServiceMock) Cancel(ctx context.Context, userID string) (*models.InputSession, error) {
	return m.session, m.err
}

func testClaims() *models.AuthClaims {
	return &models.AuthClaims{
		Name: "Rex",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: "u1",
		},
	}
}

func testContext(t *testing.T, method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextUserKey, testClaims())
	return c, w
}

func TestSessionHandlerChangeDateConfirmationAnswers409(t *testing.T) {
	mock := &sessionServiceMock{
		confirmation: models.NewConfirmation(models.ConfirmDateReset, "change the date?"),
	}
	h := NewSessionHandler(mock, validator.New(), nil)

	c, w := testContext(t, http.MethodPost, "/session/date", dto.ChangeDateRequest{Date: "2026-06-01"})
	h.ChangeDate(c)

	require.Equal(t, http.StatusConflict, w.Code)
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Confirmation)
	assert.Equal(t, models.ConfirmDateReset, envelope.Confirmation.Code)
}

func TestSessionHandlerChangeDateApplied(t *testing.T) {
	mock := &sessionServiceMock{
		session: &models.InputSession{Phase: models.PhaseEmpty, Date: "2026-06-01", Count: 1},
	}
	h := NewSessionHandler(mock, validator.New(), nil)

	c, w := testContext(t, http.MethodPost, "/session/date",
		dto.ChangeDateRequest{Date: "2026-06-01", Confirm: true})
	h.ChangeDate(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSessionHandlerRejectsInvalidPayload(t *testing.T) {
	h := NewSessionHandler(&sessionServiceMock{}, validator.New(), nil)

	c, w := testContext(t, http.MethodPost, "/session/tour", dto.SelectTourRequest{Tour: "Z"})
	h.SelectTour(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessionHandlerSubmitCreated(t *testing.T) {
	mock := &sessionServiceMock{
		entry: &models.LogEntry{ID: "e1", Date: "2026-06-01", Count: 1},
	}
	h := NewSessionHandler(mock, validator.New(), nil)

	c, w := testContext(t, http.MethodPost, "/session/submit", dto.SubmitRequest{})
	h.Submit(c)

	require.Equal(t, http.StatusCreated, w.Code)
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.NotNil(t, envelope.Data)
}

func TestSessionHandlerSubmitGateAnswers409(t *testing.T) {
	mock := &sessionServiceMock{
		confirmation: models.NewConfirmation(models.ConfirmVehicleEmpty, "no vehicle selected"),
	}
	h := NewSessionHandler(mock, validator.New(), nil)

	c, w := testContext(t, http.MethodPost, "/session/submit", dto.SubmitRequest{})
	h.Submit(c)

	require.Equal(t, http.StatusConflict, w.Code)
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Confirmation)
	assert.Equal(t, models.ConfirmVehicleEmpty, envelope.Confirmation.Code)
}
