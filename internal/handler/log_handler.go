package handler

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tot-logger/visit-log-api/internal/models"
	"github.com/tot-logger/visit-log-api/internal/service"
	appErrors "github.com/tot-logger/visit-log-api/pkg/errors"
	"github.com/tot-logger/visit-log-api/pkg/response"
)

type logService interface {
	List(ctx context.Context, userID string) ([]models.LogEntry, error)
	DailyState(ctx context.Context, userID, date, excludeID string) (*service.DailyReadout, error)
	Delete(ctx context.Context, userID, entryID string, confirm bool) (*models.Confirmation, error)
}

// LogHandler exposes the recorded history and derived daily state.
type LogHandler struct {
	service   logService
	notifier  *service.NotifierService
	recommend *service.RecommendationService
	metrics   *service.MetricsService
}

// NewLogHandler builds a new handler.
func NewLogHandler(svc logService, notifier *service.NotifierService, recommend *service.RecommendationService, metrics *service.MetricsService) *LogHandler {
	return &LogHandler{service: svc, notifier: notifier, recommend: recommend, metrics: metrics}
}

// List godoc
// @Summary List the caller's log entries
// @Tags Logs
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /logs [get]
func (h *LogHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	entries, err := h.service.List(c.Request.Context(), claims.UserID())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries)
}

// Delete godoc
// @Summary Delete one log entry
// @Tags Logs
// @Produce json
// @Param id path string true "Entry id"
// @Param confirm query bool false "Apply without a confirmation round-trip"
// @Success 204
// @Failure 409 {object} response.Envelope
// @Router /logs/{id} [delete]
func (h *LogHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	confirm := c.Query("confirm") == "true"
	confirmation, err := h.service.Delete(c.Request.Context(), claims.UserID(), c.Param("id"), confirm)
	if err != nil {
		response.Error(c, err)
		return
	}
	if confirmation != nil {
		h.metrics.RecordConfirmation(confirmation.Code)
		response.Confirm(c, confirmation)
		return
	}
	h.metrics.RecordEntry("delete")
	response.NoContent(c)
}

// DailyState godoc
// @Summary Aggregated state for one date
// @Tags Logs
// @Produce json
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param exclude query string false "Entry id to mask from the fold"
// @Success 200 {object} response.Envelope
// @Router /daily-state [get]
func (h *LogHandler) DailyState(c *gin.Context) {
	date := c.Query("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "date query parameter must be YYYY-MM-DD"))
		return
	}
	claims := claimsFromContext(c)
	readout, err := h.service.DailyState(c.Request.Context(), claims.UserID(), date, c.Query("exclude"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, readout)
}

// Recommendation godoc
// @Summary Default profile and caution analysis for a pending selection
// @Tags Logs
// @Produce json
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param tour query string true "Tour (A, B, C)"
// @Param vehicle query int false "Pending vehicle number"
// @Param exclude query string false "Entry id to mask from the fold"
// @Success 200 {object} response.Envelope
// @Router /recommendation [get]
func (h *LogHandler) Recommendation(c *gin.Context) {
	date := c.Query("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "date query parameter must be YYYY-MM-DD"))
		return
	}
	tour := models.Tour(c.Query("tour"))
	if !tour.Valid() {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "tour query parameter must be A, B or C"))
		return
	}

	claims := claimsFromContext(c)
	readout, err := h.service.DailyState(c.Request.Context(), claims.UserID(), date, c.Query("exclude"))
	if err != nil {
		response.Error(c, err)
		return
	}

	result := gin.H{
		"profile": h.recommend.AnalyzeProfile(date, tour, readout.State),
	}
	if raw := c.Query("vehicle"); raw != "" {
		num, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "vehicle query parameter must be a number"))
			return
		}
		var room models.RoomKey
		if floor, ferr := strconv.Atoi(c.Query("floor")); ferr == nil && models.Floor(floor).Valid() {
			room = models.NewRoomKey(tour, models.Floor(floor))
		}
		result["vehicle"] = h.recommend.AnalyzeVehicle(num, room, readout.State.Assignments, false)
	}

	response.JSON(c, http.StatusOK, result)
}

// snapshot loads the caller's entries for one stream event. A load failure
// keeps the stream alive; the next change retries.
func (h *LogHandler) snapshot(ctx context.Context, userID string) ([]models.LogEntry, bool) {
	entries, err := h.service.List(ctx, userID)
	if err != nil {
		return nil, false
	}
	return entries, true
}

// Stream godoc
// @Summary Server-sent events carrying the caller's entries on every change
// @Tags Logs
// @Produce text/event-stream
// @Success 200
// @Router /logs/stream [get]
func (h *LogHandler) Stream(c *gin.Context) {
	claims := claimsFromContext(c)
	userID := claims.UserID()
	sub, err := h.notifier.Subscribe(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "realtime stream unavailable"))
		return
	}
	defer sub.Close()

	h.metrics.StreamClientConnected(1)
	defer h.metrics.StreamClientConnected(-1)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	messages := sub.Channel()
	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	// Initial snapshot so a subscriber never has to pair the stream with a
	// separate list call.
	if entries, ok := h.snapshot(c.Request.Context(), userID); ok {
		c.SSEvent("change", entries)
		c.Writer.Flush()
	}

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case _, ok := <-messages:
			if !ok {
				return false
			}
			entries, ok := h.snapshot(c.Request.Context(), userID)
			if !ok {
				return true
			}
			c.SSEvent("change", entries)
			return true
		case <-heartbeat.C:
			c.SSEvent("ping", time.Now().UTC().Format(time.RFC3339))
			return true
		}
	})
}
