package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/tot-logger/visit-log-api/internal/dto"
	"github.com/tot-logger/visit-log-api/internal/models"
	"github.com/tot-logger/visit-log-api/internal/service"
	appErrors "github.com/tot-logger/visit-log-api/pkg/errors"
	"github.com/tot-logger/visit-log-api/pkg/response"
)

type sessionService interface {
	Get(ctx context.Context, userID string) (*models.InputSession, error)
	StartNew(ctx context.Context, userID string, clearSuspended bool) (*models.InputSession, error)
	ChangeDate(ctx context.Context, userID, date string, confirm bool) (*models.InputSession, *models.Confirmation, error)
	StartEdit(ctx context.Context, userID, entryID string, confirm bool) (*models.InputSession, *models.Confirmation, error)
	SelectFloor(ctx context.Context, userID string, floor models.Floor) (*models.InputSession, error)
	SelectTour(ctx context.Context, userID string, tour models.Tour, confirm bool) (*models.InputSession, *models.Confirmation, error)
	SelectProfile(ctx context.Context, userID string, profile models.Profile, confirm bool) (*models.InputSession, *models.Confirmation, error)
	SelectVehicle(ctx context.Context, userID string, num int, freeText string, confirm bool) (*models.InputSession, *models.Confirmation, error)
	ToggleSuspend(ctx context.Context, userID string, tour models.Tour, confirm bool) (*models.InputSession, *models.Confirmation, error)
	AdjustCount(ctx context.Context, userID string, delta int) (*models.InputSession, error)
	SetMemo(ctx context.Context, userID, memo string) (*models.InputSession, error)
	SetTime(ctx context.Context, userID, clock string) (*models.InputSession, error)
	SetSpecial(ctx context.Context, userID string, on, confirm bool) (*models.InputSession, *models.Confirmation, error)
	Submit(ctx context.Context, userID string, author models.Author, acks []string) (*models.LogEntry, *models.Confirmation, error)
	Cancel(ctx context.Context, userID string) (*models.InputSession, error)
}

// SessionHandler exposes the input draft state machine over HTTP.
type SessionHandler struct {
	service   sessionService
	validator *validator.Validate
	metrics   *service.MetricsService
}

// NewSessionHandler builds a new handler.
func NewSessionHandler(svc sessionService, validate *validator.Validate, metrics *service.MetricsService) *SessionHandler {
	if validate == nil {
		validate = validator.New()
	}
	return &SessionHandler{service: svc, validator: validate, metrics: metrics}
}

func (h *SessionHandler) bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return false
	}
	if err := h.validator.Struct(req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return false
	}
	return true
}

func (h *SessionHandler) respond(c *gin.Context, session *models.InputSession, confirmation *models.Confirmation, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	if confirmation != nil {
		h.metrics.RecordConfirmation(confirmation.Code)
		response.Confirm(c, confirmation)
		return
	}
	response.JSON(c, http.StatusOK, session)
}

// Get godoc
// @Summary Current input draft
// @Tags Session
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /session [get]
func (h *SessionHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	session, err := h.service.Get(c.Request.Context(), claims.UserID())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session)
}

// StartNew godoc
// @Summary Reset the draft for the next entry
// @Tags Session
// @Accept json
// @Produce json
// @Param payload body dto.StartNewRequest true "Reset options"
// @Success 200 {object} response.Envelope
// @Router /session/new [post]
func (h *SessionHandler) StartNew(c *gin.Context) {
	var req dto.StartNewRequest
	if !h.bind(c, &req) {
		return
	}
	claims := claimsFromContext(c)
	session, err := h.service.StartNew(c.Request.Context(), claims.UserID(), req.ClearSuspended)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session)
}

// ChangeDate godoc
// @Summary Change the draft date
// @Tags Session
// @Accept json
// @Produce json
// @Param payload body dto.ChangeDateRequest true "Target date"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /session/date [post]
func (h *SessionHandler) ChangeDate(c *gin.Context) {
	var req dto.ChangeDateRequest
	if !h.bind(c, &req) {
		return
	}
	claims := claimsFromContext(c)
	session, confirmation, err := h.service.ChangeDate(c.Request.Context(), claims.UserID(), req.Date, req.Confirm)
	h.respond(c, session, confirmation, err)
}

// StartEdit godoc
// @Summary Load an entry into the draft for editing
// @Tags Session
// @Accept json
// @Produce json
// @Param payload body dto.StartEditRequest true "Entry reference"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /session/edit [post]
func (h *SessionHandler) StartEdit(c *gin.Context) {
	var req dto.StartEditRequest
	if !h.bind(c, &req) {
		return
	}
	claims := claimsFromContext(c)
	session, confirmation, err := h.service.StartEdit(c.Request.Context(), claims.UserID(), req.EntryID, req.Confirm)
	h.respond(c, session, confirmation, err)
}

// SelectFloor godoc
// @Summary Toggle the floor selection
// @Tags Session
// @Accept json
// @Produce json
// @Param payload body dto.SelectFloorRequest true "Floor"
// @Success 200 {object} response.Envelope
// @Router /session/floor [post]
func (h *SessionHandler) SelectFloor(c *gin.Context) {
	var req dto.SelectFloorRequest
	if !h.bind(c, &req) {
		return
	}
	claims := claimsFromContext(c)
	session, err := h.service.SelectFloor(c.Request.Context(), claims.UserID(), models.Floor(req.Floor))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session)
}

// SelectTour godoc
// @Summary Toggle the tour selection
// @Tags Session
// @Accept json
// @Produce json
// @Param payload body dto.SelectTourRequest true "Tour"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /session/tour [post]
func (h *SessionHandler) SelectTour(c *gin.Context) {
	var req dto.SelectTourRequest
	if !h.bind(c, &req) {
		return
	}
	claims := claimsFromContext(c)
	session, confirmation, err := h.service.SelectTour(c.Request.Context(), claims.UserID(), models.Tour(req.Tour), req.Confirm)
	h.respond(c, session, confirmation, err)
}

// SelectProfile godoc
// @Summary Set the drop profile
// @Tags Session
// @Accept json
// @Produce json
// @Param payload body dto.SelectProfileRequest true "Profile"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /session/profile [post]
func (h *SessionHandler) SelectProfile(c *gin.Context) {
	var req dto.SelectProfileRequest
	if !h.bind(c, &req) {
		return
	}
	claims := claimsFromContext(c)
	session, confirmation, err := h.service.SelectProfile(c.Request.Context(), claims.UserID(), models.Profile(req.Profile), req.Confirm)
	h.respond(c, session, confirmation, err)
}

// SelectVehicle godoc
// @Summary Toggle the vehicle selection
// @Tags Session
// @Accept json
// @Produce json
// @Param payload body dto.SelectVehicleRequest true "Vehicle"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /session/vehicle [post]
func (h *SessionHandler) SelectVehicle(c *gin.Context) {
	var req dto.SelectVehicleRequest
	if !h.bind(c, &req) {
		return
	}
	claims := claimsFromContext(c)
	session, confirmation, err := h.service.SelectVehicle(c.Request.Context(), claims.UserID(), req.Number, req.FreeText, req.Confirm)
	h.respond(c, session, confirmation, err)
}

// ToggleSuspend godoc
// @Summary Toggle a tour's pending suspension flag
// @Tags Session
// @Accept json
// @Produce json
// @Param payload body dto.ToggleSuspendRequest true "Tour"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /session/suspend [post]
func (h *SessionHandler) ToggleSuspend(c *gin.Context) {
	var req dto.ToggleSuspendRequest
	if !h.bind(c, &req) {
		return
	}
	claims := claimsFromContext(c)
	session, confirmation, err := h.service.ToggleSuspend(c.Request.Context(), claims.UserID(), models.Tour(req.Tour), req.Confirm)
	h.respond(c, session, confirmation, err)
}

// AdjustCount godoc
// @Summary Shift the sequence number
// @Tags Session
// @Accept json
// @Produce json
// @Param payload body dto.AdjustCountRequest true "Delta"
// @Success 200 {object} response.Envelope
// @Router /session/count [post]
func (h *SessionHandler) AdjustCount(c *gin.Context) {
	var req dto.AdjustCountRequest
	if !h.bind(c, &req) {
		return
	}
	claims := claimsFromContext(c)
	session, err := h.service.AdjustCount(c.Request.Context(), claims.UserID(), req.Delta)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session)
}

// SetMemo godoc
// @Summary Replace the memo text
// @Tags Session
// @Accept json
// @Produce json
// @Param payload body dto.MemoRequest true "Memo"
// @Success 200 {object} response.Envelope
// @Router /session/memo [post]
func (h *SessionHandler) SetMemo(c *gin.Context) {
	var req dto.MemoRequest
	if !h.bind(c, &req) {
		return
	}
	claims := claimsFromContext(c)
	session, err := h.service.SetMemo(c.Request.Context(), claims.UserID(), req.Memo)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session)
}

// SetTime godoc
// @Summary Set or clear the clock time
// @Tags Session
// @Accept json
// @Produce json
// @Param payload body dto.TimeRequest true "Time"
// @Success 200 {object} response.Envelope
// @Router /session/time [post]
func (h *SessionHandler) SetTime(c *gin.Context) {
	var req dto.TimeRequest
	if !h.bind(c, &req) {
		return
	}
	claims := claimsFromContext(c)
	session, err := h.service.SetTime(c.Request.Context(), claims.UserID(), req.Time)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session)
}

// SetSpecial godoc
// @Summary Flip the special-period flag
// @Tags Session
// @Accept json
// @Produce json
// @Param payload body dto.SpecialRequest true "Flag"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /session/special [post]
func (h *SessionHandler) SetSpecial(c *gin.Context) {
	var req dto.SpecialRequest
	if !h.bind(c, &req) {
		return
	}
	claims := claimsFromContext(c)
	session, confirmation, err := h.service.SetSpecial(c.Request.Context(), claims.UserID(), req.Special, req.Confirm)
	h.respond(c, session, confirmation, err)
}

// Submit godoc
// @Summary Persist the draft as an entry
// @Tags Session
// @Accept json
// @Produce json
// @Param payload body dto.SubmitRequest true "Approved confirmation codes"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /session/submit [post]
func (h *SessionHandler) Submit(c *gin.Context) {
	var req dto.SubmitRequest
	if !h.bind(c, &req) {
		return
	}
	claims := claimsFromContext(c)
	entry, confirmation, err := h.service.Submit(c.Request.Context(), claims.UserID(), claims.Author(), req.Acks)
	if err != nil {
		response.Error(c, err)
		return
	}
	if confirmation != nil {
		h.metrics.RecordConfirmation(confirmation.Code)
		response.Confirm(c, confirmation)
		return
	}
	h.metrics.RecordEntry("submit")
	response.Created(c, entry)
}

// Cancel godoc
// @Summary Discard the in-progress edit
// @Tags Session
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /session/cancel [post]
func (h *SessionHandler) Cancel(c *gin.Context) {
	claims := claimsFromContext(c)
	session, err := h.service.Cancel(c.Request.Context(), claims.UserID())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session)
}
