package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/tot-logger/visit-log-api/internal/dto"
	"github.com/tot-logger/visit-log-api/internal/models"
	"github.com/tot-logger/visit-log-api/internal/service"
	appErrors "github.com/tot-logger/visit-log-api/pkg/errors"
	"github.com/tot-logger/visit-log-api/pkg/response"
)

type reportService interface {
	List(ctx context.Context, limit int) ([]models.PublishedReport, error)
	PublishedDates(ctx context.Context, authorID string) ([]string, error)
	Publish(ctx context.Context, author models.Author, date string, confirm bool) (*models.PublishedReport, *models.Confirmation, error)
	Unpublish(ctx context.Context, authorID, date string, confirm bool) (*models.Confirmation, error)
	Export(ctx context.Context, authorID, date, format string) ([]byte, string, error)
}

// ReportHandler exposes the shared board.
type ReportHandler struct {
	service   reportService
	validator *validator.Validate
	metrics   *service.MetricsService
}

// NewReportHandler builds a new handler.
func NewReportHandler(svc reportService, validate *validator.Validate, metrics *service.MetricsService) *ReportHandler {
	if validate == nil {
		validate = validator.New()
	}
	return &ReportHandler{service: svc, validator: validate, metrics: metrics}
}

func (h *ReportHandler) bind(c *gin.Context, req interface{}) bool {
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

// List godoc
// @Summary Shared board, newest date first
// @Tags Reports
// @Produce json
// @Param limit query int false "Maximum reports to return"
// @Success 200 {object} response.Envelope
// @Router /reports [get]
func (h *ReportHandler) List(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "limit must be a number"))
			return
		}
		limit = parsed
	}
	reports, err := h.service.List(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reports)
}

// PublishedDates godoc
// @Summary Dates the caller currently has published
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reports/dates [get]
func (h *ReportHandler) PublishedDates(c *gin.Context) {
	claims := claimsFromContext(c)
	dates, err := h.service.PublishedDates(c.Request.Context(), claims.UserID())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dates)
}

// Publish godoc
// @Summary Publish one day to the shared board
// @Tags Reports
// @Accept json
// @Produce json
// @Param payload body dto.PublishRequest true "Date to publish"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /reports/publish [post]
func (h *ReportHandler) Publish(c *gin.Context) {
	var req dto.PublishRequest
	if !h.bind(c, &req) {
		return
	}
	claims := claimsFromContext(c)
	report, confirmation, err := h.service.Publish(c.Request.Context(), claims.Author(), req.Date, req.Confirm)
	if err != nil {
		response.Error(c, err)
		return
	}
	if confirmation != nil {
		h.metrics.RecordConfirmation(confirmation.Code)
		response.Confirm(c, confirmation)
		return
	}
	h.metrics.RecordPublish("publish")
	response.JSON(c, http.StatusOK, report)
}

// Unpublish godoc
// @Summary Remove one day from the shared board
// @Tags Reports
// @Accept json
// @Produce json
// @Param payload body dto.UnpublishRequest true "Date to remove"
// @Success 204
// @Failure 409 {object} response.Envelope
// @Router /reports/unpublish [post]
func (h *ReportHandler) Unpublish(c *gin.Context) {
	var req dto.UnpublishRequest
	if !h.bind(c, &req) {
		return
	}
	claims := claimsFromContext(c)
	confirmation, err := h.service.Unpublish(c.Request.Context(), claims.UserID(), req.Date, req.Confirm)
	if err != nil {
		response.Error(c, err)
		return
	}
	if confirmation != nil {
		h.metrics.RecordConfirmation(confirmation.Code)
		response.Confirm(c, confirmation)
		return
	}
	h.metrics.RecordPublish("unpublish")
	response.NoContent(c)
}

// Export godoc
// @Summary Export one published day as CSV or PDF
// @Tags Reports
// @Produce application/octet-stream
// @Param date path string true "Date (YYYY-MM-DD)"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200
// @Router /reports/{date}/export [get]
func (h *ReportHandler) Export(c *gin.Context) {
	claims := claimsFromContext(c)
	format := c.DefaultQuery("format", "csv")
	payload, filename, err := h.service.Export(c.Request.Context(), claims.UserID(), c.Param("date"), format)
	if err != nil {
		response.Error(c, err)
		return
	}

	contentType := "text/csv"
	if format == "pdf" {
		contentType = "application/pdf"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, payload)
}
