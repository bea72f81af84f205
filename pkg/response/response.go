package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tot-logger/visit-log-api/internal/models"
	appErrors "github.com/tot-logger/visit-log-api/pkg/errors"
)

// Envelope represents the common response contract. A non-nil confirmation
// means the request was not applied and must be retried with confirm=true.
type Envelope struct {
	Data         interface{}            `json:"data,omitempty"`
	Error        *appErrors.Error       `json:"error,omitempty"`
	Confirmation *models.Confirmation   `json:"confirmation,omitempty"`
	Meta         map[string]interface{} `json:"meta,omitempty"`
}

// JSON sends a success response.
func JSON(c *gin.Context, status int, data interface{}, meta ...map[string]interface{}) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	envelope := Envelope{Data: data}
	if len(meta) > 0 && meta[0] != nil {
		envelope.Meta = meta[0]
	}
	c.JSON(status, envelope)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data)
}

// Confirm answers with 409 carrying the pending confirmation.
func Confirm(c *gin.Context, confirmation *models.Confirmation) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(http.StatusConflict, Envelope{Confirmation: confirmation})
}

// Error sends an error response converting the error to the common structure.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(appErr.Status, Envelope{Error: appErr})
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
