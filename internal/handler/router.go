package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/tot-logger/visit-log-api/internal/middleware"
	"github.com/tot-logger/visit-log-api/internal/service"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Session *SessionHandler
	Logs    *LogHandler
	Reports *ReportHandler
}

// RegisterRoutes mounts the versioned API behind JWT auth.
func RegisterRoutes(r *gin.Engine, auth *service.AuthService, h Handlers) {
	api := r.Group("/api/v1")
	api.Use(middleware.JWT(auth))

	session := api.Group("/session")
	{
		session.GET("", h.Session.Get)
		session.POST("/new", h.Session.StartNew)
		session.POST("/date", h.Session.ChangeDate)
		session.POST("/edit", h.Session.StartEdit)
		session.POST("/floor", h.Session.SelectFloor)
		session.POST("/tour", h.Session.SelectTour)
		session.POST("/profile", h.Session.SelectProfile)
		session.POST("/vehicle", h.Session.SelectVehicle)
		session.POST("/suspend", h.Session.ToggleSuspend)
		session.POST("/count", h.Session.AdjustCount)
		session.POST("/memo", h.Session.SetMemo)
		session.POST("/time", h.Session.SetTime)
		session.POST("/special", h.Session.SetSpecial)
		session.POST("/submit", h.Session.Submit)
		session.POST("/cancel", h.Session.Cancel)
	}

	api.GET("/logs", h.Logs.List)
	api.GET("/logs/stream", h.Logs.Stream)
	api.DELETE("/logs/:id", h.Logs.Delete)
	api.GET("/daily-state", h.Logs.DailyState)
	api.GET("/recommendation", h.Logs.Recommendation)

	reports := api.Group("/reports")
	{
		reports.GET("", h.Reports.List)
		reports.GET("/dates", h.Reports.PublishedDates)
		reports.POST("/publish", h.Reports.Publish)
		reports.POST("/unpublish", h.Reports.Unpublish)
		reports.GET("/:date/export", h.Reports.Export)
	}
}
