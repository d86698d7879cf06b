package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"timeclock/internal/middleware"
)

type Handlers struct {
	Auth          *AuthHandler
	Profile       *ProfileHandler
	Timesheet     *TimesheetHandler
	Users         *UserHandler
	Reports       *ReportHandler
	Notifications *NotificationHandler
}

// NewRouter mounts every route. corsOrigins of ["*"] allows any origin.
func NewRouter(h Handlers, signer *middleware.Signer, corsOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLog())
	if len(corsOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  corsOrigins,
			AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders: []string{"X-New-Token", "Content-Disposition"},
		}))
	}

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.POST("/api/login", h.Auth.Login)

	api := r.Group("/api", middleware.JWTAuth(signer))
	api.GET("/me", h.Auth.Me)
	api.PUT("/me", h.Profile.Update)
	api.POST("/me/photo", h.Profile.UploadPhoto)
	api.PUT("/me/push-token", h.Auth.SetPushToken)
	api.POST("/clock/:event", h.Timesheet.Register)
	api.GET("/timesheet", h.Timesheet.Range)
	api.GET("/timesheet/today", h.Timesheet.Today)
	api.GET("/timesheet/week", h.Timesheet.Week)
	api.GET("/notifications", h.Notifications.Mine)
	api.GET("/notifications/stream", h.Notifications.Stream)

	admin := api.Group("/admin", middleware.AdminOnly(), h.Auth.ActiveAdmin)
	admin.GET("/dashboard", h.Reports.Dashboard)
	admin.GET("/reports", h.Reports.Reports)
	admin.GET("/export", h.Reports.Export)
	admin.GET("/users", h.Users.List)
	admin.POST("/users", h.Users.Create)
	admin.POST("/users/:id/toggle", h.Users.Toggle)
	admin.POST("/timesheets/:user_id/:date/flag", h.Timesheet.Flag)
	admin.DELETE("/timesheets/:user_id/:date", h.Timesheet.Reset)
	admin.GET("/notifications", h.Notifications.Recent)
	admin.POST("/notifications", h.Notifications.Send)

	return r
}
