package server

import (
	"net/http"

	"awareness-tool/internal/config"
	"awareness-tool/internal/handlers"
	"awareness-tool/internal/mailbox"
	"awareness-tool/internal/mailer"
	"awareness-tool/internal/middleware"
	"awareness-tool/internal/reportsvc"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

func NewRouter(cfg *config.Config, processor *reportsvc.Processor, m *mailer.Mailer, monitor *mailbox.Monitor) *gin.Engine {
	r := gin.Default()
	r.MaxMultipartMemory = 50 << 20

	r.Static("/static", "./web/static")

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("awareness_session", store))

	r.Use(middleware.InjectUser())

	// STARTSEITE
	r.GET("/", handlers.IndexPage)

	// AUTH
	r.POST("/api/auth/login", handlers.Login)
	r.POST("/api/auth/logout", handlers.Logout)
	r.GET("/api/auth/check", handlers.CheckAuth)

	api := r.Group("/api")
	api.Use(middleware.RequireAuth())

	// KUNDEN
	api.GET("/customers", handlers.ListCustomers)
	api.POST("/customers", handlers.CreateCustomer)
	api.PUT("/customers/:id", handlers.UpdateCustomer)
	api.DELETE("/customers/:id", handlers.DeleteCustomer)

	// REPORTS
	reportHandler := handlers.NewReportHandler(processor, m)
	api.POST("/reports/upload", reportHandler.Upload)
	api.GET("/reports", reportHandler.List)
	api.GET("/reports/download/:id", reportHandler.Download)
	api.GET("/reports/:id/details", reportHandler.Details)
	api.POST("/reports/:id/assign-customer", reportHandler.AssignCustomer)
	api.POST("/reports/:id/send-email", reportHandler.SendEmail)
	api.DELETE("/reports/:id", reportHandler.Delete)

	// BENACHRICHTIGUNGEN
	api.GET("/notifications", handlers.ListNotifications)
	api.GET("/notifications/unread", handlers.ListUnreadNotifications)
	api.POST("/notifications/:id/read", handlers.MarkNotificationRead)
	api.POST("/notifications/read-all", handlers.MarkAllNotificationsRead)
	api.DELETE("/notifications/:id", handlers.DeleteNotification)

	// E-MAIL-EINSTELLUNGEN UND POSTFACH-ÜBERWACHUNG
	settingsHandler := handlers.NewEmailSettingsHandler(monitor)
	api.GET("/email-settings", settingsHandler.Get)
	api.POST("/email-settings", settingsHandler.Save)
	api.POST("/email-settings/test", settingsHandler.Test)
	api.POST("/email-check/check-now", settingsHandler.CheckNow)
	api.GET("/email-check/status", settingsHandler.Status)

	// HEALTHCHECK
	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return r
}
