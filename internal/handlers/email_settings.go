package handlers

import (
	"errors"
	"net/http"
	"strings"

	"awareness-tool/internal/database"
	"awareness-tool/internal/mailbox"
	"awareness-tool/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type EmailSettingsHandler struct {
	monitor *mailbox.Monitor
}

func NewEmailSettingsHandler(monitor *mailbox.Monitor) *EmailSettingsHandler {
	return &EmailSettingsHandler{monitor: monitor}
}

func (h *EmailSettingsHandler) Get(c *gin.Context) {
	var settings models.EmailSettings
	err := database.DB.First(&settings, 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Defaults, solange noch nichts gespeichert wurde
		c.JSON(http.StatusOK, models.EmailSettings{
			IMAPPort:         993,
			MonitoringFolder: "INBOX",
			CheckInterval:    15,
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Fehler beim Laden der Einstellungen"})
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *EmailSettingsHandler) Save(c *gin.Context) {
	var form models.EmailSettings
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ungültige Daten"})
		return
	}

	form.IMAPHost = strings.TrimSpace(form.IMAPHost)
	form.EmailUsername = strings.TrimSpace(form.EmailUsername)
	if form.IMAPHost == "" || form.IMAPPort == 0 || form.EmailUsername == "" || form.EmailPassword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "IMAP-Server, Port, E-Mail und Passwort sind erforderlich"})
		return
	}
	if form.MonitoringFolder == "" {
		form.MonitoringFolder = "INBOX"
	}
	if form.CheckInterval <= 0 {
		form.CheckInterval = 15
	}

	// Singleton-Zeile mit fester ID
	form.ID = 1
	if err := database.DB.Save(&form).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Fehler beim Speichern der Einstellungen"})
		return
	}

	if form.MonitoringEnabled {
		h.monitor.Stop()
		h.monitor.Start()
	} else {
		h.monitor.Stop()
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Einstellungen erfolgreich gespeichert"})
}

func (h *EmailSettingsHandler) Test(c *gin.Context) {
	var form models.EmailSettings
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ungültige Daten"})
		return
	}
	if form.IMAPHost == "" || form.IMAPPort == 0 || form.EmailUsername == "" || form.EmailPassword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Alle Felder sind erforderlich"})
		return
	}

	if err := mailbox.TestConnection(form.IMAPHost, form.IMAPPort, form.EmailUsername, form.EmailPassword, form.MonitoringFolder); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Verbindung erfolgreich! IMAP-Server ist erreichbar und Authentifizierung war erfolgreich.",
	})
}

func (h *EmailSettingsHandler) CheckNow(c *gin.Context) {
	if err := h.monitor.CheckNow(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "E-Mail-Prüfung abgeschlossen"})
}

func (h *EmailSettingsHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"isMonitoring": h.monitor.Running()})
}
