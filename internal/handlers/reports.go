package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"awareness-tool/internal/analysis"
	"awareness-tool/internal/database"
	"awareness-tool/internal/mailer"
	"awareness-tool/internal/models"
	"awareness-tool/internal/reportsvc"

	"github.com/gin-gonic/gin"
)

const maxArchiveSize = 50 << 20 // 50 MB, wie das Upload-Limit der Oberfläche

type ReportHandler struct {
	processor *reportsvc.Processor
	mailer    *mailer.Mailer
}

func NewReportHandler(processor *reportsvc.Processor, m *mailer.Mailer) *ReportHandler {
	return &ReportHandler{processor: processor, mailer: m}
}

func (h *ReportHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("zipfile")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Keine Datei hochgeladen"})
		return
	}
	if fileHeader.Size > maxArchiveSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datei ist zu groß (maximal 50 MB)"})
		return
	}
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".zip") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nur ZIP-Dateien sind erlaubt"})
		return
	}

	customerID, err := strconv.Atoi(c.PostForm("customer_id"))
	if err != nil || customerID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Kunden-ID erforderlich"})
		return
	}

	var customer models.Customer
	if err := database.DB.First(&customer, customerID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Kunde nicht gefunden"})
		return
	}

	// Archiv bleibt nur im Speicher, es wird nichts auf Platte abgelegt
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Datei konnte nicht gelesen werden"})
		return
	}
	data, err := io.ReadAll(file)
	file.Close()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Datei konnte nicht gelesen werden"})
		return
	}

	recipient := strings.TrimSpace(c.PostForm("recipient_email"))

	outcome, err := h.processor.ProcessArchive(data, &customer, recipient)
	if err != nil {
		var vErr *analysis.ValidationError
		if errors.As(err, &vErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Reason})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"reportId":  outcome.Report.ID,
		"analysis":  outcome.Analysis,
		"pdfPath":   fmt.Sprintf("/api/reports/download/%d", outcome.Report.ID),
		"emailSent": outcome.EmailSent,
	})
}

func (h *ReportHandler) List(c *gin.Context) {
	var reports []models.Report
	if err := database.DB.Preload("Customer").Order("upload_date desc").Find(&reports).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Datenbankfehler"})
		return
	}
	c.JSON(http.StatusOK, reports)
}

func (h *ReportHandler) Download(c *gin.Context) {
	report, ok := findReport(c)
	if !ok {
		return
	}

	if _, err := os.Stat(report.PDFPath); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "PDF-Datei nicht gefunden"})
		return
	}
	c.FileAttachment(report.PDFPath, fmt.Sprintf("Report_%d.pdf", report.ID))
}

func (h *ReportHandler) Details(c *gin.Context) {
	report, ok := findReport(c)
	if !ok {
		return
	}

	var stats []models.ScenarioStat
	if err := database.DB.Where("report_id = ?", report.ID).Find(&stats).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Datenbankfehler"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"report":    report,
		"scenarios": stats,
	})
}

type assignForm struct {
	CustomerID uint `json:"customerId"`
}

func (h *ReportHandler) AssignCustomer(c *gin.Context) {
	report, ok := findReport(c)
	if !ok {
		return
	}

	var form assignForm
	if err := c.ShouldBindJSON(&form); err != nil || form.CustomerID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Kunden-ID erforderlich"})
		return
	}

	var customer models.Customer
	if err := database.DB.First(&customer, form.CustomerID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Kunde nicht gefunden"})
		return
	}

	if err := database.DB.Model(report).Update("customer_id", customer.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Fehler beim Zuweisen des Kunden"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Kunde erfolgreich zugewiesen"})
}

func (h *ReportHandler) SendEmail(c *gin.Context) {
	report, ok := findReport(c)
	if !ok {
		return
	}

	if report.CustomerID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bitte zuerst einen Kunden zuweisen"})
		return
	}

	var customer models.Customer
	if err := database.DB.First(&customer, *report.CustomerID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Kunde nicht gefunden"})
		return
	}

	sent, err := h.mailer.SendReport(customer.Name, report.PDFPath, reportsvc.DefaultRecipient)
	if err != nil || !sent {
		msg := "E-Mail konnte nicht versendet werden"
		if err != nil {
			msg += ": " + err.Error()
		}
		database.CreateNotification(models.NotifyEmailFailed, "E-Mail-Versand fehlgeschlagen",
			fmt.Sprintf("Der Report für %s konnte nicht versendet werden.", customer.Name),
			&report.ID, report.CustomerID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
		return
	}

	if err := database.DB.Model(report).Update("email_sent", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Fehler beim Aktualisieren des E-Mail-Status"})
		return
	}
	database.CreateNotification(models.NotifyEmailSent, "Report versendet",
		fmt.Sprintf("Der Report für %s wurde an %s versendet.", customer.Name, reportsvc.DefaultRecipient),
		&report.ID, report.CustomerID)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Report erfolgreich an %s versendet", reportsvc.DefaultRecipient),
	})
}

// Delete entfernt einen Report inklusive seiner Szenario-Zeilen und des PDFs.
// Es gibt keine automatische Kaskade, das Aufräumen passiert hier.
func (h *ReportHandler) Delete(c *gin.Context) {
	report, ok := findReport(c)
	if !ok {
		return
	}

	if err := database.DB.Where("report_id = ?", report.ID).Delete(&models.ScenarioStat{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Szenario-Daten konnten nicht gelöscht werden"})
		return
	}
	if err := database.DB.Delete(report).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Report konnte nicht gelöscht werden"})
		return
	}
	if report.PDFPath != "" {
		_ = os.Remove(report.PDFPath)
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func findReport(c *gin.Context) (*models.Report, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ungültige Report-ID"})
		return nil, false
	}

	var report models.Report
	if err := database.DB.Preload("Customer").First(&report, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Report nicht gefunden"})
		return nil, false
	}
	return &report, true
}
