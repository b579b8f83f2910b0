package database

import "awareness-tool/internal/models"

// CreateNotification legt eine Benachrichtigung an, Fehler werden bewusst verschluckt
func CreateNotification(typ models.NotificationType, title, message string, reportID, customerID *uint) {
	if DB == nil {
		return
	}
	record := models.Notification{
		Type:       typ,
		Title:      title,
		Message:    message,
		ReportID:   reportID,
		CustomerID: customerID,
	}
	_ = DB.Create(&record).Error
}
