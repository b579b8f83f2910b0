package models

import "time"

type NotificationType string

const (
	NotifyReportCreated      NotificationType = "report_created"
	NotifyCustomerUnassigned NotificationType = "customer_unassigned"
	NotifyEmailSent          NotificationType = "email_sent"
	NotifyEmailFailed        NotificationType = "email_failed"
)

type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Type    NotificationType `gorm:"type:varchar(50);not null" json:"type"`
	Title   string           `gorm:"size:255;not null" json:"title"`
	Message string           `gorm:"type:text;not null" json:"message"`

	ReportID   *uint `json:"report_id"`
	CustomerID *uint `json:"customer_id"`

	IsRead bool `gorm:"default:false" json:"is_read"`
}
