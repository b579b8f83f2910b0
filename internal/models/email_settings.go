package models

import "time"

// EmailSettings ist die Singleton-Zeile (id = 1) mit den IMAP-Zugangsdaten
// für die Postfach-Überwachung
type EmailSettings struct {
	ID uint `gorm:"primaryKey" json:"-"`

	IMAPHost          string `gorm:"size:255" json:"imapHost"`
	IMAPPort          int    `gorm:"default:993" json:"imapPort"`
	EmailUsername     string `gorm:"size:255" json:"emailUsername"`
	EmailPassword     string `gorm:"size:255" json:"emailPassword"`
	MonitoringFolder  string `gorm:"size:100;default:'INBOX'" json:"monitoringFolder"`
	CheckInterval     int    `gorm:"default:15" json:"checkInterval"` // Minuten
	MonitoringEnabled bool   `gorm:"default:false" json:"monitoringEnabled"`

	LastCheck *time.Time `json:"lastCheck"`
	UpdatedAt time.Time  `json:"-"`
}
