package models

import "gorm.io/gorm"

type Customer struct {
	gorm.Model
	Name           string `gorm:"size:255;not null" json:"name"`
	CustomerNumber string `gorm:"size:50" json:"customer_number"` // Kundennummer / Anzeige-Code
	Email          string `gorm:"size:255" json:"email"`
	Phone          string `gorm:"size:50" json:"phone"`
	Address        string `gorm:"size:255" json:"address"`
	City           string `gorm:"size:100" json:"city"`
	PostalCode     string `gorm:"size:20" json:"postal_code"`
	Country        string `gorm:"size:100" json:"country"`
	Domain         string `gorm:"size:255" json:"domain"` // für Kundenerkennung beim E-Mail-Eingang

	// Sichtbarkeits-Einstellungen für den PDF-Report
	PDFShowUserEmails    bool `gorm:"default:true" json:"pdf_show_user_emails"`
	PDFShowUserNames     bool `gorm:"default:true" json:"pdf_show_user_names"`
	PDFShowDetailedStats bool `gorm:"default:true" json:"pdf_show_detailed_stats"`

	Notes string `gorm:"type:text" json:"notes"`

	Reports []Report `json:"-"`
}
