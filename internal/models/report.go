package models

import (
	"time"

	"gorm.io/gorm"
)

type ReportSource string

const (
	SourceManual ReportSource = "manual"
	SourceEmail  ReportSource = "email"
)

type Report struct {
	gorm.Model
	// nullable: per E-Mail eingegangene Reports können ohne Kunde bleiben,
	// bis sie manuell zugewiesen werden
	CustomerID *uint     `json:"customer_id"`
	Customer   *Customer `json:"customer,omitempty"`

	UploadDate time.Time `json:"upload_date"`

	TotalScenarios int     `json:"total_scenarios"`
	TotalUsers     int     `json:"total_users"`
	ClickRate      float64 `json:"click_rate"`
	SuccessRate    float64 `json:"success_rate"`
	RiskLevel      string  `gorm:"size:20" json:"risk_level"` // Niedrig / Mittel / Hoch

	PDFPath   string       `gorm:"size:512" json:"pdf_path"`
	EmailSent bool         `gorm:"default:false" json:"email_sent"`
	Source    ReportSource `gorm:"type:varchar(20);default:'manual'" json:"source"`

	ScenarioStats []ScenarioStat `json:"-"`
}

// ScenarioStat ist eine Zeile pro Szenario eines Reports, nach dem Anlegen unveränderlich
type ScenarioStat struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	ReportID uint `gorm:"index;not null" json:"report_id"`

	ScenarioID           string  `gorm:"size:100" json:"scenario_id"`
	Description          string  `gorm:"size:512" json:"description"`
	ExploitType          string  `gorm:"size:100" json:"exploit_type"`
	Level                int     `json:"level"`
	AttacksSent          int     `json:"attacks_sent"`
	AttacksSuccessful    int     `json:"attacks_successful"`
	AttacksClicked       int     `json:"attacks_clicked"`
	AttacksReported      int     `json:"attacks_reported"`
	AttacksLogins        int     `json:"attacks_logins"`
	AttacksFilesOpened   int     `json:"attacks_files_opened"`
	AttacksMacrosExec    int     `json:"attacks_macros_executed"`
	SuccessRate          float64 `json:"success_rate"`
	ReportRate           float64 `json:"report_rate"`
	PsychologicalFactors string  `gorm:"size:512" json:"psychological_factors"`
}
