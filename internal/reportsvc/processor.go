package reportsvc

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"awareness-tool/internal/analysis"
	"awareness-tool/internal/database"
	"awareness-tool/internal/models"
	"awareness-tool/internal/pdf"
	"awareness-tool/internal/resolver"

	"github.com/google/uuid"
)

// DefaultRecipient ist die feste interne Empfängeradresse für automatisch versendete Reports
const DefaultRecipient = "support@intelego.net"

// ReportMailer ist die Versand-Senke, ein Fehlschlag ist für die Verarbeitung nicht fatal
type ReportMailer interface {
	SendReport(customerName, pdfPath, recipient string) (bool, error)
}

// PDFRenderer ist die Render-Senke. Ein Fehlschlag bricht die gesamte Verarbeitung ab,
// es wird kein Report ohne zugehöriges PDF gespeichert
type PDFRenderer func(result *analysis.Result, customer *models.Customer, outputPath string) error

type Processor struct {
	reportsDir string
	mailer     ReportMailer
	renderPDF  PDFRenderer
}

// Outcome ist das Ergebnis einer erfolgreichen Archiv-Verarbeitung
type Outcome struct {
	Report    *models.Report
	Analysis  *analysis.Result
	Customer  *models.Customer
	EmailSent bool
}

func New(reportsDir string, mailer ReportMailer) *Processor {
	return &Processor{
		reportsDir: reportsDir,
		mailer:     mailer,
		renderPDF:  pdf.Generate,
	}
}

// ProcessArchive verarbeitet ein manuell hochgeladenes Archiv für einen
// bereits bekannten Kunden
func (p *Processor) ProcessArchive(data []byte, customer *models.Customer, recipient string) (*Outcome, error) {
	scenarios, users, company, err := decodeArchive(data)
	if err != nil {
		return nil, err
	}
	return p.finish(scenarios, users, company, customer, recipient, models.SourceManual)
}

// ProcessInbound verarbeitet ein per E-Mail eingegangenes Archiv und versucht
// dabei, den Kunden zu identifizieren. Bleibt die Zuordnung offen, wird der
// Report trotzdem angelegt und per Benachrichtigung zur manuellen Zuweisung markiert.
func (p *Processor) ProcessInbound(data []byte, msg resolver.Message) (*Outcome, error) {
	scenarios, users, company, err := decodeArchive(data)
	if err != nil {
		return nil, err
	}

	var customers []models.Customer
	if err := database.DB.Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("Kundenliste konnte nicht geladen werden: %w", err)
	}
	customer := resolver.Resolve(msg, customers, scenarios, users, company)

	return p.finish(scenarios, users, company, customer, DefaultRecipient, models.SourceEmail)
}

func decodeArchive(data []byte) (scenarios, users, company []analysis.Record, err error) {
	bundle, err := analysis.ExtractArchive(data)
	if err != nil {
		return nil, nil, nil, err
	}
	return analysis.DecodeCSV(bundle.Scenarios),
		analysis.DecodeCSV(bundle.Users),
		analysis.DecodeCSV(bundle.Company),
		nil
}

func (p *Processor) finish(scenarios, users, company []analysis.Record,
	customer *models.Customer, recipient string, source models.ReportSource) (*Outcome, error) {

	result := analysis.Analyze(scenarios, users, company)

	if err := os.MkdirAll(p.reportsDir, 0o755); err != nil {
		return nil, fmt.Errorf("Report-Verzeichnis konnte nicht angelegt werden: %w", err)
	}
	pdfPath := filepath.Join(p.reportsDir, pdfFilename(customer))

	// kein Report ohne PDF
	if err := p.renderPDF(result, customer, pdfPath); err != nil {
		return nil, fmt.Errorf("PDF-Erstellung fehlgeschlagen: %w", err)
	}

	report := &models.Report{
		UploadDate:     time.Now(),
		TotalScenarios: result.Overview.TotalScenarios,
		TotalUsers:     result.Overview.TotalUsers,
		ClickRate:      result.Overview.GesamtKlickrate,
		SuccessRate:    result.Overview.Erfolgsquote,
		RiskLevel:      result.Overview.Sicherheitsbewertung,
		PDFPath:        pdfPath,
		Source:         source,
	}
	if customer != nil {
		id := customer.ID
		report.CustomerID = &id
	}

	if err := database.DB.Create(report).Error; err != nil {
		// PDF ohne Report-Zeile ist wertlos, wieder aufräumen
		_ = os.Remove(pdfPath)
		return nil, fmt.Errorf("Report konnte nicht gespeichert werden: %w", err)
	}
	p.persistScenarioStats(report.ID, result.ScenarioStats)

	outcome := &Outcome{Report: report, Analysis: result, Customer: customer}

	if customer == nil {
		database.CreateNotification(models.NotifyCustomerUnassigned,
			"Kunde nicht zugeordnet",
			"Ein per E-Mail eingegangener Report konnte keinem Kunden zugeordnet werden und wartet auf manuelle Zuweisung.",
			&report.ID, nil)
		return outcome, nil
	}

	database.CreateNotification(models.NotifyReportCreated,
		"Neuer Report erstellt",
		fmt.Sprintf("Für %s wurde ein neuer Report erstellt (Risiko: %s).", customer.Name, report.RiskLevel),
		&report.ID, report.CustomerID)

	if recipient != "" {
		outcome.EmailSent = p.sendReportEmail(report, customer, recipient)
	}

	return outcome, nil
}

// sendReportEmail verschickt den Report; ein Fehlschlag ist nicht fatal,
// der Report bleibt mit email_sent=false gespeichert
func (p *Processor) sendReportEmail(report *models.Report, customer *models.Customer, recipient string) bool {
	sent, err := p.mailer.SendReport(customer.Name, report.PDFPath, recipient)
	if err != nil {
		log.Printf("E-Mail-Versand fehlgeschlagen: %v", err)
		database.CreateNotification(models.NotifyEmailFailed,
			"E-Mail-Versand fehlgeschlagen",
			fmt.Sprintf("Der Report für %s konnte nicht an %s versendet werden: %v", customer.Name, recipient, err),
			&report.ID, report.CustomerID)
		return false
	}
	if !sent {
		// SMTP nicht konfiguriert
		return false
	}

	report.EmailSent = true
	if err := database.DB.Model(report).Update("email_sent", true).Error; err != nil {
		log.Printf("failed to update email_sent flag: %v", err)
	}
	database.CreateNotification(models.NotifyEmailSent,
		"Report versendet",
		fmt.Sprintf("Der Report für %s wurde an %s versendet.", customer.Name, recipient),
		&report.ID, report.CustomerID)
	return true
}

func (p *Processor) persistScenarioStats(reportID uint, stats []analysis.ScenarioStat) {
	for _, s := range stats {
		row := models.ScenarioStat{
			ReportID:             reportID,
			ScenarioID:           s.ScenarioID,
			Description:          s.Description,
			ExploitType:          s.ExploitType,
			Level:                s.Level,
			AttacksSent:          s.AttacksSent,
			AttacksSuccessful:    s.AttacksSuccessful,
			AttacksClicked:       s.AttacksClicked,
			AttacksReported:      s.AttacksReported,
			AttacksLogins:        s.AttacksLogins,
			AttacksFilesOpened:   s.AttacksFilesOpened,
			AttacksMacrosExec:    s.AttacksMacrosExecuted,
			SuccessRate:          s.SuccessRate,
			ReportRate:           s.ReportRate,
			PsychologicalFactors: joinFactors(s.PsychologicalFactors),
		}
		if err := database.DB.Create(&row).Error; err != nil {
			log.Printf("failed to persist scenario stat %q: %v", s.ScenarioID, err)
		}
	}
}

func joinFactors(factors []string) string {
	if len(factors) == 0 {
		return ""
	}
	joined := factors[0]
	for _, f := range factors[1:] {
		joined += ", " + f
	}
	return joined
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

func pdfFilename(customer *models.Customer) string {
	name := "Unzugeordnet"
	if customer != nil {
		name = unsafeFilenameChars.ReplaceAllString(customer.Name, "_")
	}
	return fmt.Sprintf("Report_%s_%s.pdf", name, uuid.NewString())
}
