package mailer

import (
	"fmt"
	"time"

	"awareness-tool/internal/config"

	"gopkg.in/gomail.v2"
)

// Mailer versendet fertige Reports per SMTP
type Mailer struct {
	cfg *config.Config
}

func New(cfg *config.Config) *Mailer {
	return &Mailer{cfg: cfg}
}

// Configured meldet, ob SMTP-Zugangsdaten hinterlegt sind
func (m *Mailer) Configured() bool {
	return m.cfg.SMTPHost != "" && m.cfg.SMTPUser != "" && m.cfg.SMTPPass != ""
}

// SendReport verschickt den PDF-Report mit dem festen Betreff-Template.
// Fehlende SMTP-Konfiguration ist kein Fehler, die Mail gilt nur als nicht versendet.
func (m *Mailer) SendReport(customerName, pdfPath, recipient string) (bool, error) {
	if !m.Configured() {
		return false, nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.SMTPFrom)
	msg.SetHeader("To", recipient)
	msg.SetHeader("Subject", fmt.Sprintf("Monatlicher Hornetsecurity Awareness Reporting für %s", customerName))
	msg.SetBody("text/html", fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
			<h2 style="color: #2C3E50;">Phishing-Analyse Report</h2>
			<p>Sehr geehrte Damen und Herren,</p>
			<p>anbei erhalten Sie den automatisch generierten Phishing-Analyse Report für <strong>%s</strong>.</p>
			<p>Der Report enthält eine detaillierte Auswertung der durchgeführten Phishing-Simulation
			sowie Handlungsempfehlungen zur Verbesserung des Security-Awareness-Levels.</p>
			<hr style="border: 1px solid #ecf0f1; margin: 20px 0;">
			<p style="color: #7f8c8d; font-size: 12px;">
				Dieser Report wurde automatisch generiert und enthält ausschließlich aggregierte, anonymisierte Daten.<br>
				Intelego Awareness Tool © %d
			</p>
		</div>`, customerName, time.Now().Year()))
	msg.Attach(pdfPath)

	dialer := gomail.NewDialer(m.cfg.SMTPHost, m.cfg.SMTPPort, m.cfg.SMTPUser, m.cfg.SMTPPass)
	if err := dialer.DialAndSend(msg); err != nil {
		return false, err
	}
	return true, nil
}
