package pdf

import (
	"fmt"
	"strconv"
	"time"

	"awareness-tool/internal/analysis"
	"awareness-tool/internal/models"

	"github.com/jung-kurt/gofpdf"
)

// Intelego-Farbschema
var (
	primaryColor = [3]int{6, 46, 58}     // Dunkelblau
	accentColor  = [3]int{243, 146, 0}   // Orange
	green        = [3]int{40, 167, 69}
	red          = [3]int{220, 53, 69}
	lightGray    = [3]int{248, 249, 250}
	darkGray     = [3]int{108, 117, 125}
)

func riskColor(riskLevel string) [3]int {
	switch riskLevel {
	case analysis.RiskHigh:
		return red
	case analysis.RiskMedium:
		return accentColor
	default:
		return green
	}
}

// maskEmail blendet den lokalen Teil einer Adresse bis auf zwei Zeichen aus
func maskEmail(email string) string {
	runes := []rune(email)
	atIdx := -1
	for i, r := range runes {
		if r == '@' {
			atIdx = i
			break
		}
	}
	if atIdx <= 0 {
		return "***"
	}
	prefix := string(runes[:atIdx])
	domain := string(runes[atIdx:])
	if len(prefix) <= 2 {
		return prefix + "***" + domain
	}
	return string(runes[0:2]) + "***" + domain
}

type renderer struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

// Generate rendert den mehrseitigen Analyse-Report nach outputPath.
// customer darf nil sein (noch nicht zugewiesener Report).
func Generate(result *analysis.Result, customer *models.Customer, outputPath string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	r := &renderer{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}

	showEmails := customer == nil || customer.PDFShowUserEmails
	showDetails := customer == nil || customer.PDFShowDetailedStats

	customerName := "Nicht zugewiesen"
	if customer != nil {
		customerName = customer.Name
	}

	r.titlePage(result, customerName)
	r.overviewPage(result)
	r.scenarioPage(result)
	r.userBehaviorPage(result)
	if showDetails {
		r.userDetailPage(result, showEmails)
	}

	return pdf.OutputFileAndClose(outputPath)
}

func (r *renderer) titlePage(result *analysis.Result, customerName string) {
	pdf, tr := r.pdf, r.tr
	pdf.AddPage()

	pdf.SetY(60)
	pdf.SetFont("Helvetica", "B", 26)
	pdf.SetTextColor(primaryColor[0], primaryColor[1], primaryColor[2])
	pdf.CellFormat(0, 12, tr("Hornetsecurity Phishing Analyse"), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 16)
	pdf.SetTextColor(darkGray[0], darkGray[1], darkGray[2])
	pdf.CellFormat(0, 10, tr("Phishing-Analyse Report"), "", 1, "C", false, 0, "")

	pdf.Ln(20)
	pdf.SetFont("Helvetica", "", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 8, tr("Kunde: "+customerName), "", 1, "C", false, 0, "")
	pdf.SetTextColor(darkGray[0], darkGray[1], darkGray[2])
	pdf.CellFormat(0, 8, tr("Datum: "+time.Now().Format("02.01.2006")), "", 1, "C", false, 0, "")

	pdf.Ln(25)
	pdf.SetFont("Helvetica", "", 14)
	pdf.CellFormat(0, 8, tr("Sicherheitsbewertung:"), "", 1, "C", false, 0, "")
	rc := riskColor(result.Overview.Sicherheitsbewertung)
	pdf.SetFont("Helvetica", "B", 32)
	pdf.SetTextColor(rc[0], rc[1], rc[2])
	pdf.CellFormat(0, 16, tr(result.Overview.Sicherheitsbewertung), "", 1, "C", false, 0, "")
}

func (r *renderer) sectionTitle(title string) {
	pdf := r.pdf
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(primaryColor[0], primaryColor[1], primaryColor[2])
	pdf.CellFormat(0, 10, r.tr(title), "", 1, "L", false, 0, "")
	pdf.Ln(4)
}

func (r *renderer) subTitle(title string) {
	pdf := r.pdf
	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetTextColor(primaryColor[0], primaryColor[1], primaryColor[2])
	pdf.CellFormat(0, 8, r.tr(title), "", 1, "L", false, 0, "")
	pdf.Ln(2)
}

func (r *renderer) kpiBox(x, y, w float64, title, value string, color [3]int) {
	pdf := r.pdf
	const h = 24.0
	pdf.SetDrawColor(primaryColor[0], primaryColor[1], primaryColor[2])
	pdf.Rect(x, y, w, h, "D")
	pdf.SetXY(x, y+3)
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(darkGray[0], darkGray[1], darkGray[2])
	pdf.CellFormat(w, 4, r.tr(title), "", 0, "C", false, 0, "")
	pdf.SetXY(x, y+10)
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(color[0], color[1], color[2])
	pdf.CellFormat(w, 10, r.tr(value), "", 0, "C", false, 0, "")
}

func (r *renderer) tableHeader(headers []string, widths []float64) {
	pdf := r.pdf
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(primaryColor[0], primaryColor[1], primaryColor[2])
	pdf.SetTextColor(255, 255, 255)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, r.tr(h), "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)
}

func (r *renderer) tableRow(values []string, widths []float64, alternate bool) {
	pdf := r.pdf
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(0, 0, 0)
	if alternate {
		pdf.SetFillColor(lightGray[0], lightGray[1], lightGray[2])
	} else {
		pdf.SetFillColor(255, 255, 255)
	}
	for i, v := range values {
		pdf.CellFormat(widths[i], 6, r.tr(v), "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)
}

func (r *renderer) overviewPage(result *analysis.Result) {
	ov := result.Overview
	r.sectionTitle("1. Überblick")
	pdf := r.pdf

	if !ov.HasCompany {
		pdf.SetFont("Helvetica", "", 11)
		pdf.SetTextColor(0, 0, 0)
		pdf.MultiCell(0, 6, r.tr("Keine Unternehmensdaten im Export enthalten."), "", "L", false)
		return
	}

	rc := riskColor(ov.Sicherheitsbewertung)
	y := pdf.GetY()
	const w, gap = 44.0, 4.0
	r.kpiBox(10, y, w, "Gesamtangriffe", strconv.Itoa(ov.AttacksSent), primaryColor)
	r.kpiBox(10+w+gap, y, w, "Erfolgsquote", fmt.Sprintf("%.1f%%", ov.Erfolgsquote), rc)
	r.kpiBox(10+2*(w+gap), y, w, "Klickrate", fmt.Sprintf("%.1f%%", ov.GesamtKlickrate), accentColor)
	r.kpiBox(10+3*(w+gap), y, w, "Meldequote", fmt.Sprintf("%.1f%%", ov.Meldequote), green)
	pdf.SetY(y + 32)

	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(0, 0, 0)
	pdf.MultiCell(0, 6, r.tr(fmt.Sprintf(
		"Basierend auf der Erfolgsquote von %.1f%% der Phishing-Angriffe wird die Sicherheitslage als %s eingestuft.",
		ov.Erfolgsquote, ov.Sicherheitsbewertung)), "", "J", false)

	if ov.MostEffectivePsychFactors != "" {
		pdf.Ln(4)
		pdf.MultiCell(0, 6, r.tr("Wirksamste psychologische Faktoren: "+ov.MostEffectivePsychFactors), "", "L", false)
	}
	if ov.ESI > 0 {
		pdf.Ln(2)
		pdf.MultiCell(0, 6, r.tr(fmt.Sprintf("Enterprise Security Index (ESI): %.1f", ov.ESI)), "", "L", false)
	}
}

func (r *renderer) scenarioPage(result *analysis.Result) {
	ov := result.Overview
	if !ov.HasScenarios || len(result.TopScenarios) == 0 {
		return
	}
	r.sectionTitle("2. Szenarien")
	r.subTitle("Top 3 gefährlichste Szenarien")

	widths := []float64{25, 85, 25, 25, 30}
	r.tableHeader([]string{"Szenario-ID", "Beschreibung", "Level", "Angriffe", "Erfolgsquote"}, widths)
	for i, s := range result.TopScenarios {
		desc := s.Description
		if len(desc) > 50 {
			desc = desc[:50] + "..."
		}
		r.tableRow([]string{
			s.ScenarioID,
			desc,
			strconv.Itoa(s.Level),
			strconv.Itoa(s.AttacksSent),
			fmt.Sprintf("%.1f%%", s.SuccessRate),
		}, widths, i%2 == 1)
	}

	if len(result.TopPsychFactors) > 0 {
		r.pdf.Ln(8)
		r.subTitle("Häufigste psychologische Faktoren")
		r.pdf.SetFont("Helvetica", "", 10)
		r.pdf.SetTextColor(0, 0, 0)
		for i, f := range result.TopPsychFactors {
			r.pdf.CellFormat(0, 6, r.tr(fmt.Sprintf("%d. %s (%d Vorkommen)", i+1, f.Factor, f.Count)), "", 1, "L", false, 0, "")
		}
	}
}

func (r *renderer) userBehaviorPage(result *analysis.Result) {
	ov := result.Overview
	if !ov.HasUsers && !ov.HasCompany {
		return
	}
	r.sectionTitle("3. Benutzerverhalten (Übersicht)")
	pdf := r.pdf

	if ov.HasUsers {
		y := pdf.GetY()
		rc := riskColor(ov.Sicherheitsbewertung)
		r.kpiBox(10, y, 92, "Auffällige Benutzer", strconv.Itoa(ov.VulnerableUsers), accentColor)
		r.kpiBox(106, y, 92, "Anteil an allen Benutzern", fmt.Sprintf("%.1f%%", ov.VulnerableUsersPercent), rc)
		pdf.SetY(y + 32)
	}

	hasLevels := false
	for _, lvl := range result.LevelData {
		if lvl.Employees > 0 || lvl.AttacksSent > 0 {
			hasLevels = true
			break
		}
	}
	if hasLevels {
		r.subTitle("Klickrate nach Level")
		widths := []float64{30, 40, 40, 40, 40}
		r.tableHeader([]string{"Level", "Mitarbeiter", "Angriffe gesendet", "Erfolgreiche", "Klickrate"}, widths)
		for i, lvl := range result.LevelData {
			if lvl.Employees == 0 && lvl.AttacksSent == 0 {
				continue
			}
			r.tableRow([]string{
				"Level " + strconv.Itoa(lvl.Level),
				strconv.Itoa(lvl.Employees),
				strconv.Itoa(lvl.AttacksSent),
				strconv.Itoa(lvl.AttacksSuccessful),
				fmt.Sprintf("%.1f%%", lvl.ClickRate),
			}, widths, i%2 == 1)
		}
	}

	if te := result.TrainingEffectiveness; te != nil {
		pdf.Ln(8)
		r.subTitle("Trainings-Wirksamkeit")
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(0, 0, 0)
		pdf.MultiCell(0, 6, r.tr(fmt.Sprintf(
			"Benutzer mit abgeschlossenem Training (%d) weisen eine Erfolgsquote von %.1f%% auf, Benutzer ohne Training (%d) eine von %.1f%%.",
			te.WithTraining.Users, te.WithTraining.SuccessRate,
			te.WithoutTraining.Users, te.WithoutTraining.SuccessRate)), "", "L", false)
		if te.Difference > 0 {
			pdf.MultiCell(0, 6, r.tr(fmt.Sprintf(
				"Das Training senkt die Anfälligkeit um %.1f Prozentpunkte.", te.Difference)), "", "L", false)
		}
	}
}

func (r *renderer) userDetailPage(result *analysis.Result, showEmails bool) {
	ov := result.Overview
	if !ov.HasUsers || len(result.TopVulnerableUsers) == 0 {
		return
	}
	r.sectionTitle("4. Detaillierte Benutzeranalyse")
	r.subTitle("Top anfälligste Benutzer")

	widths := []float64{60, 20, 25, 25, 20, 22, 28}
	r.tableHeader([]string{"Benutzer", "Level", "Gesendet", "Erfolg", "Klicks", "Trainings", "Anfälligkeit"}, widths)
	for i, u := range result.TopVulnerableUsers {
		email := u.Email
		if !showEmails {
			email = maskEmail(email)
		}
		r.tableRow([]string{
			email,
			strconv.Itoa(u.Level),
			strconv.Itoa(u.Sent),
			strconv.Itoa(u.Successful),
			strconv.Itoa(u.Clicked),
			strconv.Itoa(u.TrainingsCompleted),
			fmt.Sprintf("%.1f%%", u.Vulnerability),
		}, widths, i%2 == 1)
	}

	pdf := r.pdf
	pdf.Ln(8)
	r.subTitle("Benutzer nach Trainingsstand")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 6, r.tr(fmt.Sprintf("Trainings abgeschlossen: %d", ov.TrainingsCompleted)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, r.tr(fmt.Sprintf("In Bearbeitung: %d", ov.TrainingsStarted)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, r.tr(fmt.Sprintf("Nicht gestartet: %d", ov.TrainingsNotStarted)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, r.tr(fmt.Sprintf("Durchschnittliche Trainings pro Benutzer: %.1f", ov.AvgTrainingsPerUser)), "", 1, "L", false, 0, "")
}
