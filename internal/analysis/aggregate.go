package analysis

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// Feste Risiko-Kategorien, werden vom PDF und vom
// Dashboard für die Farbcodierung verwendet, nicht umbenennen
const (
	RiskLow    = "Niedrig"
	RiskMedium = "Mittel"
	RiskHigh   = "Hoch"
)

// Platzhalter in den Szenario-Exporten, zählt nicht als psychologischer Faktor
const factorNotSpecified = "Nicht angegeben"

// topVulnerableUserLimit begrenzt die Benutzer in der Detail-Auswertung.
// Ältere Export-Varianten nutzten 10, der Report ist auf 15 standardisiert.
const topVulnerableUserLimit = 15

type Overview struct {
	TotalUsers     int `json:"totalUsers"`
	TotalScenarios int `json:"totalScenarios"`

	VulnerableUsers        int     `json:"vulnerableUsers"`
	VulnerableUsersPercent float64 `json:"vulnerableUsersPercent"`

	GesamtKlickrate      float64 `json:"gesamtKlickrate"`
	Erfolgsquote         float64 `json:"erfolgsquote"`
	Meldequote           float64 `json:"meldequote"`
	Sicherheitsbewertung string  `json:"sicherheitsbewertung"`

	ESI float64 `json:"esi"`

	AttacksSent           int `json:"attacksSent"`
	AttacksSuccessful     int `json:"attacksSuccessful"`
	AttacksReported       int `json:"attacksReported"`
	AttacksClicked        int `json:"attacksClicked"`
	AttacksLogins         int `json:"attacksLogins"`
	AttacksFilesOpened    int `json:"attacksFilesOpened"`
	AttacksMacrosExecuted int `json:"attacksMacrosExecuted"`

	TrainingsCompleted  int     `json:"trainingsCompleted"`
	TrainingsStarted    int     `json:"trainingsStarted"`
	TrainingsNotStarted int     `json:"trainingsNotStarted"`
	AvgTrainingsPerUser float64 `json:"avgTrainingsPerUser"`

	MostEffectivePsychFactors string `json:"mostEffectivePsychFactors"`

	HasScenarios bool `json:"hasScenarios"`
	HasUsers     bool `json:"hasUsers"`
	HasCompany   bool `json:"hasCompany"`
}

type ScenarioStat struct {
	ScenarioID  string `json:"scenarioId"`
	Description string `json:"description"`
	ExploitType string `json:"exploitType"`
	Level       int    `json:"level"`

	AttacksSent           int `json:"attacksSent"`
	AttacksSuccessful     int `json:"attacksSuccessful"`
	AttacksClicked        int `json:"attacksClicked"`
	AttacksReported       int `json:"attacksReported"`
	AttacksLogins         int `json:"attacksLogins"`
	AttacksFilesOpened    int `json:"attacksFilesOpened"`
	AttacksMacrosExecuted int `json:"attacksMacrosExecuted"`

	TrainingsCompleted  int `json:"trainingsCompleted"`
	TrainingsStarted    int `json:"trainingsStarted"`
	TrainingsNotStarted int `json:"trainingsNotStarted"`

	SuccessRate float64 `json:"successRate"`
	ReportRate  float64 `json:"reportRate"`

	PsychologicalFactors []string `json:"psychologicalFactors"`
}

type LevelData struct {
	Level             int     `json:"level"`
	Employees         int     `json:"employees"`
	AttacksSent       int     `json:"attacksSent"`
	AttacksSuccessful int     `json:"attacksSuccessful"`
	AttacksReported   int     `json:"attacksReported"`
	ClickRate         float64 `json:"clickRate"`
}

type FactorCount struct {
	Factor string `json:"factor"`
	Count  int    `json:"count"`
}

type TrainingGroup struct {
	Users       int     `json:"users"`
	SuccessRate float64 `json:"successRate"`
}

// TrainingEffectiveness vergleicht die Erfolgsquoten von Benutzern mit und
// ohne abgeschlossenes Training; positive Differenz spricht für das Training
type TrainingEffectiveness struct {
	WithTraining    TrainingGroup `json:"withTraining"`
	WithoutTraining TrainingGroup `json:"withoutTraining"`
	Difference      float64       `json:"difference"`
}

type VulnerableUser struct {
	Email              string  `json:"email"`
	Level              int     `json:"level"`
	Sent               int     `json:"sent"`
	Successful         int     `json:"successful"`
	Clicked            int     `json:"clicked"`
	TrainingsCompleted int     `json:"trainingsCompleted"`
	Vulnerability      float64 `json:"vulnerability"`
}

type Result struct {
	Overview              Overview               `json:"overview"`
	ScenarioStats         []ScenarioStat         `json:"scenarioStats"`
	TopScenarios          []ScenarioStat         `json:"topScenarios"`
	LevelData             []LevelData            `json:"levelData"`
	TopPsychFactors       []FactorCount          `json:"topPsychFactors"`
	TrainingEffectiveness *TrainingEffectiveness `json:"trainingEffectiveness,omitempty"`
	TopVulnerableUsers    []VulnerableUser       `json:"topVulnerableUsers"`
}

// Analyze berechnet aus den drei Record-Sets den vollständigen Report.
// Reine Funktion ohne I/O; fehlende oder kaputte Daten führen nie zu einem
// Fehler, sondern zu Nullwerten und abgeschalteten has*-Flags.
func Analyze(scenarios, users, company []Record) *Result {
	result := &Result{
		ScenarioStats:      []ScenarioStat{},
		TopScenarios:       []ScenarioStat{},
		TopPsychFactors:    []FactorCount{},
		TopVulnerableUsers: []VulnerableUser{},
	}

	ov := &result.Overview
	ov.TotalUsers = len(users)
	ov.TotalScenarios = len(scenarios)
	ov.HasScenarios = len(scenarios) > 0
	ov.HasUsers = len(users) > 0
	ov.HasCompany = len(company) > 0

	aggregateCompany(ov, company)
	result.LevelData = buildLevelData(company)
	result.ScenarioStats = buildScenarioStats(scenarios)
	result.TopScenarios = topScenarios(result.ScenarioStats)
	result.TopPsychFactors = topPsychFactors(result.ScenarioStats)
	aggregateUsers(result, users)

	ov.Sicherheitsbewertung = RiskLevel(ov.Erfolgsquote)

	return result
}

// RiskLevel stuft die Erfolgsquote in die drei Risiko-Kategorien ein
func RiskLevel(erfolgsquote float64) string {
	switch {
	case erfolgsquote > 50:
		return RiskHigh
	case erfolgsquote >= 30:
		return RiskMedium
	default:
		return RiskLow
	}
}

// aggregateCompany liest die Kennzahlen aus der (einzigen) Unternehmenszeile
func aggregateCompany(ov *Overview, company []Record) {
	if len(company) == 0 {
		return
	}
	row := company[0]

	ov.ESI = toFloat(row["esi"])
	ov.AttacksSent = toInt(row["attacks_sent"])
	ov.AttacksSuccessful = toInt(row["attacks_successful"])
	ov.AttacksReported = toInt(row["attacks_reported"])
	ov.AttacksClicked = toInt(row["attacks_clicked"])
	ov.AttacksLogins = toInt(row["attacks_logins"])
	ov.AttacksFilesOpened = toInt(row["attacks_files_opened"])
	ov.AttacksMacrosExecuted = toInt(row["attacks_macros_executed"])
	ov.TrainingsCompleted = toInt(row["e_trainings_completed"])
	ov.TrainingsStarted = toInt(row["e_trainings_started"])
	ov.TrainingsNotStarted = toInt(row["e_trainings_not_started"])
	ov.MostEffectivePsychFactors = strings.TrimSpace(row["most_effective_psychological_factors"])

	ov.GesamtKlickrate = rate(ov.AttacksClicked, ov.AttacksSent)
	ov.Erfolgsquote = rate(ov.AttacksSuccessful, ov.AttacksSent)
	// Meldequote bezieht sich auf die erfolgreichen Angriffe
	ov.Meldequote = rate(ov.AttacksReported, ov.AttacksSuccessful)
}

// buildLevelData liefert immer genau 5 Einträge (Level 1–5), auch wenn das
// Unternehmens-Record keine Daten für alle Level hat
func buildLevelData(company []Record) []LevelData {
	var row Record
	if len(company) > 0 {
		row = company[0]
	}

	levels := make([]LevelData, 0, 5)
	for lvl := 1; lvl <= 5; lvl++ {
		prefix := "level_" + strconv.Itoa(lvl) + "_"
		data := LevelData{Level: lvl}
		if row != nil {
			data.Employees = toInt(row[prefix+"employees"])
			data.AttacksSent = toInt(row[prefix+"attacks_sent"])
			data.AttacksSuccessful = toInt(row[prefix+"attacks_successful"])
			data.AttacksReported = toInt(row[prefix+"attacks_reported"])
		}
		data.ClickRate = rate(data.AttacksSuccessful, data.AttacksSent)
		levels = append(levels, data)
	}
	return levels
}

func buildScenarioStats(scenarios []Record) []ScenarioStat {
	stats := make([]ScenarioStat, 0, len(scenarios))
	for _, row := range scenarios {
		stat := ScenarioStat{
			ScenarioID:            strings.TrimSpace(row["scenario_id"]),
			Description:           strings.TrimSpace(row["scenario_description"]),
			ExploitType:           strings.TrimSpace(row["scenario_exploit_type"]),
			Level:                 toInt(row["scenario_level"]),
			AttacksSent:           toInt(row["attacks_sent"]),
			AttacksSuccessful:     toInt(row["attacks_successful"]),
			AttacksClicked:        toInt(row["attacks_clicked"]),
			AttacksReported:       toInt(row["attacks_reported"]),
			AttacksLogins:         toInt(row["attacks_logins"]),
			AttacksFilesOpened:    toInt(row["attacks_files_opened"]),
			AttacksMacrosExecuted: toInt(row["attacks_macros_executed"]),
			TrainingsCompleted:    toInt(row["e_trainings_completed"]),
			TrainingsStarted:      toInt(row["e_trainings_started"]),
			TrainingsNotStarted:   toInt(row["e_trainings_not_started"]),
			PsychologicalFactors:  splitFactors(row["scenario_psychological_factors"]),
		}
		// gleiche Formeln wie auf Unternehmensebene, pro Szenario angewendet
		stat.SuccessRate = rate(stat.AttacksSuccessful, stat.AttacksSent)
		stat.ReportRate = rate(stat.AttacksReported, stat.AttacksSuccessful)
		stats = append(stats, stat)
	}

	// stabil sortiert: gleiche Erfolgsquote behält die Reihenfolge aus der CSV
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].SuccessRate > stats[j].SuccessRate
	})
	return stats
}

func topScenarios(stats []ScenarioStat) []ScenarioStat {
	if len(stats) > 3 {
		return stats[:3]
	}
	return stats
}

func topPsychFactors(stats []ScenarioStat) []FactorCount {
	counts := map[string]int{}
	order := []string{}

	for _, stat := range stats {
		for _, factor := range stat.PsychologicalFactors {
			if _, seen := counts[factor]; !seen {
				order = append(order, factor)
			}
			counts[factor]++
		}
	}

	factors := make([]FactorCount, 0, len(order))
	for _, factor := range order {
		factors = append(factors, FactorCount{Factor: factor, Count: counts[factor]})
	}
	// ties behalten die Reihenfolge des ersten Vorkommens
	sort.SliceStable(factors, func(i, j int) bool {
		return factors[i].Count > factors[j].Count
	})

	if len(factors) > 5 {
		factors = factors[:5]
	}
	return factors
}

func aggregateUsers(result *Result, users []Record) {
	if len(users) == 0 {
		return
	}
	ov := &result.Overview

	type userRow struct {
		email                              string
		level                              int
		sent, successful, clicked, trained int
		order                              int
	}

	var (
		rows          []userRow
		totalTrained  int
		withSent      int
		withSucc      int
		withoutSent   int
		withoutSucc   int
		withCount     int
		withoutCount  int
		vulnerableCnt int
	)

	for i, row := range users {
		u := userRow{
			email:      strings.TrimSpace(row["email"]),
			level:      toInt(row["level"]),
			sent:       toInt(row["attacks_sent"]),
			successful: toInt(row["attacks_successful"]),
			clicked:    toInt(row["attacks_clicked"]),
			trained:    toInt(row["e_trainings_completed"]),
			order:      i,
		}
		if u.email == "" {
			u.email = strings.TrimSpace(row["id"])
		}

		totalTrained += u.trained
		if u.trained > 0 {
			withCount++
			withSent += u.sent
			withSucc += u.successful
		} else {
			withoutCount++
			withoutSent += u.sent
			withoutSucc += u.successful
		}
		if u.clicked > 0 || u.successful > 0 {
			vulnerableCnt++
			rows = append(rows, u)
		}
	}

	ov.VulnerableUsers = vulnerableCnt
	ov.VulnerableUsersPercent = rate(vulnerableCnt, len(users))
	ov.AvgTrainingsPerUser = round1(float64(totalTrained) / float64(len(users)))

	withRate := rate(withSucc, withSent)
	withoutRate := rate(withoutSucc, withoutSent)
	result.TrainingEffectiveness = &TrainingEffectiveness{
		WithTraining:    TrainingGroup{Users: withCount, SuccessRate: withRate},
		WithoutTraining: TrainingGroup{Users: withoutCount, SuccessRate: withoutRate},
		Difference:      round1(withoutRate - withRate),
	}

	// anfälligste Benutzer: erfolgreiche Angriffe vor Klicks,
	// bei Gleichstand zuerst die am wenigsten trainierten
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.successful != b.successful {
			return a.successful > b.successful
		}
		if a.clicked != b.clicked {
			return a.clicked > b.clicked
		}
		return a.trained < b.trained
	})

	limit := topVulnerableUserLimit
	if len(rows) < limit {
		limit = len(rows)
	}
	top := make([]VulnerableUser, 0, limit)
	for _, u := range rows[:limit] {
		top = append(top, VulnerableUser{
			Email:              u.email,
			Level:              u.level,
			Sent:               u.sent,
			Successful:         u.successful,
			Clicked:            u.clicked,
			TrainingsCompleted: u.trained,
			Vulnerability:      vulnerabilityScore(u.clicked, u.successful, u.sent),
		})
	}
	result.TopVulnerableUsers = top
}

// vulnerabilityScore normiert Klicks und erfolgreiche Angriffe auf die an den
// Benutzer gesendeten Angriffe, Ergebnis liegt in [0,100]
func vulnerabilityScore(clicked, successful, sent int) float64 {
	if sent == 0 {
		return 0
	}
	return round1(float64(clicked+successful) / float64(2*sent) * 100)
}

func splitFactors(raw string) []string {
	var factors []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" || part == factorNotSpecified {
			continue
		}
		factors = append(factors, part)
	}
	return factors
}

// toInt wandelt total um, ungültige Werte werden zu 0
func toInt(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return n
}

func toFloat(raw string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// rate liefert den Anteil in Prozent, auf eine Nachkommastelle gerundet,
// 0 bei leerem Nenner (nie NaN oder Inf)
func rate(numerator, denominator int) float64 {
	if denominator == 0 {
		return 0
	}
	return round1(float64(numerator) / float64(denominator) * 100)
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
