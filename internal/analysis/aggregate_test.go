package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func companyRow(extra Record) []Record {
	row := Record{
		"attacks_sent":       "100",
		"attacks_successful": "40",
		"attacks_clicked":    "35",
		"attacks_reported":   "20",
	}
	for k, v := range extra {
		row[k] = v
	}
	return []Record{row}
}

func TestAnalyze_CompanyRates(t *testing.T) {
	result := Analyze(nil, nil, companyRow(nil))

	ov := result.Overview
	assert.Equal(t, 35.0, ov.GesamtKlickrate)
	assert.Equal(t, 40.0, ov.Erfolgsquote)
	assert.Equal(t, 50.0, ov.Meldequote)
	assert.Equal(t, RiskMedium, ov.Sicherheitsbewertung)
	assert.True(t, ov.HasCompany)
	assert.False(t, ov.HasScenarios)
	assert.False(t, ov.HasUsers)
}

func TestAnalyze_EmptyInputs(t *testing.T) {
	result := Analyze(nil, nil, nil)

	ov := result.Overview
	assert.False(t, ov.HasScenarios)
	assert.False(t, ov.HasUsers)
	assert.False(t, ov.HasCompany)
	assert.Equal(t, 0, ov.TotalUsers)
	assert.Equal(t, 0, ov.TotalScenarios)
	assert.Equal(t, 0.0, ov.GesamtKlickrate)
	assert.Equal(t, 0.0, ov.Erfolgsquote)
	assert.Equal(t, RiskLow, ov.Sicherheitsbewertung)

	assert.Empty(t, result.ScenarioStats)
	assert.Empty(t, result.TopScenarios)
	assert.Empty(t, result.TopPsychFactors)
	assert.Empty(t, result.TopVulnerableUsers)
	assert.Nil(t, result.TrainingEffectiveness)
	assert.Len(t, result.LevelData, 5)
}

func TestRiskLevel_Thresholds(t *testing.T) {
	tests := []struct {
		quote    float64
		expected string
	}{
		{0, RiskLow},
		{29.9, RiskLow},
		{30, RiskMedium},
		{50, RiskMedium},
		{50.1, RiskHigh},
		{100, RiskHigh},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, RiskLevel(tt.quote), "quote=%v", tt.quote)
	}
}

func TestAnalyze_NumericCoercion(t *testing.T) {
	company := []Record{{
		"attacks_sent":       "kaputt",
		"attacks_successful": "",
		"esi":                "nicht-numerisch",
	}}

	result := Analyze(nil, nil, company)

	ov := result.Overview
	assert.Equal(t, 0, ov.AttacksSent)
	assert.Equal(t, 0, ov.AttacksSuccessful)
	assert.Equal(t, 0.0, ov.ESI)
	// Nenner 0 ergibt 0, nie NaN oder Inf
	assert.Equal(t, 0.0, ov.Erfolgsquote)
	assert.Equal(t, 0.0, ov.GesamtKlickrate)
}

func TestAnalyze_ScenarioRankingStable(t *testing.T) {
	scenarios := []Record{
		{"scenario_id": "S1", "attacks_sent": "10", "attacks_successful": "2"},
		{"scenario_id": "S2", "attacks_sent": "10", "attacks_successful": "8"},
		{"scenario_id": "S3", "attacks_sent": "10", "attacks_successful": "2"},
		{"scenario_id": "S4", "attacks_sent": "10", "attacks_successful": "5"},
	}

	result := Analyze(scenarios, nil, nil)

	require.Len(t, result.TopScenarios, 3)
	assert.Equal(t, "S2", result.TopScenarios[0].ScenarioID)
	assert.Equal(t, "S4", result.TopScenarios[1].ScenarioID)
	// Gleichstand S1/S3: Reihenfolge aus der CSV bleibt erhalten
	assert.Equal(t, "S1", result.TopScenarios[2].ScenarioID)
	assert.Equal(t, "S3", result.ScenarioStats[3].ScenarioID)
}

func TestAnalyze_ScenarioZeroSentRankedAtZero(t *testing.T) {
	scenarios := []Record{
		{"scenario_id": "S1", "attacks_sent": "0", "attacks_successful": "0"},
		{"scenario_id": "S2", "attacks_sent": "10", "attacks_successful": "1"},
	}

	result := Analyze(scenarios, nil, nil)

	require.Len(t, result.ScenarioStats, 2)
	assert.Equal(t, "S2", result.ScenarioStats[0].ScenarioID)
	assert.Equal(t, 0.0, result.ScenarioStats[1].SuccessRate)
}

func TestAnalyze_ScenarioRateRoundTrip(t *testing.T) {
	scenarios := []Record{
		{"scenario_id": "S1", "attacks_sent": "7", "attacks_successful": "3", "attacks_reported": "2"},
	}

	result := Analyze(scenarios, nil, nil)

	require.Len(t, result.ScenarioStats, 1)
	s := result.ScenarioStats[0]
	// Raten aus dem Ergebnis müssen der direkten Neuberechnung entsprechen
	assert.Equal(t, rate(s.AttacksSuccessful, s.AttacksSent), s.SuccessRate)
	assert.Equal(t, rate(s.AttacksReported, s.AttacksSuccessful), s.ReportRate)
	assert.Equal(t, 42.9, s.SuccessRate)
	assert.Equal(t, 66.7, s.ReportRate)
}

func TestAnalyze_PsychFactors(t *testing.T) {
	scenarios := []Record{
		{"scenario_id": "S1", "scenario_psychological_factors": "Dringlichkeit, Autorität"},
		{"scenario_id": "S2", "scenario_psychological_factors": "Dringlichkeit, Nicht angegeben"},
		{"scenario_id": "S3", "scenario_psychological_factors": "Neugier"},
		{"scenario_id": "S4", "scenario_psychological_factors": "Angst"},
		{"scenario_id": "S5", "scenario_psychological_factors": "Gier"},
		{"scenario_id": "S6", "scenario_psychological_factors": "Hilfsbereitschaft"},
		{"scenario_id": "S7", "scenario_psychological_factors": "Nicht angegeben"},
	}

	result := Analyze(scenarios, nil, nil)

	factors := result.TopPsychFactors
	require.NotEmpty(t, factors)
	assert.LessOrEqual(t, len(factors), 5)

	assert.Equal(t, "Dringlichkeit", factors[0].Factor)
	assert.Equal(t, 2, factors[0].Count)
	for _, f := range factors {
		assert.NotEqual(t, "Nicht angegeben", f.Factor)
	}
	// Gleichstand: Reihenfolge des ersten Vorkommens
	assert.Equal(t, "Autorität", factors[1].Factor)
}

func TestAnalyze_VulnerableUsers(t *testing.T) {
	users := []Record{
		{"email": "a@firma.de", "attacks_sent": "10", "attacks_successful": "4", "attacks_clicked": "5", "e_trainings_completed": "0"},
		{"email": "b@firma.de", "attacks_sent": "10", "attacks_successful": "0", "attacks_clicked": "0", "e_trainings_completed": "3"},
		{"email": "c@firma.de", "attacks_sent": "10", "attacks_successful": "4", "attacks_clicked": "2", "e_trainings_completed": "1"},
		{"email": "d@firma.de", "attacks_sent": "0", "attacks_successful": "0", "attacks_clicked": "1", "e_trainings_completed": "0"},
	}

	result := Analyze(nil, users, nil)

	ov := result.Overview
	assert.Equal(t, 3, ov.VulnerableUsers)
	assert.Equal(t, 75.0, ov.VulnerableUsersPercent)

	top := result.TopVulnerableUsers
	require.Len(t, top, 3)
	// a vor c (gleiche Erfolge, mehr Klicks), d zuletzt
	assert.Equal(t, "a@firma.de", top[0].Email)
	assert.Equal(t, "c@firma.de", top[1].Email)
	assert.Equal(t, "d@firma.de", top[2].Email)

	assert.Equal(t, 45.0, top[0].Vulnerability) // (5+4)/(2*10)*100
	assert.Equal(t, 0.0, top[2].Vulnerability)  // sent=0 ergibt 0, nie NaN
	for _, u := range top {
		assert.GreaterOrEqual(t, u.Vulnerability, 0.0)
		assert.LessOrEqual(t, u.Vulnerability, 100.0)
	}
}

func TestAnalyze_VulnerableUserLimit(t *testing.T) {
	var users []Record
	for i := 0; i < 30; i++ {
		users = append(users, Record{
			"email":              "user@firma.de",
			"attacks_sent":       "10",
			"attacks_successful": "1",
		})
	}

	result := Analyze(nil, users, nil)
	assert.Len(t, result.TopVulnerableUsers, 15)
}

func TestAnalyze_TrainingEffectiveness(t *testing.T) {
	users := []Record{
		{"email": "a@firma.de", "attacks_sent": "10", "attacks_successful": "1", "e_trainings_completed": "2"},
		{"email": "b@firma.de", "attacks_sent": "10", "attacks_successful": "1", "e_trainings_completed": "1"},
		{"email": "c@firma.de", "attacks_sent": "10", "attacks_successful": "6", "e_trainings_completed": "0"},
		{"email": "d@firma.de", "attacks_sent": "10", "attacks_successful": "2", "e_trainings_completed": "0"},
	}

	result := Analyze(nil, users, nil)

	te := result.TrainingEffectiveness
	require.NotNil(t, te)
	assert.Equal(t, 2, te.WithTraining.Users)
	assert.Equal(t, 2, te.WithoutTraining.Users)
	assert.Equal(t, 10.0, te.WithTraining.SuccessRate)    // 2/20
	assert.Equal(t, 40.0, te.WithoutTraining.SuccessRate) // 8/20
	assert.Equal(t, 30.0, te.Difference)
}

func TestAnalyze_LevelData(t *testing.T) {
	company := companyRow(Record{
		"level_1_attacks_sent":       "20",
		"level_1_attacks_successful": "5",
		"level_1_employees":          "10",
		"level_3_attacks_sent":       "0",
		"level_3_employees":          "4",
	})

	result := Analyze(nil, nil, company)

	require.Len(t, result.LevelData, 5)
	assert.Equal(t, 1, result.LevelData[0].Level)
	assert.Equal(t, 25.0, result.LevelData[0].ClickRate)
	// sent=0 ergibt Rate 0
	assert.Equal(t, 0.0, result.LevelData[2].ClickRate)
	assert.Equal(t, 4, result.LevelData[2].Employees)
	assert.Equal(t, 5, result.LevelData[4].Level)
}

func TestRate_Bounds(t *testing.T) {
	assert.Equal(t, 0.0, rate(5, 0))
	assert.Equal(t, 100.0, rate(10, 10))
	assert.Equal(t, 33.3, rate(1, 3))
}
