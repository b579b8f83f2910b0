package analysis

import (
	"archive/zip"
	"bytes"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildZip schreibt die Einträge in alphabetischer Reihenfolge,
// damit Tests zur Eintragsreihenfolge deterministisch sind
func buildZip(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, name := range names {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(entries[name]))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestExtractArchive_AllSlots(t *testing.T) {
	data := buildZip(t, map[string]string{
		"phishing_scenarios.csv": "scenario_id\nS1\n",
		"user_statistics.csv":    "email\na@b.de\n",
		"company_statistics.csv": "esi\n42\n",
	})

	bundle, err := ExtractArchive(data)
	require.NoError(t, err)
	assert.Contains(t, bundle.Scenarios, "S1")
	assert.Contains(t, bundle.Users, "a@b.de")
	assert.Contains(t, bundle.Company, "42")
}

func TestExtractArchive_SubstringMatching(t *testing.T) {
	// alternative Namensbestandteile und Großschreibung
	data := buildZip(t, map[string]string{
		"Export_SCENARIO_2026.CSV": "scenario_id\nS1\n",
		"employee_list.csv":        "email\na@b.de\n",
		"enterprise_totals.csv":    "esi\n10\n",
	})

	bundle, err := ExtractArchive(data)
	require.NoError(t, err)
	assert.NotEmpty(t, bundle.Scenarios)
	assert.NotEmpty(t, bundle.Users)
	assert.NotEmpty(t, bundle.Company)
}

func TestExtractArchive_MissingSlotTolerated(t *testing.T) {
	// keine Unternehmensdatei, zulässig solange 2 bis 4 CSVs vorhanden sind
	data := buildZip(t, map[string]string{
		"phishing_scenarios.csv": "scenario_id\nS1\n",
		"user_statistics.csv":    "email\na@b.de\n",
	})

	bundle, err := ExtractArchive(data)
	require.NoError(t, err)
	assert.Empty(t, bundle.Company)
}

func TestExtractArchive_FirstMatchWins(t *testing.T) {
	data := buildZip(t, map[string]string{
		"01_user_a.csv": "email\nerste@b.de\n",
		"02_user_b.csv": "email\nzweite@b.de\n",
	})

	bundle, err := ExtractArchive(data)
	require.NoError(t, err)
	assert.Contains(t, bundle.Users, "erste@b.de")
	assert.NotContains(t, bundle.Users, "zweite@b.de")
}

func TestExtractArchive_IgnoresNonCSV(t *testing.T) {
	data := buildZip(t, map[string]string{
		"phishing_scenarios.csv": "scenario_id\nS1\n",
		"user_statistics.csv":    "email\na@b.de\n",
		"readme.txt":             "irrelevant",
		"logo.png":               "binary",
	})

	_, err := ExtractArchive(data)
	assert.NoError(t, err)
}

func TestExtractArchive_CountOutOfRange(t *testing.T) {
	tests := []struct {
		name    string
		entries map[string]string
	}{
		{
			name: "zu wenige",
			entries: map[string]string{
				"phishing_scenarios.csv": "scenario_id\nS1\n",
			},
		},
		{
			name: "zu viele",
			entries: map[string]string{
				"scenario_1.csv": "a\n1\n",
				"scenario_2.csv": "a\n1\n",
				"user_1.csv":     "a\n1\n",
				"user_2.csv":     "a\n1\n",
				"company.csv":    "a\n1\n",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractArchive(buildZip(t, tt.entries))
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.NotEmpty(t, vErr.Reason)
		})
	}
}

func TestExtractArchive_NoSlotMatched(t *testing.T) {
	data := buildZip(t, map[string]string{
		"foo.csv": "a\n1\n",
		"bar.csv": "a\n1\n",
	})

	_, err := ExtractArchive(data)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestExtractArchive_MalformedZip(t *testing.T) {
	_, err := ExtractArchive([]byte("das ist kein zip"))
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
}
