package analysis

import (
	"encoding/csv"
	"strings"
)

// Record ist eine CSV-Zeile als Abbildung von Spaltenname auf Rohwert (immer string,
// numerische Umwandlung passiert erst in der Aggregation)
type Record map[string]string

// Historische Exporte verwenden abweichende Spaltennamen. Die Aliase
// werden genau hier einmalig auf das kanonische Schema abgebildet,
// der Aggregator sieht nur noch kanonische Namen.
var columnAliases = map[string]string{
	"clicks":               "attacks_clicked",
	"logins":               "attacks_logins",
	"file_opens":           "attacks_files_opened",
	"file_open":            "attacks_files_opened",
	"macro_executions":     "attacks_macros_executed",
	"macros":               "attacks_macros_executed",
	"reported":             "attacks_reported",
	"scenario_name":        "scenario_description",
	"name":                 "scenario_description",
	"psychological_factor": "scenario_psychological_factors",
	"factor":               "scenario_psychological_factors",
}

func canonicalColumn(name string) string {
	name = strings.TrimSpace(strings.ToLower(name))
	if canonical, ok := columnAliases[name]; ok {
		return canonical
	}
	return name
}

// DecodeCSV parst einen CSV-Text (Kopfzeile + Datenzeilen) in eine
// geordnete Folge von Records. Zu kurze oder zu lange Zeilen werden
// toleriert: fehlende Felder bleiben leer, überzählige werden ignoriert.
func DecodeCSV(content string) []Record {
	reader := csv.NewReader(strings.NewReader(content))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil || len(rows) < 2 {
		return nil
	}

	header := make([]string, len(rows[0]))
	for i, col := range rows[0] {
		header[i] = canonicalColumn(col)
	}

	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := Record{}
		for i, col := range header {
			if i < len(row) {
				record[col] = row[i]
			}
		}
		records = append(records, record)
	}
	return records
}
