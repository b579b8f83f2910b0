package analysis

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strings"
)

// ValidationError beschreibt ein strukturelles Problem mit dem Archiv oder den CSV-Dateien,
// die Meldung ist für die direkte Anzeige gedacht
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// CSVBundle enthält die bis zu drei extrahierten CSV-Inhalte eines Archivs.
// Ein leerer Slot bedeutet "keine Daten", nicht "Fehler".
type CSVBundle struct {
	Scenarios string
	Users     string
	Company   string
}

const (
	minCSVEntries = 2
	maxCSVEntries = 4
)

// ExtractArchive sucht in einem ZIP-Archiv die Szenario-, Benutzer- und
// Unternehmens-CSV anhand von Namensbestandteilen. Es müssen 2–4 CSV-Dateien
// enthalten sein und mindestens ein Slot muss belegt werden.
func ExtractArchive(data []byte) (*CSVBundle, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &ValidationError{Reason: "ZIP-Datei konnte nicht gelesen werden: " + err.Error()}
	}

	bundle := &CSVBundle{}
	csvCount := 0

	for _, entry := range zr.File {
		if entry.FileInfo().IsDir() {
			continue
		}

		name := strings.ToLower(entry.Name)
		if !strings.HasSuffix(name, ".csv") {
			continue
		}
		csvCount++

		// erster Treffer pro Slot gewinnt, spätere werden ignoriert
		var slot *string
		switch {
		case strings.Contains(name, "scenario") || strings.Contains(name, "phishing"):
			slot = &bundle.Scenarios
		case strings.Contains(name, "user") || strings.Contains(name, "employee"):
			slot = &bundle.Users
		case strings.Contains(name, "company") || strings.Contains(name, "enterprise"):
			slot = &bundle.Company
		}
		if slot == nil || *slot != "" {
			continue
		}

		content, err := readEntry(entry)
		if err != nil {
			return nil, &ValidationError{Reason: fmt.Sprintf("CSV-Datei %q konnte nicht gelesen werden: %v", entry.Name, err)}
		}
		*slot = content
	}

	if csvCount < minCSVEntries || csvCount > maxCSVEntries {
		return nil, &ValidationError{Reason: fmt.Sprintf(
			"ZIP-Datei muss zwischen %d und %d CSV-Dateien enthalten (gefunden: %d)",
			minCSVEntries, maxCSVEntries, csvCount)}
	}
	if bundle.Scenarios == "" && bundle.Users == "" && bundle.Company == "" {
		return nil, &ValidationError{Reason: "ZIP-Datei enthält keine erkennbaren CSV-Dateien (Szenarien, Benutzer, Unternehmen)"}
	}

	return bundle, nil
}

func readEntry(entry *zip.File) (string, error) {
	rc, err := entry.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
