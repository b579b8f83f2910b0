package pdf

import (
	"testing"

	"awareness-tool/internal/analysis"

	"github.com/stretchr/testify/assert"
)

func TestMaskEmail(t *testing.T) {
	tests := []struct {
		email    string
		expected string
	}{
		{"max.mustermann@firma.de", "ma***@firma.de"},
		{"ab@firma.de", "ab***@firma.de"},
		{"a@firma.de", "a***@firma.de"},
		{"kein-at-zeichen", "***"},
		{"", "***"},
		{"@firma.de", "***"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, maskEmail(tt.email))
	}
}

func TestRiskColor(t *testing.T) {
	assert.Equal(t, red, riskColor(analysis.RiskHigh))
	assert.Equal(t, accentColor, riskColor(analysis.RiskMedium))
	assert.Equal(t, green, riskColor(analysis.RiskLow))
	// unbekannte Werte fallen auf die unkritische Farbe zurück
	assert.Equal(t, green, riskColor(""))
}
