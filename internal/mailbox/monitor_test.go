package mailbox

import (
	"strings"
	"testing"

	"github.com/jhillyerd/enmime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSenderAddress(t *testing.T) {
	tests := []struct {
		from     string
		expected string
	}{
		{`"Hornetsecurity Reporting" <noreply@hornetsecurity.com>`, "noreply@hornetsecurity.com"},
		{"report@muster.de", "report@muster.de"},
		{"  kaputter header  ", "kaputter header"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, senderAddress(tt.from))
	}
}

func TestPlainBody_PrefersText(t *testing.T) {
	raw := strings.Join([]string{
		"From: a@b.de",
		"Subject: Test",
		"Content-Type: text/plain; charset=utf-8",
		"",
		"Report für Muster GmbH",
	}, "\r\n")

	env, err := enmime.ReadEnvelope(strings.NewReader(raw))
	require.NoError(t, err)
	assert.Contains(t, plainBody(env), "Muster GmbH")
}

func TestPlainBody_FallsBackToHTML(t *testing.T) {
	raw := strings.Join([]string{
		"From: a@b.de",
		"Subject: Test",
		"Content-Type: text/html; charset=utf-8",
		"",
		"<html><body><p>Report für <b>Beispiel AG</b></p></body></html>",
	}, "\r\n")

	env, err := enmime.ReadEnvelope(strings.NewReader(raw))
	require.NoError(t, err)
	assert.Contains(t, plainBody(env), "Beispiel AG")
}
