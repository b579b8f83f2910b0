package resolver

import (
	"testing"

	"awareness-tool/internal/analysis"
	"awareness-tool/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCustomers() []models.Customer {
	return []models.Customer{
		{Name: "Muster GmbH", Email: "report@muster.de", Domain: "muster.de"},
		{Name: "Beispiel AG", Email: "it@beispiel-ag.de", Domain: "beispiel-ag.de"},
		{Name: "Dritte KG"},
	}
}

func TestResolve_BySenderAddress(t *testing.T) {
	msg := Message{Sender: "REPORT@MUSTER.DE", Subject: "Export"}

	c := Resolve(msg, testCustomers())
	require.NotNil(t, c)
	assert.Equal(t, "Muster GmbH", c.Name)
}

func TestResolve_ByNameInSubject(t *testing.T) {
	msg := Message{
		Sender:  "noreply@hornetsecurity.com",
		Subject: "Awareness Report für Beispiel AG",
	}

	c := Resolve(msg, testCustomers())
	require.NotNil(t, c)
	assert.Equal(t, "Beispiel AG", c.Name)
}

func TestResolve_ByNameInBody(t *testing.T) {
	msg := Message{
		Sender:  "noreply@hornetsecurity.com",
		Subject: "Monatlicher Export",
		Body:    "Anbei der Report für die muster gmbh.",
	}

	c := Resolve(msg, testCustomers())
	require.NotNil(t, c)
	assert.Equal(t, "Muster GmbH", c.Name)
}

func TestResolve_ByHarvestedDomain(t *testing.T) {
	users := []analysis.Record{
		{"email": "max.mustermann@mail.beispiel-ag.de"},
	}
	msg := Message{Sender: "noreply@hornetsecurity.com", Subject: "Export"}

	c := Resolve(msg, testCustomers(), users)
	require.NotNil(t, c)
	// Subdomain der Kunden-Domain zählt als Treffer
	assert.Equal(t, "Beispiel AG", c.Name)
}

func TestResolve_NoMatchReturnsNil(t *testing.T) {
	users := []analysis.Record{
		{"email": "jemand@unbekannt.example"},
	}
	msg := Message{
		Sender:  "noreply@hornetsecurity.com",
		Subject: "Export ohne Kundenbezug",
		Body:    "nichts zu erkennen",
	}

	// es wird nie ein Kunde geraten
	assert.Nil(t, Resolve(msg, testCustomers(), users))
	assert.Nil(t, Resolve(msg, nil))
}

func TestResolve_SenderBeatsName(t *testing.T) {
	msg := Message{
		Sender:  "report@muster.de",
		Subject: "Report für Beispiel AG",
	}

	c := Resolve(msg, testCustomers())
	require.NotNil(t, c)
	assert.Equal(t, "Muster GmbH", c.Name)
}

func TestHarvestDomains(t *testing.T) {
	scenarios := []analysis.Record{
		{"scenario_description": "Mail an chef@firma.de und buchhaltung@firma.de"},
	}
	users := []analysis.Record{
		{"email": "Anna.Schmidt@Sub.Firma.DE"},
		{"id": "u-123"},
	}

	domains := HarvestDomains(scenarios, users)
	assert.Contains(t, domains, "firma.de")
	assert.Contains(t, domains, "sub.firma.de")
	assert.Len(t, domains, 2)
}

func TestByDomains_NoSuffixConfusion(t *testing.T) {
	customers := []models.Customer{{Name: "Muster GmbH", Domain: "muster.de"}}

	// "notmuster.de" ist keine Subdomain von "muster.de"
	assert.Nil(t, ByDomains([]string{"notmuster.de"}, customers))
	assert.NotNil(t, ByDomains([]string{"mail.muster.de"}, customers))
	assert.NotNil(t, ByDomains([]string{"muster.de"}, customers))
}
