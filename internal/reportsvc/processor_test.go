package reportsvc

import (
	"strings"
	"testing"

	"awareness-tool/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestPDFFilename(t *testing.T) {
	name := pdfFilename(&models.Customer{Name: "Muster GmbH & Co. KG"})
	assert.True(t, strings.HasPrefix(name, "Report_Muster_GmbH_Co_KG_"))
	assert.True(t, strings.HasSuffix(name, ".pdf"))
	// keine Pfad- oder Sonderzeichen aus dem Kundennamen
	assert.NotContains(t, name, "&")
	assert.NotContains(t, name, "/")
	assert.NotContains(t, name, " ")
}

func TestPDFFilename_UnassignedCustomer(t *testing.T) {
	name := pdfFilename(nil)
	assert.True(t, strings.HasPrefix(name, "Report_Unzugeordnet_"))
}

func TestJoinFactors(t *testing.T) {
	assert.Equal(t, "", joinFactors(nil))
	assert.Equal(t, "Dringlichkeit", joinFactors([]string{"Dringlichkeit"}))
	assert.Equal(t, "Dringlichkeit, Autorität", joinFactors([]string{"Dringlichkeit", "Autorität"}))
}
