package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCSV_Basic(t *testing.T) {
	records := DecodeCSV("scenario_id,attacks_sent\nS1,10\nS2,20\n")

	require.Len(t, records, 2)
	assert.Equal(t, "S1", records[0]["scenario_id"])
	assert.Equal(t, "20", records[1]["attacks_sent"])
}

func TestDecodeCSV_PreservesOrder(t *testing.T) {
	records := DecodeCSV("id\nc\na\nb\n")

	require.Len(t, records, 3)
	assert.Equal(t, "c", records[0]["id"])
	assert.Equal(t, "a", records[1]["id"])
	assert.Equal(t, "b", records[2]["id"])
}

func TestDecodeCSV_LenientRows(t *testing.T) {
	// zu kurze und zu lange Zeilen dürfen die Verarbeitung nicht abbrechen
	records := DecodeCSV("a,b,c\n1,2\n1,2,3,4\n")

	require.Len(t, records, 2)
	assert.Equal(t, "2", records[0]["b"])
	_, hasC := records[0]["c"]
	assert.False(t, hasC)
	assert.Equal(t, "3", records[1]["c"])
}

func TestDecodeCSV_QuotedFields(t *testing.T) {
	records := DecodeCSV("scenario_description,scenario_psychological_factors\n\"CEO, dringend\",\"Dringlichkeit, Autorität\"\n")

	require.Len(t, records, 1)
	assert.Equal(t, "CEO, dringend", records[0]["scenario_description"])
}

func TestDecodeCSV_Empty(t *testing.T) {
	assert.Nil(t, DecodeCSV(""))
	assert.Nil(t, DecodeCSV("nur_kopfzeile\n"))
}

func TestDecodeCSV_ColumnAliases(t *testing.T) {
	// historische Spaltennamen werden auf das kanonische Schema abgebildet
	records := DecodeCSV("Clicks,reported,macros,scenario_name\n5,2,1,Testfall\n")

	require.Len(t, records, 1)
	assert.Equal(t, "5", records[0]["attacks_clicked"])
	assert.Equal(t, "2", records[0]["attacks_reported"])
	assert.Equal(t, "1", records[0]["attacks_macros_executed"])
	assert.Equal(t, "Testfall", records[0]["scenario_description"])
}
