package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Headers: []string{"Name", "Price"},
		Rows: []map[string]string{
			{"Name": "GST Filing", "Price": "₹2,500"},
			{"Name": "Company Registration"},
		},
	}
}

func TestCSVRenderSpreadsheetFriendly(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)

	body := string(out)
	assert.True(t, strings.HasPrefix(body, "\uFEFF"), "output must start with a BOM")
	assert.Contains(t, body, "Name,Price\r\n")
	assert.Contains(t, body, `GST Filing,"₹2,500"`)

	// Missing cells render empty, not shifted.
	assert.Contains(t, body, "Company Registration,\r\n")
}

func TestCSVRenderRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	require.Error(t, err)
}

func TestPDFRenderProducesDocument(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDataset(), "Service Catalog")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "%PDF"))
}

func TestPDFRenderRequiresHeaders(t *testing.T) {
	_, err := NewPDFExporter().Render(Dataset{}, "Service Catalog")
	require.Error(t, err)
}
