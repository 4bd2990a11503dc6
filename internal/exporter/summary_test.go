package exporter

import (
	"encoding/json"
	"math"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabprep/internal/config"
	"tabprep/pkg/tabular"
)

func sampleSummary() tabular.Summary {
	return tabular.Summary{
		Statistics: []tabular.ColumnStats{
			{
				Column: "Salary",
				Count:  3,
				Mean:   1500,
				Std:    250.5,
				Min:    1200,
				P25:    1350,
				Median: 1500,
				P75:    1650,
				Max:    1800,
			},
			{
				Column: "Lonely",
				Count:  1,
				Mean:   7,
				Std:    math.NaN(),
				Min:    7,
				P25:    7,
				Median: 7,
				P75:    7,
				Max:    7,
			},
		},
		Columns: []tabular.ColumnInfo{
			{Column: "Name", Kind: tabular.KindText, NonMissing: 3},
			{Column: "Salary", Kind: tabular.KindNumeric, NonMissing: 3},
			{Column: "Lonely", Kind: tabular.KindNumeric, NonMissing: 1},
		},
	}
}

func TestSummaryExporter_ExportCSV(t *testing.T) {
	paths := config.NewPaths(t.TempDir())
	e := NewSummaryExporter(paths)

	require.NoError(t, e.ExportCSV(sampleSummary(), "summary.csv"))

	records := readCSVFile(t, paths.GetReportPath("summary.csv"))
	require.Len(t, records, 4)

	header := records[0]
	assert.Equal(t, "Column", header[0])
	assert.Equal(t, "Median", header[8])

	// Text column carries metadata only
	nameRow := records[1]
	assert.Equal(t, []string{"Name", "text", "3", "", "", "", "", "", "", "", ""}, nameRow)

	salaryRow := records[2]
	assert.Equal(t, "Salary", salaryRow[0])
	assert.Equal(t, "numeric", salaryRow[1])
	assert.Equal(t, "3", salaryRow[3])
	assert.Equal(t, "1500", salaryRow[4])
	assert.Equal(t, "250.5", salaryRow[5])

	// NaN statistics render as empty fields
	lonelyRow := records[3]
	assert.Equal(t, "Lonely", lonelyRow[0])
	assert.Equal(t, "", lonelyRow[5])
	assert.Equal(t, "7", lonelyRow[8])
}

func TestSummaryExporter_ExportJSON(t *testing.T) {
	paths := config.NewPaths(t.TempDir())
	e := NewSummaryExporter(paths)

	require.NoError(t, e.ExportJSON(sampleSummary(), "summary.json"))

	data, err := os.ReadFile(paths.GetReportPath("summary.json"))
	require.NoError(t, err)

	var doc struct {
		Statistics []map[string]any `json:"statistics"`
		Columns    []map[string]any `json:"columns"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))

	require.Len(t, doc.Statistics, 2)
	require.Len(t, doc.Columns, 3)

	salary := doc.Statistics[0]
	assert.Equal(t, "Salary", salary["column"])
	assert.Equal(t, 1500.0, salary["mean"])

	// NaN must serialize as null, not break encoding
	lonely := doc.Statistics[1]
	assert.Equal(t, "Lonely", lonely["column"])
	assert.Nil(t, lonely["std"])
	assert.Equal(t, 7.0, lonely["median"])
}

func TestSummaryExporter_WriteJSONReport(t *testing.T) {
	paths := config.NewPaths(t.TempDir())
	e := NewSummaryExporter(paths)

	report := map[string]any{
		"entities": 100,
		"seed":     42,
	}
	require.NoError(t, e.WriteJSONReport(report, "run_report.json"))

	data, err := os.ReadFile(paths.GetReportPath("run_report.json"))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 100.0, decoded["entities"])
}
