package exporter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabprep/internal/config"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func newTestWriter(t *testing.T) (*CSVWriter, *config.Paths) {
	t.Helper()
	paths := config.NewPaths(t.TempDir())
	return NewCSVWriter(paths), paths
}

// readCSVFile parses a CSV report, stripping the BOM if present
func readCSVFile(t *testing.T, path string) [][]string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data = bytes.TrimPrefix(data, utf8BOM)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	return records
}

func TestCSVWriter_WriteSimpleCSV(t *testing.T) {
	writer, paths := newTestWriter(t)

	err := writer.WriteSimpleCSV("out.csv", []string{"Name", "Value"}, [][]string{
		{"alpha", "1"},
		{"beta", "2"},
	})
	require.NoError(t, err)

	fullPath := paths.GetReportPath("out.csv")
	data, err := os.ReadFile(fullPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, utf8BOM), "simple CSV should carry a BOM")

	records := readCSVFile(t, fullPath)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Name", "Value"}, records[0])
	assert.Equal(t, []string{"beta", "2"}, records[2])
}

func TestCSVWriter_Append(t *testing.T) {
	writer, paths := newTestWriter(t)

	require.NoError(t, writer.WriteSimpleCSV("out.csv", []string{"A"}, [][]string{{"1"}}))
	require.NoError(t, writer.AppendToCSV("out.csv", [][]string{{"2"}, {"3"}}))

	records := readCSVFile(t, paths.GetReportPath("out.csv"))
	require.Len(t, records, 4)
	assert.Equal(t, []string{"A"}, records[0])
	assert.Equal(t, []string{"3"}, records[3])
}

func TestCSVWriter_Overwrite(t *testing.T) {
	writer, paths := newTestWriter(t)

	require.NoError(t, writer.WriteSimpleCSV("out.csv", []string{"A"}, [][]string{{"1"}, {"2"}}))
	require.NoError(t, writer.WriteSimpleCSV("out.csv", []string{"A"}, [][]string{{"9"}}))

	records := readCSVFile(t, paths.GetReportPath("out.csv"))
	require.Len(t, records, 2)
	assert.Equal(t, []string{"9"}, records[1])
}

func TestCSVWriter_PathResolution(t *testing.T) {
	writer, paths := newTestWriter(t)

	tests := []struct {
		name     string
		filePath string
		want     string
	}{
		{
			name:     "relative goes to reports",
			filePath: "report.csv",
			want:     paths.GetReportPath("report.csv"),
		},
		{
			name:     "artifacts prefix goes to artifacts",
			filePath: "artifacts/scores.csv",
			want:     paths.GetArtifactPath("scores.csv"),
		},
		{
			name:     "absolute stays put",
			filePath: filepath.Join(paths.ExecutableDir, "direct.csv"),
			want:     filepath.Join(paths.ExecutableDir, "direct.csv"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, writer.WriteSimpleCSV(tt.filePath, []string{"X"}, [][]string{{"v"}}))
			assert.FileExists(t, tt.want)
		})
	}
}

func TestCSVWriter_FieldsWithCommasAndQuotes(t *testing.T) {
	writer, paths := newTestWriter(t)

	err := writer.WriteSimpleCSV("quoted.csv", []string{"Name"}, [][]string{
		{`value, with comma`},
		{`she said "hi"`},
	})
	require.NoError(t, err)

	records := readCSVFile(t, paths.GetReportPath("quoted.csv"))
	require.Len(t, records, 3)
	assert.Equal(t, "value, with comma", records[1][0])
	assert.Equal(t, `she said "hi"`, records[2][0])
}

func TestStreamWriter(t *testing.T) {
	writer, paths := newTestWriter(t)

	stream, err := writer.CreateStreamWriter("stream.csv", []string{"Row"})
	require.NoError(t, err)

	for _, rec := range [][]string{{"1"}, {"2"}, {"3"}} {
		require.NoError(t, stream.WriteRecord(rec))
	}
	require.NoError(t, stream.Close())

	records := readCSVFile(t, paths.GetReportPath("stream.csv"))
	require.Len(t, records, 4)
	assert.Equal(t, []string{"Row"}, records[0])
	assert.Equal(t, []string{"3"}, records[3])
}
