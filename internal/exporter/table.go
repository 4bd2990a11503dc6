package exporter

import (
	"fmt"

	"tabprep/internal/config"
	"tabprep/pkg/tabular"
)

// TableExporter writes prepared tables to CSV reports
type TableExporter struct {
	csvWriter *CSVWriter
}

// NewTableExporter creates a new table exporter
func NewTableExporter(paths *config.Paths) *TableExporter {
	return &TableExporter{
		csvWriter: NewCSVWriter(paths),
	}
}

// streamThreshold is the row count above which exports switch to the
// streaming writer instead of materializing every record.
const streamThreshold = 10000

// Export writes the table to outputPath as CSV. Column order follows
// the table, missing cells become empty fields.
func (e *TableExporter) Export(t *tabular.Table, outputPath string) error {
	if t.NumRows() > streamThreshold {
		return e.exportStreaming(t, outputPath)
	}

	records := make([][]string, 0, t.NumRows())
	for row := 0; row < t.NumRows(); row++ {
		records = append(records, tableRow(t, row))
	}

	if err := e.csvWriter.WriteSimpleCSV(outputPath, t.Names(), records); err != nil {
		return fmt.Errorf("failed to write table export: %w", err)
	}
	return nil
}

// exportStreaming writes the table row by row
func (e *TableExporter) exportStreaming(t *tabular.Table, outputPath string) error {
	stream, err := e.csvWriter.CreateStreamWriter(outputPath, t.Names())
	if err != nil {
		return fmt.Errorf("failed to create stream writer: %w", err)
	}

	for row := 0; row < t.NumRows(); row++ {
		if err := stream.WriteRecord(tableRow(t, row)); err != nil {
			stream.Close()
			return fmt.Errorf("failed to write row %d: %w", row, err)
		}
	}

	if err := stream.Close(); err != nil {
		return fmt.Errorf("failed to close stream: %w", err)
	}
	return nil
}

// tableRow renders one table row as CSV fields
func tableRow(t *tabular.Table, row int) []string {
	record := make([]string, t.NumCols())
	for i := 0; i < t.NumCols(); i++ {
		record[i] = cellString(t.At(i), row)
	}
	return record
}

// cellString renders a single cell, empty for missing values
func cellString(c *tabular.Column, row int) string {
	if c.IsMissing(row) {
		return ""
	}
	if c.Kind == tabular.KindNumeric {
		return formatFloat(c.Floats[row])
	}
	return c.Text[row]
}
