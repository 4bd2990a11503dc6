package exporter

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"tabprep/internal/config"
	"tabprep/pkg/tabular"
)

// SummaryExporter writes column statistics as paired CSV and JSON
// reports
type SummaryExporter struct {
	paths     *config.Paths
	csvWriter *CSVWriter
}

// NewSummaryExporter creates a new summary exporter
func NewSummaryExporter(paths *config.Paths) *SummaryExporter {
	return &SummaryExporter{
		paths:     paths,
		csvWriter: NewCSVWriter(paths),
	}
}

// ExportCSV writes one row per column: metadata for every column and
// statistics where the column has them. Undefined statistics are empty
// fields.
func (e *SummaryExporter) ExportCSV(summary tabular.Summary, outputPath string) error {
	headers := []string{
		"Column", "Kind", "NonMissing",
		"Count", "Mean", "Std", "Min", "P25", "Median", "P75", "Max",
	}

	records := make([][]string, 0, len(summary.Columns))
	for _, info := range summary.Columns {
		record := []string{
			info.Column,
			info.Kind.String(),
			formatInt(info.NonMissing),
		}

		if stats, ok := summary.StatsFor(info.Column); ok {
			record = append(record,
				formatInt(stats.Count),
				formatFloat(stats.Mean),
				formatFloat(stats.Std),
				formatFloat(stats.Min),
				formatFloat(stats.P25),
				formatFloat(stats.Median),
				formatFloat(stats.P75),
				formatFloat(stats.Max),
			)
		} else {
			record = append(record, "", "", "", "", "", "", "", "")
		}

		records = append(records, record)
	}

	if err := e.csvWriter.WriteSimpleCSV(outputPath, headers, records); err != nil {
		return fmt.Errorf("failed to write summary CSV: %w", err)
	}
	return nil
}

// summaryDocument mirrors tabular.Summary with nullable statistics so
// NaN renders as null instead of breaking JSON encoding.
type summaryDocument struct {
	Statistics []statsRecord        `json:"statistics"`
	Columns    []tabular.ColumnInfo `json:"columns"`
}

type statsRecord struct {
	Column string   `json:"column"`
	Count  int      `json:"count"`
	Mean   *float64 `json:"mean"`
	Std    *float64 `json:"std"`
	Min    *float64 `json:"min"`
	P25    *float64 `json:"p25"`
	Median *float64 `json:"median"`
	P75    *float64 `json:"p75"`
	Max    *float64 `json:"max"`
}

// nullable returns a pointer to f, nil when f is NaN
func nullable(f float64) *float64 {
	if math.IsNaN(f) {
		return nil
	}
	return &f
}

// ExportJSON writes the summary as an indented JSON document
func (e *SummaryExporter) ExportJSON(summary tabular.Summary, outputPath string) error {
	doc := summaryDocument{
		Statistics: make([]statsRecord, 0, len(summary.Statistics)),
		Columns:    summary.Columns,
	}
	for _, stats := range summary.Statistics {
		doc.Statistics = append(doc.Statistics, statsRecord{
			Column: stats.Column,
			Count:  stats.Count,
			Mean:   nullable(stats.Mean),
			Std:    nullable(stats.Std),
			Min:    nullable(stats.Min),
			P25:    nullable(stats.P25),
			Median: nullable(stats.Median),
			P75:    nullable(stats.P75),
			Max:    nullable(stats.Max),
		})
	}

	fullPath := outputPath
	if !filepath.IsAbs(fullPath) {
		fullPath = e.paths.GetReportPath(outputPath)
	}
	return writeJSONFile(fullPath, doc)
}

// writeJSONFile marshals v with indentation and writes it to path,
// creating the parent directory when needed
func writeJSONFile(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}
	return nil
}

// WriteJSONReport writes an arbitrary document to an absolute or
// report-relative path. Used for the matrix run report.
func (e *SummaryExporter) WriteJSONReport(v any, outputPath string) error {
	fullPath := outputPath
	if !filepath.IsAbs(fullPath) {
		fullPath = e.paths.GetReportPath(outputPath)
	}
	return writeJSONFile(fullPath, v)
}
