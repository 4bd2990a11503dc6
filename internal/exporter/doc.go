// Package exporter writes tabprep run outputs to disk.
//
// This package contains four main components:
//
// CSVWriter: Core CSV writing functionality with support for headers,
// streaming, and UTF-8 BOM for Excel compatibility.
//
// TableExporter: Writes prepared tables as CSV reports, switching to
// the streaming writer for large row counts.
//
// SummaryExporter: Writes column statistics as paired CSV and JSON
// reports. Undefined statistics render as empty CSV fields and JSON
// nulls.
//
// MatrixExporter: Reads and writes binary matrix artifacts with a
// fixed magic/version/shape header and a row-major float64 payload.
//
// Example usage:
//
//	tables := exporter.NewTableExporter(paths)
//	err := tables.Export(prepared, paths.GetPreparedCSVPath("sales.csv"))
//
//	summaries := exporter.NewSummaryExporter(paths)
//	err = summaries.ExportCSV(summary, paths.GetSummaryCSVPath("sales.csv"))
//	err = summaries.ExportJSON(summary, paths.GetSummaryJSONPath("sales.csv"))
package exporter
