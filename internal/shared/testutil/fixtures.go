package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// SampleSourceCSV is a small source covering the cell shapes the
// preparation pipeline deals with: currency formatting, parenthesized
// negatives, missing markers and blank cells.
const SampleSourceCSV = "Name,Price,Qty,Score\n" +
	"alpha,\"$1,200.50\",10,9.5\n" +
	"beta,(300),5,\n" +
	"gamma,$450,NA,7.5\n"

// WriteCSV writes content to name under dir, creating parent
// directories as needed, and returns the full path.
func WriteCSV(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("create fixture directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
	return path
}

// WriteWorkbook writes rows onto the first sheet of a new workbook at
// name under dir and returns the full path. Rows may have differing
// lengths; short rows leave their trailing cells unset.
func WriteWorkbook(t *testing.T, dir, name string, rows [][]string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("create fixture directory: %v", err)
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			t.Logf("close fixture workbook: %v", err)
		}
	}()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("compute cell coordinates: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("write workbook row %d: %v", i+1, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save fixture workbook %s: %v", name, err)
	}
	return path
}
