package dataprep

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"tabprep/internal/errors"
	"tabprep/pkg/tabular"
)

// DefaultNAValues are the cell spellings recognized as the missing
// marker when a source is loaded.
var DefaultNAValues = []string{"", "NA", "N/A", "NaN", "nan", "null", "NULL", "None", "#N/A"}

// LoaderConfig holds configuration options for the Loader.
type LoaderConfig struct {
	Delimiter rune     // Field delimiter for text sources, ',' when unset
	NAValues  []string // Cell values treated as missing, DefaultNAValues when nil
}

// DefaultLoaderConfig returns the configuration used for typical
// comma-separated sources.
func DefaultLoaderConfig() LoaderConfig {
	return LoaderConfig{
		Delimiter: ',',
		NAValues:  DefaultNAValues,
	}
}

// Loader reads a delimited text file or an Excel workbook into a
// tabular.Table. The first row supplies column names; each column's
// storage kind is inferred from its cells, and a column whose
// non-missing cells all parse as numbers is stored numerically.
type Loader struct {
	logger    *slog.Logger
	delimiter rune
	naValues  map[string]struct{}
}

// NewLoader creates a new source loader with the given configuration.
func NewLoader(logger *slog.Logger, config LoaderConfig) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	if config.Delimiter == 0 {
		config.Delimiter = ','
	}
	na := config.NAValues
	if na == nil {
		na = DefaultNAValues
	}
	naSet := make(map[string]struct{}, len(na))
	for _, v := range na {
		naSet[v] = struct{}{}
	}

	return &Loader{
		logger:    logger,
		delimiter: config.Delimiter,
		naValues:  naSet,
	}
}

// Load reads the source at path into a table. Excel workbooks are
// detected by extension; every other file is read as delimited text.
// Failures are reported as a load error with no partial result.
func (l *Loader) Load(ctx context.Context, path string) (*tabular.Table, error) {
	l.logger.InfoContext(ctx, "loading tabular source",
		slog.String("path", path))

	var (
		records [][]string
		err     error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		records, err = l.readWorkbook(ctx, path)
	default:
		records, err = l.readDelimited(path)
	}
	if err != nil {
		return nil, err
	}

	table, err := l.buildTable(records)
	if err != nil {
		return nil, err
	}

	l.logger.InfoContext(ctx, "loaded tabular source",
		slog.String("path", path),
		slog.Int("rows", table.NumRows()),
		slog.Int("columns", table.NumCols()))

	return table, nil
}

// readDelimited reads a delimited text file into records, tolerating a
// UTF-8 byte order mark at the start of the file.
func (l *Loader) readDelimited(path string) ([][]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewLoadError("failed to read source file", err)
	}
	if len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		content = content[3:]
	}

	reader := csv.NewReader(bytes.NewReader(content))
	reader.Comma = l.delimiter

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.NewLoadError("malformed delimited source", err)
	}
	return records, nil
}

// readWorkbook reads the first sheet of an Excel workbook. Rows shorter
// than the header are padded with missing cells, since trailing empty
// cells are not materialized in the sheet data.
func (l *Loader) readWorkbook(ctx context.Context, path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.NewLoadError("failed to open workbook", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			l.logger.WarnContext(ctx, "failed to close workbook",
				slog.String("path", path),
				slog.String("error", cerr.Error()))
		}
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.NewLoadError("workbook has no sheets", nil)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.NewLoadError("failed to read workbook sheet", err)
	}
	if len(rows) == 0 {
		return rows, nil
	}

	width := len(rows[0])
	for i, row := range rows {
		if len(row) > width {
			return nil, errors.NewLoadError("malformed workbook sheet", fmt.Errorf("row %d has %d cells, header has %d", i+1, len(row), width))
		}
		for len(rows[i]) < width {
			rows[i] = append(rows[i], "")
		}
	}
	return rows, nil
}

// buildTable turns raw records into a table. The first record is the
// header; storage kinds are inferred per column.
func (l *Loader) buildTable(records [][]string) (*tabular.Table, error) {
	if len(records) == 0 {
		return nil, errors.NewLoadError("source has no header row", nil)
	}

	header := records[0]
	data := records[1:]

	cols := make([]tabular.Column, len(header))
	for i, name := range header {
		cells := make([]string, len(data))
		for j, row := range data {
			cells[j] = row[i]
		}
		cols[i] = l.inferColumn(name, cells)
	}

	table, err := tabular.New(cols)
	if err != nil {
		return nil, errors.NewLoadError("malformed header", err)
	}
	return table, nil
}

// inferColumn builds a column from raw cells. Cells matching the
// configured missing spellings become the missing marker. A column
// whose remaining cells all parse as numbers is stored as numeric;
// a column with no values at all stays text.
func (l *Loader) inferColumn(name string, cells []string) tabular.Column {
	missing := make([]bool, len(cells))
	nonMissing := 0
	for i, cell := range cells {
		if _, na := l.naValues[strings.TrimSpace(cell)]; na {
			missing[i] = true
			continue
		}
		nonMissing++
	}

	if nonMissing > 0 {
		floats := make([]float64, len(cells))
		numeric := true
		for i, cell := range cells {
			if missing[i] {
				continue
			}
			f, ok := parseNumber(cell)
			if !ok {
				numeric = false
				break
			}
			floats[i] = f
		}
		if numeric {
			return tabular.Column{Name: name, Kind: tabular.KindNumeric, Floats: floats, Missing: missing}
		}
	}

	text := make([]string, len(cells))
	for i, cell := range cells {
		if !missing[i] {
			text[i] = cell
		}
	}
	return tabular.Column{Name: name, Kind: tabular.KindText, Text: text, Missing: missing}
}
