package e2e

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"tabprep/internal/config"
	"tabprep/internal/dataprep"
	"tabprep/internal/exporter"
	"tabprep/internal/infrastructure"
	"tabprep/internal/operations"
	"tabprep/internal/shared/testutil"
	"tabprep/internal/validation"
)

// PrepareFlowTestSuite drives the preparation pipeline end to end on a
// real directory layout: config file on disk, file logger, runner, and
// the reports a run leaves behind.
type PrepareFlowTestSuite struct {
	suite.Suite
	baseDir string
	cfg     *config.Config
	paths   *config.Paths
	logger  *slog.Logger
	runner  *operations.Runner
}

func (s *PrepareFlowTestSuite) SetupSuite() {
	s.baseDir = s.T().TempDir()

	configYAML := strings.Join([]string{
		"paths:",
		"  executable_dir: " + s.baseDir,
		"pipeline:",
		"  na_values:",
		`    - ""`,
		`    - "NA"`,
		`    - "n/a"`,
		"",
	}, "\n")
	configPath := filepath.Join(s.baseDir, "config.yaml")
	s.Require().NoError(os.WriteFile(configPath, []byte(configYAML), 0644))

	cfg, err := config.LoadFrom(configPath)
	s.Require().NoError(err)
	s.cfg = cfg

	s.paths = cfg.ResolvedPaths()
	s.Require().NoError(s.paths.EnsureDirectories())

	cfg.Logging.Output = "file"
	cfg.Logging.FilePath = s.paths.GetLogPath("e2e.log")
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	s.Require().NoError(err)
	s.logger = logger

	deps := operations.PipelineDeps{
		Validator: validation.NewFileValidator(logger),
		Tables:    exporter.NewTableExporter(s.paths),
		Summaries: exporter.NewSummaryExporter(s.paths),
		Paths:     s.paths,
	}
	fill := dataprep.FillOptions{Strategy: dataprep.StrategyMean}
	s.runner = operations.NewRunner(logger, operations.RunnerConfig{},
		operations.PreparationSteps(deps, fill, nil)...)
}

func (s *PrepareFlowTestSuite) newDataset(source string) *dataprep.Dataset {
	return dataprep.NewDataset(source, s.logger, dataprep.DatasetConfig{
		Threshold: s.cfg.Pipeline.Threshold,
		Delimiter: s.cfg.Pipeline.DelimiterRune(),
		NAValues:  s.cfg.Pipeline.NAValues,
	})
}

// readCSV strips the UTF-8 BOM the table exporter writes and parses the
// remainder.
func (s *PrepareFlowTestSuite) readCSV(path string) [][]string {
	data, err := os.ReadFile(path)
	s.Require().NoError(err)

	content := strings.TrimPrefix(string(data), "\xef\xbb\xbf")
	records, err := csv.NewReader(strings.NewReader(content)).ReadAll()
	s.Require().NoError(err)
	return records
}

func (s *PrepareFlowTestSuite) TestCSVSourceProducesReports() {
	source := testutil.WriteCSV(s.T(), s.paths.InputDir, "sales.csv", testutil.SampleSourceCSV)

	state, err := s.runner.Run(context.Background(), "e2e-csv", s.newDataset(source))
	s.Require().NoError(err)
	s.Equal(operations.OperationStatusCompleted, state.Snapshot().Status)

	records := s.readCSV(s.paths.GetPreparedCSVPath(source))
	s.Require().Len(records, 4)
	s.Equal([]string{"Name", "Price", "Qty", "Score"}, records[0])
	s.Equal([]string{"alpha", "1200.5", "10", "9.5"}, records[1])
	s.Equal([]string{"beta", "-300", "5", "8.5"}, records[2])
	s.Equal([]string{"gamma", "450", "7.5", "7.5"}, records[3])

	data, err := os.ReadFile(s.paths.GetSummaryJSONPath(source))
	s.Require().NoError(err)

	var doc struct {
		Statistics []struct {
			Column string `json:"column"`
			Count  int    `json:"count"`
		} `json:"statistics"`
	}
	s.Require().NoError(json.Unmarshal(data, &doc))
	s.Require().Len(doc.Statistics, 3)
	for _, stat := range doc.Statistics {
		s.Equal(3, stat.Count, "column %s", stat.Column)
	}
}

func (s *PrepareFlowTestSuite) TestWorkbookSourceProducesReports() {
	source := testutil.WriteWorkbook(s.T(), s.paths.InputDir, "book.xlsx", [][]string{
		{"Name", "Qty"},
		{"alpha", "10"},
		{"beta", "NA"},
	})

	state, err := s.runner.Run(context.Background(), "e2e-workbook", s.newDataset(source))
	s.Require().NoError(err)
	s.Equal(operations.OperationStatusCompleted, state.Snapshot().Status)

	records := s.readCSV(s.paths.GetPreparedCSVPath(source))
	s.Require().Len(records, 3)
	s.Equal([]string{"beta", "10"}, records[2], "missing workbook cell is filled with the column mean")
}

func (s *PrepareFlowTestSuite) TestRunIsLoggedToFile() {
	source := testutil.WriteCSV(s.T(), s.paths.InputDir, "probe.csv", "A,B\n1,2\n")

	_, err := s.runner.Run(context.Background(), "e2e-log-probe", s.newDataset(source))
	s.Require().NoError(err)

	data, err := os.ReadFile(s.cfg.Logging.FilePath)
	s.Require().NoError(err)

	log := string(data)
	s.Contains(log, `"operation_id":"e2e-log-probe"`)
	s.Contains(log, `"msg":"operation completed"`)
	s.Contains(log, `"trace_id"`)
}

func TestPrepareFlowSuite(t *testing.T) {
	suite.Run(t, new(PrepareFlowTestSuite))
}
