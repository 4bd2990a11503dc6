package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Paths contains all the application paths
// This is the single source of truth for ALL file paths in the application
type Paths struct {
	ExecutableDir string
	DataDir       string
	InputDir      string
	ReportsDir    string
	ArtifactsDir  string
	LogsDir       string

	// Config files
	ConfigFile string

	// Well-known artifact files
	MatrixDataset    string
	MatrixNormalized string
	MatrixReport     string
}

// NewPaths builds the directory layout anchored at baseDir
func NewPaths(baseDir string) *Paths {
	dataDir := filepath.Join(baseDir, DataDirName)
	artifactsDir := filepath.Join(dataDir, ArtifactsDirName)

	return &Paths{
		ExecutableDir: baseDir,
		DataDir:       dataDir,
		InputDir:      filepath.Join(dataDir, InputDirName),
		ReportsDir:    filepath.Join(dataDir, ReportsDirName),
		ArtifactsDir:  artifactsDir,
		LogsDir:       filepath.Join(baseDir, LogsDirName),

		ConfigFile: filepath.Join(baseDir, ConfigFileName),

		MatrixDataset:    filepath.Join(artifactsDir, MatrixDatasetFile),
		MatrixNormalized: filepath.Join(artifactsDir, MatrixNormalizedFile),
		MatrixReport:     filepath.Join(artifactsDir, MatrixReportFile),
	}
}

// GetPaths returns the application paths relative to the executable location
// All paths are ALWAYS relative to the executable directory, never the current working directory
func GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %v", err)
	}

	// Resolve symlinks to get the actual executable location
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %v", err)
	}

	exeDir := filepath.Dir(exe)

	if logger := slog.Default(); logger != nil {
		logger.Debug("Resolved executable directory",
			slog.String("exe_path", exe),
			slog.String("exe_dir", exeDir))
	}

	// Directory structure:
	// <exe dir>/
	//   ├── config.yaml
	//   ├── data/
	//   │   ├── input/         (Source CSV and Excel files)
	//   │   ├── reports/       (Prepared tables and summaries)
	//   │   └── artifacts/     (Binary matrix artifacts)
	//   └── logs/              (Application logs)

	return NewPaths(exeDir), nil
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.DataDir,
		p.InputDir,
		p.ReportsDir,
		p.ArtifactsDir,
		p.LogsDir,
	}

	logger := slog.Default()

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}

		if logger != nil {
			logger.Debug("Ensured directory exists",
				slog.String("directory", dir))
		}
	}

	return nil
}

// GetRelativePath returns a path relative to the executable directory
func (p *Paths) GetRelativePath(subpath string) string {
	return filepath.Join(p.ExecutableDir, subpath)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// GetInputPath returns the path for a source file
func (p *Paths) GetInputPath(filename string) string {
	return filepath.Join(p.InputDir, filename)
}

// GetReportPath returns the path for a report file
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// GetArtifactPath returns the path for a binary artifact
func (p *Paths) GetArtifactPath(filename string) string {
	return filepath.Join(p.ArtifactsDir, filename)
}

// GetLogPath returns the path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// GetPreparedCSVPath returns the report path for a cleaned table
// derived from the named source file (e.g. sales.csv -> sales_prepared.csv)
func (p *Paths) GetPreparedCSVPath(source string) string {
	return filepath.Join(p.ReportsDir, baseName(source)+PreparedSuffix+CSVExtension)
}

// GetSummaryCSVPath returns the report path for column statistics in CSV form
func (p *Paths) GetSummaryCSVPath(source string) string {
	return filepath.Join(p.ReportsDir, baseName(source)+SummarySuffix+CSVExtension)
}

// GetSummaryJSONPath returns the report path for column statistics in JSON form
func (p *Paths) GetSummaryJSONPath(source string) string {
	return filepath.Join(p.ReportsDir, baseName(source)+SummarySuffix+".json")
}

// baseName strips the directory and extension from a source path
func baseName(source string) string {
	name := filepath.Base(source)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// LogPathResolution logs detailed path resolution information for debugging
func (p *Paths) LogPathResolution() {
	logger := slog.Default()
	if logger == nil {
		return
	}

	logger.Info("Path resolution summary",
		slog.Group("directories",
			slog.String("executable", p.ExecutableDir),
			slog.String("data", p.DataDir),
			slog.String("input", p.InputDir),
			slog.String("reports", p.ReportsDir),
			slog.String("artifacts", p.ArtifactsDir),
			slog.String("logs", p.LogsDir),
		),
		slog.Group("artifact_files",
			slog.String("matrix_dataset", p.MatrixDataset),
			slog.String("matrix_normalized", p.MatrixNormalized),
			slog.String("matrix_report", p.MatrixReport),
		))
}

// ValidateRequiredDirs checks that the directories a run depends on exist
func (p *Paths) ValidateRequiredDirs() error {
	required := map[string]string{
		"data":  p.DataDir,
		"input": p.InputDir,
	}

	var missing []string
	for name, path := range required {
		if !FileExists(path) {
			missing = append(missing, fmt.Sprintf("%s (%s)", name, path))
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("required directories missing: %s", strings.Join(missing, ", "))
	}

	return nil
}
