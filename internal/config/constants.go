package config

// Application constants
const (
	// AppName is the application name
	AppName = "tabprep"

	// AppVersion is the current application version
	AppVersion = "1.0.0"
)

// Directory names relative to the executable
const (
	// DataDirName is the root directory for data files
	DataDirName = "data"

	// InputDirName is where source CSV and Excel files live
	InputDirName = "input"

	// ReportsDirName is where prepared tables and summaries are written
	ReportsDirName = "reports"

	// ArtifactsDirName is where binary matrix artifacts are written
	ArtifactsDirName = "artifacts"

	// LogsDirName is the directory for log files
	LogsDirName = "logs"
)

// Well-known file names
const (
	// ConfigFileName is the default configuration file
	ConfigFileName = "config.yaml"

	// MatrixDatasetFile holds the raw synthetic matrix
	MatrixDatasetFile = "dataset.bin"

	// MatrixNormalizedFile holds the min-max normalized matrix
	MatrixNormalizedFile = "normalized.bin"

	// MatrixReportFile holds the matrix run report
	MatrixReportFile = "matrix_report.json"

	// MetricsFileName is the default metrics snapshot file
	MetricsFileName = "metrics.prom"
)

// File extensions and suffixes
const (
	// CSVExtension for delimited text files
	CSVExtension = ".csv"

	// ExcelExtension for xlsx workbooks
	ExcelExtension = ".xlsx"

	// ExcelMacroExtension for macro-enabled workbooks
	ExcelMacroExtension = ".xlsm"

	// PreparedSuffix marks a cleaned table export
	PreparedSuffix = "_prepared"

	// SummarySuffix marks a statistics export
	SummarySuffix = "_summary"
)

// Processing limits
const (
	// MaxSourceFileSize is the largest input file accepted (100MB)
	MaxSourceFileSize = 100 * 1024 * 1024

	// MaxWorkers caps batch concurrency
	MaxWorkers = 64
)

// Logging constants
const (
	// DefaultLogLevel is the default logging level
	DefaultLogLevel = "info"

	// DefaultLogFile is the default log file path relative to the
	// executable directory
	DefaultLogFile = "logs/app.log"
)
