package config

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Pipeline      PipelineConfig      `yaml:"pipeline" envconfig:"PIPELINE"`
	Matrix        MatrixConfig        `yaml:"matrix" envconfig:"MATRIX"`
	Logging       LoggingConfig       `yaml:"logging" envconfig:"LOGGING"`
	Paths         PathsConfig         `yaml:"paths" envconfig:"PATHS"`
	Observability ObservabilityConfig `yaml:"observability" envconfig:"OBSERVABILITY"`
}

// PipelineConfig tunes the tabular preparation pipeline
type PipelineConfig struct {
	Threshold     float64  `yaml:"threshold" envconfig:"THRESHOLD" default:"0.7" validate:"gt=0,lte=1"`
	Delimiter     string   `yaml:"delimiter" envconfig:"DELIMITER" default:","`
	NAValues      []string `yaml:"na_values" envconfig:"NA_VALUES"`
	RemoveSymbols string   `yaml:"remove_symbols" envconfig:"REMOVE_SYMBOLS"`
	Strategy      string   `yaml:"strategy" envconfig:"STRATEGY" default:"mean" validate:"oneof=mean median custom drop"`
	FillValue     string   `yaml:"fill_value" envconfig:"FILL_VALUE" default:"0"`
	Workers       int      `yaml:"workers" envconfig:"WORKERS" default:"4" validate:"gte=1,lte=64"`
}

// MatrixConfig tunes the synthetic matrix runs
type MatrixConfig struct {
	Entities int    `yaml:"entities" envconfig:"ENTITIES" default:"100" validate:"gte=1"`
	Seed     uint64 `yaml:"seed" envconfig:"SEED" default:"42"`
	TopK     int    `yaml:"top_k" envconfig:"TOP_K" default:"10" validate:"gte=1"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format      string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output      string `yaml:"output" envconfig:"OUTPUT" default:"both"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT" default:"false"`
}

// PathsConfig contains file system paths configuration.
// Directories left empty fall back to the standard layout during
// validation, so a config file can still override them.
type PathsConfig struct {
	ExecutableDir string `yaml:"executable_dir" envconfig:"EXECUTABLE_DIR"`
	DataDir       string `yaml:"data_dir" envconfig:"DATA_DIR"`
	InputDir      string `yaml:"input_dir" envconfig:"INPUT_DIR"`
	ReportsDir    string `yaml:"reports_dir" envconfig:"REPORTS_DIR"`
	ArtifactsDir  string `yaml:"artifacts_dir" envconfig:"ARTIFACTS_DIR"`
	LogsDir       string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
}

// ObservabilityConfig controls tracing and the metrics snapshot
type ObservabilityConfig struct {
	ServiceName   string `yaml:"service_name" envconfig:"SERVICE_NAME" default:"tabprep"`
	EnableTracing bool   `yaml:"enable_tracing" envconfig:"ENABLE_TRACING" default:"false"`
	MetricsFile   string `yaml:"metrics_file" envconfig:"METRICS_FILE" default:"metrics.prom"`
}

var structValidator = validator.New()

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	return load(getConfigFilePath())
}

// LoadFrom loads configuration with an explicit config file instead of
// the discovered one. The file must exist.
func LoadFrom(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file not readable: %w", err)
	}
	return load(path)
}

func load(configFile string) (*Config, error) {
	var cfg Config

	// Load from environment variables first
	if err := envconfig.Process("TABPREP", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// Load from config file if exists
	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			fileConfig, err := loadFromFile(configFile)
			if err != nil {
				return nil, fmt.Errorf("failed to load config from file: %w", err)
			}
			cfg = mergeConfigs(*fileConfig, cfg)
		}
	}

	// Resolve relative paths
	if err := cfg.resolvePaths(); err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config (env takes precedence)
func mergeConfigs(fileConfig, envConfig Config) Config {
	if envConfig.Pipeline.NAValues == nil {
		envConfig.Pipeline.NAValues = fileConfig.Pipeline.NAValues
	}
	if envConfig.Pipeline.RemoveSymbols == "" {
		envConfig.Pipeline.RemoveSymbols = fileConfig.Pipeline.RemoveSymbols
	}
	if envConfig.Paths.ExecutableDir == "" {
		envConfig.Paths.ExecutableDir = fileConfig.Paths.ExecutableDir
	}
	if envConfig.Paths.DataDir == "" {
		envConfig.Paths.DataDir = fileConfig.Paths.DataDir
	}
	if envConfig.Paths.InputDir == "" {
		envConfig.Paths.InputDir = fileConfig.Paths.InputDir
	}
	if envConfig.Paths.ReportsDir == "" {
		envConfig.Paths.ReportsDir = fileConfig.Paths.ReportsDir
	}
	if envConfig.Paths.ArtifactsDir == "" {
		envConfig.Paths.ArtifactsDir = fileConfig.Paths.ArtifactsDir
	}
	if envConfig.Paths.LogsDir == "" {
		envConfig.Paths.LogsDir = fileConfig.Paths.LogsDir
	}
	return envConfig
}

// resolvePaths sets up the executable directory for path resolution
func (c *Config) resolvePaths() error {
	if c.Paths.ExecutableDir != "" {
		return nil
	}

	paths, err := GetPaths()
	if err != nil {
		return fmt.Errorf("failed to get paths: %w", err)
	}
	c.Paths.ExecutableDir = paths.ExecutableDir
	return nil
}

// EnsureDirectories creates every configured directory that is missing
func (c *Config) EnsureDirectories() error {
	return c.ResolvedPaths().EnsureDirectories()
}

// ResolvedPaths returns the directory layout built from the configured
// directories. Relative directories are anchored at the executable
// directory, absolute ones are kept as given.
func (c *Config) ResolvedPaths() *Paths {
	base := c.Paths.ExecutableDir
	join := func(dir string) string {
		if filepath.IsAbs(dir) {
			return dir
		}
		return filepath.Join(base, dir)
	}

	artifactsDir := join(c.Paths.ArtifactsDir)
	return &Paths{
		ExecutableDir: base,
		DataDir:       join(c.Paths.DataDir),
		InputDir:      join(c.Paths.InputDir),
		ReportsDir:    join(c.Paths.ReportsDir),
		ArtifactsDir:  artifactsDir,
		LogsDir:       join(c.Paths.LogsDir),

		ConfigFile: join(ConfigFileName),

		MatrixDataset:    filepath.Join(artifactsDir, MatrixDatasetFile),
		MatrixNormalized: filepath.Join(artifactsDir, MatrixNormalizedFile),
		MatrixReport:     filepath.Join(artifactsDir, MatrixReportFile),
	}
}

// DelimiterRune returns the configured field delimiter as a rune
func (c *PipelineConfig) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	return r
}

// validate validates the configuration
func (c *Config) validate() error {
	if err := structValidator.Struct(c); err != nil {
		return err
	}

	if utf8.RuneCountInString(c.Pipeline.Delimiter) != 1 {
		return fmt.Errorf("delimiter must be a single character, got %q", c.Pipeline.Delimiter)
	}

	if c.Logging.Format != "json" {
		c.Logging.Format = "json"
	}
	if c.Logging.Output != "both" && c.Logging.Output != "file" && c.Logging.Output != "console" {
		c.Logging.Output = "both"
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = DefaultLogFile
	}

	if c.Paths.DataDir == "" {
		c.Paths.DataDir = DataDirName
	}
	if c.Paths.InputDir == "" {
		c.Paths.InputDir = filepath.Join(DataDirName, InputDirName)
	}
	if c.Paths.ReportsDir == "" {
		c.Paths.ReportsDir = filepath.Join(DataDirName, ReportsDirName)
	}
	if c.Paths.ArtifactsDir == "" {
		c.Paths.ArtifactsDir = filepath.Join(DataDirName, ArtifactsDirName)
	}
	if c.Paths.LogsDir == "" {
		c.Paths.LogsDir = LogsDirName
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			Threshold: 0.7,
			Delimiter: ",",
			Strategy:  "mean",
			FillValue: "0",
			Workers:   4,
		},
		Matrix: MatrixConfig{
			Entities: 100,
			Seed:     42,
			TopK:     10,
		},
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   "json",
			Output:   "both",
			FilePath: DefaultLogFile,
		},
		Paths: PathsConfig{
			DataDir:      DataDirName,
			InputDir:     filepath.Join(DataDirName, InputDirName),
			ReportsDir:   filepath.Join(DataDirName, ReportsDirName),
			ArtifactsDir: filepath.Join(DataDirName, ArtifactsDirName),
			LogsDir:      LogsDirName,
		},
		Observability: ObservabilityConfig{
			ServiceName: AppName,
			MetricsFile: MetricsFileName,
		},
	}
}
