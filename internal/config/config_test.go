package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 0.7, cfg.Pipeline.Threshold)
	assert.Equal(t, ",", cfg.Pipeline.Delimiter)
	assert.Equal(t, "mean", cfg.Pipeline.Strategy)
	assert.Equal(t, "0", cfg.Pipeline.FillValue)
	assert.Equal(t, 4, cfg.Pipeline.Workers)

	assert.Equal(t, 100, cfg.Matrix.Entities)
	assert.Equal(t, uint64(42), cfg.Matrix.Seed)
	assert.Equal(t, 10, cfg.Matrix.TopK)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "tabprep", cfg.Observability.ServiceName)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 0.7, cfg.Pipeline.Threshold)
	assert.Equal(t, "mean", cfg.Pipeline.Strategy)
	assert.Equal(t, 100, cfg.Matrix.Entities)
	assert.NotEmpty(t, cfg.Paths.ExecutableDir, "executable dir should be resolved")
	assert.Equal(t, DataDirName, cfg.Paths.DataDir)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TABPREP_PIPELINE_THRESHOLD", "0.9")
	t.Setenv("TABPREP_PIPELINE_STRATEGY", "median")
	t.Setenv("TABPREP_PIPELINE_NA_VALUES", "NA,missing")
	t.Setenv("TABPREP_MATRIX_ENTITIES", "5")
	t.Setenv("TABPREP_MATRIX_SEED", "7")
	t.Setenv("TABPREP_LOGGING_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 0.9, cfg.Pipeline.Threshold)
	assert.Equal(t, "median", cfg.Pipeline.Strategy)
	assert.Equal(t, []string{"NA", "missing"}, cfg.Pipeline.NAValues)
	assert.Equal(t, 5, cfg.Matrix.Entities)
	assert.Equal(t, uint64(7), cfg.Matrix.Seed)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_ValidationFailures(t *testing.T) {
	tests := []struct {
		name    string
		envVar  string
		value   string
		wantErr string
	}{
		{
			name:    "threshold above one",
			envVar:  "TABPREP_PIPELINE_THRESHOLD",
			value:   "1.5",
			wantErr: "validation failed",
		},
		{
			name:    "threshold zero",
			envVar:  "TABPREP_PIPELINE_THRESHOLD",
			value:   "0",
			wantErr: "validation failed",
		},
		{
			name:    "unknown strategy",
			envVar:  "TABPREP_PIPELINE_STRATEGY",
			value:   "bogus",
			wantErr: "validation failed",
		},
		{
			name:    "multi character delimiter",
			envVar:  "TABPREP_PIPELINE_DELIMITER",
			value:   ";;",
			wantErr: "single character",
		},
		{
			name:    "workers above cap",
			envVar:  "TABPREP_PIPELINE_WORKERS",
			value:   "200",
			wantErr: "validation failed",
		},
		{
			name:    "zero entities",
			envVar:  "TABPREP_MATRIX_ENTITIES",
			value:   "0",
			wantErr: "validation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.envVar, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFrom_File(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	content := `pipeline:
  na_values:
    - "NA"
    - "n/a"
  remove_symbols: "$,"
paths:
  input_dir: incoming
  reports_dir: out
`
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0644))

	cfg, err := LoadFrom(configFile)
	require.NoError(t, err)

	assert.Equal(t, []string{"NA", "n/a"}, cfg.Pipeline.NAValues)
	assert.Equal(t, "$,", cfg.Pipeline.RemoveSymbols)
	assert.Equal(t, "incoming", cfg.Paths.InputDir)
	assert.Equal(t, "out", cfg.Paths.ReportsDir)

	// Fields the file does not set keep their defaults
	assert.Equal(t, 0.7, cfg.Pipeline.Threshold)
	assert.Equal(t, "mean", cfg.Pipeline.Strategy)
}

func TestLoadFrom_EnvWinsOverFile(t *testing.T) {
	t.Setenv("TABPREP_PIPELINE_NA_VALUES", "missing")

	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	content := `pipeline:
  na_values:
    - "NA"
`
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0644))

	cfg, err := LoadFrom(configFile)
	require.NoError(t, err)
	assert.Equal(t, []string{"missing"}, cfg.Pipeline.NAValues)
}

func TestLoadFrom_MissingFile(t *testing.T) {
	_, err := LoadFrom(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not readable")
}

func TestLoadFrom_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("pipeline: [not a map"), 0644))

	_, err := LoadFrom(configFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config from file")
}

func TestConfig_ResolvedPaths(t *testing.T) {
	cfg := Default()
	cfg.Paths.ExecutableDir = filepath.Join("/", "base")

	paths := cfg.ResolvedPaths()

	assert.Equal(t, filepath.Join("/", "base"), paths.ExecutableDir)
	assert.Equal(t, filepath.Join("/", "base", "data"), paths.DataDir)
	assert.Equal(t, filepath.Join("/", "base", "data", "input"), paths.InputDir)
	assert.Equal(t, filepath.Join("/", "base", "data", "reports"), paths.ReportsDir)
	assert.Equal(t, filepath.Join("/", "base", "data", "artifacts", MatrixDatasetFile), paths.MatrixDataset)
	assert.Equal(t, filepath.Join("/", "base", "logs"), paths.LogsDir)
}

func TestConfig_ResolvedPaths_AbsoluteOverride(t *testing.T) {
	cfg := Default()
	cfg.Paths.ExecutableDir = filepath.Join("/", "base")
	abs := filepath.Join("/", "var", "reports")
	cfg.Paths.ReportsDir = abs

	paths := cfg.ResolvedPaths()
	assert.Equal(t, abs, paths.ReportsDir)
	assert.Equal(t, filepath.Join("/", "base", "data"), paths.DataDir)
}

func TestConfig_EnsureDirectories(t *testing.T) {
	cfg := Default()
	cfg.Paths.ExecutableDir = t.TempDir()

	require.NoError(t, cfg.EnsureDirectories())

	paths := cfg.ResolvedPaths()
	for _, dir := range []string{paths.DataDir, paths.InputDir, paths.ReportsDir, paths.ArtifactsDir, paths.LogsDir} {
		assert.DirExists(t, dir)
	}
}

func TestPipelineConfig_DelimiterRune(t *testing.T) {
	tests := []struct {
		delimiter string
		want      rune
	}{
		{",", ','},
		{";", ';'},
		{"\t", '\t'},
		{"|", '|'},
	}

	for _, tt := range tests {
		cfg := PipelineConfig{Delimiter: tt.delimiter}
		assert.Equal(t, tt.want, cfg.DelimiterRune())
	}
}
