// Package config provides centralized configuration management for the
// tabprep tools. It handles loading configuration from multiple sources,
// validation, and provides a type-safe API for accessing configuration
// values throughout the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. Configuration file (YAML)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern TABPREP_* for namespacing:
//
//	TABPREP_PIPELINE_THRESHOLD=0.7
//	TABPREP_PIPELINE_STRATEGY=median
//	TABPREP_MATRIX_SEED=42
//	TABPREP_LOGGING_LEVEL=debug
//
// # Path Management
//
// The package provides centralized path management through the Paths type,
// which handles all file system paths relative to the executable location:
//
//	paths, err := config.GetPaths()
//	inputPath := paths.GetInputPath("sales.csv")
//	reportPath := paths.GetPreparedCSVPath("sales.csv")
//
// # Validation
//
// Configuration is validated at load time: numeric ranges are checked
// with struct tags, the fill strategy must be one of the known names,
// and the delimiter must be a single character.
//
// # Usage
//
// Load configuration at application startup:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
