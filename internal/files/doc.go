// Package files provides file system operations and discovery utilities
// for locating and managing tabular source files.
//
// This package contains two main components:
//
// Discovery: Finds loadable source files (CSV files and Excel workbooks)
// in a directory, plus files matching arbitrary glob patterns. Results are
// sorted by name so batch runs process files in a stable order.
//
// Manager: Provides basic file management operations such as copying,
// moving, deleting files, and ensuring directories exist. Relative paths
// are resolved against the configured directory layout.
//
// Example usage:
//
//	// Create a discovery instance
//	discovery := files.NewDiscovery("/path/to/data")
//
//	// Find every loadable source file
//	sources, err := discovery.FindSourceFiles("input")
//
//	// Create a manager instance
//	manager := files.NewManager(paths)
//
//	// Check if a file exists
//	if manager.FileExists("input/sales.csv") {
//	    // Process file
//	}
package files
