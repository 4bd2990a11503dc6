package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"tabprep/internal/config"
)

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Discovery provides file discovery operations
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

// FindCSVFiles finds all CSV files in the specified directory,
// sorted by name for a stable processing order
func (d *Discovery) FindCSVFiles(dir string) ([]FileInfo, error) {
	return d.findBySuffix(dir, config.CSVExtension)
}

// FindWorkbookFiles finds all Excel workbooks in the specified
// directory. Editor lock files (~$ prefix) are skipped.
func (d *Discovery) FindWorkbookFiles(dir string) ([]FileInfo, error) {
	files, err := d.findBySuffix(dir, config.ExcelExtension, config.ExcelMacroExtension)
	if err != nil {
		return nil, err
	}

	kept := files[:0]
	for _, f := range files {
		if strings.HasPrefix(f.Name, "~$") {
			continue
		}
		kept = append(kept, f)
	}
	return kept, nil
}

// FindSourceFiles finds every loadable source file (CSV and workbooks)
// in the specified directory, sorted by name
func (d *Discovery) FindSourceFiles(dir string) ([]FileInfo, error) {
	csvFiles, err := d.FindCSVFiles(dir)
	if err != nil {
		return nil, err
	}
	workbooks, err := d.FindWorkbookFiles(dir)
	if err != nil {
		return nil, err
	}

	all := append(csvFiles, workbooks...)
	sort.Slice(all, func(i, j int) bool {
		return all[i].Name < all[j].Name
	})
	return all, nil
}

// findBySuffix lists regular files in dir whose lowercase name carries
// one of the given suffixes
func (d *Discovery) findBySuffix(dir string, suffixes ...string) ([]FileInfo, error) {
	fullPath := d.resolveDir(dir)

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if !hasAnySuffix(strings.ToLower(name), suffixes) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		files = append(files, FileInfo{
			Path:    filepath.Join(fullPath, name),
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})

	return files, nil
}

// FindFilesByPattern finds files matching a glob pattern
func (d *Discovery) FindFilesByPattern(dir string, pattern string) ([]FileInfo, error) {
	searchPattern := filepath.Join(d.resolveDir(dir), pattern)

	matches, err := filepath.Glob(searchPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
	}

	var files []FileInfo
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil {
			continue
		}

		if !info.IsDir() {
			files = append(files, FileInfo{
				Path:    match,
				Name:    filepath.Base(match),
				Size:    info.Size(),
				ModTime: info.ModTime(),
			})
		}
	}

	return files, nil
}

// resolveDir anchors relative directories at the discovery base path
func (d *Discovery) resolveDir(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(d.basePath, dir)
}

func hasAnySuffix(name string, suffixes []string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}
