package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		err := os.WriteFile(filepath.Join(dir, name), []byte("test content"), 0644)
		require.NoError(t, err)
	}
}

func fileNames(files []FileInfo) []string {
	var names []string
	for _, f := range files {
		names = append(names, f.Name)
	}
	return names
}

func TestNewDiscovery(t *testing.T) {
	basePath := "/test/base"
	discovery := NewDiscovery(basePath)

	assert.NotNil(t, discovery)
	assert.Equal(t, basePath, discovery.basePath)
}

func TestFindCSVFiles(t *testing.T) {
	tests := []struct {
		name     string
		files    []string
		expected []string
	}{
		{
			name:     "only CSV files",
			files:    []string{"b.csv", "a.csv", "c.CSV"},
			expected: []string{"a.csv", "b.csv", "c.CSV"},
		},
		{
			name:     "mixed file types",
			files:    []string{"report.xlsx", "data.csv", "doc.pdf"},
			expected: []string{"data.csv"},
		},
		{
			name:     "no CSV files",
			files:    []string{"doc.pdf", "readme.txt"},
			expected: nil,
		},
		{
			name:     "empty directory",
			files:    []string{},
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			createFiles(t, tmpDir, tt.files...)

			discovery := NewDiscovery(tmpDir)
			found, err := discovery.FindCSVFiles(".")
			require.NoError(t, err)

			assert.Equal(t, tt.expected, fileNames(found))
		})
	}
}

func TestFindCSVFiles_SkipsDirectories(t *testing.T) {
	tmpDir := t.TempDir()
	createFiles(t, tmpDir, "real.csv")
	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "nested.csv"), 0755))

	discovery := NewDiscovery(tmpDir)
	found, err := discovery.FindCSVFiles(".")
	require.NoError(t, err)

	assert.Equal(t, []string{"real.csv"}, fileNames(found))
}

func TestFindWorkbookFiles(t *testing.T) {
	tests := []struct {
		name     string
		files    []string
		expected []string
	}{
		{
			name:     "plain and macro workbooks",
			files:    []string{"book.xlsx", "macros.xlsm", "data.csv"},
			expected: []string{"book.xlsx", "macros.xlsm"},
		},
		{
			name:     "case insensitive extensions",
			files:    []string{"UPPER.XLSX", "lower.xlsx"},
			expected: []string{"UPPER.XLSX", "lower.xlsx"},
		},
		{
			name:     "editor lock files skipped",
			files:    []string{"~$book.xlsx", "book.xlsx"},
			expected: []string{"book.xlsx"},
		},
		{
			name:     "legacy xls not loadable",
			files:    []string{"old.xls", "new.xlsx"},
			expected: []string{"new.xlsx"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			createFiles(t, tmpDir, tt.files...)

			discovery := NewDiscovery(tmpDir)
			found, err := discovery.FindWorkbookFiles(".")
			require.NoError(t, err)

			assert.Equal(t, tt.expected, fileNames(found))
		})
	}
}

func TestFindSourceFiles(t *testing.T) {
	tmpDir := t.TempDir()
	createFiles(t, tmpDir,
		"zeta.csv", "alpha.xlsx", "beta.csv", "~$alpha.xlsx", "notes.txt")

	discovery := NewDiscovery(tmpDir)
	found, err := discovery.FindSourceFiles(".")
	require.NoError(t, err)

	// Merged across formats, sorted by name
	assert.Equal(t, []string{"alpha.xlsx", "beta.csv", "zeta.csv"}, fileNames(found))
}

func TestFindSourceFiles_PopulatesInfo(t *testing.T) {
	tmpDir := t.TempDir()
	createFiles(t, tmpDir, "data.csv")

	discovery := NewDiscovery(tmpDir)
	found, err := discovery.FindSourceFiles(".")
	require.NoError(t, err)
	require.Len(t, found, 1)

	assert.Equal(t, "data.csv", found[0].Name)
	assert.Equal(t, filepath.Join(tmpDir, "data.csv"), found[0].Path)
	assert.Equal(t, int64(len("test content")), found[0].Size)
	assert.False(t, found[0].ModTime.IsZero())
}

func TestFindSourceFiles_MissingDirectory(t *testing.T) {
	discovery := NewDiscovery(t.TempDir())

	_, err := discovery.FindSourceFiles("does-not-exist")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read directory")
}

func TestFindSourceFiles_AbsoluteDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	createFiles(t, tmpDir, "data.csv")

	// Base path is irrelevant when the directory is absolute
	discovery := NewDiscovery("/unused/base")
	found, err := discovery.FindSourceFiles(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, []string{"data.csv"}, fileNames(found))
}

func TestFindFilesByPattern(t *testing.T) {
	tests := []struct {
		name     string
		files    []string
		pattern  string
		expected int
	}{
		{
			name:     "prefix match",
			files:    []string{"sales_q1.csv", "sales_q2.csv", "costs.csv"},
			pattern:  "sales_*.csv",
			expected: 2,
		},
		{
			name:     "wildcard extension",
			files:    []string{"a.csv", "b.xlsx", "c.txt"},
			pattern:  "*.*",
			expected: 3,
		},
		{
			name:     "no matches",
			files:    []string{"a.csv"},
			pattern:  "*.json",
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			createFiles(t, tmpDir, tt.files...)

			discovery := NewDiscovery(tmpDir)
			found, err := discovery.FindFilesByPattern(".", tt.pattern)
			require.NoError(t, err)

			assert.Len(t, found, tt.expected)
		})
	}
}

func TestFindFilesByPattern_InvalidPattern(t *testing.T) {
	discovery := NewDiscovery(t.TempDir())

	_, err := discovery.FindFilesByPattern(".", "[unclosed")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid pattern")
}
