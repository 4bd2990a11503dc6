package exporter

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/mat"

	"tabprep/internal/config"
	"tabprep/pkg/tabular"
)

// matrixMagic identifies a tabprep binary matrix artifact
var matrixMagic = [4]byte{'T', 'P', 'M', 'X'}

// maxMatrixElems caps the element count accepted from an artifact
// header so a corrupt file cannot trigger a huge allocation
const maxMatrixElems = 1 << 28

// matrixHeader is the fixed-size artifact header. Payload follows as
// rows*cols little-endian float64 values in row-major order.
type matrixHeader struct {
	Magic   [4]byte
	Version uint16
	Rows    uint32
	Cols    uint32
}

// MatrixExporter reads and writes binary matrix artifacts
type MatrixExporter struct {
	paths *config.Paths
}

// NewMatrixExporter creates a new matrix exporter
func NewMatrixExporter(paths *config.Paths) *MatrixExporter {
	return &MatrixExporter{paths: paths}
}

// Export writes the matrix to outputPath as a binary artifact.
// Relative paths resolve into the artifacts directory.
func (e *MatrixExporter) Export(m *mat.Dense, outputPath string) error {
	fullPath := e.resolvePath(outputPath)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create artifact: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)

	rows, cols := m.Dims()
	header := matrixHeader{
		Magic:   matrixMagic,
		Version: tabular.MatrixFormatVersion,
		Rows:    uint32(rows),
		Cols:    uint32(cols),
	}
	if err := binary.Write(w, binary.LittleEndian, header); err != nil {
		return fmt.Errorf("failed to write artifact header: %w", err)
	}

	for i := 0; i < rows; i++ {
		if err := binary.Write(w, binary.LittleEndian, m.RawRowView(i)); err != nil {
			return fmt.Errorf("failed to write artifact row %d: %w", i, err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush artifact: %w", err)
	}
	return nil
}

// Read loads a binary matrix artifact written by Export
func (e *MatrixExporter) Read(path string) (*mat.Dense, error) {
	fullPath := e.resolvePath(path)

	file, err := os.Open(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open artifact: %w", err)
	}
	defer file.Close()

	r := bufio.NewReader(file)

	var header matrixHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read artifact header: %w", err)
	}

	if header.Magic != matrixMagic {
		return nil, fmt.Errorf("not a matrix artifact: bad magic %q", header.Magic)
	}
	if header.Version != tabular.MatrixFormatVersion {
		return nil, fmt.Errorf("unsupported artifact version %d", header.Version)
	}

	rows, cols := int(header.Rows), int(header.Cols)
	if rows == 0 || cols == 0 {
		return nil, fmt.Errorf("artifact declares empty matrix %dx%d", rows, cols)
	}
	if uint64(header.Rows)*uint64(header.Cols) > maxMatrixElems {
		return nil, fmt.Errorf("artifact declares oversized matrix %dx%d", rows, cols)
	}

	data := make([]float64, rows*cols)
	if err := binary.Read(r, binary.LittleEndian, data); err != nil {
		return nil, fmt.Errorf("failed to read artifact payload: %w", err)
	}

	// Anything after the payload means the header lied about the shape
	if _, err := r.ReadByte(); err == nil {
		return nil, fmt.Errorf("artifact has trailing data after %dx%d payload", rows, cols)
	}

	return mat.NewDense(rows, cols, data), nil
}

// resolvePath resolves relative artifact paths into the artifacts
// directory
func (e *MatrixExporter) resolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return e.paths.GetArtifactPath(path)
}
