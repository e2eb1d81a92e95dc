package protocol

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/voxelfit/batchfit/pkg/tools/errorutils"
)

// Loader resolves the acquisition protocol for one subject.
type Loader interface {
	GetProtocol() (*Protocol, error)
}

// FileLoader loads a protocol from an explicit protocol file when present,
// and otherwise auto loads it from bvec/bval files in the subject base dir.
type FileLoader struct {
	baseDir      string
	protocolPath string
	bvecPath     string
	bvalPath     string
}

// NewFileLoader returns a loader for the given subject base dir. Any of the
// explicit paths may be empty, in which case the loader falls back to the
// conventional file names inside baseDir.
func NewFileLoader(baseDir, protocolPath, bvecPath, bvalPath string) *FileLoader {
	return &FileLoader{
		baseDir:      baseDir,
		protocolPath: protocolPath,
		bvecPath:     bvecPath,
		bvalPath:     bvalPath,
	}
}

func (l *FileLoader) GetProtocol() (*Protocol, error) {
	if l.protocolPath != "" {
		if _, err := os.Stat(l.protocolPath); err == nil {
			return LoadProtocol(l.protocolPath)
		}
	}
	return AutoLoadProtocol(l.baseDir, l.bvecPath, l.bvalPath)
}

var _ Loader = &FileLoader{}

// LoadProtocol parses a whitespace separated protocol file. A leading line
// starting with '#' names the columns; without it the columns get
// positional names col0, col1, ...
func LoadProtocol(path string) (*Protocol, error) {
	rows, names, err := readTable(path)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &errorutils.ProtocolIOError{Path: path, Reason: "empty protocol file"}
	}

	width := len(rows[0])
	if names == nil {
		names = make([]string, width)
		for i := range names {
			names[i] = "col" + strconv.Itoa(i)
		}
	}
	if len(names) != width {
		return nil, &errorutils.ProtocolIOError{Path: path, Reason: "header width does not match data width"}
	}

	p := New()
	for col, name := range names {
		values := make([]float64, len(rows))
		for row := range rows {
			if len(rows[row]) != width {
				return nil, &errorutils.ProtocolIOError{Path: path, Reason: "ragged rows in protocol file"}
			}
			values[row] = rows[row][col]
		}
		if err := p.AddColumn(name, values); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// AutoLoadProtocol builds a protocol from FSL style bvec/bval files. Empty
// paths fall back to the conventional names in the base dir.
func AutoLoadProtocol(baseDir, bvecPath, bvalPath string) (*Protocol, error) {
	if bvecPath == "" {
		bvecPath = firstExisting(baseDir, "bvec", "bvecs", "data.bvec")
	}
	if bvalPath == "" {
		bvalPath = firstExisting(baseDir, "bval", "bvals", "data.bval")
	}
	if bvecPath == "" || bvalPath == "" {
		return nil, &errorutils.ProtocolIOError{Path: baseDir, Reason: "no protocol file and no bvec/bval pair found"}
	}

	bvecRows, _, err := readTable(bvecPath)
	if err != nil {
		return nil, err
	}
	if len(bvecRows) != 3 {
		return nil, &errorutils.ProtocolIOError{Path: bvecPath, Reason: "bvec file must have exactly three rows"}
	}

	bvalRows, _, err := readTable(bvalPath)
	if err != nil {
		return nil, err
	}
	if len(bvalRows) != 1 {
		return nil, &errorutils.ProtocolIOError{Path: bvalPath, Reason: "bval file must have exactly one row"}
	}

	p := New()
	for i, name := range []string{"gx", "gy", "gz"} {
		if err := p.AddColumn(name, bvecRows[i]); err != nil {
			return nil, err
		}
	}
	if err := p.AddColumn("b", bvalRows[0]); err != nil {
		return nil, err
	}
	return p, nil
}

func firstExisting(dir string, names ...string) string {
	for _, name := range names {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// readTable reads a whitespace separated numeric file into rows, returning
// column names when an optional '#' header line is present.
func readTable(path string) ([][]float64, []string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	var rows [][]float64
	var names []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			if rows == nil && names == nil {
				names = strings.Fields(strings.TrimPrefix(line, "#"))
			}
			continue
		}
		fields := strings.Fields(line)
		row := make([]float64, len(fields))
		for i, field := range fields {
			value, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, nil, &errorutils.ProtocolIOError{Path: path, Reason: "non numeric value " + field}
			}
			row[i] = value
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}
	return rows, names, nil
}
