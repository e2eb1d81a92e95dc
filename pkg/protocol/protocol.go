package protocol

import (
	"fmt"

	"github.com/voxelfit/batchfit/pkg/tools/errorutils"
)

// Protocol is the acquisition parameter table: named columns with one
// value per acquired volume, for example the gradient directions and
// b-values needed to interpret a dMRI image.
type Protocol struct {
	columns map[string][]float64
	names   []string
	length  int
}

// New returns an empty protocol.
func New() *Protocol {
	return &Protocol{columns: make(map[string][]float64)}
}

// AddColumn adds a named column. All columns must have the same length.
func (p *Protocol) AddColumn(name string, values []float64) error {
	if p.length != 0 && len(values) != p.length {
		return &errorutils.ProtocolIOError{
			Path:   name,
			Reason: fmt.Sprintf("column length %d does not match protocol length %d", len(values), p.length),
		}
	}
	if _, exists := p.columns[name]; !exists {
		p.names = append(p.names, name)
	}
	p.columns[name] = values
	p.length = len(values)
	return nil
}

// Column returns the named column.
func (p *Protocol) Column(name string) ([]float64, bool) {
	values, ok := p.columns[name]
	return values, ok
}

// HasColumn reports whether the named column is present.
func (p *Protocol) HasColumn(name string) bool {
	_, ok := p.columns[name]
	return ok
}

// ColumnNames returns the column names in insertion order.
func (p *Protocol) ColumnNames() []string {
	out := make([]string, len(p.names))
	copy(out, p.names)
	return out
}

// Length returns the number of rows (acquired volumes).
func (p *Protocol) Length() int {
	return p.length
}

// ValidateForModel checks that all required columns are present and returns
// an InsufficientProtocolError naming the first missing column otherwise.
func (p *Protocol) ValidateForModel(modelName string, required []string) error {
	for _, name := range required {
		if !p.HasColumn(name) {
			return &errorutils.InsufficientProtocolError{
				ModelName: modelName,
				Missing:   name,
			}
		}
	}
	return nil
}
