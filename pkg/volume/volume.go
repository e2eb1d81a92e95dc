package volume

import "fmt"

// Header carries the spatial metadata needed to write output volumes to
// disk. It is produced by the image IO collaborator when loading problem
// data and passed back untouched when writing maps.
type Header struct {
	Dims       [3]int
	VoxelSizes [3]float64
}

// Mask is a boolean brain mask stored in the volume's natural flattening
// order: the index of voxel (x, y, z) is x + Dims[0]*(y + Dims[1]*z).
type Mask struct {
	Dims [3]int
	Data []bool
}

// NewMask returns an all false mask of the given dimensions.
func NewMask(dims [3]int) *Mask {
	return &Mask{
		Dims: dims,
		Data: make([]bool, dims[0]*dims[1]*dims[2]),
	}
}

// Len returns the total number of voxels in the volume.
func (m *Mask) Len() int {
	return len(m.Data)
}

// CountNonzero returns the number of active voxels.
func (m *Mask) CountNonzero() int {
	count := 0
	for _, active := range m.Data {
		if active {
			count++
		}
	}
	return count
}

// ChunkMask returns a mask of the same shape that selects exactly the
// active voxels whose position in the flattened active voxel ordering is
// in the half open range [start, end).
func (m *Mask) ChunkMask(start, end int) *Mask {
	chunk := NewMask(m.Dims)
	pos := 0
	for i, active := range m.Data {
		if !active {
			continue
		}
		if pos >= start && pos < end {
			chunk.Data[i] = true
		}
		pos++
		if pos >= end {
			break
		}
	}
	return chunk
}

// Map is a named scalar map over the volume, in the same flattening order
// as Mask.
type Map struct {
	Dims [3]int
	Data []float64
}

// MaskToMap converts a boolean mask to a 0/1 scalar map so it can be
// persisted with the same writer as the model output maps.
func MaskToMap(m *Mask) *Map {
	out := &Map{
		Dims: m.Dims,
		Data: make([]float64, len(m.Data)),
	}
	for i, active := range m.Data {
		if active {
			out.Data[i] = 1
		}
	}
	return out
}

// WriteVolumeMapsFunc writes named maps into a directory. The actual
// implementation is NIfTI IO and lives outside this module; it is
// registered at startup.
type WriteVolumeMapsFunc func(maps map[string]*Map, dir string, header *Header) error

var writeVolumeMaps WriteVolumeMapsFunc

// RegisterWriter registers the volume map writer implementation.
func RegisterWriter(f WriteVolumeMapsFunc) {
	writeVolumeMaps = f
}

// WriteVolumeMaps writes the given named maps into the directory using the
// registered writer.
func WriteVolumeMaps(maps map[string]*Map, dir string, header *Header) error {
	if writeVolumeMaps == nil {
		return fmt.Errorf("no volume map writer registered")
	}
	return writeVolumeMaps(maps, dir, header)
}
