package imagedata

import (
	"fmt"

	"github.com/voxelfit/batchfit/pkg/protocol"
	"github.com/voxelfit/batchfit/pkg/volume"
)

// ProblemData is the assembled bundle of image, protocol and mask data,
// ready for model fitting.
type ProblemData interface {
	Mask() *volume.Mask
	VolumeHeader() *volume.Header
}

// SignalProvider is optionally implemented by ProblemData implementations
// that can expose the raw signal of one volume for noise estimation.
type SignalProvider interface {
	Signal() *volume.Map
}

// NoiseStd describes the noise standard deviation to use during fitting:
// a fixed scalar, a path to a per voxel noise volume, or automatic
// estimation. The zero value means unset.
type NoiseStd struct {
	Scalar   float64
	PerVoxel string
	Auto     bool
}

// IsZero reports whether no noise std was configured.
func (n NoiseStd) IsZero() bool {
	return n.Scalar == 0 && n.PerVoxel == "" && !n.Auto
}

// LoadOptions are the optional inputs of the problem data assembler.
type LoadOptions struct {
	GradientDeviationsPath string
	NoiseStd               NoiseStd
}

// LoadFunc assembles problem data from the image, protocol and mask. The
// implementation performs NIfTI IO and lives outside this module; it is
// registered at startup.
type LoadFunc func(imagePath string, p *protocol.Protocol, maskPath string, opts LoadOptions) (ProblemData, error)

var loadProblemData LoadFunc

// RegisterLoader registers the problem data assembler implementation.
func RegisterLoader(f LoadFunc) {
	loadProblemData = f
}

// LoadProblemData assembles the problem data using the registered loader.
func LoadProblemData(imagePath string, p *protocol.Protocol, maskPath string, opts LoadOptions) (ProblemData, error) {
	if loadProblemData == nil {
		return nil, fmt.Errorf("no problem data loader registered")
	}
	return loadProblemData(imagePath, p, maskPath, opts)
}
