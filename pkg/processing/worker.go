package processing

import (
	"fmt"

	"github.com/voxelfit/batchfit/pkg/imagedata"
	"github.com/voxelfit/batchfit/pkg/models"
	"github.com/voxelfit/batchfit/pkg/volume"
)

// Worker is the fitting engine driven per chunk. The numerical kernels live
// outside this module; implementations are registered at startup.
type Worker interface {
	// OutputExists reports whether the chunk directory already holds a
	// complete result for the model. This is the resume checkpoint signal.
	OutputExists(model models.Model, data imagedata.ProblemData, chunkDir string) bool

	// Process fits the model on the voxels selected by chunkMask and
	// writes the results into chunkDir.
	Process(model models.Model, data imagedata.ProblemData, chunkMask *volume.Mask, chunkDir string) error

	// Combine merges all chunk directories under chunksDir into the final
	// result at outputPath.
	Combine(outputPath, chunksDir string) (map[string]*volume.Map, error)
}

// NewWorkerFunc creates the fitting worker.
type NewWorkerFunc func() Worker

var newWorker NewWorkerFunc

// RegisterWorker registers the fitting worker factory.
// NOTE: this is a helper register function so the fitting engine can plug
// itself in without this package importing it.
func RegisterWorker(f NewWorkerFunc) {
	newWorker = f
}

// GetWorker returns a worker from the registered factory.
func GetWorker() (Worker, error) {
	if newWorker == nil {
		return nil, fmt.Errorf("no fitting worker registered")
	}
	return newWorker(), nil
}
