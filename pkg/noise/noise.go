package noise

import (
	"github.com/voxelfit/batchfit/pkg/tools/errorutils"
	"github.com/voxelfit/batchfit/pkg/volume"
	"gonum.org/v1/gonum/stat"
)

// Estimator estimates the noise standard deviation of a volume.
type Estimator interface {
	Estimate(data *volume.Map, mask *volume.Mask) (float64, error)
}

// BackgroundEstimator estimates the noise std from the voxels outside the
// brain mask, assuming the background contains only noise.
type BackgroundEstimator struct {
	// MinVoxels is the minimum number of background voxels required for a
	// meaningful estimate.
	MinVoxels int
}

// NewBackgroundEstimator returns an estimator that requires at least
// minVoxels background voxels, defaulting to 100 when non positive.
func NewBackgroundEstimator(minVoxels int) *BackgroundEstimator {
	if minVoxels <= 0 {
		minVoxels = 100
	}
	return &BackgroundEstimator{MinVoxels: minVoxels}
}

var _ Estimator = &BackgroundEstimator{}

func (e *BackgroundEstimator) Estimate(data *volume.Map, mask *volume.Mask) (float64, error) {
	if len(data.Data) != len(mask.Data) {
		return 0, &errorutils.NoiseStdEstimationNotPossibleError{Reason: "data and mask dimensions differ"}
	}

	background := make([]float64, 0, len(data.Data))
	for i, active := range mask.Data {
		if !active {
			background = append(background, data.Data[i])
		}
	}
	if len(background) < e.MinVoxels {
		return 0, &errorutils.NoiseStdEstimationNotPossibleError{Reason: "not enough background voxels"}
	}

	std := stat.StdDev(background, nil)
	if std <= 0 {
		return 0, &errorutils.NoiseStdEstimationNotPossibleError{Reason: "background has zero variance"}
	}
	return std, nil
}
