package noise

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/voxelfit/batchfit/pkg/tools/errorutils"
	"github.com/voxelfit/batchfit/pkg/volume"
)

func TestBackgroundEstimator(t *testing.T) {
	Convey("estimating noise std from background voxels", t, func() {
		estimator := NewBackgroundEstimator(4)

		mask := volume.NewMask([3]int{8, 1, 1})
		mask.Data[0] = true
		mask.Data[1] = true

		data := &volume.Map{
			Dims: mask.Dims,
			// background at indices 2..7
			Data: []float64{100, 100, 1, 2, 3, 1, 2, 3},
		}

		Convey("a valid background yields a positive std", func() {
			std, err := estimator.Estimate(data, mask)
			So(err, ShouldBeNil)
			So(std, ShouldBeGreaterThan, 0)
		})

		Convey("too few background voxels is a recoverable condition", func() {
			strict := NewBackgroundEstimator(10)
			_, err := strict.Estimate(data, mask)
			So(err, ShouldHaveSameTypeAs, &errorutils.NoiseStdEstimationNotPossibleError{})
		})

		Convey("a constant background has no estimable noise", func() {
			flat := &volume.Map{Dims: mask.Dims, Data: []float64{9, 9, 5, 5, 5, 5, 5, 5}}
			_, err := estimator.Estimate(flat, mask)
			So(err, ShouldHaveSameTypeAs, &errorutils.NoiseStdEstimationNotPossibleError{})
		})

		Convey("mismatched dimensions cannot be estimated", func() {
			short := &volume.Map{Dims: mask.Dims, Data: []float64{1, 2}}
			_, err := estimator.Estimate(short, mask)
			So(err, ShouldHaveSameTypeAs, &errorutils.NoiseStdEstimationNotPossibleError{})
		})
	})
}
