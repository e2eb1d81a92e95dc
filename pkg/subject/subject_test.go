package subject

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/voxelfit/batchfit/pkg/imagedata"
	"github.com/voxelfit/batchfit/pkg/masking"
	"github.com/voxelfit/batchfit/pkg/protocol"
	_ "github.com/voxelfit/batchfit/pkg/tools/log"
	"github.com/voxelfit/batchfit/pkg/volume"
)

type staticProtocolLoader struct {
	proto *protocol.Protocol
}

func (l *staticProtocolLoader) GetProtocol() (*protocol.Protocol, error) {
	return l.proto, nil
}

type fakeProblemData struct {
	maskPath string
}

func (f *fakeProblemData) Mask() *volume.Mask { return volume.NewMask([3]int{1, 1, 1}) }

func (f *fakeProblemData) VolumeHeader() *volume.Header { return &volume.Header{} }

func TestMaskFilename(t *testing.T) {
	Convey("the mask is generated lazily on first access", t, func() {
		dir := t.TempDir()
		maskPath := filepath.Join(dir, "mask.nii.gz")
		generated := 0
		masking.Register(func(imagePath string, p *protocol.Protocol, outputMaskPath string) error {
			generated++
			return os.WriteFile(outputMaskPath, []byte("mask"), 0644)
		})

		info := NewSimpleInfo("subj1", filepath.Join(dir, "data.nii.gz"),
			&staticProtocolLoader{proto: protocol.New()}, maskPath, filepath.Join(dir, "output"))

		path, err := info.MaskFilename()
		So(err, ShouldBeNil)
		So(path, ShouldEqual, maskPath)
		So(generated, ShouldEqual, 1)

		Convey("a second access reuses the file on disk", func() {
			_, err := info.MaskFilename()
			So(err, ShouldBeNil)
			So(generated, ShouldEqual, 1)
		})
	})

	Convey("an empty mask path selects auto generation under the output dir", t, func() {
		dir := t.TempDir()
		outputDir := filepath.Join(dir, "output")
		masking.Register(func(imagePath string, p *protocol.Protocol, outputMaskPath string) error {
			return os.WriteFile(outputMaskPath, []byte("mask"), 0644)
		})

		info := NewSimpleInfo("subj1", filepath.Join(dir, "data.nii.gz"),
			&staticProtocolLoader{proto: protocol.New()}, "", outputDir)

		path, err := info.MaskFilename()
		So(err, ShouldBeNil)
		So(path, ShouldEqual, filepath.Join(outputDir, AutoGeneratedMaskName))
	})
}

func TestProblemData(t *testing.T) {
	Convey("problem data assembly passes the subject inputs to the loader", t, func() {
		dir := t.TempDir()
		maskPath := filepath.Join(dir, "mask.nii.gz")
		So(os.WriteFile(maskPath, []byte("mask"), 0644), ShouldBeNil)

		var gotImage, gotMask string
		var gotOpts imagedata.LoadOptions
		imagedata.RegisterLoader(func(imagePath string, p *protocol.Protocol, mask string,
			opts imagedata.LoadOptions) (imagedata.ProblemData, error) {
			gotImage = imagePath
			gotMask = mask
			gotOpts = opts
			return &fakeProblemData{maskPath: mask}, nil
		})

		imagePath := filepath.Join(dir, "data.nii.gz")
		info := NewSimpleInfo("subj1", imagePath,
			&staticProtocolLoader{proto: protocol.New()}, maskPath, filepath.Join(dir, "output")).
			WithGradientDeviations(filepath.Join(dir, "grad_dev.nii.gz")).
			WithNoiseStd(imagedata.NoiseStd{Scalar: 1.5})

		data, err := info.ProblemData()
		So(err, ShouldBeNil)
		So(data, ShouldNotBeNil)
		So(gotImage, ShouldEqual, imagePath)
		So(gotMask, ShouldEqual, maskPath)
		So(gotOpts.GradientDeviationsPath, ShouldEqual, filepath.Join(dir, "grad_dev.nii.gz"))
		So(gotOpts.NoiseStd.Scalar, ShouldEqual, 1.5)
	})
}
