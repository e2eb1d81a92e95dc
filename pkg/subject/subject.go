package subject

import (
	"os"
	"path/filepath"

	"github.com/voxelfit/batchfit/pkg/imagedata"
	"github.com/voxelfit/batchfit/pkg/masking"
	"github.com/voxelfit/batchfit/pkg/protocol"
	"github.com/voxelfit/batchfit/pkg/utils/locker"
	"go.uber.org/zap"
)

// maskLocker serializes mask generation per mask path, so concurrent
// callers do not generate the same mask twice.
var maskLocker = locker.NewMapLocker()

// AutoGeneratedMaskName is the filename used for the brain mask when a
// subject was discovered without one.
const AutoGeneratedMaskName = "auto_generated_mask.nii.gz"

// Info describes one discovered subject's inputs. Instances are created by
// a batch profile during discovery and are immutable afterwards.
type Info interface {
	SubjectID() string
	OutputDir() string

	// MaskFilename returns the path of the mask to use. When the mask file
	// does not exist on disk yet, a brain mask is generated as a side
	// effect of the first call.
	MaskFilename() (string, error)

	// ProblemData assembles the image, protocol and mask into the bundle
	// the fitting engine consumes.
	ProblemData() (imagedata.ProblemData, error)
}

// SimpleInfo is the default Info implementation used by the bundled batch
// profiles.
type SimpleInfo struct {
	subjectID              string
	imagePath              string
	protocolLoader         protocol.Loader
	maskPath               string
	outputDir              string
	gradientDeviationsPath string
	noiseStd               imagedata.NoiseStd
}

// NewSimpleInfo returns the info for one discovered subject. An empty
// maskPath selects mask auto generation under the subject output dir.
func NewSimpleInfo(subjectID, imagePath string, loader protocol.Loader, maskPath, outputDir string) *SimpleInfo {
	if maskPath == "" {
		maskPath = filepath.Join(outputDir, AutoGeneratedMaskName)
	}
	return &SimpleInfo{
		subjectID:      subjectID,
		imagePath:      imagePath,
		protocolLoader: loader,
		maskPath:       maskPath,
		outputDir:      outputDir,
	}
}

// WithGradientDeviations sets the optional gradient deviations path.
func (s *SimpleInfo) WithGradientDeviations(path string) *SimpleInfo {
	s.gradientDeviationsPath = path
	return s
}

// WithNoiseStd sets the noise std to use during fitting.
func (s *SimpleInfo) WithNoiseStd(noiseStd imagedata.NoiseStd) *SimpleInfo {
	s.noiseStd = noiseStd
	return s
}

func (s *SimpleInfo) SubjectID() string {
	return s.subjectID
}

func (s *SimpleInfo) OutputDir() string {
	return s.outputDir
}

// ImagePath returns the path of the dMRI image.
func (s *SimpleInfo) ImagePath() string {
	return s.imagePath
}

// NoiseStd returns the configured noise std.
func (s *SimpleInfo) NoiseStd() imagedata.NoiseStd {
	return s.noiseStd
}

// Protocol resolves the acquisition protocol through the subject's loader.
func (s *SimpleInfo) Protocol() (*protocol.Protocol, error) {
	return s.protocolLoader.GetProtocol()
}

func (s *SimpleInfo) MaskFilename() (string, error) {
	maskLocker.Lock(s.maskPath)
	defer maskLocker.Unlock(s.maskPath)

	if _, err := os.Stat(s.maskPath); err == nil {
		return s.maskPath, nil
	}

	zap.S().Infow("creating a brain mask for subject", "subject", s.subjectID, "mask", s.maskPath)
	proto, err := s.protocolLoader.GetProtocol()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(s.maskPath), 0755); err != nil {
		return "", err
	}
	if err := masking.CreateWriteMedianOtsuBrainMask(s.imagePath, proto, s.maskPath); err != nil {
		return "", err
	}
	return s.maskPath, nil
}

func (s *SimpleInfo) ProblemData() (imagedata.ProblemData, error) {
	proto, err := s.protocolLoader.GetProtocol()
	if err != nil {
		return nil, err
	}
	maskPath, err := s.MaskFilename()
	if err != nil {
		return nil, err
	}
	return imagedata.LoadProblemData(s.imagePath, proto, maskPath, imagedata.LoadOptions{
		GradientDeviationsPath: s.gradientDeviationsPath,
		NoiseStd:               s.noiseStd,
	})
}

var _ Info = &SimpleInfo{}
