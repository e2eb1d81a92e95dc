package profile

import (
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
	"github.com/voxelfit/batchfit/pkg/subject"
	"github.com/voxelfit/batchfit/pkg/tools/imagepath"
)

// DefaultOutputBaseDir is the standard per subject output directory name.
const DefaultOutputBaseDir = "output"

// DefaultModelsToFit is the list of cascade model names fitted to every
// subject when no batch options override it.
var DefaultModelsToFit = []string{
	"BallStick (Cascade)",
	"Tensor (Cascade)",
	"Noddi (Cascade)",
	"Charmed_r1 (Cascade)",
}

// BatchProfile discovers the subjects and the models to fit for one
// directory layout convention. The engine is profile agnostic; concrete
// profiles implement layout specific discovery.
type BatchProfile interface {
	// Name returns the registry name of this profile.
	Name() string

	// SetRootDir sets the directory searched for batch fit subjects.
	SetRootDir(rootDir string)
	RootDir() string

	// ModelsToFit returns the model names fitted to every found subject.
	ModelsToFit() []string

	// GetSubjects returns the discovered subjects, discovering them on the
	// first call and reusing the cached result afterwards.
	GetSubjects() ([]subject.Info, error)

	// ProfileSuitable reports whether this profile can load at least one
	// subject from the root directory.
	ProfileSuitable() (bool, error)

	// GetSubjectsCount returns the number of discovered subjects.
	GetSubjectsCount() (int, error)
}

// DiscoverFunc is the layout specific discovery hook of a
// SimpleBatchProfile.
type DiscoverFunc func(p *SimpleBatchProfile) ([]subject.Info, error)

// SimpleBatchProfile is a base for quickly implementing a batch profile:
// concrete layouts only provide a DiscoverFunc. Discovery runs at most once
// per configuration; the setters that affect output paths invalidate the
// cached subject list.
type SimpleBatchProfile struct {
	name          string
	rootDir       string
	subjectsFound []subject.Info
	discovered    bool

	outputBaseDir                string
	outputSubDir                 string
	appendMaskNameToOutputSubDir bool
	modelsToFit                  []string

	discover DiscoverFunc
}

// NewSimpleBatchProfile returns a profile with the default output policy
// and the default model list.
func NewSimpleBatchProfile(name string, discover DiscoverFunc) *SimpleBatchProfile {
	return &SimpleBatchProfile{
		name:                         name,
		outputBaseDir:                DefaultOutputBaseDir,
		appendMaskNameToOutputSubDir: true,
		modelsToFit:                  DefaultModelsToFit,
		discover:                     discover,
	}
}

func (p *SimpleBatchProfile) Name() string {
	return p.name
}

func (p *SimpleBatchProfile) SetRootDir(rootDir string) {
	p.rootDir = rootDir
	p.invalidate()
}

func (p *SimpleBatchProfile) RootDir() string {
	return p.rootDir
}

// OutputBaseDir returns the per subject output directory name.
func (p *SimpleBatchProfile) OutputBaseDir() string {
	return p.outputBaseDir
}

// SetOutputBaseDir changes the output directory name and invalidates the
// discovery cache.
func (p *SimpleBatchProfile) SetOutputBaseDir(dir string) {
	p.outputBaseDir = dir
	p.invalidate()
}

// OutputSubDir returns the optional sub directory placed inside the output
// base dir.
func (p *SimpleBatchProfile) OutputSubDir() string {
	return p.outputSubDir
}

// SetOutputSubDir changes the output sub directory and invalidates the
// discovery cache.
func (p *SimpleBatchProfile) SetOutputSubDir(dir string) {
	p.outputSubDir = dir
	p.invalidate()
}

// AppendMaskNameToOutputSubDir reports whether the mask basename is part of
// the subject output path, which keeps outputs of different masks disjoint.
func (p *SimpleBatchProfile) AppendMaskNameToOutputSubDir() bool {
	return p.appendMaskNameToOutputSubDir
}

// SetAppendMaskNameToOutputSubDir toggles the mask basename path component
// and invalidates the discovery cache.
func (p *SimpleBatchProfile) SetAppendMaskNameToOutputSubDir(append bool) {
	p.appendMaskNameToOutputSubDir = append
	p.invalidate()
}

func (p *SimpleBatchProfile) ModelsToFit() []string {
	out := make([]string, len(p.modelsToFit))
	copy(out, p.modelsToFit)
	return out
}

// SetModelsToFit overrides the model names fitted to every subject.
func (p *SimpleBatchProfile) SetModelsToFit(names []string) {
	p.modelsToFit = names
}

func (p *SimpleBatchProfile) invalidate() {
	p.subjectsFound = nil
	p.discovered = false
}

func (p *SimpleBatchProfile) GetSubjects() ([]subject.Info, error) {
	if !p.discovered {
		found, err := p.discover(p)
		if err != nil {
			return nil, err
		}
		p.subjectsFound = found
		p.discovered = true
	}
	return p.subjectsFound, nil
}

func (p *SimpleBatchProfile) ProfileSuitable() (bool, error) {
	subjects, err := p.GetSubjects()
	if err != nil {
		return false, err
	}
	return len(subjects) > 0, nil
}

func (p *SimpleBatchProfile) GetSubjectsCount() (int, error) {
	subjects, err := p.GetSubjects()
	if err != nil {
		return 0, err
	}
	return len(subjects), nil
}

// SubjectOutputDir composes the output directory for one subject:
// root/subject_id/output_base_dir[/output_sub_dir][/mask_basename]. The
// mask basename is appended only when configured and a mask filename is
// known.
func (p *SimpleBatchProfile) SubjectOutputDir(subjectID, maskFilename string) string {
	outputDir := filepath.Join(p.rootDir, subjectID, p.outputBaseDir)
	if p.outputSubDir != "" {
		outputDir = filepath.Join(outputDir, p.outputSubDir)
	}
	if p.appendMaskNameToOutputSubDir && maskFilename != "" {
		outputDir = filepath.Join(outputDir, imagepath.Basename(maskFilename))
	}
	return outputDir
}

// AutoloadNoiseStdPath probes for a noise_std.* file for the subject and
// returns the first match, or the empty string when none exists. The value
// is advisory: the caller decides how to parse the file.
func (p *SimpleBatchProfile) AutoloadNoiseStdPath(subjectID, filePath string) string {
	if filePath == "" {
		filePath = filepath.Join(p.rootDir, subjectID, "noise_std")
	}
	matches, err := filepath.Glob(filePath + ".*")
	if err != nil || len(matches) == 0 {
		return ""
	}
	return matches[0]
}

var _ BatchProfile = &SimpleBatchProfile{}

// noiseStdFromSidecar reads a scalar NoiseStd value from a BIDS style JSON
// sidecar file.
func noiseStdFromSidecar(path string) (float64, bool) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	result := gjson.GetBytes(content, "NoiseStd")
	if !result.Exists() {
		return 0, false
	}
	return result.Float(), true
}
