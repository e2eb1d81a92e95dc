package output

import (
	"os"
	"path/filepath"

	"github.com/voxelfit/batchfit/pkg/models"
	"github.com/voxelfit/batchfit/pkg/profile"
	"github.com/voxelfit/batchfit/pkg/selection"
	"github.com/voxelfit/batchfit/pkg/subject"
	"github.com/voxelfit/batchfit/pkg/tools/imagepath"
)

// SubjectOutputInfo pairs a subject with one resolved model's existing
// output directory. It only lives during output walking.
type SubjectOutputInfo struct {
	Subject    subject.Info
	OutputPath string
	ModelName  string
}

// SubjectID returns the id of the subject the output belongs to.
func (s SubjectOutputInfo) SubjectID() string {
	return s.Subject.SubjectID()
}

// MaskName returns the basename of the subject's mask.
func (s SubjectOutputInfo) MaskName() (string, error) {
	maskPath, err := s.Subject.MaskFilename()
	if err != nil {
		return "", err
	}
	return imagepath.Basename(maskPath), nil
}

// BatchFitOutputInfo is the single point of information about batch
// fitting output in a data folder.
type BatchFitOutputInfo struct {
	dataRoot string
	profile  profile.BatchProfile
	subjects []subject.Info
}

// NewBatchFitOutputInfo resolves the profile (auto detected when
// profileName is empty), applies the selection (all subjects when nil) and
// returns the walker over the existing outputs.
func NewBatchFitOutputInfo(dataRoot, profileName string, sel selection.Selection) (*BatchFitOutputInfo, error) {
	prof, err := profile.ResolveProfile(profileName, dataRoot)
	if err != nil {
		return nil, err
	}
	if sel == nil {
		sel = selection.AllSubjects{}
	}

	subjects, err := prof.GetSubjects()
	if err != nil {
		return nil, err
	}
	selected, err := sel.GetSelection(subjects)
	if err != nil {
		return nil, err
	}

	return &BatchFitOutputInfo{
		dataRoot: dataRoot,
		profile:  prof,
		subjects: selected,
	}, nil
}

// Walk calls fn for every selected subject and resolved leaf model whose
// output directory exists on disk. Subjects or models without output
// produce no calls. The leaf model set is resolved once for the whole
// batch.
func (o *BatchFitOutputInfo) Walk(fn func(info SubjectOutputInfo) error) error {
	modelNames, err := models.ResolveModelNames(o.profile.ModelsToFit())
	if err != nil {
		return err
	}

	for _, subj := range o.subjects {
		for _, modelName := range modelNames {
			outputPath := filepath.Join(subj.OutputDir(), modelName)
			stat, err := os.Stat(outputPath)
			if err != nil || !stat.IsDir() {
				continue
			}
			if err := fn(SubjectOutputInfo{
				Subject:    subj,
				OutputPath: outputPath,
				ModelName:  modelName,
			}); err != nil {
				return err
			}
		}
	}
	return nil
}

// RunFunctionOnBatchFitOutput applies fn to every existing model output of
// every selected subject and accumulates the return values into a mapping
// keyed first by subject id and then by model name.
func RunFunctionOnBatchFitOutput(dataRoot string, fn func(info SubjectOutputInfo) (interface{}, error),
	profileName string, sel selection.Selection) (map[string]map[string]interface{}, error) {

	walker, err := NewBatchFitOutputInfo(dataRoot, profileName, sel)
	if err != nil {
		return nil, err
	}

	results := make(map[string]map[string]interface{})
	err = walker.Walk(func(info SubjectOutputInfo) error {
		value, err := fn(info)
		if err != nil {
			return err
		}
		perSubject, ok := results[info.SubjectID()]
		if !ok {
			perSubject = make(map[string]interface{})
			results[info.SubjectID()] = perSubject
		}
		perSubject[info.ModelName] = value
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}
