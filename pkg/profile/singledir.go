package profile

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/voxelfit/batchfit/pkg/protocol"
	"github.com/voxelfit/batchfit/pkg/subject"
	"github.com/voxelfit/batchfit/pkg/tools/imagepath"
)

// SingleDirName is the registry name of the flat single-directory layout
// profile.
const SingleDirName = "SingleDir"

func init() {
	Register(SingleDirName, func() BatchProfile {
		return NewSingleDirProfile()
	})
}

// NewSingleDirProfile returns a profile for the layout where all subjects
// live as flat files in the root directory:
//
//	root/<subject_id>.nii(.gz)
//	root/<subject_id>.bval + <subject_id>.bvec  (or <subject_id>.prtcl)
//	root/<subject_id>_mask.nii(.gz)             (optional)
func NewSingleDirProfile() *SimpleBatchProfile {
	return NewSimpleBatchProfile(SingleDirName, discoverSingleDir)
}

func discoverSingleDir(p *SimpleBatchProfile) ([]subject.Info, error) {
	entries, err := os.ReadDir(p.RootDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var subjects []subject.Info
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".nii") && !strings.HasSuffix(name, ".nii.gz") {
			continue
		}
		subjectID := imagepath.Basename(name)
		if strings.HasSuffix(subjectID, "_mask") || strings.HasPrefix(subjectID, "noise_std") {
			continue
		}

		imagePath := filepath.Join(p.RootDir(), name)
		protocolPath := firstExistingFile(p.RootDir(), subjectID+".prtcl")
		bvecPath := firstExistingFile(p.RootDir(), subjectID+".bvec")
		bvalPath := firstExistingFile(p.RootDir(), subjectID+".bval")
		if protocolPath == "" && (bvecPath == "" || bvalPath == "") {
			continue
		}

		maskPath := firstExistingFile(p.RootDir(), subjectID+"_mask.nii.gz", subjectID+"_mask.nii")
		loader := protocol.NewFileLoader(p.RootDir(), protocolPath, bvecPath, bvalPath)
		outputDir := p.SubjectOutputDir(subjectID, maskPath)

		info := subject.NewSimpleInfo(subjectID, imagePath, loader, maskPath, outputDir)
		noiseProbe := filepath.Join(p.RootDir(), subjectID+"_noise_std")
		if noiseStd, ok := probeNoiseStd(p, subjectID, noiseProbe); ok {
			info = info.WithNoiseStd(noiseStd)
		}
		subjects = append(subjects, info)
	}

	sort.Slice(subjects, func(i, j int) bool {
		return subjects[i].SubjectID() < subjects[j].SubjectID()
	})
	return subjects, nil
}
