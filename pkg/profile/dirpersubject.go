package profile

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/voxelfit/batchfit/pkg/imagedata"
	"github.com/voxelfit/batchfit/pkg/protocol"
	"github.com/voxelfit/batchfit/pkg/subject"
)

// DirPerSubjectName is the registry name of the one-directory-per-subject
// layout profile.
const DirPerSubjectName = "DirPerSubject"

func init() {
	Register(DirPerSubjectName, func() BatchProfile {
		return NewDirPerSubjectProfile()
	})
}

// NewDirPerSubjectProfile returns a profile for the layout where every
// subdirectory of the root holds one subject:
//
//	root/<subject_id>/data.nii(.gz)  (or <subject_id>.nii(.gz))
//	root/<subject_id>/bval + bvec    (or a protocol file)
//	root/<subject_id>/mask.nii(.gz)  (optional)
func NewDirPerSubjectProfile() *SimpleBatchProfile {
	return NewSimpleBatchProfile(DirPerSubjectName, discoverDirPerSubject)
}

func discoverDirPerSubject(p *SimpleBatchProfile) ([]subject.Info, error) {
	entries, err := os.ReadDir(p.RootDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var subjects []subject.Info
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		subjectID := entry.Name()
		subjectDir := filepath.Join(p.RootDir(), subjectID)

		imagePath := firstExistingFile(subjectDir,
			"data.nii.gz", "data.nii", subjectID+".nii.gz", subjectID+".nii")
		if imagePath == "" {
			continue
		}

		protocolPath := firstExistingFile(subjectDir, "protocol.prtcl", subjectID+".prtcl")
		bvecPath := firstExistingFile(subjectDir, "bvec", "bvecs", "data.bvec", subjectID+".bvec")
		bvalPath := firstExistingFile(subjectDir, "bval", "bvals", "data.bval", subjectID+".bval")
		if protocolPath == "" && (bvecPath == "" || bvalPath == "") {
			continue
		}

		maskPath := firstExistingFile(subjectDir,
			"mask.nii.gz", "mask.nii", subjectID+"_mask.nii.gz", subjectID+"_mask.nii")
		gradDevPath := firstExistingFile(subjectDir, "grad_dev.nii.gz", "grad_dev.nii")

		loader := protocol.NewFileLoader(subjectDir, protocolPath, bvecPath, bvalPath)
		outputDir := p.SubjectOutputDir(subjectID, maskPath)

		info := subject.NewSimpleInfo(subjectID, imagePath, loader, maskPath, outputDir)
		if gradDevPath != "" {
			info = info.WithGradientDeviations(gradDevPath)
		}
		if noiseStd, ok := probeNoiseStd(p, subjectID, ""); ok {
			info = info.WithNoiseStd(noiseStd)
		}
		subjects = append(subjects, info)
	}

	sort.Slice(subjects, func(i, j int) bool {
		return subjects[i].SubjectID() < subjects[j].SubjectID()
	})
	return subjects, nil
}

// probeNoiseStd resolves the advisory noise_std file for a subject into a
// NoiseStd value: a scalar when the file is a JSON sidecar, else the path
// of a per voxel noise volume.
func probeNoiseStd(p *SimpleBatchProfile, subjectID, explicitPath string) (imagedata.NoiseStd, bool) {
	path := p.AutoloadNoiseStdPath(subjectID, explicitPath)
	if path == "" {
		return imagedata.NoiseStd{}, false
	}
	if strings.HasSuffix(path, ".json") {
		if scalar, ok := noiseStdFromSidecar(path); ok {
			return imagedata.NoiseStd{Scalar: scalar}, true
		}
		return imagedata.NoiseStd{}, false
	}
	return imagedata.NoiseStd{PerVoxel: path}, true
}

func firstExistingFile(dir string, names ...string) string {
	for _, name := range names {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}
