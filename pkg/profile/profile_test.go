package profile

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/voxelfit/batchfit/pkg/subject"
	_ "github.com/voxelfit/batchfit/pkg/tools/log"
)

func fakeDiscovery(ids ...string) DiscoverFunc {
	return func(p *SimpleBatchProfile) ([]subject.Info, error) {
		subjects := make([]subject.Info, len(ids))
		for i, id := range ids {
			subjects[i] = subject.NewSimpleInfo(id, "", nil, "unused_mask", "")
		}
		return subjects, nil
	}
}

func TestSubjectOutputDir(t *testing.T) {
	Convey("the subject output dir composition", t, func() {
		p := NewSimpleBatchProfile("test", fakeDiscovery())
		p.SetRootDir("root")

		Convey("defaults append the mask basename", func() {
			So(p.SubjectOutputDir("subj1", "brain_mask.nii.gz"),
				ShouldEqual, filepath.Join("root", "subj1", "output", "brain_mask"))
		})

		Convey("an unknown mask omits the mask component", func() {
			So(p.SubjectOutputDir("subj1", ""),
				ShouldEqual, filepath.Join("root", "subj1", "output"))
		})

		Convey("the output sub dir slots in between", func() {
			p.SetOutputSubDir("run2")
			So(p.SubjectOutputDir("subj1", "brain_mask.nii.gz"),
				ShouldEqual, filepath.Join("root", "subj1", "output", "run2", "brain_mask"))
		})

		Convey("mask name appending can be turned off", func() {
			p.SetAppendMaskNameToOutputSubDir(false)
			So(p.SubjectOutputDir("subj1", "brain_mask.nii.gz"),
				ShouldEqual, filepath.Join("root", "subj1", "output"))
		})
	})
}

func TestDiscoveryMemoization(t *testing.T) {
	Convey("discovery runs at most once per configuration", t, func() {
		runs := 0
		p := NewSimpleBatchProfile("test", func(p *SimpleBatchProfile) ([]subject.Info, error) {
			runs++
			return fakeDiscovery("s1", "s2")(p)
		})
		p.SetRootDir("root")

		suitable, err := p.ProfileSuitable()
		So(err, ShouldBeNil)
		So(suitable, ShouldBeTrue)

		count, err := p.GetSubjectsCount()
		So(err, ShouldBeNil)
		So(count, ShouldEqual, 2)

		_, err = p.GetSubjects()
		So(err, ShouldBeNil)
		So(runs, ShouldEqual, 1)

		Convey("changing the output base dir forces re-discovery", func() {
			p.SetOutputBaseDir("out2")
			_, err := p.GetSubjects()
			So(err, ShouldBeNil)
			So(runs, ShouldEqual, 2)
		})

		Convey("changing the output sub dir forces re-discovery", func() {
			p.SetOutputSubDir("sub")
			_, err := p.GetSubjects()
			So(err, ShouldBeNil)
			So(runs, ShouldEqual, 2)
		})
	})
}

func TestGetBestBatchProfile(t *testing.T) {
	Register("fake_small", func() BatchProfile {
		return NewSimpleBatchProfile("fake_small", fakeDiscovery("a", "b", "c"))
	})
	Register("fake_large", func() BatchProfile {
		return NewSimpleBatchProfile("fake_large", fakeDiscovery("a", "b", "c", "d", "e"))
	})

	Convey("the suitable profile with the largest subject count wins", t, func() {
		best, err := GetBestBatchProfile(t.TempDir())
		So(err, ShouldBeNil)
		So(best.Name(), ShouldEqual, "fake_large")

		count, err := best.GetSubjectsCount()
		So(err, ShouldBeNil)
		So(count, ShouldEqual, 5)
	})

	Convey("an explicit profile name bypasses auto detection", t, func() {
		p, err := ResolveProfile("fake_small", "somedir")
		So(err, ShouldBeNil)
		So(p.Name(), ShouldEqual, "fake_small")
		So(p.RootDir(), ShouldEqual, "somedir")
	})

	Convey("a profile reusing another layout's constructor reports its registry name", t, func() {
		Register("relabeled", func() BatchProfile {
			return NewDirPerSubjectProfile()
		})

		p, err := Get("relabeled")
		So(err, ShouldBeNil)
		So(p.Name(), ShouldEqual, "relabeled")
	})
}

func TestDirPerSubjectDiscovery(t *testing.T) {
	Convey("dir per subject discovery", t, func() {
		root := t.TempDir()

		makeSubject := func(id string, files map[string]string) {
			dir := filepath.Join(root, id)
			So(os.MkdirAll(dir, 0755), ShouldBeNil)
			for name, content := range files {
				So(os.WriteFile(filepath.Join(dir, name), []byte(content), 0644), ShouldBeNil)
			}
		}

		makeSubject("subj1", map[string]string{
			"data.nii.gz":  "img",
			"bval":         "0 1000\n",
			"bvec":         "1 0\n0 1\n0 0\n",
			"mask.nii.gz":  "mask",
			"grad_dev.nii": "grad",
		})
		makeSubject("subj2", map[string]string{
			"subj2.nii.gz": "img",
			"bvals":        "0 1000\n",
			"bvecs":        "1 0\n0 1\n0 0\n",
		})
		// not a subject: no image
		makeSubject("notes", map[string]string{"readme.txt": "hi"})
		// not a subject: image but no protocol data
		makeSubject("incomplete", map[string]string{"data.nii.gz": "img"})

		p := NewDirPerSubjectProfile()
		p.SetRootDir(root)

		subjects, err := p.GetSubjects()
		So(err, ShouldBeNil)
		So(len(subjects), ShouldEqual, 2)
		So(subjects[0].SubjectID(), ShouldEqual, "subj1")
		So(subjects[1].SubjectID(), ShouldEqual, "subj2")

		Convey("a known mask lands in the output path", func() {
			So(subjects[0].OutputDir(),
				ShouldEqual, filepath.Join(root, "subj1", "output", "mask"))
		})

		Convey("without a mask the output path has no mask component", func() {
			So(subjects[1].OutputDir(),
				ShouldEqual, filepath.Join(root, "subj2", "output"))
		})

		Convey("a missing root yields no subjects rather than an error", func() {
			empty := NewDirPerSubjectProfile()
			empty.SetRootDir(filepath.Join(root, "does-not-exist"))
			suitable, err := empty.ProfileSuitable()
			So(err, ShouldBeNil)
			So(suitable, ShouldBeFalse)
		})
	})
}

func TestSingleDirDiscovery(t *testing.T) {
	Convey("single dir discovery", t, func() {
		root := t.TempDir()
		write := func(name, content string) {
			So(os.WriteFile(filepath.Join(root, name), []byte(content), 0644), ShouldBeNil)
		}

		write("alpha.nii.gz", "img")
		write("alpha.bval", "0 1000\n")
		write("alpha.bvec", "1 0\n0 1\n0 0\n")
		write("alpha_mask.nii.gz", "mask")
		write("beta.nii", "img")
		write("beta.prtcl", "# b\n0\n1000\n")
		// mask files must not become subjects
		write("gamma_mask.nii.gz", "mask")

		p := NewSingleDirProfile()
		p.SetRootDir(root)

		subjects, err := p.GetSubjects()
		So(err, ShouldBeNil)
		So(len(subjects), ShouldEqual, 2)
		So(subjects[0].SubjectID(), ShouldEqual, "alpha")
		So(subjects[1].SubjectID(), ShouldEqual, "beta")
		So(subjects[0].OutputDir(),
			ShouldEqual, filepath.Join(root, "alpha", "output", "alpha_mask"))
	})
}

func TestNoiseStdProbing(t *testing.T) {
	Convey("noise std probing", t, func() {
		root := t.TempDir()
		subjectDir := filepath.Join(root, "subj1")
		So(os.MkdirAll(subjectDir, 0755), ShouldBeNil)

		p := NewSimpleBatchProfile("test", fakeDiscovery())
		p.SetRootDir(root)

		Convey("no file means no advisory path", func() {
			So(p.AutoloadNoiseStdPath("subj1", ""), ShouldEqual, "")
			_, ok := probeNoiseStd(p, "subj1", "")
			So(ok, ShouldBeFalse)
		})

		Convey("a per voxel noise volume is passed through as a path", func() {
			path := filepath.Join(subjectDir, "noise_std.nii.gz")
			So(os.WriteFile(path, []byte("vol"), 0644), ShouldBeNil)

			noiseStd, ok := probeNoiseStd(p, "subj1", "")
			So(ok, ShouldBeTrue)
			So(noiseStd.PerVoxel, ShouldEqual, path)
		})

		Convey("a JSON sidecar yields a scalar", func() {
			path := filepath.Join(subjectDir, "noise_std.json")
			So(os.WriteFile(path, []byte(`{"NoiseStd": 3.5}`), 0644), ShouldBeNil)

			noiseStd, ok := probeNoiseStd(p, "subj1", "")
			So(ok, ShouldBeTrue)
			So(noiseStd.Scalar, ShouldEqual, 3.5)
		})
	})
}
