package cmd

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/voxelfit/batchfit/pkg/imagedata"
	"github.com/voxelfit/batchfit/pkg/models"
	"github.com/voxelfit/batchfit/pkg/processing"
	"github.com/voxelfit/batchfit/pkg/profile"
	"github.com/voxelfit/batchfit/pkg/protocol"
	"github.com/voxelfit/batchfit/pkg/volume"
)

const cmdTestProfileName = "cmd_test_profile"

type cmdFakeData struct {
	mask *volume.Mask
}

func (d *cmdFakeData) Mask() *volume.Mask           { return d.mask }
func (d *cmdFakeData) VolumeHeader() *volume.Header { return &volume.Header{Dims: d.mask.Dims} }

type cmdFakeWorker struct {
	processedDirs []string
}

func (w *cmdFakeWorker) OutputExists(model models.Model, data imagedata.ProblemData, chunkDir string) bool {
	_, err := os.Stat(filepath.Join(chunkDir, "done"))
	return err == nil
}

func (w *cmdFakeWorker) Process(model models.Model, data imagedata.ProblemData,
	chunkMask *volume.Mask, chunkDir string) error {

	w.processedDirs = append(w.processedDirs, filepath.Base(chunkDir))
	if err := os.MkdirAll(chunkDir, 0755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(chunkDir, "done"), []byte("ok"), 0644)
}

func (w *cmdFakeWorker) Combine(outputPath, chunksDir string) (map[string]*volume.Map, error) {
	return map[string]*volume.Map{"w": {}}, nil
}

func TestMain(m *testing.M) {
	models.Register("S0", func() models.Model {
		return models.NewLeafModel("S0")
	})
	profile.Register(cmdTestProfileName, func() profile.BatchProfile {
		p := profile.NewDirPerSubjectProfile()
		p.SetModelsToFit([]string{"S0"})
		return p
	})
	imagedata.RegisterLoader(func(imagePath string, p *protocol.Protocol, maskPath string,
		opts imagedata.LoadOptions) (imagedata.ProblemData, error) {

		mask := volume.NewMask([3]int{4, 1, 1})
		for i := range mask.Data {
			mask.Data[i] = true
		}
		return &cmdFakeData{mask: mask}, nil
	})
	volume.RegisterWriter(func(maps map[string]*volume.Map, dir string, header *volume.Header) error {
		for name := range maps {
			if err := os.WriteFile(filepath.Join(dir, name), []byte("map"), 0644); err != nil {
				return err
			}
		}
		return nil
	})
	os.Exit(m.Run())
}

func makeSubjectDir(t *testing.T) string {
	root := t.TempDir()
	dir := filepath.Join(root, "subj1")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		"data.nii.gz": "img",
		"bval":        "0 1000 2000\n",
		"bvec":        "1 0 0\n0 1 0\n0 0 1\n",
		"mask.nii.gz": "mask",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestOptionsFileChunkSize(t *testing.T) {
	Convey("the options file chunk size reaches the processing strategy", t, func() {
		root := makeSubjectDir(t)

		optionsPath := filepath.Join(t.TempDir(), "options.yaml")
		So(os.WriteFile(optionsPath, []byte("nmrVoxels: 1\n"), 0644), ShouldBeNil)

		worker := &cmdFakeWorker{}
		processing.RegisterWorker(func() processing.Worker { return worker })

		rootCmd.SetArgs([]string{
			"--root", root,
			"--profile", cmdTestProfileName,
			"--options", optionsPath,
		})
		So(rootCmd.Execute(), ShouldBeNil)

		// 4 active voxels, one per chunk
		So(worker.processedDirs, ShouldResemble, []string{"0_1", "1_2", "2_3", "3_4"})
	})
}
