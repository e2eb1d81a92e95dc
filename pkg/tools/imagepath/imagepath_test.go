package imagepath

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSplit(t *testing.T) {
	testcases := []struct {
		caseName string
		path     string
		dir      string
		base     string
		ext      string
	}{
		{
			caseName: "double extension",
			path:     "/data/subj1/brain_mask.nii.gz",
			dir:      "/data/subj1",
			base:     "brain_mask",
			ext:      ".nii.gz",
		},
		{
			caseName: "single extension",
			path:     "/data/subj1/data.nii",
			dir:      "/data/subj1",
			base:     "data",
			ext:      ".nii",
		},
		{
			caseName: "unknown extension falls back to filepath.Ext",
			path:     "/data/subj1/noise_std.txt",
			dir:      "/data/subj1",
			base:     "noise_std",
			ext:      ".txt",
		},
		{
			caseName: "no extension",
			path:     "/data/subj1/bvals",
			dir:      "/data/subj1",
			base:     "bvals",
			ext:      "",
		},
	}

	for _, testcase := range testcases {
		t.Log(testcase.caseName)
		Convey(testcase.caseName, t, func() {
			dir, base, ext := Split(testcase.path)
			So(dir, ShouldEqual, testcase.dir)
			So(base, ShouldEqual, testcase.base)
			So(ext, ShouldEqual, testcase.ext)
		})
	}
}

func TestBasename(t *testing.T) {
	Convey("basename strips the image extension", t, func() {
		So(Basename("/root/subj1/brain_mask.nii.gz"), ShouldEqual, "brain_mask")
	})
}
