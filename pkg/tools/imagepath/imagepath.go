package imagepath

import (
	"path/filepath"
	"strings"
)

// image extensions with double suffixes listed first so they win the match
var imageExtensions = []string{".nii.gz", ".img.gz", ".nii", ".img", ".hdr", ".mnc"}

// Split splits an image path into the containing directory, the basename
// without extension and the extension. Double extensions like .nii.gz are
// treated as a single extension.
func Split(path string) (dir, base, ext string) {
	dir = filepath.Dir(path)
	name := filepath.Base(path)

	for _, candidate := range imageExtensions {
		if strings.HasSuffix(name, candidate) {
			return dir, strings.TrimSuffix(name, candidate), candidate
		}
	}

	ext = filepath.Ext(name)
	return dir, strings.TrimSuffix(name, ext), ext
}

// Basename returns the filename of an image path without its extension.
func Basename(path string) string {
	_, base, _ := Split(path)
	return base
}
