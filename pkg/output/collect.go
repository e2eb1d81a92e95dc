package output

import (
	"io"
	"os"
	"path/filepath"

	"github.com/voxelfit/batchfit/pkg/selection"
	"go.uber.org/zap"
)

// CollectOptions control how discovered outputs are placed into the
// collection directory.
type CollectOptions struct {
	// Symlink creates symlinks instead of copying.
	Symlink bool

	// Move moves the output directories to their new position. Move
	// overrules Symlink when both are set.
	Move bool
}

// CollectBatchFitOutput gathers every existing model output of every
// selected subject into <outputDir>/<subject_id>/<model_name>. Stale
// entries at a destination are removed first, so the destination always
// reflects the requested mode.
func CollectBatchFitOutput(dataRoot, outputDir, profileName string, sel selection.Selection, opts CollectOptions) error {
	_, err := RunFunctionOnBatchFitOutput(dataRoot, func(info SubjectOutputInfo) (interface{}, error) {
		subjectDir := filepath.Join(outputDir, info.SubjectID())
		if err := os.MkdirAll(subjectDir, 0755); err != nil {
			return nil, err
		}

		dest := filepath.Join(subjectDir, info.ModelName)
		if err := removeStale(dest); err != nil {
			return nil, err
		}

		zap.S().Debugw("collecting model output",
			"subject", info.SubjectID(), "model", info.ModelName, "dest", dest)

		switch {
		case opts.Move:
			return dest, moveTree(info.OutputPath, dest)
		case opts.Symlink:
			return dest, os.Symlink(info.OutputPath, dest)
		default:
			return dest, copyTree(info.OutputPath, dest)
		}
	}, profileName, sel)
	return err
}

// removeStale removes a pre-existing file, symlink or directory at path.
func removeStale(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if info.Mode()&os.ModeSymlink != 0 || !info.IsDir() {
		return os.Remove(path)
	}
	return os.RemoveAll(path)
}

// moveTree renames the directory, falling back to copy and delete when the
// rename crosses filesystems.
func moveTree(src, dest string) error {
	if err := os.Rename(src, dest); err == nil {
		return nil
	}
	if err := copyTree(src, dest); err != nil {
		return err
	}
	return os.RemoveAll(src)
}

func copyTree(src, dest string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, rel)
		if info.IsDir() {
			return os.MkdirAll(target, info.Mode())
		}
		return copyFile(path, target, info.Mode())
	})
}

func copyFile(src, dest string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
