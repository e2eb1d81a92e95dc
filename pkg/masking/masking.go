package masking

import (
	"fmt"

	"github.com/voxelfit/batchfit/pkg/protocol"
)

// CreateMaskFunc writes a brain mask for the given dMRI image to the output
// path. The median-otsu implementation lives with the image IO collaborator
// and is registered at startup.
type CreateMaskFunc func(imagePath string, p *protocol.Protocol, outputMaskPath string) error

var createMask CreateMaskFunc

// Register registers the brain mask generation implementation.
func Register(f CreateMaskFunc) {
	createMask = f
}

// CreateWriteMedianOtsuBrainMask generates a brain mask for the image and
// writes it to outputMaskPath using the registered implementation.
func CreateWriteMedianOtsuBrainMask(imagePath string, p *protocol.Protocol, outputMaskPath string) error {
	if createMask == nil {
		return fmt.Errorf("no brain mask generator registered")
	}
	return createMask(imagePath, p, outputMaskPath)
}
