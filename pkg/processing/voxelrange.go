package processing

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/voxelfit/batchfit/pkg/env"
	"github.com/voxelfit/batchfit/pkg/imagedata"
	"github.com/voxelfit/batchfit/pkg/models"
	"github.com/voxelfit/batchfit/pkg/prom"
	"github.com/voxelfit/batchfit/pkg/volume"
	"go.uber.org/zap"
)

const (
	// ChunksSubDir is the scratch directory name under the model output
	// path. The layout under it is part of the on disk contract.
	ChunksSubDir = "chunks"

	// ChunkMaskMapName is the reserved map name under which every chunk
	// persists its own mask for traceability.
	ChunkMaskMapName = "__mask"
)

// ChunkRange is a half open [Start, End) range into the flattened list of
// active mask voxel positions.
type ChunkRange struct {
	Start int
	End   int
}

// DirName returns the on disk directory name of this chunk.
func (r ChunkRange) DirName() string {
	return fmt.Sprintf("%d_%d", r.Start, r.End)
}

// ChunkRanges partitions [0, total) into consecutive, non overlapping, gap
// free ranges of at most size voxels each. A non positive size falls back
// to the default chunk size.
func ChunkRanges(total, size int) []ChunkRange {
	if size <= 0 {
		size = env.DefaultNmrVoxels
	}
	var ranges []ChunkRange
	for start := 0; start < total; start += size {
		end := start + size
		if end > total {
			end = total
		}
		ranges = append(ranges, ChunkRange{Start: start, End: end})
	}
	return ranges
}

// VoxelRange processes a model in chunks defined by ranges of voxels. Every
// chunk's output is checkpointed in its own directory; chunks whose output
// already exists are skipped, which makes re-invocation after a partial
// failure cheap.
type VoxelRange struct {
	// NmrVoxels is the number of voxels per chunk.
	NmrVoxels int
}

// NewVoxelRange returns a strategy with the given chunk size, defaulting
// when nmrVoxels is not positive.
func NewVoxelRange(nmrVoxels int) *VoxelRange {
	if nmrVoxels <= 0 {
		nmrVoxels = env.DefaultNmrVoxels
	}
	return &VoxelRange{NmrVoxels: nmrVoxels}
}

// Run fits the model on all active voxels of the problem data, chunk by
// chunk in increasing start order, then merges the chunk outputs into
// outputPath and removes the scratch chunks directory. A worker error on
// any chunk aborts the run and leaves the completed chunk directories in
// place. A merge error leaves the whole chunks directory in place.
func (s *VoxelRange) Run(model models.Model, data imagedata.ProblemData, outputPath string,
	recalculate bool, worker Worker) (map[string]*volume.Map, error) {

	mask := data.Mask()
	totalVoxels := mask.CountNonzero()
	chunksDir := filepath.Join(outputPath, ChunksSubDir)

	if err := s.prepareChunksDir(chunksDir, recalculate); err != nil {
		return nil, err
	}

	for _, chunk := range ChunkRanges(totalVoxels, s.NmrVoxels) {
		chunkMask := mask.ChunkMask(chunk.Start, chunk.End)
		if err := s.runOnChunk(model, data, chunksDir, recalculate, worker, chunk, chunkMask, totalVoxels); err != nil {
			return nil, err
		}
	}

	zap.S().Infow("computed all chunks, merging the results",
		"model", model.Name(), "outputPath", outputPath)
	result, err := worker.Combine(outputPath, chunksDir)
	if err != nil {
		return nil, err
	}
	if err := os.RemoveAll(chunksDir); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *VoxelRange) prepareChunksDir(chunksDir string, recalculate bool) error {
	if recalculate {
		if err := os.RemoveAll(chunksDir); err != nil {
			return err
		}
	}
	return os.MkdirAll(chunksDir, 0755)
}

func (s *VoxelRange) runOnChunk(model models.Model, data imagedata.ProblemData, chunksDir string,
	recalculate bool, worker Worker, chunk ChunkRange, chunkMask *volume.Mask, totalVoxels int) error {

	chunkDir := filepath.Join(chunksDir, chunk.DirName())

	if recalculate {
		if _, err := os.Stat(chunkDir); err == nil {
			if err := os.RemoveAll(chunkDir); err != nil {
				return err
			}
		}
	}

	if worker.OutputExists(model, data, chunkDir) {
		zap.S().Infow("skipping voxels, they are already processed",
			"start", chunk.Start, "end", chunk.End)
		prom.ChunksSkipped.Inc()
		return nil
	}

	zap.S().Infow("computing voxels",
		"start", chunk.Start, "end", chunk.End, "totalVoxels", totalVoxels,
		"progress", fmt.Sprintf("%.2f%%", 100*float64(chunk.Start)/float64(totalVoxels)))

	if err := worker.Process(model, data, chunkMask, chunkDir); err != nil {
		return err
	}

	maskMap := map[string]*volume.Map{ChunkMaskMapName: volume.MaskToMap(chunkMask)}
	if err := volume.WriteVolumeMaps(maskMap, chunkDir, data.VolumeHeader()); err != nil {
		return err
	}
	prom.ChunksProcessed.Inc()
	return nil
}
