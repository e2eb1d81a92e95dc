package options

import (
	"os"

	"github.com/voxelfit/batchfit/pkg/profile"
	"gopkg.in/yaml.v3"
)

// Options is the yaml batch options file. Every field is optional; zero
// values leave the profile defaults untouched.
type Options struct {
	ModelsToFit                  []string `yaml:"modelsToFit"`
	OutputBaseDir                string   `yaml:"outputBaseDir"`
	OutputSubDir                 string   `yaml:"outputSubDir"`
	AppendMaskNameToOutputSubDir *bool    `yaml:"appendMaskNameToOutputSubDir"`
	NmrVoxels                    int      `yaml:"nmrVoxels"`
}

// Load reads and parses an options file.
func Load(path string) (*Options, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	opts := &Options{}
	if err := yaml.Unmarshal(content, opts); err != nil {
		return nil, err
	}
	return opts, nil
}

// Apply pushes the configured overrides onto the profile. Only profiles
// based on SimpleBatchProfile expose the setters; others are left as is.
func (o *Options) Apply(p profile.BatchProfile) {
	sp, ok := p.(*profile.SimpleBatchProfile)
	if !ok {
		return
	}
	if len(o.ModelsToFit) > 0 {
		sp.SetModelsToFit(o.ModelsToFit)
	}
	if o.OutputBaseDir != "" {
		sp.SetOutputBaseDir(o.OutputBaseDir)
	}
	if o.OutputSubDir != "" {
		sp.SetOutputSubDir(o.OutputSubDir)
	}
	if o.AppendMaskNameToOutputSubDir != nil {
		sp.SetAppendMaskNameToOutputSubDir(*o.AppendMaskNameToOutputSubDir)
	}
}
