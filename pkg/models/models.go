package models

import (
	"sort"

	cmap "github.com/orcaman/concurrent-map"
	"github.com/voxelfit/batchfit/pkg/tools/errorutils"
)

// Model is a fittable model known to the registry. The mathematical
// content of a model lives with the fitting engine; this module only needs
// the name and the cascade structure.
type Model interface {
	Name() string
}

// CascadeModel is a model defined as an ordered composition of other,
// possibly themselves cascaded, models.
type CascadeModel interface {
	Model
	ModelNames() []string
}

// ProtocolRequirer is optionally implemented by models that need specific
// protocol columns before they can be fitted.
type ProtocolRequirer interface {
	RequiredProtocolColumns() []string
}

// Factory creates a model instance.
type Factory func() Model

var registry = cmap.New()

// Register registers a model factory under the given name. A later
// registration under the same name replaces the earlier one.
func Register(name string, f Factory) {
	registry.Set(name, f)
}

// GetModel returns the model registered under the given name.
func GetModel(name string) (Model, error) {
	value, ok := registry.Get(name)
	if !ok {
		return nil, &errorutils.UnknownModelError{ModelName: name}
	}
	return value.(Factory)(), nil
}

// ListModelNames returns all registered model names, sorted.
func ListModelNames() []string {
	names := registry.Keys()
	sort.Strings(names)
	return names
}

type leafModel struct {
	name string
}

func (m *leafModel) Name() string {
	return m.name
}

// NewLeafModel returns a plain single model with the given name.
func NewLeafModel(name string) Model {
	return &leafModel{name: name}
}

type cascadeModel struct {
	name       string
	modelNames []string
}

func (m *cascadeModel) Name() string {
	return m.name
}

func (m *cascadeModel) ModelNames() []string {
	out := make([]string, len(m.modelNames))
	copy(out, m.modelNames)
	return out
}

// NewCascadeModel returns a cascade model composed of the given sub model
// names.
func NewCascadeModel(name string, modelNames []string) Model {
	return &cascadeModel{name: name, modelNames: modelNames}
}
