package profile

import (
	"sort"

	cmap "github.com/orcaman/concurrent-map"
	"github.com/voxelfit/batchfit/pkg/tools/errorutils"
	"go.uber.org/zap"
)

// Factory creates a fresh, unbound profile instance.
type Factory func() BatchProfile

var registry = cmap.New()

// Register registers a profile factory under the given name.
func Register(name string, f Factory) {
	registry.Set(name, f)
}

// Get returns a fresh instance of the named profile. The registry key is
// authoritative: factories may reuse another layout's constructor, so the
// instance is stamped with the name it was registered under.
func Get(name string) (BatchProfile, error) {
	value, ok := registry.Get(name)
	if !ok {
		return nil, &errorutils.NoSuitableProfileError{Dir: "registry has no profile named " + name}
	}
	p := value.(Factory)()
	if sp, ok := p.(*SimpleBatchProfile); ok {
		sp.name = name
	}
	return p, nil
}

// registeredNames returns all profile names sorted, so resolution order is
// deterministic.
func registeredNames() []string {
	names := registry.Keys()
	sort.Strings(names)
	return names
}

// GetBestBatchProfile instantiates every registered profile, binds it to
// the data dir and returns the suitable one with the strictly largest
// subject count. Ties keep the first profile encountered. When no profile
// is suitable a NoSuitableProfileError is returned.
func GetBestBatchProfile(dataDir string) (BatchProfile, error) {
	var best BatchProfile
	bestCount := 0

	for _, name := range registeredNames() {
		candidate, err := Get(name)
		if err != nil {
			return nil, err
		}
		candidate.SetRootDir(dataDir)

		suitable, err := candidate.ProfileSuitable()
		if err != nil {
			zap.S().Warnw("profile discovery failed, skipping", "profile", name, "dir", dataDir, "err", err)
			continue
		}
		if !suitable {
			continue
		}

		count, err := candidate.GetSubjectsCount()
		if err != nil {
			continue
		}
		if count > bestCount {
			best = candidate
			bestCount = count
		}
	}

	if best == nil {
		return nil, &errorutils.NoSuitableProfileError{Dir: dataDir}
	}
	zap.S().Infow("selected batch profile", "profile", best.Name(), "subjects", bestCount)
	return best, nil
}

// ResolveProfile returns the profile to use for the data dir: the named
// registered profile when name is non empty, else the best matching one.
// In both cases the returned profile is bound to the data dir.
func ResolveProfile(name, dataDir string) (BatchProfile, error) {
	if name == "" {
		return GetBestBatchProfile(dataDir)
	}
	p, err := Get(name)
	if err != nil {
		return nil, err
	}
	p.SetRootDir(dataDir)
	return p, nil
}
