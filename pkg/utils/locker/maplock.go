package locker

import "sync"

// MapLocker provides one mutex per string key, created on first use. It
// serializes work on a shared resource identified by the key, such as a
// mask file generated once per subject.
type MapLocker struct {
	mu      sync.Mutex
	lockers map[string]*sync.Mutex
}

func NewMapLocker() *MapLocker {
	return &MapLocker{
		lockers: make(map[string]*sync.Mutex),
	}
}

func (ml *MapLocker) Lock(key string) {
	ml.locker(key).Lock()
}

func (ml *MapLocker) Unlock(key string) {
	ml.locker(key).Unlock()
}

func (ml *MapLocker) locker(key string) *sync.Mutex {
	ml.mu.Lock()
	defer ml.mu.Unlock()
	if _, ok := ml.lockers[key]; !ok {
		ml.lockers[key] = &sync.Mutex{}
	}
	return ml.lockers[key]
}
