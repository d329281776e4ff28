package concurrent

import "sync"

type Map[K comparable, V any] struct {
	m   map[K]V
	mtx *sync.RWMutex
}

func NewMap[K comparable, V any]() Map[K, V] {
	return Map[K, V]{
		m:   make(map[K]V),
		mtx: new(sync.RWMutex),
	}
}

func (cm Map[K, V]) Load(k K) (V, bool) {
	cm.mtx.RLock()
	defer cm.mtx.RUnlock()

	v, ok := cm.m[k]
	return v, ok
}

func (cm Map[K, V]) Store(k K, v V) {
	cm.mtx.Lock()
	defer cm.mtx.Unlock()
	cm.m[k] = v
}

func (cm Map[K, V]) LoadAndDelete(k K) (V, bool) {
	cm.mtx.Lock()
	defer cm.mtx.Unlock()

	v, ok := cm.m[k]
	delete(cm.m, k)

	return v, ok
}

func (cm Map[K, V]) LoadOrStore(k K, v V) (V, bool) {
	cm.mtx.Lock()
	defer cm.mtx.Unlock()

	if v, ok := cm.m[k]; ok {
		return v, true
	}

	cm.m[k] = v
	return v, false
}

// Compute replaces the value for k under the write lock. The second return
// of f decides whether the entry is kept or deleted.
func (cm Map[K, V]) Compute(k K, f func(v V, ok bool) (V, bool)) {
	cm.mtx.Lock()
	defer cm.mtx.Unlock()

	v, keep := f(cm.m[k], hasKey(cm.m, k))
	if keep {
		cm.m[k] = v
	} else {
		delete(cm.m, k)
	}
}

func (cm Map[K, V]) Range(f func(k K, v V) bool) {
	cm.mtx.RLock()
	defer cm.mtx.RUnlock()

	for k, v := range cm.m {
		if !f(k, v) {
			break
		}
	}
}

func (cm Map[K, V]) Len() int {
	cm.mtx.RLock()
	defer cm.mtx.RUnlock()
	return len(cm.m)
}

func hasKey[K comparable, V any](m map[K]V, k K) bool {
	_, ok := m[k]
	return ok
}
