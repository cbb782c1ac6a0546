package coordinator

import "sync"

type (
	// keyedMutex is a set of mutexes that are created when they are first locked.
	// Mutexes that are not held or waited on are forgotten.
	keyedMutex[K comparable] struct {
		mu    sync.Mutex
		locks map[K]*countedMutex
	}

	// countedMutex is a mutex with the number of goroutines that hold or wait on it.
	countedMutex struct {
		sync.Mutex
		refs int
	}
)

// Lock locks the mutex for the key, returning a function to unlock it.
func (km *keyedMutex[K]) Lock(key K) (unlock func()) {
	km.mu.Lock()
	if km.locks == nil {
		km.locks = make(map[K]*countedMutex)
	}
	m, ok := km.locks[key]
	if !ok {
		m = new(countedMutex)
		km.locks[key] = m
	}
	m.refs++
	km.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		km.mu.Lock()
		defer km.mu.Unlock()
		m.refs--
		if m.refs == 0 {
			delete(km.locks, key)
		}
	}
}

// len is the number of mutexes that are held or waited on.
func (km *keyedMutex[K]) len() int {
	km.mu.Lock()
	defer km.mu.Unlock()
	return len(km.locks)
}
