// Package synckit provides small concurrency primitives shared across services
package synckit

import "sync"

// Keyed is a set of mutexes addressed by string key.
// Locking a key serializes all callers for that key while leaving other keys
// untouched. Entries are created on first use and retained for the life of
// the process; key cardinality is expected to stay small (one per user).
// The zero value is not usable; call NewKeyed.
type Keyed struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewKeyed returns an empty keyed mutex set
func NewKeyed() *Keyed {
	return &Keyed{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for key, creating it on first use
func (k *Keyed) Lock(key string) {
	k.get(key).Lock()
}

// Unlock releases the mutex for key
// unlocking a key that was never locked panics, same as sync.Mutex
func (k *Keyed) Unlock(key string) {
	k.get(key).Unlock()
}

// Do runs fn while holding the mutex for key
func (k *Keyed) Do(key string, fn func()) {
	m := k.get(key)
	m.Lock()
	defer m.Unlock()
	fn()
}

func (k *Keyed) get(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	return m
}

// Len reports how many keys have been locked at least once
func (k *Keyed) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
