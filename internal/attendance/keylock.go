package attendance

import "sync"

// KeyMutex serializes the read-decide-write sequence per employee. Taps for
// different employees proceed in parallel; two taps for the same employee
// cannot both observe "no open session". The map grows with the number of
// distinct employees seen, which is bounded by the workforce size.
type KeyMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewKeyMutex() *KeyMutex {
	return &KeyMutex{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for key and returns its release func.
func (k *KeyMutex) Lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
