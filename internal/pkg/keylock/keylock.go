package keylock

import "sync"

// Map hands out one mutex per key. Entries are dropped once no goroutine
// holds or waits for them, so the map stays proportional to live contention.
type Map[K comparable] struct {
	mu    sync.Mutex
	locks map[K]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

func New[K comparable]() *Map[K] {
	return &Map[K]{locks: make(map[K]*entry)}
}

// Lock blocks until key is free and returns the matching unlock func.
func (m *Map[K]) Lock(key K) (unlock func()) {
	m.mu.Lock()
	e, ok := m.locks[key]
	if !ok {
		e = &entry{}
		m.locks[key] = e
	}
	e.refs++
	m.mu.Unlock()

	e.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Unlock()

			m.mu.Lock()
			e.refs--
			if e.refs == 0 {
				delete(m.locks, key)
			}
			m.mu.Unlock()
		})
	}
}

// Len returns the number of keys currently held or awaited.
func (m *Map[K]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.locks)
}
