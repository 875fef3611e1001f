package manager

// StateManager stores transient state by key.
type StateManager[K comparable, V any] struct {
	states map[K]V
}

func NewStateManager[K comparable, V any]() *StateManager[K, V] {
	return &StateManager[K, V]{states: make(map[K]V)}
}

// Set stores v under key and returns the value it replaced, if any.
func (m *StateManager[K, V]) Set(key K, v V) (V, bool) {
	if m.states == nil {
		m.states = make(map[K]V)
	}
	prev, ok := m.states[key]
	m.states[key] = v
	return prev, ok
}

func (m *StateManager[K, V]) Get(key K) (V, bool) {
	v, ok := m.states[key]
	return v, ok
}

// Clear removes key and returns the value it held.
func (m *StateManager[K, V]) Clear(key K) (V, bool) {
	v, ok := m.states[key]
	delete(m.states, key)
	return v, ok
}

func (m *StateManager[K, V]) ClearAll() { clear(m.states) }

func (m *StateManager[K, V]) Len() int { return len(m.states) }
