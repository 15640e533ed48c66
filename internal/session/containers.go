package session

import "encoding/json"

// pairEntry is the wire form for map-like state: a list of pairs keeps
// insertion order across the round trip, unlike a JSON object.
type pairEntry[K comparable, V any] struct {
	Key   K `json:"k"`
	Value V `json:"v"`
}

// orderedMap is an insertion-ordered map used for selection sets and the
// in-flight task registry.
type orderedMap[K comparable, V any] struct {
	order []K
	items map[K]V
}

func newOrderedMap[K comparable, V any]() *orderedMap[K, V] {
	return &orderedMap[K, V]{items: make(map[K]V)}
}

func (m *orderedMap[K, V]) Set(key K, value V) {
	if _, ok := m.items[key]; !ok {
		m.order = append(m.order, key)
	}
	m.items[key] = value
}

func (m *orderedMap[K, V]) Get(key K) (V, bool) {
	value, ok := m.items[key]
	return value, ok
}

func (m *orderedMap[K, V]) Delete(key K) bool {
	if _, ok := m.items[key]; !ok {
		return false
	}
	delete(m.items, key)
	for i, existing := range m.order {
		if existing == key {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return true
}

func (m *orderedMap[K, V]) Len() int {
	return len(m.items)
}

// Keys returns the keys in insertion order.
func (m *orderedMap[K, V]) Keys() []K {
	cp := make([]K, len(m.order))
	copy(cp, m.order)
	return cp
}

// Prune removes every entry the keep predicate rejects and returns the
// removed keys in insertion order.
func (m *orderedMap[K, V]) Prune(keep func(key K, value V) bool) []K {
	var removed []K
	kept := m.order[:0]
	for _, key := range m.order {
		if keep(key, m.items[key]) {
			kept = append(kept, key)
			continue
		}
		delete(m.items, key)
		removed = append(removed, key)
	}
	m.order = kept
	return removed
}

func (m *orderedMap[K, V]) Clear() int {
	n := len(m.items)
	m.order = m.order[:0]
	clear(m.items)
	return n
}

func (m *orderedMap[K, V]) clone() *orderedMap[K, V] {
	cp := newOrderedMap[K, V]()
	for _, key := range m.order {
		cp.Set(key, m.items[key])
	}
	return cp
}

func (m *orderedMap[K, V]) MarshalJSON() ([]byte, error) {
	pairs := make([]pairEntry[K, V], 0, len(m.order))
	for _, key := range m.order {
		pairs = append(pairs, pairEntry[K, V]{Key: key, Value: m.items[key]})
	}
	return json.Marshal(pairs)
}

func (m *orderedMap[K, V]) UnmarshalJSON(data []byte) error {
	var pairs []pairEntry[K, V]
	if err := json.Unmarshal(data, &pairs); err != nil {
		return err
	}
	m.order = nil
	m.items = make(map[K]V, len(pairs))
	for _, p := range pairs {
		m.Set(p.Key, p.Value)
	}
	return nil
}

// orderedSet is an insertion-ordered set serialized as a plain list.
type orderedSet[T comparable] struct {
	order  []T
	member map[T]struct{}
}

func newOrderedSet[T comparable]() *orderedSet[T] {
	return &orderedSet[T]{member: make(map[T]struct{})}
}

func (s *orderedSet[T]) Add(value T) bool {
	if _, ok := s.member[value]; ok {
		return false
	}
	s.member[value] = struct{}{}
	s.order = append(s.order, value)
	return true
}

func (s *orderedSet[T]) Remove(value T) bool {
	if _, ok := s.member[value]; !ok {
		return false
	}
	delete(s.member, value)
	for i, existing := range s.order {
		if existing == value {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

func (s *orderedSet[T]) Contains(value T) bool {
	_, ok := s.member[value]
	return ok
}

func (s *orderedSet[T]) Len() int {
	return len(s.member)
}

func (s *orderedSet[T]) Values() []T {
	cp := make([]T, len(s.order))
	copy(cp, s.order)
	return cp
}

func (s *orderedSet[T]) Clear() int {
	n := len(s.member)
	s.order = s.order[:0]
	clear(s.member)
	return n
}

func (s *orderedSet[T]) clone() *orderedSet[T] {
	cp := newOrderedSet[T]()
	for _, value := range s.order {
		cp.Add(value)
	}
	return cp
}

func (s *orderedSet[T]) MarshalJSON() ([]byte, error) {
	values := s.order
	if values == nil {
		values = []T{}
	}
	return json.Marshal(values)
}

func (s *orderedSet[T]) UnmarshalJSON(data []byte) error {
	var values []T
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	s.order = nil
	s.member = make(map[T]struct{}, len(values))
	for _, value := range values {
		s.Add(value)
	}
	return nil
}
