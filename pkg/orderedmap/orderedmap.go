// Copyright (c) 2026 dobashi.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package orderedmap implements a hash map with stable LIFO insertion
// order and constant-time bump-to-front, backed by an intrusive doubly
// linked list of nodes with stable addresses.
package orderedmap

// node is allocated once per key and never moved; only the next/prev
// links are rewired. This is what makes Bump O(1) and lets callers keep
// a *node alive across calls that mutate the rest of the map.
type node[K comparable, V any] struct {
	key        K
	value      V
	next, prev *node[K, V]
}

// Map is a hash map that iterates in LIFO insertion order, with entries
// that can be bumped to the front in O(1).
type Map[K comparable, V any] struct {
	nodes      map[K]*node[K, V]
	head, tail *node[K, V]
}

// New returns an empty Map.
func New[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{nodes: map[K]*node[K, V]{}}
}

// Len returns the number of entries in the map.
func (m *Map[K, V]) Len() int {
	return len(m.nodes)
}

// Insert attempts to insert an entry. If the key was absent, it is
// pushed to the front and Insert returns the zero value and true.
//
// If the key was already present, the map is left unchanged and Insert
// returns (v, false) -- that is, it hands back the value the caller
// tried to insert, not the prior value. This mirrors a legacy quirk in
// the original implementation this map is ported from: callers that
// only branch on the second return value are unaffected either way.
func (m *Map[K, V]) Insert(k K, v V) (rejected V, inserted bool) {
	if _, ok := m.nodes[k]; ok {
		return v, false
	}

	n := &node[K, V]{key: k, value: v}
	m.pushFront(n)
	m.nodes[k] = n

	var zero V
	return zero, true
}

// Get returns the value stored at k, if any.
func (m *Map[K, V]) Get(k K) (V, bool) {
	if n, ok := m.nodes[k]; ok {
		return n.value, true
	}
	var zero V
	return zero, false
}

// GetMut returns a pointer to the value stored at k, if any, allowing
// in-place mutation without a second lookup.
func (m *Map[K, V]) GetMut(k K) (*V, bool) {
	if n, ok := m.nodes[k]; ok {
		return &n.value, true
	}
	return nil, false
}

// ContainsKey reports whether k is present.
func (m *Map[K, V]) ContainsKey(k K) bool {
	_, ok := m.nodes[k]
	return ok
}

// Remove deletes the entry at k, returning its value if it was present.
func (m *Map[K, V]) Remove(k K) (V, bool) {
	n, ok := m.nodes[k]
	if !ok {
		var zero V
		return zero, false
	}

	m.unlink(n)
	delete(m.nodes, k)
	return n.value, true
}

// Bump moves the entry at k to the front of the iteration order in
// O(1), without changing its value. It reports whether k was present.
func (m *Map[K, V]) Bump(k K) bool {
	n, ok := m.nodes[k]
	if !ok {
		return false
	}

	if n == m.head {
		return true
	}

	m.unlink(n)
	m.pushFront(n)
	return true
}

// Iter calls f for every entry, front to back (newest-inserted or
// most-recently-bumped first). Iteration stops early if f returns false.
func (m *Map[K, V]) Iter(f func(k K, v V) bool) {
	for n := m.head; n != nil; n = n.next {
		if !f(n.key, n.value) {
			return
		}
	}
}

func (m *Map[K, V]) pushFront(n *node[K, V]) {
	n.prev = nil
	n.next = m.head
	if m.head != nil {
		m.head.prev = n
	}
	m.head = n
	if m.tail == nil {
		m.tail = n
	}
}

func (m *Map[K, V]) unlink(n *node[K, V]) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		m.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		m.tail = n.prev
	}
	n.next, n.prev = nil, nil
}
