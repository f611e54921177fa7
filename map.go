// Copyright 2025 The go-dense Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied. See the License for the specific language governing
// permissions and limitations under the License.

package dense

import (
	"fmt"
	"strings"
)

// Map is a hash map from K to V built on the shared open-addressing
// engine. Keys and values are stored unboxed in parallel arrays.
//
// Beyond the usual Get/Put/Delete surface, a Map exposes its slots
// through cursors (Find, Insert, First, Next) for update-in-place and
// delete-during-traversal patterns. See the package documentation for
// the cursor validity rules.
//
// A Map must be created with NewMap or NewMapBackingSize. The zero value
// is not usable.
type Map[K comparable, V any] struct {
	table[K, V, struct{}]
}

// NewMap returns a map with room for at least hint elements before any
// growth. A negative hint panics.
func NewMap[K comparable, V any](hint int, opts ...option[K, V, struct{}]) *Map[K, V] {
	if hint < 0 {
		panic(fmt.Sprintf("dense: invalid capacity hint %d", hint))
	}
	return &Map[K, V]{table: newTable[K, V, struct{}](backingForHint(hint), opts...)}
}

// NewMapBackingSize returns a map whose backing arrays hold size slots,
// rounded up to a power of two of at least 8. Unlike NewMap, no headroom
// is added: the map grows once elements plus tombstones exceed 65% of
// the capacity. A negative size panics.
func NewMapBackingSize[K comparable, V any](size int, opts ...option[K, V, struct{}]) *Map[K, V] {
	return &Map[K, V]{table: newTable[K, V, struct{}](size, opts...)}
}

// Len returns the number of elements.
func (m *Map[K, V]) Len() int {
	return m.len
}

// IsEmpty reports whether the map holds no elements.
func (m *Map[K, V]) IsEmpty() bool {
	return m.len == 0
}

// NonEmpty reports whether the map holds at least one element.
func (m *Map[K, V]) NonEmpty() bool {
	return m.len > 0
}

// Contains reports whether key is present.
func (m *Map[K, V]) Contains(key K) bool {
	return m.find(key) != noSlot
}

// Get returns the value mapped to key. ok is false if the key is
// absent, in which case value is the zero value.
func (m *Map[K, V]) Get(key K) (value V, ok bool) {
	j := m.find(key)
	if j == noSlot {
		return value, false
	}
	return m.vals1[j], true
}

// Put maps key to value, replacing any existing mapping.
func (m *Map[K, V]) Put(key K, value V) {
	j, _ := m.insert(key)
	m.vals1[j] = value
}

// Delete removes key's mapping and reports whether one was present. The
// slot is left as a tombstone and its key and value are zeroed.
func (m *Map[K, V]) Delete(key K) bool {
	j := m.find(key)
	if j == noSlot {
		return false
	}
	m.removeAt(j)
	return true
}

// Find returns a cursor to the slot holding key, or NoCursor if the key
// is absent.
func (m *Map[K, V]) Find(key K) Cursor {
	return Cursor(m.find(key))
}

// Insert returns a cursor to the slot holding key, claiming a slot if
// the key is absent. added reports whether the key was newly inserted;
// a fresh slot's value is the zero value until set through SetValue.
//
// Insert may grow the map. The returned cursor is resolved after any
// growth and is always valid; cursors obtained earlier are not.
func (m *Map[K, V]) Insert(key K) (c Cursor, added bool) {
	j, added := m.insert(key)
	return Cursor(j), added
}

// First returns a cursor to the first element in traversal order, or
// NoCursor if the map is empty.
func (m *Map[K, V]) First() Cursor {
	return Cursor(m.next(noSlot))
}

// Next returns a cursor to the element after c in traversal order, or
// NoCursor at the end of the traversal.
func (m *Map[K, V]) Next(c Cursor) Cursor {
	return Cursor(m.next(int(c)))
}

// Key returns the key in the slot c addresses.
func (m *Map[K, V]) Key(c Cursor) K {
	return m.keys[c]
}

// Value returns the value in the slot c addresses.
func (m *Map[K, V]) Value(c Cursor) V {
	return m.vals1[c]
}

// SetValue replaces the value in the slot c addresses. The key and the
// table shape are untouched, so other cursors stay valid.
func (m *Map[K, V]) SetValue(c Cursor, value V) {
	m.vals1[c] = value
}

// DeleteAt removes the element in the slot c addresses, which must be
// occupied.
func (m *Map[K, V]) DeleteAt(c Cursor) {
	m.removeAt(int(c))
}

// DeleteAndNext removes the element c addresses and returns a cursor to
// the element that followed it in traversal order, so deletion can
// proceed mid-traversal.
func (m *Map[K, V]) DeleteAndNext(c Cursor) Cursor {
	return Cursor(m.removeAndNext(int(c)))
}

// All calls yield for every element until yield returns false. All
// captures the backing arrays when called: an insertion that grows the
// map during the traversal does not affect it, while in-place mutations
// of captured slots remain visible.
func (m *Map[K, V]) All(yield func(key K, value V) bool) {
	keys, vals, status := m.keys, m.vals1, m.status
	for j := range status {
		if status[j] == slotUsed {
			if !yield(keys[j], vals[j]) {
				return
			}
		}
	}
}

// Equal reports whether m and o hold exactly the same keys. Values are
// deliberately not compared, which keeps Equal total for any V; use
// EqualFunc to compare values as well.
func (m *Map[K, V]) Equal(o *Map[K, V]) bool {
	return m.len == o.len && m.keysSubsetOf(&o.table)
}

// EqualFunc reports whether m and o hold the same keys and, for every
// key, values that are equal under eq.
func (m *Map[K, V]) EqualFunc(o *Map[K, V], eq func(V, V) bool) bool {
	if m.len != o.len {
		return false
	}
	for j := range m.status {
		if m.status[j] != slotUsed {
			continue
		}
		k := o.find(m.keys[j])
		if k == noSlot || !eq(m.vals1[j], o.vals1[k]) {
			return false
		}
	}
	return true
}

// Hash returns an order-independent digest of the map's keys. Maps that
// are Equal hash identically, across capacities and probe seeds, as
// long as they share the same hash function.
func (m *Map[K, V]) Hash() uintptr {
	return m.elemHash()
}

// Clone returns a deep copy of the map.
func (m *Map[K, V]) Clone() *Map[K, V] {
	return &Map[K, V]{table: m.table.clone()}
}

// Clear removes every element and tombstone, keeping the allocated
// capacity.
func (m *Map[K, V]) Clear() {
	m.clearAll()
}

// Close releases the backing arrays to the allocator. It is unnecessary
// to close a map using the default allocator. The map must not be used
// after Close; closing twice is a no-op.
func (m *Map[K, V]) Close() {
	m.table.close()
}

// String renders the map in traversal order, in the style of the
// builtin map formatting.
func (m *Map[K, V]) String() string {
	var buf strings.Builder
	buf.WriteString("Map[")
	for j, first := m.next(noSlot), true; j != noSlot; j, first = m.next(j), false {
		if !first {
			buf.WriteByte(' ')
		}
		fmt.Fprintf(&buf, "%v:%v", m.keys[j], m.vals1[j])
	}
	buf.WriteByte(']')
	return buf.String()
}
