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

// Map2 is a hash map from K to a pair of values (V1, V2). The two value
// arrays are stored separately, so code touching only one of the values
// never pulls the other's memory through the cache.
//
// Map2 replaces the map-of-pairs pattern when the values have distinct
// access patterns, such as a weight and a payload. It shares the engine
// and the cursor surface of Map.
//
// A Map2 must be created with NewMap2 or NewMap2BackingSize. The zero
// value is not usable.
type Map2[K comparable, V1, V2 any] struct {
	table[K, V1, V2]
}

// NewMap2 returns a map with room for at least hint elements before any
// growth. A negative hint panics.
func NewMap2[K comparable, V1, V2 any](hint int, opts ...option[K, V1, V2]) *Map2[K, V1, V2] {
	if hint < 0 {
		panic(fmt.Sprintf("dense: invalid capacity hint %d", hint))
	}
	return &Map2[K, V1, V2]{table: newTable[K, V1, V2](backingForHint(hint), opts...)}
}

// NewMap2BackingSize returns a map whose backing arrays hold size slots,
// rounded up to a power of two of at least 8. Unlike NewMap2, no
// headroom is added for the load factor. A negative size panics.
func NewMap2BackingSize[K comparable, V1, V2 any](size int, opts ...option[K, V1, V2]) *Map2[K, V1, V2] {
	return &Map2[K, V1, V2]{table: newTable[K, V1, V2](size, opts...)}
}

// Len returns the number of elements.
func (m *Map2[K, V1, V2]) Len() int {
	return m.len
}

// IsEmpty reports whether the map holds no elements.
func (m *Map2[K, V1, V2]) IsEmpty() bool {
	return m.len == 0
}

// NonEmpty reports whether the map holds at least one element.
func (m *Map2[K, V1, V2]) NonEmpty() bool {
	return m.len > 0
}

// Contains reports whether key is present.
func (m *Map2[K, V1, V2]) Contains(key K) bool {
	return m.find(key) != noSlot
}

// Get returns the pair of values mapped to key. ok is false if the key
// is absent, in which case both values are zero values.
func (m *Map2[K, V1, V2]) Get(key K) (v1 V1, v2 V2, ok bool) {
	j := m.find(key)
	if j == noSlot {
		return v1, v2, false
	}
	return m.vals1[j], m.vals2[j], true
}

// Put maps key to the pair (v1, v2), replacing any existing mapping.
func (m *Map2[K, V1, V2]) Put(key K, v1 V1, v2 V2) {
	j, _ := m.insert(key)
	m.vals1[j] = v1
	m.vals2[j] = v2
}

// Delete removes key's mapping and reports whether one was present. The
// slot is left as a tombstone and its key and values are zeroed.
func (m *Map2[K, V1, V2]) Delete(key K) bool {
	j := m.find(key)
	if j == noSlot {
		return false
	}
	m.removeAt(j)
	return true
}

// Find returns a cursor to the slot holding key, or NoCursor if the key
// is absent.
func (m *Map2[K, V1, V2]) Find(key K) Cursor {
	return Cursor(m.find(key))
}

// Insert returns a cursor to the slot holding key, claiming a slot if
// the key is absent. added reports whether the key was newly inserted; a
// fresh slot's values are zero values until set through SetValue1 and
// SetValue2.
//
// Insert may grow the map. The returned cursor is resolved after any
// growth and is always valid; cursors obtained earlier are not.
func (m *Map2[K, V1, V2]) Insert(key K) (c Cursor, added bool) {
	j, added := m.insert(key)
	return Cursor(j), added
}

// First returns a cursor to the first element in traversal order, or
// NoCursor if the map is empty.
func (m *Map2[K, V1, V2]) First() Cursor {
	return Cursor(m.next(noSlot))
}

// Next returns a cursor to the element after c in traversal order, or
// NoCursor at the end of the traversal.
func (m *Map2[K, V1, V2]) Next(c Cursor) Cursor {
	return Cursor(m.next(int(c)))
}

// Key returns the key in the slot c addresses.
func (m *Map2[K, V1, V2]) Key(c Cursor) K {
	return m.keys[c]
}

// Value1 returns the first value in the slot c addresses.
func (m *Map2[K, V1, V2]) Value1(c Cursor) V1 {
	return m.vals1[c]
}

// Value2 returns the second value in the slot c addresses.
func (m *Map2[K, V1, V2]) Value2(c Cursor) V2 {
	return m.vals2[c]
}

// SetValue1 replaces the first value in the slot c addresses.
func (m *Map2[K, V1, V2]) SetValue1(c Cursor, v1 V1) {
	m.vals1[c] = v1
}

// SetValue2 replaces the second value in the slot c addresses.
func (m *Map2[K, V1, V2]) SetValue2(c Cursor, v2 V2) {
	m.vals2[c] = v2
}

// DeleteAt removes the element in the slot c addresses, which must be
// occupied.
func (m *Map2[K, V1, V2]) DeleteAt(c Cursor) {
	m.removeAt(int(c))
}

// DeleteAndNext removes the element c addresses and returns a cursor to
// the element that followed it in traversal order, so deletion can
// proceed mid-traversal.
func (m *Map2[K, V1, V2]) DeleteAndNext(c Cursor) Cursor {
	return Cursor(m.removeAndNext(int(c)))
}

// All calls yield for every element until yield returns false. All
// captures the backing arrays when called: an insertion that grows the
// map during the traversal does not affect it, while in-place mutations
// of captured slots remain visible.
func (m *Map2[K, V1, V2]) All(yield func(key K, v1 V1, v2 V2) bool) {
	keys, vals1, vals2, status := m.keys, m.vals1, m.vals2, m.status
	for j := range status {
		if status[j] == slotUsed {
			if !yield(keys[j], vals1[j], vals2[j]) {
				return
			}
		}
	}
}

// Equal reports whether m and o hold exactly the same keys. Values are
// deliberately not compared, which keeps Equal total for any V1 and V2;
// use EqualFunc to compare values as well.
func (m *Map2[K, V1, V2]) Equal(o *Map2[K, V1, V2]) bool {
	return m.len == o.len && m.keysSubsetOf(&o.table)
}

// EqualFunc reports whether m and o hold the same keys and, for every
// key, value pairs that are equal under eq1 and eq2.
func (m *Map2[K, V1, V2]) EqualFunc(o *Map2[K, V1, V2], eq1 func(V1, V1) bool, eq2 func(V2, V2) bool) bool {
	if m.len != o.len {
		return false
	}
	for j := range m.status {
		if m.status[j] != slotUsed {
			continue
		}
		k := o.find(m.keys[j])
		if k == noSlot || !eq1(m.vals1[j], o.vals1[k]) || !eq2(m.vals2[j], o.vals2[k]) {
			return false
		}
	}
	return true
}

// Hash returns an order-independent digest of the map's keys. Maps that
// are Equal hash identically, across capacities and probe seeds, as
// long as they share the same hash function.
func (m *Map2[K, V1, V2]) Hash() uintptr {
	return m.elemHash()
}

// Clone returns a deep copy of the map.
func (m *Map2[K, V1, V2]) Clone() *Map2[K, V1, V2] {
	return &Map2[K, V1, V2]{table: m.table.clone()}
}

// Clear removes every element and tombstone, keeping the allocated
// capacity.
func (m *Map2[K, V1, V2]) Clear() {
	m.clearAll()
}

// Close releases the backing arrays to the allocator. It is unnecessary
// to close a map using the default allocator. The map must not be used
// after Close; closing twice is a no-op.
func (m *Map2[K, V1, V2]) Close() {
	m.table.close()
}

// String renders the map in traversal order, with each element shown as
// key:(v1,v2).
func (m *Map2[K, V1, V2]) String() string {
	var buf strings.Builder
	buf.WriteString("Map2[")
	for j, first := m.next(noSlot), true; j != noSlot; j, first = m.next(j), false {
		if !first {
			buf.WriteByte(' ')
		}
		fmt.Fprintf(&buf, "%v:(%v,%v)", m.keys[j], m.vals1[j], m.vals2[j])
	}
	buf.WriteByte(']')
	return buf.String()
}
