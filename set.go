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

// Set is a hash set of K built on the shared open-addressing engine. It
// instantiates the engine's value arrays at struct{}, so a Set costs
// exactly the key and status arrays and nothing more.
//
// Union, Intersect and Difference build new sets; the mutating surface
// (Add, Remove, cursors) matches Map's.
//
// A Set must be created with NewSet or NewSetBackingSize. The zero value
// is not usable.
type Set[K comparable] struct {
	table[K, struct{}, struct{}]
}

// NewSet returns a set with room for at least hint elements before any
// growth. A negative hint panics.
func NewSet[K comparable](hint int, opts ...option[K, struct{}, struct{}]) *Set[K] {
	if hint < 0 {
		panic(fmt.Sprintf("dense: invalid capacity hint %d", hint))
	}
	return &Set[K]{table: newTable[K, struct{}, struct{}](backingForHint(hint), opts...)}
}

// NewSetBackingSize returns a set whose backing arrays hold size slots,
// rounded up to a power of two of at least 8. Unlike NewSet, no headroom
// is added for the load factor. A negative size panics.
func NewSetBackingSize[K comparable](size int, opts ...option[K, struct{}, struct{}]) *Set[K] {
	return &Set[K]{table: newTable[K, struct{}, struct{}](size, opts...)}
}

// Len returns the number of elements.
func (s *Set[K]) Len() int {
	return s.len
}

// IsEmpty reports whether the set holds no elements.
func (s *Set[K]) IsEmpty() bool {
	return s.len == 0
}

// NonEmpty reports whether the set holds at least one element.
func (s *Set[K]) NonEmpty() bool {
	return s.len > 0
}

// Contains reports whether key is present.
func (s *Set[K]) Contains(key K) bool {
	return s.find(key) != noSlot
}

// Add inserts key and reports whether it was absent. Adding a present
// key leaves the set unchanged.
func (s *Set[K]) Add(key K) bool {
	_, added := s.insert(key)
	return added
}

// Remove deletes key and reports whether it was present. The slot is
// left as a tombstone and its key is zeroed.
func (s *Set[K]) Remove(key K) bool {
	j := s.find(key)
	if j == noSlot {
		return false
	}
	s.removeAt(j)
	return true
}

// Find returns a cursor to the slot holding key, or NoCursor if the key
// is absent.
func (s *Set[K]) Find(key K) Cursor {
	return Cursor(s.find(key))
}

// First returns a cursor to the first element in traversal order, or
// NoCursor if the set is empty.
func (s *Set[K]) First() Cursor {
	return Cursor(s.next(noSlot))
}

// Next returns a cursor to the element after c in traversal order, or
// NoCursor at the end of the traversal.
func (s *Set[K]) Next(c Cursor) Cursor {
	return Cursor(s.next(int(c)))
}

// Key returns the key in the slot c addresses.
func (s *Set[K]) Key(c Cursor) K {
	return s.keys[c]
}

// DeleteAt removes the element in the slot c addresses, which must be
// occupied.
func (s *Set[K]) DeleteAt(c Cursor) {
	s.removeAt(int(c))
}

// DeleteAndNext removes the element c addresses and returns a cursor to
// the element that followed it in traversal order, so deletion can
// proceed mid-traversal.
func (s *Set[K]) DeleteAndNext(c Cursor) Cursor {
	return Cursor(s.removeAndNext(int(c)))
}

// All calls yield for every element until yield returns false. All
// captures the backing arrays when called: an insertion that grows the
// set during the traversal does not affect it.
func (s *Set[K]) All(yield func(key K) bool) {
	keys, status := s.keys, s.status
	for j := range status {
		if status[j] == slotUsed {
			if !yield(keys[j]) {
				return
			}
		}
	}
}

// Union returns a new set holding every key present in s or o. The
// result inherits s's hash function, seed and allocator.
func (s *Set[K]) Union(o *Set[K]) *Set[K] {
	r := s.Clone()
	for j := range o.status {
		if o.status[j] == slotUsed {
			r.insert(o.keys[j])
		}
	}
	return r
}

// Intersect returns a new set holding the keys present in both s and o.
// The result inherits s's hash function, seed and allocator.
func (s *Set[K]) Intersect(o *Set[K]) *Set[K] {
	small, big := s, o
	if big.len < small.len {
		small, big = big, small
	}
	r := &Set[K]{table: s.emptyLike(small.len)}
	for j := range small.status {
		if small.status[j] == slotUsed && big.find(small.keys[j]) != noSlot {
			r.insert(small.keys[j])
		}
	}
	return r
}

// Difference returns a new set holding the keys present in s but not in
// o. The result inherits s's hash function, seed and allocator.
func (s *Set[K]) Difference(o *Set[K]) *Set[K] {
	r := &Set[K]{table: s.emptyLike(s.len)}
	for j := range s.status {
		if s.status[j] == slotUsed && o.find(s.keys[j]) == noSlot {
			r.insert(s.keys[j])
		}
	}
	return r
}

// Equal reports whether s and o hold exactly the same keys.
func (s *Set[K]) Equal(o *Set[K]) bool {
	return s.len == o.len && s.keysSubsetOf(&o.table)
}

// Hash returns an order-independent digest of the set's keys. Sets that
// are Equal hash identically, across capacities and probe seeds, as
// long as they share the same hash function.
func (s *Set[K]) Hash() uintptr {
	return s.elemHash()
}

// Clone returns a deep copy of the set.
func (s *Set[K]) Clone() *Set[K] {
	return &Set[K]{table: s.table.clone()}
}

// Clear removes every element and tombstone, keeping the allocated
// capacity.
func (s *Set[K]) Clear() {
	s.clearAll()
}

// Close releases the backing arrays to the allocator. It is unnecessary
// to close a set using the default allocator. The set must not be used
// after Close; closing twice is a no-op.
func (s *Set[K]) Close() {
	s.table.close()
}

// String renders the set in traversal order.
func (s *Set[K]) String() string {
	var buf strings.Builder
	buf.WriteString("Set[")
	for j, first := s.next(noSlot), true; j != noSlot; j, first = s.next(j), false {
		if !first {
			buf.WriteByte(' ')
		}
		fmt.Fprintf(&buf, "%v", s.keys[j])
	}
	buf.WriteByte(']')
	return buf.String()
}
