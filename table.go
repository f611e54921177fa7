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

// Package dense provides compact hash-based collections (Map, Map2 and
// Set) built on a single open-addressing hash table engine.
//
// The engine stores elements in parallel arrays: one for keys, up to two
// for values, and one byte per slot recording whether the slot is empty,
// holds an element, or is a tombstone left behind by a deletion. Keys and
// values live directly in the arrays with no per-element allocation or
// boxing. A Set instantiates both value arrays at struct{} and a Map
// instantiates its unused second value array at struct{}, so the unused
// arrays are zero-width and the three collections are thin facades over
// the same probing, growth and deletion machinery.
//
// # Probing
//
// Lookup uses the perturbed probe sequence popularized by CPython's
// dictionaries (see Objects/dictobject.c in the CPython sources). A probe
// starts at hash&mask and steps with
//
//	i = i*5 + perturb + 1
//	perturb >>= 5
//
// visiting slot i&mask at each step. The perturbation term mixes the
// upper bits of the hash into the early probes; once it decays to zero
// the recurrence i = i*5 + 1 is a full-period generator modulo the
// power-of-two capacity, so the sequence visits every slot. Probing stops
// at the first empty slot: a key not found by then is not in the table.
//
// # Tombstones and growth
//
// Deletion marks the slot as a tombstone rather than disturbing the probe
// chains passing through it. A tombstone slot can be reclaimed by a later
// insertion that probes through it, but it still counts against the
// occupancy limit of 65% of capacity. When an insertion pushes occupancy
// past the limit the table grows (quadrupling below 10000 slots, doubling
// at or above) and rehashes every element into fresh arrays, discarding
// the accumulated tombstones.
//
// # Cursors
//
// The collections expose slots through opaque cursors. Find and Insert
// return a cursor to the slot holding a key; First and Next enumerate
// occupied slots; Key, Value and SetValue read and write through a cursor
// without rehashing. A cursor stays valid across mutations of other
// slots, but growth moves every element, so operations that can grow the
// table return a freshly resolved cursor and any cursor obtained before
// the growth must be re-resolved with Find.
//
// The collections are not safe for concurrent use. If accessed from
// multiple goroutines, callers must synchronize externally.
package dense

import (
	"fmt"
	"math/bits"
	"strings"
	"unsafe"
)

// debug enables printf tracing of probing and growth. It is a
// compile-time constant so the tracing compiles away entirely.
const debug = false

const (
	// minCapacity is the smallest number of slots a table allocates.
	minCapacity = 8

	// loadFactorNum/loadFactorDen bound the fraction of non-empty slots
	// (elements plus tombstones) at 65% of capacity. Exceeding the bound
	// triggers growth.
	loadFactorNum = 13
	loadFactorDen = 20

	// growthCutover is the capacity at which growth switches from
	// quadrupling to doubling. Small tables grow aggressively to shed
	// tombstones and amortize rehashing; large tables conserve memory.
	growthCutover = 10000
)

// slotStatus describes one slot. The zero value is slotEmpty so freshly
// allocated status arrays need no initialization.
type slotStatus uint8

const (
	slotEmpty slotStatus = iota
	slotTombstone
	slotUsed
)

func (s slotStatus) String() string {
	switch s {
	case slotEmpty:
		return "empty"
	case slotTombstone:
		return "tombstone"
	case slotUsed:
		return "used"
	}
	return "invalid"
}

// table is the engine shared by Map, Map2 and Set. The counters obey:
//
//   - len is the number of live elements.
//   - used is the number of non-empty slots: len plus tombstones. It
//     only falls back to len when growth or Clear discards tombstones.
//   - limit is the occupancy bound; an insertion that pushes used past
//     it grows the table.
//   - mask is capacity-1, reducing probe positions modulo the
//     power-of-two capacity.
type table[K comparable, V1, V2 any] struct {
	keys   []K
	vals1  []V1
	vals2  []V2
	status []slotStatus

	len   int
	used  int
	limit int
	mask  uint64

	hash  hashFn
	seed  uintptr
	alloc Allocator[K, V1, V2]
}

// newTable returns a table with at least size slots. size has explicit
// backing-array semantics: it is clamped to minCapacity and rounded up
// to a power of two, with no headroom added for the load factor. Use
// backingForHint to convert an element-count hint.
func newTable[K comparable, V1, V2 any](size int, opts ...option[K, V1, V2]) table[K, V1, V2] {
	t := table[K, V1, V2]{
		hash:  getRuntimeHasher[K](),
		seed:  tableSeed(),
		alloc: defaultAllocator[K, V1, V2]{},
	}
	for _, op := range opts {
		op.apply(&t)
	}
	t.init(size)
	return t
}

// init allocates the backing arrays and resets the counters.
func (t *table[K, V1, V2]) init(size int) {
	if size < 0 {
		panic(fmt.Sprintf("dense: invalid backing size %d", size))
	}
	c := size
	if c < minCapacity {
		c = minCapacity
	}
	c = nextPowerOfTwo(c)
	if c <= 0 {
		panic(fmt.Sprintf("dense: backing size %d overflows", size))
	}
	t.keys = t.alloc.AllocKeys(c)
	t.vals1 = t.alloc.AllocValues1(c)
	t.vals2 = t.alloc.AllocValues2(c)
	t.status = unsafeConvertSlice[slotStatus](t.alloc.AllocStatus(c))
	t.len = 0
	t.used = 0
	t.limit = c * loadFactorNum / loadFactorDen
	t.mask = uint64(c - 1)
	t.checkInvariants()
}

// nextPowerOfTwo returns the smallest power of two >= n, for n >= 1.
// The result is negative if it overflows int.
func nextPowerOfTwo(n int) int {
	return 1 << uint(bits.Len(uint(n-1)))
}

// backingForHint converts a "room for n elements" construction hint into
// a backing size of 3n/2 slots, computed as n/2*3 so the result never
// overshoots for odd n. At population n the table is then at most two
// thirds full, clear of the growth limit.
func backingForHint(n int) int {
	return n / 2 * 3
}

func (t *table[K, V1, V2]) capacity() int {
	return len(t.status)
}

// grow rehashes into the next target capacity: quadruple below the
// cutover, double at or above it.
func (t *table[K, V1, V2]) grow() {
	c := t.capacity()
	factor := 4
	if c >= growthCutover {
		factor = 2
	}
	if debug {
		fmt.Printf("grow: capacity %d -> %d (len=%d used=%d)\n", c, c*factor, t.len, t.used)
	}
	t.rehash(c * factor)
}

// rehash moves the table into freshly allocated arrays of at least size
// slots. Elements are reinserted with an unchecked probe for an empty
// slot: the new arrays hold no tombstones and every insertion is of a
// known-absent key. The receiver is only overwritten once the new table
// is fully built, and afterwards used equals len.
func (t *table[K, V1, V2]) rehash(size int) {
	nt := table[K, V1, V2]{hash: t.hash, seed: t.seed, alloc: t.alloc}
	nt.init(size)
	for j := range t.status {
		if t.status[j] == slotUsed {
			nt.uncheckedInsert(t.keys[j], t.vals1[j], t.vals2[j])
		}
	}
	t.free()
	*t = nt
	t.checkInvariants()
}

// free returns the backing arrays to the allocator.
func (t *table[K, V1, V2]) free() {
	t.alloc.FreeKeys(t.keys)
	t.alloc.FreeValues1(t.vals1)
	t.alloc.FreeValues2(t.vals2)
	t.alloc.FreeStatus(unsafeConvertSlice[uint8](t.status))
	t.keys, t.vals1, t.vals2, t.status = nil, nil, nil, nil
}

// clearAll removes every element and tombstone, keeping the capacity.
func (t *table[K, V1, V2]) clearAll() {
	clear(t.keys)
	clear(t.vals1)
	clear(t.vals2)
	clear(t.status)
	t.len = 0
	t.used = 0
	t.checkInvariants()
}

// close releases the backing arrays to the allocator. The table must not
// be used afterwards. Closing an already closed table is a no-op.
func (t *table[K, V1, V2]) close() {
	if t.alloc == nil {
		return
	}
	t.free()
	t.len, t.used, t.limit, t.mask = 0, 0, 0, 0
	t.alloc = nil
}

// emptyLike returns an empty table with t's hash function, seed and
// allocator and room for at least hint elements.
func (t *table[K, V1, V2]) emptyLike(hint int) table[K, V1, V2] {
	nt := table[K, V1, V2]{hash: t.hash, seed: t.seed, alloc: t.alloc}
	nt.init(backingForHint(hint))
	return nt
}

// clone returns a deep copy sharing no storage with t. The copy keeps
// t's hash function, seed and allocator, so element placement and
// traversal order are identical to t's at the time of the copy.
func (t *table[K, V1, V2]) clone() table[K, V1, V2] {
	nt := table[K, V1, V2]{hash: t.hash, seed: t.seed, alloc: t.alloc}
	nt.init(t.capacity())
	copy(nt.keys, t.keys)
	copy(nt.vals1, t.vals1)
	copy(nt.vals2, t.vals2)
	copy(nt.status, t.status)
	nt.len = t.len
	nt.used = t.used
	nt.checkInvariants()
	return nt
}

// elemHash returns an order-independent digest of the table's keys: the
// XOR of every key's hash at sharedSeed. Tables holding equal key sets
// produce equal digests regardless of capacity, probe seed or insertion
// history.
func (t *table[K, V1, V2]) elemHash() uintptr {
	var h uintptr
	for j := range t.status {
		if t.status[j] == slotUsed {
			h ^= t.hash(noescape(unsafe.Pointer(&t.keys[j])), sharedSeed)
		}
	}
	return h
}

// keysSubsetOf reports whether every key in t is also present in o.
func (t *table[K, V1, V2]) keysSubsetOf(o *table[K, V1, V2]) bool {
	for j := range t.status {
		if t.status[j] == slotUsed && o.find(t.keys[j]) == noSlot {
			return false
		}
	}
	return true
}

// checkInvariants verifies internal consistency: the counters match the
// status array, every element is findable at its slot, and the sizing
// fields agree with the capacity. Compiled away unless the invariants
// build tag is set.
func (t *table[K, V1, V2]) checkInvariants() {
	if invariants {
		var used, tombstones int
		for j := range t.status {
			switch t.status[j] {
			case slotUsed:
				used++
				if k := t.find(t.keys[j]); k != j {
					panic(fmt.Sprintf("dense: find(%v) = %d, want slot %d\n%s",
						t.keys[j], k, j, t.debugString()))
				}
			case slotTombstone:
				tombstones++
			}
		}
		if used != t.len {
			panic(fmt.Sprintf("dense: len=%d but %d used slots\n%s", t.len, used, t.debugString()))
		}
		if used+tombstones != t.used {
			panic(fmt.Sprintf("dense: used=%d but %d non-empty slots\n%s",
				t.used, used+tombstones, t.debugString()))
		}
		if t.used > t.limit {
			panic(fmt.Sprintf("dense: used=%d exceeds limit=%d\n%s", t.used, t.limit, t.debugString()))
		}
		c := t.capacity()
		if c < minCapacity || c&(c-1) != 0 {
			panic(fmt.Sprintf("dense: capacity %d is not a power of two >= %d", c, minCapacity))
		}
		if t.mask != uint64(c-1) {
			panic(fmt.Sprintf("dense: mask=%#x, want %#x", t.mask, uint64(c-1)))
		}
		if t.limit != c*loadFactorNum/loadFactorDen {
			panic(fmt.Sprintf("dense: limit=%d, want %d", t.limit, c*loadFactorNum/loadFactorDen))
		}
	}
}

// debugString returns a dump of the non-empty slots.
func (t *table[K, V1, V2]) debugString() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "capacity=%d len=%d used=%d limit=%d\n", t.capacity(), t.len, t.used, t.limit)
	for j := range t.status {
		switch t.status[j] {
		case slotUsed:
			fmt.Fprintf(&buf, "%4d: %v (hash=%#x)\n", j, t.keys[j], t.hashKey(&t.keys[j]))
		case slotTombstone:
			fmt.Fprintf(&buf, "%4d: %s\n", j, t.status[j])
		}
	}
	return buf.String()
}
