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
	"unsafe"
)

// noSlot is returned by find and next when no slot qualifies.
const noSlot = -1

// probeSeedMask truncates hashes to 31 bits before probing. The
// truncation bounds the perturbation term, which then decays to zero
// within seven probe steps, leaving the pure i = i*5 + 1 recurrence.
const probeSeedMask = 0x7fffffff

// probeSeq holds the state of one probe walk. i is the raw probe
// counter, p the decaying perturbation, and offset the slot the walk is
// currently visiting.
type probeSeq struct {
	mask   uint64
	i      uint64
	p      uint64
	offset int
}

func makeProbeSeq(hash, mask uint64) probeSeq {
	return probeSeq{
		mask:   mask,
		i:      hash,
		p:      hash,
		offset: int(hash & mask),
	}
}

func (s probeSeq) next() probeSeq {
	s.i = s.i*5 + s.p + 1
	s.p >>= 5
	s.offset = int(s.i & s.mask)
	return s
}

func (s probeSeq) String() string {
	return fmt.Sprintf("probeSeq(i=%d, p=%d, offset=%d)", s.i, s.p, s.offset)
}

// hashKey hashes key with the table's probe seed, truncated to the probe
// domain.
func (t *table[K, V1, V2]) hashKey(key *K) uint64 {
	return uint64(t.hash(noescape(unsafe.Pointer(key)), t.seed)) & probeSeedMask
}

// find returns the slot holding key, or noSlot. The probe stops at the
// first empty slot; tombstones are stepped over.
func (t *table[K, V1, V2]) find(key K) int {
	return t.findFrom(makeProbeSeq(t.hashKey(&key), t.mask), key)
}

// findFrom continues a probe walk from seq.
func (t *table[K, V1, V2]) findFrom(seq probeSeq, key K) int {
	for ; ; seq = seq.next() {
		j := seq.offset
		switch t.status[j] {
		case slotEmpty:
			return noSlot
		case slotUsed:
			if t.keys[j] == key {
				return j
			}
		}
	}
}

// insert returns the slot holding key, claiming one if the key is
// absent. added reports whether the key was newly inserted; when it is
// true the caller owns initializing the value slots. An insertion that
// grows the table re-resolves the slot in the new arrays before
// returning, so the result is always valid.
func (t *table[K, V1, V2]) insert(key K) (slot int, added bool) {
	seq := makeProbeSeq(t.hashKey(&key), t.mask)
	for ; ; seq = seq.next() {
		j := seq.offset
		switch t.status[j] {
		case slotEmpty:
			if debug {
				fmt.Printf("insert(%v): claim empty slot %d\n", key, j)
			}
			t.keys[j] = key
			t.status[j] = slotUsed
			t.len++
			t.used++
			if t.used > t.limit {
				t.grow()
				j = t.find(key)
			}
			t.checkInvariants()
			return j, true
		case slotTombstone:
			// The tombstone may shadow a live copy of key further along
			// the chain; reuse the slot only once the rest of the chain
			// has been searched.
			if k := t.findFrom(seq.next(), key); k != noSlot {
				return k, false
			}
			if debug {
				fmt.Printf("insert(%v): reclaim tombstone slot %d\n", key, j)
			}
			t.keys[j] = key
			t.status[j] = slotUsed
			t.len++ // used already counts this slot
			t.checkInvariants()
			return j, true
		case slotUsed:
			if t.keys[j] == key {
				return j, false
			}
		}
	}
}

// uncheckedInsert claims an empty slot for a key known to be absent,
// bypassing the tombstone and growth checks. Only rehash uses it: the
// target arrays are fresh and sized to hold every element below the
// limit.
func (t *table[K, V1, V2]) uncheckedInsert(key K, v1 V1, v2 V2) {
	seq := makeProbeSeq(t.hashKey(&key), t.mask)
	for ; ; seq = seq.next() {
		j := seq.offset
		if t.status[j] == slotEmpty {
			t.keys[j] = key
			t.vals1[j] = v1
			t.vals2[j] = v2
			t.status[j] = slotUsed
			t.len++
			t.used++
			return
		}
	}
}

// removeAt deletes the element in slot j, leaving a tombstone. The key
// and value slots are zeroed so the table drops any references they
// held.
func (t *table[K, V1, V2]) removeAt(j int) {
	var zk K
	var z1 V1
	var z2 V2
	t.status[j] = slotTombstone
	t.keys[j] = zk
	t.vals1[j] = z1
	t.vals2[j] = z2
	t.len--
	t.checkInvariants()
}

// next returns the first used slot after j, or noSlot. A full traversal
// starts at next(noSlot).
func (t *table[K, V1, V2]) next(j int) int {
	for j++; j < len(t.status); j++ {
		if t.status[j] == slotUsed {
			return j
		}
	}
	return noSlot
}

// removeAndNext deletes the element in slot j and returns the slot that
// followed it in traversal order. The successor is resolved before the
// removal mutates the table.
func (t *table[K, V1, V2]) removeAndNext(j int) int {
	n := t.next(j)
	t.removeAt(j)
	return n
}
