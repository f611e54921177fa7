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

// Cursor addresses one slot of a Map, Map2 or Set. Cursors are returned
// by Find, Insert, First and Next and consumed by the positional
// accessors: Key, Value, SetValue, DeleteAt and DeleteAndNext.
//
// A cursor stays valid while other slots are inserted, updated or
// deleted, but an insertion that grows the table moves every element and
// invalidates all outstanding cursors. Operations that can grow return a
// freshly resolved cursor; older cursors must be re-resolved with Find
// before further use. Passing NoCursor or a stale cursor to a positional
// accessor panics or addresses an unrelated slot.
type Cursor int

// NoCursor is the invalid cursor. Find returns it for absent keys and
// Next returns it when traversal is exhausted.
const NoCursor Cursor = noSlot

// Valid reports whether c addresses a slot. It does not check that the
// slot is occupied, only that c is not NoCursor.
func (c Cursor) Valid() bool {
	return c >= 0
}
