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

import "unsafe"

// option provides an interface to configure a collection while it is
// being created. The type parameters match the underlying table: a Map
// instantiates V2 at struct{} and a Set instantiates both V1 and V2 at
// struct{}. The WithMap* and WithSet* constructors pin those parameters
// for Map and Set call sites.
type option[K comparable, V1, V2 any] interface {
	apply(t *table[K, V1, V2])
}

type hashOption[K comparable, V1, V2 any] struct {
	hash func(key *K, seed uintptr) uintptr
}

func (op hashOption[K, V1, V2]) apply(t *table[K, V1, V2]) {
	t.hash = *(*hashFn)(noescape(unsafe.Pointer(&op.hash)))
}

// WithHash is an option to specify the hash function used for keys,
// replacing the runtime's hasher. The function must be deterministic for
// a given (key, seed) pair. Collections that should compare equal via
// Hash must share the same hash function.
func WithHash[K comparable, V1, V2 any](hash func(key *K, seed uintptr) uintptr) option[K, V1, V2] {
	return hashOption[K, V1, V2]{hash}
}

// WithMapHash is WithHash with the type parameters pinned for Map[K, V].
func WithMapHash[K comparable, V any](hash func(key *K, seed uintptr) uintptr) option[K, V, struct{}] {
	return WithHash[K, V, struct{}](hash)
}

// WithSetHash is WithHash with the type parameters pinned for Set[K].
func WithSetHash[K comparable](hash func(key *K, seed uintptr) uintptr) option[K, struct{}, struct{}] {
	return WithHash[K, struct{}, struct{}](hash)
}

// Allocator specifies an interface for allocating and releasing the
// backing arrays of a collection. The default allocator uses Go's
// builtin make() and lets the GC reclaim memory.
//
// Allocated slices must be zeroed, as make() guarantees. If the
// allocator manages memory manually and requires explicit release, the
// collection's Close must be called to ensure the Free methods run for
// the final arrays.
type Allocator[K comparable, V1, V2 any] interface {
	// AllocKeys should return a slice equivalent to make([]K, n).
	AllocKeys(n int) []K

	// AllocValues1 should return a slice equivalent to make([]V1, n).
	AllocValues1(n int) []V1

	// AllocValues2 should return a slice equivalent to make([]V2, n).
	AllocValues2(n int) []V2

	// AllocStatus should return a slice equivalent to make([]uint8, n).
	AllocStatus(n int) []uint8

	// FreeKeys can optionally release the memory of a slice guaranteed
	// to have been allocated by AllocKeys.
	FreeKeys(v []K)

	// FreeValues1 can optionally release the memory of a slice
	// guaranteed to have been allocated by AllocValues1.
	FreeValues1(v []V1)

	// FreeValues2 can optionally release the memory of a slice
	// guaranteed to have been allocated by AllocValues2.
	FreeValues2(v []V2)

	// FreeStatus can optionally release the memory of a slice guaranteed
	// to have been allocated by AllocStatus.
	FreeStatus(v []uint8)
}

type defaultAllocator[K comparable, V1, V2 any] struct{}

func (defaultAllocator[K, V1, V2]) AllocKeys(n int) []K {
	return make([]K, n)
}

func (defaultAllocator[K, V1, V2]) AllocValues1(n int) []V1 {
	return make([]V1, n)
}

func (defaultAllocator[K, V1, V2]) AllocValues2(n int) []V2 {
	return make([]V2, n)
}

func (defaultAllocator[K, V1, V2]) AllocStatus(n int) []uint8 {
	return make([]uint8, n)
}

func (defaultAllocator[K, V1, V2]) FreeKeys(v []K) {
}

func (defaultAllocator[K, V1, V2]) FreeValues1(v []V1) {
}

func (defaultAllocator[K, V1, V2]) FreeValues2(v []V2) {
}

func (defaultAllocator[K, V1, V2]) FreeStatus(v []uint8) {
}

type allocatorOption[K comparable, V1, V2 any] struct {
	allocator Allocator[K, V1, V2]
}

func (op allocatorOption[K, V1, V2]) apply(t *table[K, V1, V2]) {
	t.alloc = op.allocator
}

// WithAllocator is an option to specify the Allocator used for the
// backing arrays.
func WithAllocator[K comparable, V1, V2 any](allocator Allocator[K, V1, V2]) option[K, V1, V2] {
	return allocatorOption[K, V1, V2]{allocator}
}

// WithMapAllocator is WithAllocator with the type parameters pinned for
// Map[K, V].
func WithMapAllocator[K comparable, V any](allocator Allocator[K, V, struct{}]) option[K, V, struct{}] {
	return WithAllocator[K, V, struct{}](allocator)
}

// WithSetAllocator is WithAllocator with the type parameters pinned for
// Set[K].
func WithSetAllocator[K comparable](allocator Allocator[K, struct{}, struct{}]) option[K, struct{}, struct{}] {
	return WithAllocator[K, struct{}, struct{}](allocator)
}
