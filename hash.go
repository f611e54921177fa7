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
	"unsafe"

	"golang.org/x/exp/rand"
)

// hashFn is the signature of the hash functions generated by the Go
// runtime for map keys. The first argument points at the key and the
// second is a seed to mix in.
type hashFn func(unsafe.Pointer, uintptr) uintptr

// getRuntimeHasher returns the hash function the runtime itself uses for
// map[K]struct{} keys. An interface holding a map value is a pair of
// (*maptype, data) words and maptype carries the compiled hasher, so we
// materialize a throwaway map and pull the function out of its type
// descriptor.
//
// The struct definitions below mirror runtime/type.go and must be kept in
// sync with the runtime version targeted by go.mod.
func getRuntimeHasher[K comparable]() hashFn {
	a := any(make(map[K]struct{}))
	i := (*mapiface)(unsafe.Pointer(&a))
	return i.typ.hasher
}

// mapiface mirrors the runtime representation of a non-empty interface
// holding a map value.
type mapiface struct {
	typ *maptype
	val unsafe.Pointer
}

// maptype mirrors runtime.maptype.
type maptype struct {
	typ    _type
	key    *_type
	elem   *_type
	bucket *_type
	// hasher is the only field we read.
	hasher     func(unsafe.Pointer, uintptr) uintptr
	keysize    uint8
	elemsize   uint8
	bucketsize uint16
	flags      uint32
}

// _type mirrors runtime._type.
type _type struct {
	size       uintptr
	ptrdata    uintptr
	hash       uint32
	tflag      uint8
	align      uint8
	fieldAlign uint8
	kind       uint8
	equal      func(unsafe.Pointer, unsafe.Pointer) bool
	gcdata     *byte
	str        int32
	ptrToThis  int32
}

// tableSeed returns a fresh probe seed. Each table gets its own seed so
// slot placement differs between instances and between runs, which keeps
// callers from accidentally depending on traversal order.
func tableSeed() uintptr {
	return uintptr(rand.Uint64())
}

// sharedSeed is the process-wide seed used when hashing elements for
// Hash. Element hashes must agree across tables holding equal contents,
// so Hash cannot use the per-table probe seeds.
var sharedSeed = uintptr(rand.Uint64())

// noescape hides a pointer from escape analysis. noescape is the identity
// function but escape analysis doesn't think the output depends on the
// input. noescape is inlined and currently compiles down to zero
// instructions. USE CAREFULLY!
//
//go:nosplit
//go:nocheckptr
func noescape(p unsafe.Pointer) unsafe.Pointer {
	x := uintptr(p)
	return unsafe.Pointer(x ^ 0)
}

// unsafeConvertSlice reinterprets the backing store of a slice as a
// different element type. Src and Dest must have identical size and
// alignment.
func unsafeConvertSlice[Dest any, Src any](s []Src) []Dest {
	return unsafe.Slice((*Dest)(unsafe.Pointer(unsafe.SliceData(s))), len(s))
}
