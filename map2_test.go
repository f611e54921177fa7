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
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// toBuiltinMaps returns the elements as a pair of builtin maps. Useful
// for testing.
func (m *Map2[K, V1, V2]) toBuiltinMaps() (map[K]V1, map[K]V2) {
	r1 := make(map[K]V1)
	r2 := make(map[K]V2)
	m.All(func(k K, v1 V1, v2 V2) bool {
		r1[k] = v1
		r2[k] = v2
		return true
	})
	return r1, r2
}

// randKey returns a pseudo-random key. Note that the key is not selected
// uniformly randomly.
func (m *Map2[K, V1, V2]) randKey() (key K, ok bool) {
	if m.Len() == 0 {
		return key, false
	}
	n := rand.Intn(m.Len())
	m.All(func(k K, v1 V1, v2 V2) bool {
		key = k
		ok = true
		n--
		return n >= 0
	})
	return
}

func TestMap2Basic(t *testing.T) {
	const count = 100

	m := NewMap2[int, int, string](0)
	e1 := make(map[int]int)
	e2 := make(map[int]string)
	require.True(t, m.IsEmpty())

	for i := 0; i < count; i++ {
		_, _, ok := m.Get(i)
		require.False(t, ok)
	}

	for i := 0; i < count; i++ {
		s := fmt.Sprintf("v%d", i)
		m.Put(i, i*2, s)
		e1[i] = i * 2
		e2[i] = s
		v1, v2, ok := m.Get(i)
		require.True(t, ok)
		require.EqualValues(t, i*2, v1)
		require.Equal(t, s, v2)
		require.EqualValues(t, i+1, m.Len())
	}
	r1, r2 := m.toBuiltinMaps()
	require.Equal(t, e1, r1)
	require.Equal(t, e2, r2)

	// Update both values.
	for i := 0; i < count; i++ {
		m.Put(i, i*3, "x")
		e1[i] = i * 3
		e2[i] = "x"
	}
	require.EqualValues(t, count, m.Len())
	r1, r2 = m.toBuiltinMaps()
	require.Equal(t, e1, r1)
	require.Equal(t, e2, r2)

	for i := 0; i < count; i++ {
		require.True(t, m.Delete(i))
		require.False(t, m.Delete(i))
		delete(e1, i)
		delete(e2, i)
		require.EqualValues(t, count-i-1, m.Len())
	}
	require.True(t, m.IsEmpty())
}

func TestMap2CursorValues(t *testing.T) {
	m := NewMap2[string, int, float64](0)

	c, added := m.Insert("a")
	require.True(t, added)
	// Fresh slots carry zero values until set.
	require.EqualValues(t, 0, m.Value1(c))
	require.EqualValues(t, 0.0, m.Value2(c))

	// The two value slots update independently.
	m.SetValue1(c, 42)
	require.EqualValues(t, 42, m.Value1(c))
	require.EqualValues(t, 0.0, m.Value2(c))
	m.SetValue2(c, 2.5)
	require.EqualValues(t, 42, m.Value1(c))
	require.EqualValues(t, 2.5, m.Value2(c))

	v1, v2, ok := m.Get("a")
	require.True(t, ok)
	require.EqualValues(t, 42, v1)
	require.EqualValues(t, 2.5, v2)
	require.Equal(t, "a", m.Key(c))
}

func TestMap2DeleteZeroesSlot(t *testing.T) {
	m := NewMap2[int, int, string](0)
	m.Put(1, 99, "payload")
	require.True(t, m.Delete(1))

	// Reclaiming the slot must not leak the old values.
	c, added := m.Insert(1)
	require.True(t, added)
	require.EqualValues(t, 0, m.Value1(c))
	require.Equal(t, "", m.Value2(c))
}

func TestMap2EqualIgnoresValues(t *testing.T) {
	m1 := NewMap2[string, int, int](0)
	m2 := NewMap2[string, int, int](0)
	m1.Put("a", 1, 2)
	m2.Put("a", 8, 9)

	// Equality is over keys; EqualFunc brings in both values.
	require.True(t, m1.Equal(m2))
	require.EqualValues(t, m1.Hash(), m2.Hash())

	eq := func(x, y int) bool { return x == y }
	require.False(t, m1.EqualFunc(m2, eq, eq))
	m2.Put("a", 1, 9)
	require.False(t, m1.EqualFunc(m2, eq, eq))
	m2.Put("a", 1, 2)
	require.True(t, m1.EqualFunc(m2, eq, eq))

	m2.Put("b", 0, 0)
	require.False(t, m1.Equal(m2))
	require.False(t, m1.EqualFunc(m2, eq, eq))
}

func TestMap2Random(t *testing.T) {
	m := NewMap2[int, int, int](0)
	e1 := make(map[int]int)
	e2 := make(map[int]int)
	for i := 0; i < 5000; i++ {
		switch r := rand.Float64(); {
		case r < 0.5: // 50% inserts
			k, v := rand.Int(), rand.Int()
			m.Put(k, v, v+1)
			e1[k] = v
			e2[k] = v + 1
		case r < 0.65: // 15% updates
			if k, ok := m.randKey(); ok {
				v := rand.Int()
				m.Put(k, v, v-1)
				e1[k] = v
				e2[k] = v - 1
			}
		case r < 0.80: // 15% deletes
			if k, ok := m.randKey(); ok {
				require.True(t, m.Delete(k))
				delete(e1, k)
				delete(e2, k)
			}
		case r < 0.95: // 15% lookups
			if k, ok := m.randKey(); ok {
				v1, v2, gok := m.Get(k)
				require.True(t, gok)
				require.EqualValues(t, e1[k], v1)
				require.EqualValues(t, e2[k], v2)
			}
		default: // 5% rehash in place and compare
			m.rehash(m.capacity())
			require.EqualValues(t, m.len, m.used)
			r1, r2 := m.toBuiltinMaps()
			require.Equal(t, e1, r1)
			require.Equal(t, e2, r2)
		}
		require.EqualValues(t, len(e1), m.Len())
	}
}

func TestMap2Clone(t *testing.T) {
	m := NewMap2[int, int, string](0)
	for i := 0; i < 50; i++ {
		m.Put(i, i, fmt.Sprintf("v%d", i))
	}
	c := m.Clone()
	require.True(t, m.Equal(c))
	c1, c2 := c.toBuiltinMaps()
	m1, m2 := m.toBuiltinMaps()
	require.Equal(t, m1, c1)
	require.Equal(t, m2, c2)

	c.Put(0, -1, "changed")
	v1, v2, ok := m.Get(0)
	require.True(t, ok)
	require.EqualValues(t, 0, v1)
	require.Equal(t, "v0", v2)
}

func TestMap2ClearAndClose(t *testing.T) {
	a := &countingAllocator[int, int, int]{}
	m := NewMap2[int, int, int](0, WithAllocator[int, int, int](a))
	for i := 0; i < 100; i++ {
		m.Put(i, i, i)
	}
	capacity := m.capacity()
	m.Clear()
	require.EqualValues(t, 0, m.Len())
	require.EqualValues(t, 0, m.used)
	require.EqualValues(t, capacity, m.capacity())

	m.Put(1, 2, 3)
	require.EqualValues(t, 1, m.Len())

	frees := a.frees
	m.Close()
	require.EqualValues(t, frees+4, a.frees)
	m.Close()
	require.EqualValues(t, frees+4, a.frees)
}

func TestMap2String(t *testing.T) {
	identity := func(key *int, seed uintptr) uintptr { return uintptr(*key) }
	m := NewMap2[int, int, string](0, WithHash[int, int, string](identity))
	require.Equal(t, "Map2[]", m.String())
	m.Put(1, 10, "a")
	m.Put(2, 20, "b")
	require.Equal(t, "Map2[1:(10,a) 2:(20,b)]", m.String())
}
