// SteamVDF
// Copyright (c) 2026 The SteamVDF Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of SteamVDF.
//
// SteamVDF is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// SteamVDF is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with SteamVDF.  If not, see <http://www.gnu.org/licenses/>.

// Package keyvalues holds the in-memory representation of Valve KeyValues
// trees shared by the text and binary VDF codecs: an insertion-ordered map
// from string keys to a closed set of typed values.
package keyvalues

import "iter"

// Kind identifies which variant a Value holds.
type Kind int

const (
	// KindInvalid is the zero Value; codecs reject it.
	KindInvalid Kind = iota
	KindString
	KindUint32
	KindUint64
	KindFloat32
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindUint32:
		return "uint32"
	case KindUint64:
		return "uint64"
	case KindFloat32:
		return "float32"
	case KindMap:
		return "map"
	default:
		return "invalid"
	}
}

// Value is a tagged union over the types VDF can carry. The zero Value is
// invalid; construct values with String, Uint32, Uint64, Float32 or MapValue.
type Value struct {
	m    *Map
	str  string
	u64  uint64
	u32  uint32
	f32  float32
	kind Kind
}

// String wraps a string leaf.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Uint32 wraps an unsigned 32-bit integer leaf.
func Uint32(v uint32) Value { return Value{kind: KindUint32, u32: v} }

// Uint64 wraps an unsigned 64-bit integer leaf.
func Uint64(v uint64) Value { return Value{kind: KindUint64, u64: v} }

// Float32 wraps a 32-bit float leaf.
func Float32(v float32) Value { return Value{kind: KindFloat32, f32: v} }

// MapValue wraps a nested map.
func MapValue(m *Map) Value { return Value{kind: KindMap, m: m} }

// Kind reports which variant the value holds.
func (v Value) Kind() Kind { return v.kind }

// AsString returns the string leaf, if that is what the value holds.
func (v Value) AsString() (string, bool) { return v.str, v.kind == KindString }

// AsUint32 returns the uint32 leaf, if that is what the value holds.
func (v Value) AsUint32() (uint32, bool) { return v.u32, v.kind == KindUint32 }

// AsUint64 returns the uint64 leaf, if that is what the value holds.
func (v Value) AsUint64() (uint64, bool) { return v.u64, v.kind == KindUint64 }

// AsFloat32 returns the float32 leaf, if that is what the value holds.
func (v Value) AsFloat32() (float32, bool) { return v.f32, v.kind == KindFloat32 }

// AsMap returns the nested map, if that is what the value holds.
func (v Value) AsMap() (*Map, bool) { return v.m, v.kind == KindMap }

// Equal reports deep equality, including nested map order.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == o.str
	case KindUint32:
		return v.u32 == o.u32
	case KindUint64:
		return v.u64 == o.u64
	case KindFloat32:
		// Bit-for-bit is not required; NaN never occurs in VDF files.
		return v.f32 == o.f32
	case KindMap:
		return v.m.Equal(o.m)
	default:
		return true
	}
}

// Map is an insertion-ordered mapping from string keys to Values. Keys are
// unique; setting an existing key replaces its value without moving it.
// Order is semantically significant: it is the serialization order, and for
// shortcuts.vdf it decides which numeric key counts as "last".
//
// A Map is not safe for concurrent mutation; callers serialize access.
type Map struct {
	index map[string]int
	keys  []string
	vals  []Value
}

// NewMap returns an empty ordered map.
func NewMap() *Map {
	return &Map{index: make(map[string]int)}
}

// Get returns the value for key, if present.
func (m *Map) Get(key string) (Value, bool) {
	i, ok := m.index[key]
	if !ok {
		return Value{}, false
	}
	return m.vals[i], true
}

// Set stores value under key. An existing key keeps its position; a new key
// is appended at the end.
func (m *Map) Set(key string, value Value) {
	if i, ok := m.index[key]; ok {
		m.vals[i] = value
		return
	}
	m.index[key] = len(m.keys)
	m.keys = append(m.keys, key)
	m.vals = append(m.vals, value)
}

// Contains reports whether key is present.
func (m *Map) Contains(key string) bool {
	_, ok := m.index[key]
	return ok
}

// Keys returns the keys in insertion order. The returned slice is shared
// with the map and must not be modified.
func (m *Map) Keys() []string { return m.keys }

// Len returns the number of entries.
func (m *Map) Len() int { return len(m.keys) }

// At returns the entry at insertion position i.
func (m *Map) At(i int) (string, Value) { return m.keys[i], m.vals[i] }

// All iterates entries in insertion order.
func (m *Map) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for i, k := range m.keys {
			if !yield(k, m.vals[i]) {
				return
			}
		}
	}
}

// Equal reports deep equality: same keys in the same order mapped to equal
// values.
func (m *Map) Equal(o *Map) bool {
	if m == nil || o == nil {
		return m == o
	}
	if len(m.keys) != len(o.keys) {
		return false
	}
	for i, k := range m.keys {
		if o.keys[i] != k || !m.vals[i].Equal(o.vals[i]) {
			return false
		}
	}
	return true
}
