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

package vdfbinary_test

import (
	"bytes"
	"testing"

	"github.com/steamvdf/steamvdf/pkg/keyvalues"
	"github.com/steamvdf/steamvdf/pkg/vdfbinary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeEmptyShortcutsSkeleton(t *testing.T) {
	t.Parallel()

	root := keyvalues.NewMap()
	root.Set("shortcuts", keyvalues.MapValue(keyvalues.NewMap()))

	out, err := vdfbinary.Encode(root)
	require.NoError(t, err)

	want := []byte{
		0x00, 's', 'h', 'o', 'r', 't', 'c', 'u', 't', 's', 0x00,
		0x08, // end of nested map
		0x08, // end of root map
	}
	assert.Equal(t, want, out)
}

func TestDecodeShortcutEntry(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	// shortcuts map start
	buf.WriteByte(0x00)
	buf.WriteString("shortcuts")
	buf.WriteByte(0x00)

	// shortcut "0" map start
	buf.WriteByte(0x00)
	buf.WriteString("0")
	buf.WriteByte(0x00)

	// appid (uint32)
	buf.WriteByte(0x02)
	buf.WriteString("appid")
	buf.WriteByte(0x00)
	buf.Write([]byte{0x01, 0x02, 0x03, 0x04}) // 0x04030201 little endian

	// AppName (string)
	buf.WriteByte(0x01)
	buf.WriteString("AppName")
	buf.WriteByte(0x00)
	buf.WriteString("Test Game")
	buf.WriteByte(0x00)

	buf.WriteByte(0x08) // end "0"
	buf.WriteByte(0x08) // end shortcuts
	buf.WriteByte(0x08) // end root

	root, err := vdfbinary.Decode(buf.Bytes())
	require.NoError(t, err)

	shortcutsVal, ok := root.Get("shortcuts")
	require.True(t, ok)
	shortcuts, ok := shortcutsVal.AsMap()
	require.True(t, ok)

	entryVal, ok := shortcuts.Get("0")
	require.True(t, ok)
	entry, ok := entryVal.AsMap()
	require.True(t, ok)

	// Insertion order preserved.
	assert.Equal(t, []string{"appid", "AppName"}, entry.Keys())

	v, ok := entry.Get("appid")
	require.True(t, ok)
	u, ok := v.AsUint32()
	require.True(t, ok)
	assert.Equal(t, uint32(0x04030201), u)

	v, ok = entry.Get("AppName")
	require.True(t, ok)
	s, ok := v.AsString()
	require.True(t, ok)
	assert.Equal(t, "Test Game", s)
}

func TestDecodeUint64AndFloat32(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	buf.WriteByte(0x07) // uint64
	buf.WriteString("big")
	buf.WriteByte(0x00)
	buf.Write([]byte{0xEF, 0xCD, 0xAB, 0x89, 0x67, 0x45, 0x23, 0x01})

	buf.WriteByte(0x03) // float32
	buf.WriteString("f")
	buf.WriteByte(0x00)
	buf.Write([]byte{0x00, 0x00, 0x20, 0x40}) // 2.5

	buf.WriteByte(0x08)

	m, err := vdfbinary.Decode(buf.Bytes())
	require.NoError(t, err)

	v, ok := m.Get("big")
	require.True(t, ok)
	u64, ok := v.AsUint64()
	require.True(t, ok)
	assert.Equal(t, uint64(0x0123456789ABCDEF), u64)

	v, ok = m.Get("f")
	require.True(t, ok)
	f, ok := v.AsFloat32()
	require.True(t, ok)
	assert.InDelta(t, 2.5, f, 0)
}

func TestDecodeEmptyBuffer(t *testing.T) {
	t.Parallel()

	_, err := vdfbinary.Decode(nil)
	assert.ErrorIs(t, err, vdfbinary.ErrEmptyVDF)
}

func TestDecodeTextVDFRejected(t *testing.T) {
	t.Parallel()

	_, err := vdfbinary.Decode([]byte(`"shortcuts" { }`))
	assert.ErrorIs(t, err, vdfbinary.ErrNotBinaryVDF)
}

func TestDecodeMissingEndOfMap(t *testing.T) {
	t.Parallel()

	// Root map opens a nested map but the stream ends before any 0x08.
	truncated := []byte{0x00, 's', 'h', 'o', 'r', 't', 'c', 'u', 't', 's', 0x00}
	_, err := vdfbinary.Decode(truncated)

	var boundsErr *vdfbinary.BoundsError
	require.ErrorAs(t, err, &boundsErr)
}

func TestDecodeMissingStringTerminator(t *testing.T) {
	t.Parallel()

	// String value runs to the end of the buffer with no terminator.
	raw := []byte{0x01, 'k', 0x00, 'v', 'a', 'l'}
	_, err := vdfbinary.Decode(raw)

	var boundsErr *vdfbinary.BoundsError
	require.ErrorAs(t, err, &boundsErr)
	assert.Equal(t, -1, boundsErr.Need)
}

func TestDecodeTruncatedNumber(t *testing.T) {
	t.Parallel()

	raw := []byte{0x02, 'n', 0x00, 0x01, 0x02} // uint32 with only 2 bytes
	_, err := vdfbinary.Decode(raw)

	var boundsErr *vdfbinary.BoundsError
	require.ErrorAs(t, err, &boundsErr)
	assert.Equal(t, 4, boundsErr.Need)
}

func TestDecodeUnknownMarker(t *testing.T) {
	t.Parallel()

	// First entry is valid so the header check passes, then 0x05 follows.
	raw := []byte{0x02, 'n', 0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 'x', 0x00}
	_, err := vdfbinary.Decode(raw)

	var unknownErr *vdfbinary.UnknownTypeError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, byte(0x05), unknownErr.Marker)
	assert.Equal(t, 7, unknownErr.Offset)
}

func TestDecodeAtReturnsEndOffset(t *testing.T) {
	t.Parallel()

	doc := []byte{0x02, 'n', 0x00, 0x2A, 0x00, 0x00, 0x00, 0x08}
	trailing := append(append([]byte{}, doc...), 0xDE, 0xAD)

	m, end, err := vdfbinary.DecodeAt(trailing, 0)
	require.NoError(t, err)
	assert.Equal(t, len(doc), end)
	assert.Equal(t, 1, m.Len())
}

func TestEncodeRejectsZeroByteInString(t *testing.T) {
	t.Parallel()

	m := keyvalues.NewMap()
	m.Set("bad", keyvalues.String("a\x00b"))

	_, err := vdfbinary.Encode(m)
	var invErr *vdfbinary.InvalidValueError
	require.ErrorAs(t, err, &invErr)
	assert.Equal(t, "bad", invErr.Key)
}

func TestEncodeRejectsZeroByteInName(t *testing.T) {
	t.Parallel()

	m := keyvalues.NewMap()
	m.Set("a\x00b", keyvalues.String("v"))

	_, err := vdfbinary.Encode(m)
	var invErr *vdfbinary.InvalidValueError
	require.ErrorAs(t, err, &invErr)
}

func TestEncodeRejectsZeroValue(t *testing.T) {
	t.Parallel()

	m := keyvalues.NewMap()
	m.Set("zero", keyvalues.Value{})

	_, err := vdfbinary.Encode(m)
	var invErr *vdfbinary.InvalidValueError
	require.ErrorAs(t, err, &invErr)
	assert.Equal(t, "zero", invErr.Key)
}

func TestEncodeLittleEndianLayout(t *testing.T) {
	t.Parallel()

	m := keyvalues.NewMap()
	m.Set("n", keyvalues.Uint32(0x04030201))
	m.Set("b", keyvalues.Uint64(0x0807060504030201))

	out, err := vdfbinary.Encode(m)
	require.NoError(t, err)

	want := []byte{
		0x02, 'n', 0x00, 0x01, 0x02, 0x03, 0x04,
		0x07, 'b', 0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08,
		0x08,
	}
	assert.Equal(t, want, out)
}

func TestLatin1NameRoundTrip(t *testing.T) {
	t.Parallel()

	// 0xE9 is é in ISO-8859-1; it must survive encode and decode as a
	// single byte on the wire.
	m := keyvalues.NewMap()
	m.Set("café", keyvalues.Uint32(1))

	out, err := vdfbinary.Encode(m)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x02, 'c', 'a', 'f', 0xE9, 0x00, 0x01, 0x00, 0x00, 0x00, 0x08}, out)

	again, err := vdfbinary.Decode(out)
	require.NoError(t, err)
	assert.True(t, again.Contains("café"))
}
