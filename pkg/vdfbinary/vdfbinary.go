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

// Package vdfbinary reads and writes Valve's binary KeyValues format, the
// encoding used by Steam's shortcuts.vdf and Steam Input config blobs.
//
// A document is a flat byte stream of (marker, name, value) triples. Names
// are Latin-1 and zero-terminated; string values are UTF-8 and
// zero-terminated; numeric values are fixed-width little-endian. A map ends
// at an explicit end-of-map marker. The map marker byte doubles as the
// string terminator, so no encoded string may contain a zero byte.
package vdfbinary

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/steamvdf/steamvdf/pkg/keyvalues"
)

// Value type markers. These are fixed by the format and never change at
// runtime.
const (
	markerMap      byte = 0x00
	markerString   byte = 0x01
	markerUint32   byte = 0x02
	markerFloat32  byte = 0x03
	markerUint64   byte = 0x07
	markerEndOfMap byte = 0x08
)

var (
	ErrEmptyVDF     = errors.New("the vdf you are trying to decode appears empty")
	ErrNotBinaryVDF = errors.New("the vdf appears not to be binary, are you sure it is not a text vdf?")
)

// BoundsError reports a read that would run past the end of the buffer,
// including a string whose zero terminator is missing and a map whose
// end-of-map marker is missing. Need is the number of bytes the read
// wanted, or -1 when scanning for a terminator.
type BoundsError struct {
	Offset int
	Need   int
}

func (e *BoundsError) Error() string {
	if e.Need < 0 {
		return fmt.Sprintf("vdfbinary: no terminator found after offset %d", e.Offset)
	}
	return fmt.Sprintf("vdfbinary: need %d bytes at offset %d, buffer exhausted", e.Need, e.Offset)
}

// UnknownTypeError reports a type marker outside the recognized set.
type UnknownTypeError struct {
	Offset int
	Marker byte
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("vdfbinary: unexpected type marker 0x%02x at offset %d, your file might be corrupted", e.Marker, e.Offset)
}

// InvalidValueError reports a value Encode cannot represent: a string (or
// name) containing a zero byte, a name outside Latin-1, or the zero
// keyvalues.Value.
type InvalidValueError struct {
	Key    string
	Reason string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("vdfbinary: cannot encode %q: %s", e.Key, e.Reason)
}

// Decode parses a complete binary VDF document starting at the beginning
// of buf. Trailing bytes after the root map closes are ignored; use
// DecodeAt to learn where the document ended.
func Decode(buf []byte) (*keyvalues.Map, error) {
	m, _, err := DecodeAt(buf, 0)
	return m, err
}

// DecodeAt parses one map starting at offset off and returns it together
// with the offset of the first byte after its end-of-map marker.
func DecodeAt(buf []byte, off int) (*keyvalues.Map, int, error) {
	if off >= len(buf) {
		return nil, off, ErrEmptyVDF
	}
	switch buf[off] {
	case markerMap, markerString, markerUint32, markerFloat32, markerUint64, markerEndOfMap:
	default:
		return nil, off, ErrNotBinaryVDF
	}

	c := &cursor{buf: buf, off: off}
	m, err := c.readMap()
	if err != nil {
		return nil, c.off, err
	}
	return m, c.off, nil
}

// cursor is the decode position shared across recursive map reads.
type cursor struct {
	buf []byte
	off int
}

func (c *cursor) readByte() (byte, error) {
	if c.off >= len(c.buf) {
		return 0, &BoundsError{Offset: c.off, Need: 1}
	}
	b := c.buf[c.off]
	c.off++
	return b, nil
}

// readCString scans to the next zero byte and returns the bytes before it,
// advancing past the terminator.
func (c *cursor) readCString() ([]byte, error) {
	i := bytes.IndexByte(c.buf[c.off:], 0x00)
	if i < 0 {
		return nil, &BoundsError{Offset: c.off, Need: -1}
	}
	s := c.buf[c.off : c.off+i]
	c.off += i + 1
	return s, nil
}

func (c *cursor) readBytes(n int) ([]byte, error) {
	if c.off+n > len(c.buf) {
		return nil, &BoundsError{Offset: c.off, Need: n}
	}
	b := c.buf[c.off : c.off+n]
	c.off += n
	return b, nil
}

func (c *cursor) readMap() (*keyvalues.Map, error) {
	m := keyvalues.NewMap()

	for {
		markerOff := c.off
		marker, err := c.readByte()
		if err != nil {
			return nil, err
		}
		if marker == markerEndOfMap {
			return m, nil
		}

		nameBytes, err := c.readCString()
		if err != nil {
			return nil, err
		}
		name := latin1String(nameBytes)

		var value keyvalues.Value
		switch marker {
		case markerMap:
			child, err := c.readMap()
			if err != nil {
				return nil, err
			}
			value = keyvalues.MapValue(child)
		case markerString:
			s, err := c.readCString()
			if err != nil {
				return nil, err
			}
			value = keyvalues.String(string(s))
		case markerUint32:
			b, err := c.readBytes(4)
			if err != nil {
				return nil, err
			}
			value = keyvalues.Uint32(binary.LittleEndian.Uint32(b))
		case markerFloat32:
			b, err := c.readBytes(4)
			if err != nil {
				return nil, err
			}
			value = keyvalues.Float32(math.Float32frombits(binary.LittleEndian.Uint32(b)))
		case markerUint64:
			b, err := c.readBytes(8)
			if err != nil {
				return nil, err
			}
			value = keyvalues.Uint64(binary.LittleEndian.Uint64(b))
		default:
			return nil, &UnknownTypeError{Marker: marker, Offset: markerOff}
		}

		m.Set(name, value)
	}
}

// Encode serializes the map as a binary VDF document. Entries are written
// in insertion order; the root map's end-of-map marker is the final byte.
func Encode(m *keyvalues.Map) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeMap(&buf, m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeMap(buf *bytes.Buffer, m *keyvalues.Map) error {
	for name, value := range m.All() {
		nameBytes, err := latin1Bytes(name)
		if err != nil {
			return err
		}

		switch value.Kind() {
		case keyvalues.KindMap:
			child, _ := value.AsMap()
			buf.WriteByte(markerMap)
			writeCString(buf, nameBytes)
			if err := writeMap(buf, child); err != nil {
				return err
			}
		case keyvalues.KindString:
			s, _ := value.AsString()
			if bytes.IndexByte([]byte(s), 0x00) >= 0 {
				return &InvalidValueError{Key: name, Reason: "string contains a zero byte"}
			}
			buf.WriteByte(markerString)
			writeCString(buf, nameBytes)
			writeCString(buf, []byte(s))
		case keyvalues.KindUint32:
			u, _ := value.AsUint32()
			buf.WriteByte(markerUint32)
			writeCString(buf, nameBytes)
			buf.Write(binary.LittleEndian.AppendUint32(nil, u))
		case keyvalues.KindFloat32:
			f, _ := value.AsFloat32()
			buf.WriteByte(markerFloat32)
			writeCString(buf, nameBytes)
			buf.Write(binary.LittleEndian.AppendUint32(nil, math.Float32bits(f)))
		case keyvalues.KindUint64:
			u, _ := value.AsUint64()
			buf.WriteByte(markerUint64)
			writeCString(buf, nameBytes)
			buf.Write(binary.LittleEndian.AppendUint64(nil, u))
		default:
			return &InvalidValueError{Key: name, Reason: fmt.Sprintf("unsupported value kind %s", value.Kind())}
		}
	}

	buf.WriteByte(markerEndOfMap)
	return nil
}

func writeCString(buf *bytes.Buffer, b []byte) {
	buf.Write(b)
	buf.WriteByte(0x00)
}

// latin1String interprets raw bytes as ISO-8859-1, mapping each byte to
// the code point of the same value.
func latin1String(b []byte) string {
	r := make([]rune, len(b))
	for i, c := range b {
		r[i] = rune(c)
	}
	return string(r)
}

// latin1Bytes encodes a name as ISO-8859-1. Names containing a zero byte
// or code points above U+00FF cannot be represented.
func latin1Bytes(s string) ([]byte, error) {
	b := make([]byte, 0, len(s))
	for _, r := range s {
		switch {
		case r == 0:
			return nil, &InvalidValueError{Key: s, Reason: "name contains a zero byte"}
		case r > 0xFF:
			return nil, &InvalidValueError{Key: s, Reason: "name is not representable in Latin-1"}
		}
		b = append(b, byte(r))
	}
	return b, nil
}
