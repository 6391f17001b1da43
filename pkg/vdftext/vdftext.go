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

// Package vdftext reads and writes the human-readable VDF (KeyValues)
// format: nested blocks of quoted keys and values delimited by braces.
//
// Quote characters are treated as ordinary content, not as delimiters to
// strip: a parsed key or value keeps its surrounding double quotes in the
// stored string, and Marshal writes keys and values back out verbatim.
// Steam Input config-set templates rely on the quotes being present in the
// stored strings, so this package never removes them.
package vdftext

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/steamvdf/steamvdf/pkg/keyvalues"
)

// SyntaxError reports a line that matches no grammar alternative. Line is
// the zero-based index into the input slice.
type SyntaxError struct {
	Text string
	Line int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("vdftext: syntax error at line %d: %q", e.Line, e.Text)
}

// InvalidValueError reports a value that the text format cannot carry; only
// string leaves and nested maps exist in text VDF.
type InvalidValueError struct {
	Key  string
	Kind keyvalues.Kind
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("vdftext: cannot marshal %s value for key %s", e.Kind, e.Key)
}

// Each line is one token group: a quoted key with an optional quoted value,
// or a lone brace.
var lineRe = regexp.MustCompile(`^\s*(?:("[^"]*")|([{}]))(?:\s*("[^"]*"))?\s*$`)

// Parse decodes a text VDF document given as a slice of lines, typically
// the result of splitting file contents on newlines.
func Parse(lines []string) (*keyvalues.Map, error) {
	pos := 0
	return parseBlock(lines, &pos)
}

// parseBlock consumes lines starting at *pos until a closing brace or the
// end of input. The cursor is shared across recursion levels so a nested
// block consumes exactly its own lines.
func parseBlock(lines []string, pos *int) (*keyvalues.Map, error) {
	m := keyvalues.NewMap()
	for *pos < len(lines) {
		key, brace, value, ok := splitLine(lines[*pos])
		switch {
		case !ok:
			return nil, &SyntaxError{Line: *pos, Text: lines[*pos]}
		case brace == "}":
			*pos++
			return m, nil
		case brace == "{":
			// An opening brace with no key line before it.
			return nil, &SyntaxError{Line: *pos, Text: lines[*pos]}
		case value != "":
			m.Set(key, keyvalues.String(value))
			*pos++
		default:
			// A lone key opens a block: the next line must be "{".
			*pos++
			if *pos >= len(lines) {
				return nil, &SyntaxError{Line: *pos - 1, Text: lines[*pos-1]}
			}
			if _, b, _, lineOK := splitLine(lines[*pos]); !lineOK || b != "{" {
				return nil, &SyntaxError{Line: *pos, Text: lines[*pos]}
			}
			*pos++
			child, err := parseBlock(lines, pos)
			if err != nil {
				return nil, err
			}
			m.Set(key, keyvalues.MapValue(child))
		}
	}
	return m, nil
}

func splitLine(line string) (key, brace, value string, ok bool) {
	sub := lineRe.FindStringSubmatch(line)
	if sub == nil {
		return "", "", "", false
	}
	return sub[1], sub[2], sub[3], true
}

// Marshal renders the map as a text VDF document: leaf entries as
// "key\t\tvalue" lines, nested maps as a key line followed by a braced,
// tab-indented block. Lines are joined with \n and a trailing newline is
// appended.
func Marshal(m *keyvalues.Map) (string, error) {
	lines, err := marshalMap(m, 0)
	if err != nil {
		return "", err
	}
	return strings.Join(lines, "\n") + "\n", nil
}

func marshalMap(m *keyvalues.Map, depth int) ([]string, error) {
	indent := strings.Repeat("\t", depth)
	lines := make([]string, 0, m.Len())
	for key, v := range m.All() {
		if child, isMap := v.AsMap(); isMap {
			lines = append(lines, indent+key, indent+"{")
			sub, err := marshalMap(child, depth+1)
			if err != nil {
				return nil, err
			}
			lines = append(lines, sub...)
			lines = append(lines, indent+"}")
			continue
		}
		s, isString := v.AsString()
		if !isString {
			return nil, &InvalidValueError{Key: key, Kind: v.Kind()}
		}
		lines = append(lines, indent+key+"\t\t"+s)
	}
	return lines, nil
}
