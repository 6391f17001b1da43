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

// Package shortcuts edits Steam's shortcuts.vdf non-Steam-game sets: it
// adds or replaces shortcut entries in a decoded binary VDF tree and moves
// whole files in and out of that tree.
package shortcuts

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"

	"github.com/steamvdf/steamvdf/pkg/keyvalues"
)

// Non-Steam shortcut appids are drawn from [AppIDMin, AppIDMax). The upper
// bound excludes 0xFFFFFFFF, which Steam uses as an invalid id.
const (
	AppIDMin uint32 = 1_000_000_000
	AppIDMax uint32 = 4_294_967_294
)

// ErrNoShortcuts is returned when the root map has no "shortcuts" entry.
// Nothing is mutated in that case.
var ErrNoShortcuts = errors.New("shortcuts: root map has no \"shortcuts\" entry")

// Shortcut describes a non-Steam game launch entry.
type Shortcut struct {
	AppName            string
	Exe                string
	StartDir           string
	Icon               string
	LaunchOptions      string
	IsHidden           bool
	AllowOverlay       bool
	AllowDesktopConfig bool
	OpenVR             bool
}

// RandSource yields uniformly distributed unsigned 32-bit integers within
// a half-open range. The default source is math/rand/v2; tests inject a
// scripted source.
type RandSource interface {
	Uint32Range(low, high uint32) uint32
}

type systemRand struct{}

func (systemRand) Uint32Range(low, high uint32) uint32 {
	return low + rand.Uint32N(high-low)
}

// ConfirmFunc decides whether an existing shortcut with the same AppName
// should be replaced. It is the caller's hook into whatever prompt or
// policy applies; the editor only needs the boolean.
type ConfirmFunc func(name string) bool

// EditorOptions configures an Editor. Zero values select the defaults: the
// system random source, and never replacing an existing entry by name.
type EditorOptions struct {
	Rand    RandSource
	Confirm ConfirmFunc
}

// Editor adds shortcut entries to a decoded shortcuts.vdf tree.
type Editor struct {
	rand    RandSource
	confirm ConfirmFunc
}

// NewEditor creates an editor with the given options.
func NewEditor(opts EditorOptions) *Editor {
	e := &Editor{rand: opts.Rand, confirm: opts.Confirm}
	if e.rand == nil {
		e.rand = systemRand{}
	}
	if e.confirm == nil {
		e.confirm = func(string) bool { return false }
	}
	return e
}

// Skeleton returns the tree of an empty shortcuts.vdf: a root map holding
// one empty "shortcuts" map.
func Skeleton() *keyvalues.Map {
	root := keyvalues.NewMap()
	root.Set("shortcuts", keyvalues.MapValue(keyvalues.NewMap()))
	return root
}

// Add inserts s into root's "shortcuts" map and returns the appid assigned
// to it.
//
// The entry key is the numeric value of the last-inserted key plus one
// ("0" for an empty set). If an existing entry has the same AppName and
// the confirm hook approves, that entry's key is reused and the entry is
// replaced in place. The appid is drawn from [AppIDMin, AppIDMax) and
// redrawn until it collides with no existing entry's appid.
func (e *Editor) Add(root *keyvalues.Map, s Shortcut) (uint32, error) {
	set, err := shortcutsMap(root)
	if err != nil {
		return 0, err
	}

	key, err := nextKey(set)
	if err != nil {
		return 0, err
	}

	appID := e.drawAppID(existingAppIDs(set))

	if existing, found := findByName(set, s.AppName); found && e.confirm(s.AppName) {
		key = existing
	}

	set.Set(key, keyvalues.MapValue(entryMap(s, appID)))
	return appID, nil
}

func shortcutsMap(root *keyvalues.Map) (*keyvalues.Map, error) {
	v, ok := root.Get("shortcuts")
	if !ok {
		return nil, ErrNoShortcuts
	}
	set, ok := v.AsMap()
	if !ok {
		return nil, ErrNoShortcuts
	}
	return set, nil
}

// nextKey derives the key for a fresh entry from the last-inserted key,
// not the numeric maximum. A hand-edited file with out-of-order keys can
// therefore produce a key that already exists, in which case Add replaces
// that entry; this mirrors how Steam itself appends.
func nextKey(set *keyvalues.Map) (string, error) {
	if set.Len() == 0 {
		return "0", nil
	}
	last, _ := set.At(set.Len() - 1)
	n, err := strconv.ParseUint(last, 10, 32)
	if err != nil {
		return "", fmt.Errorf("shortcuts: last entry key %q is not numeric: %w", last, err)
	}
	return strconv.FormatUint(n+1, 10), nil
}

func existingAppIDs(set *keyvalues.Map) map[uint32]struct{} {
	ids := make(map[uint32]struct{}, set.Len())
	for _, v := range set.All() {
		entry, ok := v.AsMap()
		if !ok {
			continue
		}
		if idVal, ok := entry.Get("appid"); ok {
			if id, ok := idVal.AsUint32(); ok {
				ids[id] = struct{}{}
			}
		}
	}
	return ids
}

// drawAppID re-samples until the id is free. The collision set is tiny
// next to the id space, so this terminates quickly in practice.
func (e *Editor) drawAppID(taken map[uint32]struct{}) uint32 {
	for {
		id := e.rand.Uint32Range(AppIDMin, AppIDMax)
		if _, exists := taken[id]; !exists {
			return id
		}
	}
}

func findByName(set *keyvalues.Map, name string) (string, bool) {
	for key, v := range set.All() {
		entry, ok := v.AsMap()
		if !ok {
			continue
		}
		if n, ok := entry.Get("AppName"); ok {
			if s, ok := n.AsString(); ok && s == name {
				return key, true
			}
		}
	}
	return "", false
}

// entryMap builds the entry in the field order Steam writes. Insertion
// order is the wire order.
func entryMap(s Shortcut, appID uint32) *keyvalues.Map {
	m := keyvalues.NewMap()
	m.Set("AppName", keyvalues.String(s.AppName))
	m.Set("appid", keyvalues.Uint32(appID))
	m.Set("exe", keyvalues.String(s.Exe))
	m.Set("StartDir", keyvalues.String(s.StartDir))
	m.Set("icon", keyvalues.String(s.Icon))
	m.Set("LaunchOptions", keyvalues.String(s.LaunchOptions))
	m.Set("IsHidden", flag(s.IsHidden))
	m.Set("AllowOverlay", flag(s.AllowOverlay))
	m.Set("AllowDesktopConfig", flag(s.AllowDesktopConfig))
	m.Set("openvr", flag(s.OpenVR))
	return m
}

func flag(b bool) keyvalues.Value {
	if b {
		return keyvalues.Uint32(1)
	}
	return keyvalues.Uint32(0)
}
