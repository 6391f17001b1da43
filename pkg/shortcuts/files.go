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

package shortcuts

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"github.com/steamvdf/steamvdf/pkg/keyvalues"
	"github.com/steamvdf/steamvdf/pkg/vdfbinary"
)

// FlatpakSteamID is the Flatpak app ID for Steam.
const FlatpakSteamID = "com.valvesoftware.Steam"

// Load reads and decodes a shortcuts.vdf file. A missing or empty file is
// treated as a fresh install and yields the Skeleton tree.
func Load(fsys afero.Fs, path string) (*keyvalues.Map, error) {
	data, err := afero.ReadFile(fsys, path)
	if os.IsNotExist(err) {
		log.Debug().Msgf("no shortcuts file at %s, starting from an empty set", path)
		return Skeleton(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read shortcuts file: %w", err)
	}
	if len(data) == 0 {
		return Skeleton(), nil
	}

	m, err := vdfbinary.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return m, nil
}

// Save encodes the tree and writes it to path, creating parent directories
// as needed.
func Save(fsys afero.Fs, path string, m *keyvalues.Map) error {
	data, err := vdfbinary.Encode(m)
	if err != nil {
		return fmt.Errorf("failed to encode shortcuts: %w", err)
	}

	if err := fsys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create shortcuts directory: %w", err)
	}
	if err := afero.WriteFile(fsys, path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write shortcuts file: %w", err)
	}

	log.Debug().Msgf("wrote %d bytes to %s", len(data), path)
	return nil
}

// FindSteamDir locates the Steam installation directory, preferring the
// configured override when it exists.
func FindSteamDir(fsys afero.Fs, override string) (string, error) {
	if override != "" {
		if _, err := fsys.Stat(override); err == nil {
			log.Debug().Msgf("using configured Steam directory: %s", override)
			return override, nil
		}
		log.Warn().Msgf("configured Steam directory not found: %s", override)
	}

	for _, dir := range steamDirCandidates() {
		if _, err := fsys.Stat(dir); err == nil {
			return dir, nil
		}
	}
	return "", fmt.Errorf("no Steam directory found for %s", runtime.GOOS)
}

func steamDirCandidates() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}

	switch runtime.GOOS {
	case "windows":
		return []string{
			filepath.Join("C:\\", "Program Files (x86)", "Steam"),
			filepath.Join("C:\\", "Program Files", "Steam"),
		}
	case "darwin":
		return []string{
			filepath.Join(home, "Library", "Application Support", "Steam"),
		}
	default:
		return []string{
			filepath.Join(home, ".steam", "steam"),
			filepath.Join(xdg.DataHome, "Steam"),
			filepath.Join(home, ".var", "app", FlatpakSteamID, ".steam", "steam"),
		}
	}
}

// FindShortcutsFiles returns the shortcuts.vdf path of every Steam user
// under steamDir, including users who have no shortcuts file yet (their
// path is where one would be created).
func FindShortcutsFiles(fsys afero.Fs, steamDir string) ([]string, error) {
	userdata := filepath.Join(steamDir, "userdata")
	userDirs, err := afero.ReadDir(fsys, userdata)
	if err != nil {
		return nil, fmt.Errorf("failed to read Steam userdata directory: %w", err)
	}

	var paths []string
	for _, d := range userDirs {
		if !d.IsDir() {
			continue
		}
		paths = append(paths, filepath.Join(userdata, d.Name(), "config", "shortcuts.vdf"))
	}
	return paths, nil
}
