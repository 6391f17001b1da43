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

// Package config loads and stores the tool's settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
)

const (
	SchemaVersion = 1
	// CfgEnv overrides the config file path.
	CfgEnv  = "STEAMVDF_CFG"
	AppName = "steamvdf"
)

// Values is the on-disk TOML config.
type Values struct {
	SteamDir     string `toml:"steam_dir,omitempty"`
	ConfigSchema int    `toml:"config_schema"`
	DebugLogging bool   `toml:"debug_logging"`
}

// BaseDefaults is the config used when no file exists.
var BaseDefaults = Values{
	ConfigSchema: SchemaVersion,
}

// DefaultPath returns the config file location, honoring CfgEnv.
func DefaultPath() string {
	if env := os.Getenv(CfgEnv); env != "" {
		return env
	}
	return filepath.Join(xdg.ConfigHome, AppName, "config.toml")
}

// Load reads the config at path. A missing file yields BaseDefaults.
func Load(fsys afero.Fs, path string) (Values, error) {
	data, err := afero.ReadFile(fsys, path)
	if os.IsNotExist(err) {
		return BaseDefaults, nil
	}
	if err != nil {
		return Values{}, fmt.Errorf("failed to read config file: %w", err)
	}

	vals := BaseDefaults
	if err := toml.Unmarshal(data, &vals); err != nil {
		return Values{}, fmt.Errorf("failed to parse config file: %w", err)
	}
	return vals, nil
}

// Save writes the config to path, creating parent directories.
func Save(fsys afero.Fs, path string, vals Values) error {
	data, err := toml.Marshal(vals)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := fsys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := afero.WriteFile(fsys, path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
