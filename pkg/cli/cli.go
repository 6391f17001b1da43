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

// Package cli wires flags, config and logging for the steamvdf binary.
package cli

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"github.com/steamvdf/steamvdf/pkg/config"
	"github.com/steamvdf/steamvdf/pkg/keyvalues"
	"github.com/steamvdf/steamvdf/pkg/shortcuts"
	"github.com/steamvdf/steamvdf/pkg/vdfbinary"
	"github.com/steamvdf/steamvdf/pkg/vdftext"
)

// AppVersion is set at build time.
var AppVersion = "dev"

type Flags struct {
	Add      *bool
	Name     *string
	Exe      *string
	StartDir *string
	Icon     *string
	Options  *string
	File     *string
	Yes      *bool
	Dump     *string
	Version  *bool
}

// SetupFlags defines all CLI flags. Call flag.Parse after.
func SetupFlags() *Flags {
	return &Flags{
		Add: flag.Bool(
			"add",
			false,
			"add a non-Steam shortcut to shortcuts.vdf",
		),
		Name: flag.String(
			"name",
			"",
			"display name of the shortcut",
		),
		Exe: flag.String(
			"exe",
			"",
			"path of the executable to launch",
		),
		StartDir: flag.String(
			"dir",
			"",
			"working directory for the shortcut (defaults to the exe's directory)",
		),
		Icon: flag.String(
			"icon",
			"",
			"path of the shortcut icon",
		),
		Options: flag.String(
			"options",
			"",
			"launch options passed to the executable",
		),
		File: flag.String(
			"file",
			"",
			"path of the shortcuts.vdf to edit (default: discover via Steam userdata)",
		),
		Yes: flag.Bool(
			"yes",
			false,
			"replace an existing shortcut with the same name without asking",
		),
		Dump: flag.String(
			"dump",
			"",
			"print a binary VDF file as text VDF and exit",
		),
		Version: flag.Bool(
			"version",
			false,
			"print version and exit",
		),
	}
}

// Setup applies the loaded config to global logging.
func Setup(cfg config.Values) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if cfg.DebugLogging {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// Run executes whichever action the flags selected.
func Run(fsys afero.Fs, cfg config.Values, flags *Flags) error {
	switch {
	case *flags.Version:
		fmt.Fprintf(os.Stdout, "steamvdf v%s\n", AppVersion)
		return nil
	case *flags.Dump != "":
		return runDump(fsys, *flags.Dump)
	case *flags.Add:
		return runAdd(fsys, cfg, flags)
	default:
		flag.Usage()
		return nil
	}
}

func runDump(fsys afero.Fs, path string) error {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	m, err := vdfbinary.Decode(data)
	if errors.Is(err, vdfbinary.ErrNotBinaryVDF) {
		// Already text; print as-is.
		fmt.Fprint(os.Stdout, string(data))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}

	out, err := textify(m)
	if err != nil {
		return err
	}
	fmt.Fprint(os.Stdout, out)
	return nil
}

// textify renders a binary VDF tree as text VDF. Binary trees carry
// numeric leaves the text format has no syntax for, so leaves are
// stringified and everything is wrapped in the quotes the text codec
// stores literally.
func textify(m *keyvalues.Map) (string, error) {
	return vdftext.Marshal(quoteTree(m))
}

func quoteTree(m *keyvalues.Map) *keyvalues.Map {
	out := keyvalues.NewMap()
	for key, v := range m.All() {
		quotedKey := `"` + key + `"`
		switch v.Kind() {
		case keyvalues.KindMap:
			child, _ := v.AsMap()
			out.Set(quotedKey, keyvalues.MapValue(quoteTree(child)))
		case keyvalues.KindString:
			s, _ := v.AsString()
			out.Set(quotedKey, keyvalues.String(`"`+s+`"`))
		case keyvalues.KindUint32:
			u, _ := v.AsUint32()
			out.Set(quotedKey, keyvalues.String(`"`+strconv.FormatUint(uint64(u), 10)+`"`))
		case keyvalues.KindUint64:
			u, _ := v.AsUint64()
			out.Set(quotedKey, keyvalues.String(`"`+strconv.FormatUint(u, 10)+`"`))
		case keyvalues.KindFloat32:
			f, _ := v.AsFloat32()
			out.Set(quotedKey, keyvalues.String(`"`+strconv.FormatFloat(float64(f), 'g', -1, 32)+`"`))
		default:
		}
	}
	return out
}

func runAdd(fsys afero.Fs, cfg config.Values, flags *Flags) error {
	if *flags.Name == "" || *flags.Exe == "" {
		return errors.New("both -name and -exe are required with -add")
	}

	path := *flags.File
	if path == "" {
		steamDir, err := shortcuts.FindSteamDir(fsys, cfg.SteamDir)
		if err != nil {
			return err
		}
		paths, err := shortcuts.FindShortcutsFiles(fsys, steamDir)
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			return errors.New("no Steam users found, log into Steam once first")
		}
		if len(paths) > 1 {
			return fmt.Errorf(
				"multiple Steam users found, pass -file with one of:\n  %s",
				strings.Join(paths, "\n  "),
			)
		}
		path = paths[0]
	}

	root, err := shortcuts.Load(fsys, path)
	if err != nil {
		return err
	}

	startDir := *flags.StartDir
	if startDir == "" {
		startDir = parentDir(*flags.Exe)
	}

	editor := shortcuts.NewEditor(shortcuts.EditorOptions{
		Confirm: func(name string) bool {
			if *flags.Yes {
				log.Info().Msgf("replacing existing shortcut %q", name)
				return true
			}
			log.Warn().Msgf("a shortcut named %q already exists, pass -yes to replace it", name)
			return false
		},
	})

	appID, err := editor.Add(root, shortcuts.Shortcut{
		AppName:       *flags.Name,
		Exe:           quoted(*flags.Exe),
		StartDir:      quoted(startDir),
		Icon:          *flags.Icon,
		LaunchOptions: *flags.Options,
		AllowOverlay:  true,
	})
	if err != nil {
		return err
	}

	if err := shortcuts.Save(fsys, path, root); err != nil {
		return err
	}

	log.Info().Msgf("added shortcut %q with appid %d to %s", *flags.Name, appID, path)
	log.Info().Msg("restart Steam for the new shortcut to appear")
	return nil
}

// Steam stores exe and start dir wrapped in double quotes.
func quoted(s string) string {
	if strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) && len(s) >= 2 {
		return s
	}
	return `"` + s + `"`
}

func parentDir(exe string) string {
	trimmed := strings.Trim(exe, `"`)
	i := strings.LastIndexAny(trimmed, `/\`)
	if i < 0 {
		return trimmed
	}
	return trimmed[:i+1]
}
