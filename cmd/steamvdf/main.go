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

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/spf13/afero"

	"github.com/steamvdf/steamvdf/pkg/cli"
	"github.com/steamvdf/steamvdf/pkg/config"
)

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	flags := cli.SetupFlags()
	flag.Parse()

	fsys := afero.NewOsFs()

	cfg, err := config.Load(fsys, config.DefaultPath())
	if err != nil {
		return err
	}
	cli.Setup(cfg)

	return cli.Run(fsys, cfg, flags)
}
