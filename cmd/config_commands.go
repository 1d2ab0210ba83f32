//
// Copyright (c) 2025 Snipper contributors.
//
// All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// This file is part of Snipper.
//
// Snipper is free software: you can redistribute it and/or modify it under the terms of
// the GNU Affero General Public License as published by the Free Software Foundation,
// either version 3 of the License, or (at your option) any later version.
//
// Snipper is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR
// PURPOSE.  See the GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License along with
// snipper.  If not, see <http://www.gnu.org/licenses/>.

package cmd

import (
	"context"
	"fmt"

	"github.com/kr/pretty"
	"github.com/urfave/cli/v3"

	"github.com/snipper-dev/snipper/internal/utils"
	"github.com/snipper-dev/snipper/pkg/config"
	"github.com/snipper-dev/snipper/pkg/logging"
)

var log = logging.GetLogger("CMD")

var cfgDumpCmd = &cli.Command{
	Name:    "dump",
	Aliases: []string{"p"},
	Usage:   "print current config",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "toml",
			Usage: "print as toml instead of go values",
		},
	},
	Action: func(_ context.Context, c *cli.Command) error {
		if c.Bool("toml") {
			return config.Encode(c.Root().Writer)
		}
		_, err := pretty.Fprintf(c.Root().Writer, "%# v\n", config.GetAll())
		return err
	},
}

var cfgInitCmd = &cli.Command{
	Name:  "init",
	Usage: "write the current config to the config file",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    "force",
			Aliases: []string{"f"},
			Usage:   "overwrite an existing config file",
		},
	},
	Action: func(_ context.Context, c *cli.Command) error {
		path, err := utils.ExpandPath(config.ConfigFileFlag)
		if err != nil {
			return err
		}

		exists, err := utils.CheckFileExists(path)
		if err != nil {
			return err
		}
		if exists && !c.Bool("force") {
			return fmt.Errorf("%s exists, use --force to overwrite", utils.Shorten(path))
		}

		if err = config.InitConfigFile(path); err != nil {
			return err
		}
		fmt.Fprintf(c.Root().Writer, "wrote %s\n", utils.Shorten(path))
		return nil
	},
}

var cfgPathCmd = &cli.Command{
	Name:  "path",
	Usage: "print the config file path",
	Action: func(_ context.Context, c *cli.Command) error {
		path, err := utils.ExpandPath(config.ConfigFileFlag)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(c.Root().Writer, path)
		return err
	},
}

var ConfigCmds = &cli.Command{
	Name:  "config",
	Usage: "show and initialize the configuration",
	Commands: []*cli.Command{
		cfgDumpCmd,
		cfgInitCmd,
		cfgPathCmd,
	},
}
