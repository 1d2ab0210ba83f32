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

// Main command line entry point for snipper
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/snipper-dev/snipper/cmd"
	"github.com/snipper-dev/snipper/pkg/build"
	"github.com/snipper-dev/snipper/pkg/config"
	"github.com/snipper-dev/snipper/pkg/logging"
	"github.com/snipper-dev/snipper/pkg/modules"

	_ "github.com/snipper-dev/snipper/mods/inserttext"
	_ "github.com/snipper-dev/snipper/mods/textreplacer"
)

var log = logging.GetLogger("MAIN")

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, logging.ErrHelpQuit) {
			return
		}
		log.Fatal(err)
	}
}

func newApp() *cli.Command {
	app := &cli.Command{
		Name:                  "snipper",
		Usage:                 "expand shortcuts into text snippets while you type",
		Version:               build.Version(),
		Suggest:               true,
		EnableShellCompletion: true,
		ExitErrHandler: func(_ context.Context, _ *cli.Command, err error) {
			if err != nil && !errors.Is(err, logging.ErrHelpQuit) {
				fmt.Fprintf(os.Stderr, "%s\n", err)
				os.Exit(1)
			}
		},
	}

	app.Flags = append(app.Flags, cmd.MainFlags...)
	app.Flags = append(app.Flags, &cli.StringSliceFlag{
		Name:     "disable",
		Usage:    "disable module `id`, can be repeated",
		Category: "_",
	})
	app.Flags = append(app.Flags, config.SetupGlobalFlags()...)

	app.Before = before

	// Modules register extra commands with cmd.RegisterModCommand
	app.Commands = []*cli.Command{
		cmd.ExpandCmd,
		cmd.ConfigCmds,
		cmd.ModuleCmds,
		versionCmd,
	}

	mods := modules.All()
	log.Debugf("loading %d modules", len(mods))
	for _, mod := range mods {
		modID := string(mod.ModInfo().ID)
		log.Debugf("loading module <%s>", modID)

		app.Flags = append(app.Flags, cmd.GlobalFlags(modID)...)
		app.Commands = append(app.Commands, cmd.RegisteredModCommands(modID)...)
	}

	return app
}

// before runs once the flags are parsed.
//
// The order matters:
//  1. load the config file
//  2. run the module hooks, now that the config is ready
//  3. run the config ready hooks
//
// Cli flags have the highest priority and override config file values.
func before(ctx context.Context, c *cli.Command) (context.Context, error) {
	if err := config.Init(c.String("config")); err != nil {
		return ctx, err
	}

	if !c.IsSet("debug") && !logging.SilentMode {
		logging.SetLevel(logging.DefaultLogLevels[logging.LoggingMode])
	}

	for _, id := range c.StringSlice("disable") {
		if _, ok := modules.GetModule(modules.ModID(id)); !ok {
			return ctx, fmt.Errorf("unknown module <%s>", id)
		}
		log.Debug("disabling module", "id", id)
		modules.Disable(modules.ModID(id))
	}

	for _, mod := range modules.GetModules() {
		hook := cmd.BeforeHook(string(mod.ModInfo().ID))
		if hook == nil {
			continue
		}
		if err := hook(ctx, c); err != nil {
			return ctx, err
		}
	}

	return ctx, config.RunConfHooks(ctx, c)
}

var versionCmd = &cli.Command{
	Name:  "version",
	Usage: "print build information",
	Action: func(_ context.Context, c *cli.Command) error {
		_, err := fmt.Fprintln(c.Root().Writer, build.Info())
		return err
	},
}
