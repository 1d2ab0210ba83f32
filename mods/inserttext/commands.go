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

package inserttext

import (
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/mattn/go-isatty"
	altsrc "github.com/urfave/cli-altsrc/v3"
	"github.com/urfave/cli-altsrc/v3/toml"
	"github.com/urfave/cli/v3"

	"github.com/snipper-dev/snipper/cmd"
	"github.com/snipper-dev/snipper/internal/utils"
	"github.com/snipper-dev/snipper/pkg/config"
	"github.com/snipper-dev/snipper/pkg/editor"
	"github.com/snipper-dev/snipper/pkg/manager"
	"github.com/snipper-dev/snipper/pkg/modules"
	"github.com/snipper-dev/snipper/pkg/snippets"
)

func setup(ctx context.Context, c *cli.Command) (*Plugin, error) {
	p := New()
	if err := p.Init(cmd.ModContext(ctx, c, false)); err != nil {
		return nil, err
	}
	return p, nil
}

func escape(text string) string {
	return strings.ReplaceAll(text, "\n", `\n`)
}

var textsListCmd = &cli.Command{
	Name:    "list",
	Aliases: []string{"ls"},
	Usage:   "list snippets in file order",
	Action: func(ctx context.Context, c *cli.Command) error {
		p, err := setup(ctx, c)
		if err != nil {
			return err
		}
		if _, err = p.Load(); err != nil {
			return err
		}

		w := c.Root().Writer
		for _, s := range p.Table().Entries() {
			fmt.Fprintf(w, "%-16s %s\n", s.Shortcut, escape(s.Text))
		}
		return nil
	},
}

var textsCheckCmd = &cli.Command{
	Name:  "check",
	Usage: "report unparsable lines and duplicate shortcuts",
	Action: func(ctx context.Context, c *cli.Command) error {
		p, err := setup(ctx, c)
		if err != nil {
			return err
		}
		diags, err := p.Load()
		if err != nil {
			return err
		}
		return report(c, p, diags)
	},
}

func report(c *cli.Command, p *Plugin, diags snippets.Diagnostics) error {
	w := c.Root().Writer
	for _, d := range diags {
		fmt.Fprintf(w, "%s:%s\n", utils.Shorten(p.Path()), d.Error())
	}
	fmt.Fprintf(w, "%d snippets, %d parse errors, %d duplicates\n",
		p.Table().Len(),
		len(diags.Of(snippets.KindParse)),
		len(diags.Of(snippets.KindDuplicate)),
	)
	if len(diags) > 0 {
		return cli.Exit("", 1)
	}
	return nil
}

var textsEditCmd = &cli.Command{
	Name:  "edit",
	Usage: "open the snippet file in $EDITOR",
	Action: func(ctx context.Context, c *cli.Command) error {
		p, err := setup(ctx, c)
		if err != nil {
			return err
		}

		ed, err := editor.New()
		if err != nil {
			return err
		}
		ed.Template = snippets.Header

		changed, err := ed.Edit(ctx, p.Path())
		if err != nil {
			return err
		}
		if !changed {
			log.Info("no changes")
			return nil
		}

		diags, err := p.Load()
		if err != nil {
			return err
		}
		return report(c, p, diags)
	},
}

var textsPathCmd = &cli.Command{
	Name:  "path",
	Usage: "print the snippet file path",
	Action: func(ctx context.Context, c *cli.Command) error {
		p, err := setup(ctx, c)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(c.Root().Writer, p.Path())
		return err
	},
}

var textsWatchCmd = &cli.Command{
	Name:  "watch",
	Usage: "reload and check the snippet file whenever it changes",
	Action: func(ctx context.Context, c *cli.Command) error {
		p, err := setup(ctx, c)
		if err != nil {
			return err
		}
		if _, err = p.Load(); err != nil {
			return err
		}

		units, err := p.WorkUnits(ctx)
		if err != nil {
			return err
		}

		mngr := manager.NewManager()
		mngr.ShutdownOn(os.Interrupt, syscall.SIGTERM)
		for _, u := range units {
			mngr.AddUnit(u, ID)
		}

		log.Info("watching", "path", utils.Shorten(p.Path()))
		go mngr.Run()
		<-mngr.Quit
		return nil
	},
}

var TextsCmds = &cli.Command{
	Name:  "texts",
	Usage: "manage the snippet file",
	Commands: []*cli.Command{
		textsListCmd,
		textsCheckCmd,
		textsEditCmd,
		textsPathCmd,
		textsWatchCmd,
	},
}

var InsertCmd = &cli.Command{
	Name:  "insert",
	Usage: "open the Insert Text dialog and print the resulting text",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "text",
			Aliases: []string{"t"},
			Usage:   "initial document `text`, the cursor is at its end",
		},
	},
	Action: func(ctx context.Context, c *cli.Command) error {
		if !isatty.IsTerminal(os.Stdin.Fd()) || !isatty.IsTerminal(os.Stdout.Fd()) {
			return ErrNoTerminal
		}

		tv, mods, err := cmd.NewView(ctx, c, c.String("text"), true)
		if err != nil {
			return err
		}

		action, ok := modules.FindAction(ActionInsertText, mods...)
		if !ok {
			return fmt.Errorf("%s is disabled", ID)
		}
		if err = action.Run(cmd.ModContext(ctx, c, true), tv); err != nil {
			return err
		}

		_, err = fmt.Fprintln(c.Root().Writer, tv.Buffer().Text())
		return err
	},
}

func init() {
	cmd.RegGlobalFlag(ID, &cli.StringFlag{
		Name:     "texts-path",
		Category: "insert text",
		Usage:    "snippet file `path`",
		Sources:  cli.NewValueSourceChain(toml.TOML(ID+".texts_path", altsrc.NewStringPtrSourcer(&config.ConfigFileFlag))),
	})

	// flags override the config file loaded before the hooks run
	cmd.RegBeforeHook(ID, func(_ context.Context, c *cli.Command) error {
		if c.IsSet("texts-path") {
			Config.TextsPath = c.String("texts-path")
		}
		return nil
	})
	cmd.RegisterModCommand(ID, TextsCmds)
	cmd.RegisterModCommand(ID, InsertCmd)
}
