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

// Package textreplacer replaces whole words with strings from a JSON file.
//
// The file is a flat object such as {"teh": "the", "(c)": "©"}. It is read
// once when the plugin attaches to a view. If it cannot be loaded the error
// is logged and the plugin does nothing for that view. A word is replaced as
// soon as any character ends it, without looking at the editing mode.
package textreplacer

import (
	"context"
	"fmt"
	"sync"

	altsrc "github.com/urfave/cli-altsrc/v3"
	"github.com/urfave/cli-altsrc/v3/toml"
	"github.com/urfave/cli/v3"

	"github.com/snipper-dev/snipper/cmd"
	"github.com/snipper-dev/snipper/internal/utils"
	"github.com/snipper-dev/snipper/pkg/config"
	"github.com/snipper-dev/snipper/pkg/expand"
	"github.com/snipper-dev/snipper/pkg/logging"
	"github.com/snipper-dev/snipper/pkg/modules"
	"github.com/snipper-dev/snipper/pkg/textview"
)

const ID = "text-replacer"

var (
	Config = &TextReplacerConfig{}
	log    = logging.GetLogger(ID)
)

type TextReplacerConfig struct {
	// Path to text replacements dictionary json file
	JSONPath string `toml:"json_path" mapstructure:"json_path"`
}

type Replacer struct {
	mu    sync.Mutex
	conns map[*textview.TextView]*textview.Connection
}

func New() *Replacer {
	return &Replacer{conns: make(map[*textview.TextView]*textview.Connection)}
}

func (r *Replacer) ModInfo() modules.ModInfo {
	return modules.ModInfo{
		ID:   ID,
		Name: "Text Replacer",
		Description: "Text replacer allows you to define shortcuts for strings, " +
			"similar to the built-in symbol replacement.",
		Author: "Snipper contributors",
		New: func() modules.Module {
			return New()
		},
	}
}

// loadConfigured loads the table from the configured path.
func loadConfigured() (Table, string, error) {
	if Config.JSONPath == "" {
		return nil, "", fmt.Errorf("no %s.json_path configured", ID)
	}
	path, err := utils.ExpandPath(Config.JSONPath)
	if err != nil {
		return nil, Config.JSONPath, err
	}
	table, err := Load(path)
	return table, path, err
}

// Attach loads the replacements and connects to the end-of-word signal of
// tv. A load failure is logged and leaves tv untouched.
func (r *Replacer) Attach(_ *modules.Context, tv *textview.TextView) error {
	table, path, err := loadConfigured()
	if err != nil {
		log.Error("failed to load json", "path", path, "err", err)
		return nil
	}
	log.Info("loaded replacements", "count", len(table), "path", utils.Shorten(path))

	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.conns[tv]; ok {
		old.Disconnect()
	}
	r.conns[tv] = tv.ConnectEndOfWord(handler(table))
	return nil
}

func (r *Replacer) Detach(tv *textview.TextView) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if conn, ok := r.conns[tv]; ok {
		conn.Disconnect()
		delete(r.conns, tv)
	}
}

func handler(table Table) textview.Handler {
	return func(tv *textview.TextView, ev *textview.WordBoundary) {
		res, ok := expand.Match(table, ev, expand.ExactRules)
		if !ok {
			return
		}
		if err := expand.ApplyAtCursor(tv, ev, res.Text); err != nil {
			log.Error(err)
		}
	}
}

func checkReplacements(_ context.Context, c *cli.Command) error {
	table, path, err := loadConfigured()
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	_, err = fmt.Fprintf(c.Root().Writer, "%d replacements in %s\n", len(table), utils.Shorten(path))
	return err
}

func replacerCmds() *cli.Command {
	return &cli.Command{
		Name:  "replacer",
		Usage: "text replacer tools",
		Commands: []*cli.Command{
			{
				Name:   "check",
				Usage:  "validate the replacements json file",
				Action: checkReplacements,
			},
		},
	}
}

func init() {
	config.RegisterConfigurator(ID, config.AsConfigurator(Config))
	modules.RegisterModule(New())

	cmd.RegGlobalFlag(ID, &cli.StringFlag{
		Name:     "json-path",
		Category: "text replacer",
		Usage:    "`path` to the text replacements json file",
		Sources:  cli.NewValueSourceChain(toml.TOML(ID+".json_path", altsrc.NewStringPtrSourcer(&config.ConfigFileFlag))),
	})
	cmd.RegBeforeHook(ID, func(_ context.Context, c *cli.Command) error {
		if c.IsSet("json-path") {
			Config.JSONPath = c.String("json-path")
		}
		return nil
	})
	cmd.RegisterModCommand(ID, replacerCmds())
}

// interface guards
var (
	_ modules.Extender = (*Replacer)(nil)
	_ modules.Detacher = (*Replacer)(nil)
	_ expand.Lookup    = Table(nil)
)
