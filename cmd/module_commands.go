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
	"strings"

	"github.com/urfave/cli/v3"
	"github.com/xlab/treeprint"

	"github.com/snipper-dev/snipper/pkg/modules"
)

var ModuleCmds = &cli.Command{
	Name:    "modules",
	Aliases: []string{"mods"},
	Usage:   "list registered modules",
	Action:  listModules,
}

func capabilities(mod modules.Module) []string {
	var caps []string
	if _, ok := mod.(modules.Extender); ok {
		caps = append(caps, "extender")
	}
	if _, ok := mod.(modules.PreLoader); ok {
		caps = append(caps, "preloader")
	}
	if _, ok := mod.(modules.MsgListener); ok {
		caps = append(caps, "listener")
	}
	return caps
}

// ModuleTree renders all registered modules, disabled ones included.
func ModuleTree() treeprint.Tree {
	tree := treeprint.New()
	tree.SetValue("modules")

	for _, proto := range modules.All() {
		info := proto.ModInfo()
		mod := info.New()

		label := fmt.Sprintf("%s (%s)", info.ID, info.Name)
		if modules.Disabled(info.ID) {
			label += " [disabled]"
		}
		branch := tree.AddBranch(label)

		if info.Description != "" {
			branch.AddNode(info.Description)
		}
		if info.Author != "" {
			branch.AddMetaNode("author", info.Author)
		}
		if caps := capabilities(mod); len(caps) > 0 {
			branch.AddMetaNode("implements", strings.Join(caps, ", "))
		}
		if ap, ok := mod.(modules.ActionProvider); ok {
			actions := branch.AddBranch("actions")
			for _, a := range ap.Actions() {
				actions.AddMetaNode(a.ID, fmt.Sprintf("%s > %s", a.MenuHint, a.Label))
			}
		}
		for _, c := range RegisteredModCommands(string(info.ID)) {
			branch.AddMetaNode("command", c.Name)
		}
	}
	return tree
}

func listModules(_ context.Context, c *cli.Command) error {
	_, err := fmt.Fprint(c.Root().Writer, ModuleTree().String())
	return err
}
