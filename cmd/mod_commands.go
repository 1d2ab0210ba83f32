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
	"slices"
	"strings"

	"github.com/urfave/cli/v3"
)

// map cmd Name to *cli.Command
type modCmds map[string]*cli.Command

// Map module IDs to their modCmds map
var modCommands = map[string]modCmds{}

// RegisterModCommand adds a top level command owned by a module
func RegisterModCommand(modID string, cmd *cli.Command) {
	if cmd == nil {
		log.Fatalf("cannot register nil cmd for <%s>", modID)
	}

	if _, ok := modCommands[modID]; !ok {
		modCommands[modID] = make(modCmds)
	}
	modCommands[modID][cmd.Name] = cmd
}

// return list of registered commands for a module
func ModCommands(modID string) modCmds {
	return modCommands[modID]
}

// RegisteredModCommands returns the commands of a module sorted by name.
func RegisteredModCommands(modID string) []*cli.Command {
	var out []*cli.Command
	for _, c := range modCommands[modID] {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b *cli.Command) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out
}
