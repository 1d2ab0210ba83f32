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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/urfave/cli/v3"

	"github.com/snipper-dev/snipper/pkg/modules"
	"github.com/snipper-dev/snipper/pkg/textview"
)

type treeMod struct{}

func (treeMod) ModInfo() modules.ModInfo {
	return modules.ModInfo{
		ID:          "tree-test",
		Name:        "Tree Test",
		Description: "listed in the module tree",
		Author:      "tester",
		New:         func() modules.Module { return treeMod{} },
	}
}

func (treeMod) Attach(*modules.Context, *textview.TextView) error { return nil }

func (treeMod) Actions() []modules.Action {
	return []modules.Action{{ID: "do_it", Label: "Do it", MenuHint: "tools"}}
}

func init() {
	modules.RegisterModule(treeMod{})
	RegisterModCommand("tree-test", &cli.Command{Name: "treecmd"})
}

func TestModuleTree(t *testing.T) {
	out := ModuleTree().String()

	assert.True(t, strings.HasPrefix(out, "modules\n"), out)
	assert.Contains(t, out, "tree-test (Tree Test)")
	assert.Contains(t, out, "listed in the module tree")
	assert.Contains(t, out, "[author]  tester")
	assert.Contains(t, out, "[implements]  extender")
	assert.Contains(t, out, "[do_it]  tools > Do it")
	assert.Contains(t, out, "[command]  treecmd")
}

func TestModuleTreeDisabled(t *testing.T) {
	modules.Disable("tree-test")
	t.Cleanup(func() { modules.Enable("tree-test") })

	assert.Contains(t, ModuleTree().String(), "tree-test (Tree Test) [disabled]")
}

func TestListModules(t *testing.T) {
	var out strings.Builder
	app := &cli.Command{
		Name:     "snipper",
		Writer:   &out,
		Commands: []*cli.Command{{Name: "modules", Action: listModules}},
	}
	assert.NoError(t, app.Run(context.Background(), []string{"snipper", "modules"}))
	assert.Contains(t, out.String(), "tree-test")
}
