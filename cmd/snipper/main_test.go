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

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/snipper-dev/snipper/mods/inserttext"
	"github.com/snipper-dev/snipper/mods/textreplacer"
	"github.com/snipper-dev/snipper/pkg/modules"
)

func testApp(t *testing.T, out *bytes.Buffer) *cli.Command {
	t.Helper()
	app := newApp()
	app.Writer = out
	app.ErrWriter = out
	app.ExitErrHandler = func(context.Context, *cli.Command, error) {}
	return app
}

func testFiles(t *testing.T) []string {
	t.Helper()
	dir := t.TempDir()

	oldTexts, oldReplacer := *inserttext.Config, *textreplacer.Config
	t.Cleanup(func() {
		*inserttext.Config = oldTexts
		*textreplacer.Config = oldReplacer
	})

	texts := filepath.Join(dir, "texts.list")
	require.NoError(t, os.WriteFile(texts, []byte("\\alpha\tα\n"), 0644))
	replacements := filepath.Join(dir, "replacements.json")
	require.NoError(t, os.WriteFile(replacements, []byte(`{"teh": "the"}`), 0644))

	return []string{
		"snipper",
		"--config", filepath.Join(dir, "config.toml"),
		"--texts-path", texts,
		"--json-path", replacements,
	}
}

func TestExpand(t *testing.T) {
	var out bytes.Buffer
	args := append(testFiles(t), "expand", `teh \alpha; x`)

	require.NoError(t, testApp(t, &out).Run(context.Background(), args))
	assert.Equal(t, "the α x", out.String())
}

func TestDisable(t *testing.T) {
	t.Cleanup(func() { modules.Enable(textreplacer.ID) })

	var out bytes.Buffer
	args := append(testFiles(t), "--disable", textreplacer.ID, "expand", `teh \alpha `)

	require.NoError(t, testApp(t, &out).Run(context.Background(), args))
	assert.Equal(t, "teh α ", out.String())
	assert.True(t, modules.Disabled(textreplacer.ID))
}

func TestDisableUnknown(t *testing.T) {
	var out bytes.Buffer
	args := []string{"snipper", "--config", filepath.Join(t.TempDir(), "c.toml"), "--disable", "nope", "modules"}

	err := testApp(t, &out).Run(context.Background(), args)
	assert.ErrorContains(t, err, "unknown module <nope>")
}

func TestVersion(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, testApp(t, &out).Run(context.Background(), []string{"snipper", "-c", filepath.Join(t.TempDir(), "c.toml"), "version"}))
	assert.Contains(t, out.String(), "snipper ")
}
