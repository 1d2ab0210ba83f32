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

package editor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snipper-dev/snipper/pkg/config"
)

func setEditorOpt(t *testing.T, val string) {
	t.Helper()
	config.RegisterGlobalOption(OptEditor, val)
	t.Cleanup(func() { config.RegisterGlobalOption(OptEditor, "") })
}

func TestCommand(t *testing.T) {
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "")

	cmd, err := Command()
	require.NoError(t, err)
	assert.Nil(t, cmd)

	t.Setenv("EDITOR", "vi")
	cmd, err = Command()
	require.NoError(t, err)
	assert.Equal(t, []string{"vi"}, cmd)

	t.Setenv("VISUAL", `code --wait "--user-data-dir=/tmp/my dir"`)
	cmd, err = Command()
	require.NoError(t, err)
	assert.Equal(t, []string{"code", "--wait", "--user-data-dir=/tmp/my dir"}, cmd)

	setEditorOpt(t, "nvim -u NONE")
	cmd, err = Command()
	require.NoError(t, err)
	assert.Equal(t, []string{"nvim", "-u", "NONE"}, cmd)
}

func TestCommandParseError(t *testing.T) {
	t.Setenv("VISUAL", `vim "unterminated`)
	_, err := Command()
	assert.Error(t, err)
}

func TestEditChanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "texts.list")
	e := &Editor{
		Command:  []string{"sh", "-c", `printf 'k\tv\n' >> "$1"`, "sh"},
		Template: "# header\n",
	}

	changed, err := e.Edit(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, changed)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# header\nk\tv\n", string(data))
}

func TestEditUnchanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "texts.list")
	require.NoError(t, os.WriteFile(path, []byte("a\tb\n"), 0644))

	e := &Editor{Command: []string{"true"}}
	changed, err := e.Edit(context.Background(), path)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestEditFailingEditor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "texts.list")
	e := &Editor{Command: []string{"false"}}
	_, err := e.Edit(context.Background(), path)
	assert.ErrorContains(t, err, "running editor")
}

func TestEditFallbackOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "texts.list")
	var opened string
	e := &Editor{Open: func(p string) error {
		opened = p
		return os.WriteFile(p, []byte("x\ty\n"), 0644)
	}}

	changed, err := e.Edit(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, path, opened)
}

func TestEditOpenReturnsBeforeEditing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "texts.list")
	e := &Editor{
		Template: "# header\n",
		Open:     func(string) error { return nil },
	}

	changed, err := e.Edit(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, changed)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# header\n", string(data))
}
