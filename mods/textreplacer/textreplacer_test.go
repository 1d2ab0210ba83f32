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

package textreplacer

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/snipper-dev/snipper/pkg/modules"
	"github.com/snipper-dev/snipper/pkg/textview"
)

const replacements = `{
	"teh": "the",
	"(c)": "©",
	"x": "",
	"a\\b": "slash",
	"esc": "tab\there é"
}`

func TestParse(t *testing.T) {
	table, err := Parse([]byte(replacements))
	require.NoError(t, err)
	assert.Len(t, table, 5)
	assert.Equal(t, "the", table["teh"])
	assert.Equal(t, "slash", table[`a\b`])
	assert.Equal(t, "tab\there é", table["esc"])

	text, ok := table.Get("x")
	assert.True(t, ok)
	assert.Empty(t, text)
}

func TestParseLastDuplicateWins(t *testing.T) {
	table, err := Parse([]byte(`{"k": "one", "k": "two"}`))
	require.NoError(t, err)
	assert.Equal(t, Table{"k": "two"}, table)
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"number value", `{"a": 1, "b": "c"}`, ErrInvalidValue},
		{"nested object", `{"a": {"b": "c"}}`, ErrInvalidValue},
		{"array", `["a", "b"]`, ErrNotObject},
		{"string", `"x"`, ErrNotObject},
		{"trailing data", `{"a": "b"} {"c": "d"}`, ErrTrailingData},
		{"trailing comma", `{"a": "b",}`, ErrMalformed},
		{"missing colon", `{"a" "b", "c": "d"}`, ErrMalformed},
		{"bad escape", `{"a": "\q"}`, ErrMalformed},
		{"invalid utf8", "{\"a\": \"\xff\"}", ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := Parse([]byte(tt.data))
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, table)
		})
	}

	_, err := Parse([]byte(`{"a": "b"`))
	assert.Error(t, err)
	_, err = Parse(nil)
	assert.Error(t, err)
}

func TestParseEmptyObject(t *testing.T) {
	table, err := Parse([]byte(" {}\n"))
	require.NoError(t, err)
	assert.Empty(t, table)
}

func setJSONPath(t *testing.T, content string) string {
	t.Helper()

	var path string
	if content != "" {
		path = filepath.Join(t.TempDir(), "replacements.json")
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}

	old := *Config
	Config.JSONPath = path
	t.Cleanup(func() { *Config = old })
	return path
}

func attach(t *testing.T, r *Replacer) *textview.TextView {
	t.Helper()
	tv := textview.New(textview.NewBuffer(""))
	require.NoError(t, r.Attach(&modules.Context{Context: context.Background()}, tv))
	return tv
}

func TestReplaceWhileTyping(t *testing.T) {
	setJSONPath(t, replacements)
	tv := attach(t, New())

	require.NoError(t, tv.Type("teh (c) x. a\\b; y"))
	assert.Equal(t, "the © . slash; y", tv.Buffer().Text())
	assert.Equal(t, tv.Buffer().Len(), tv.Buffer().Cursor())
}

func TestReplaceInCode(t *testing.T) {
	setJSONPath(t, replacements)
	tv := attach(t, New())

	require.NoError(t, tv.Type("`a teh `\n```\nteh \n"))
	assert.Equal(t, "`a the `\n```\nthe \n", tv.Buffer().Text())
}

func TestInert(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no path", ""},
		{"invalid json", `{"teh": 1}`},
		{"trailing comma", `{"teh": "the",}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setJSONPath(t, tt.content)
			tv := attach(t, New())

			require.NoError(t, tv.Type("teh "))
			assert.Equal(t, "teh ", tv.Buffer().Text())
		})
	}

	t.Run("missing file", func(t *testing.T) {
		old := *Config
		Config.JSONPath = filepath.Join(t.TempDir(), "nope.json")
		t.Cleanup(func() { *Config = old })

		tv := attach(t, New())
		require.NoError(t, tv.Type("teh "))
		assert.Equal(t, "teh ", tv.Buffer().Text())
	})
}

func TestDetach(t *testing.T) {
	setJSONPath(t, replacements)
	r := New()
	tv := attach(t, r)
	require.NoError(t, r.Attach(nil, tv))

	r.Detach(tv)
	require.NoError(t, tv.Type("teh "))
	assert.Equal(t, "teh ", tv.Buffer().Text())
}

func TestCheckCommand(t *testing.T) {
	path := setJSONPath(t, replacements)

	run := func(out *bytes.Buffer) error {
		app := &cli.Command{
			Name:     "snipper",
			Writer:   out,
			Commands: []*cli.Command{replacerCmds()},
		}
		return app.Run(context.Background(), []string{"snipper", "replacer", "check"})
	}

	var out bytes.Buffer
	require.NoError(t, run(&out))
	assert.Contains(t, out.String(), "5 replacements")

	require.NoError(t, os.WriteFile(path, []byte(`[]`), 0644))
	assert.ErrorIs(t, run(&out), ErrNotObject)
}

func TestRegistered(t *testing.T) {
	mod, ok := modules.GetModule(ID)
	require.True(t, ok)
	assert.Equal(t, "Text Replacer", mod.ModInfo().Name)
}
