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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snipper-dev/snipper/pkg/modules"
	"github.com/snipper-dev/snipper/pkg/textview"
)

const texts = `# test texts
\alpha	α
\b	β
-->	→
=\=	≡
\sig	Regards,\nMe
`

func setupPlugin(t *testing.T, content string) (*Plugin, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "texts.list")
	if content != "" {
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}

	old := *Config
	Config.TextsPath = path
	t.Cleanup(func() { *Config = old })

	p := New()
	require.NoError(t, p.Init(&modules.Context{Context: context.Background()}))
	return p, path
}

func attach(t *testing.T, p *Plugin) *textview.TextView {
	t.Helper()
	tv := textview.New(textview.NewBuffer(""))
	require.NoError(t, p.Attach(nil, tv))
	return tv
}

func TestExpandWhileTyping(t *testing.T) {
	p, _ := setupPlugin(t, texts)
	tv := attach(t, p)

	require.NoError(t, tv.Type(`\alpha \alpha; a\b --> -- > =\= C:\x\b \sig `))
	assert.Equal(t, "α α aβ → -- > ≡ C:\\x\\b Regards,\nMe ", tv.Buffer().Text())
	assert.True(t, tv.Buffer().Modified())
}

func TestArrowNeedsSpace(t *testing.T) {
	p, _ := setupPlugin(t, texts)
	tv := attach(t, p)

	require.NoError(t, tv.Type("a --> b"))
	assert.Equal(t, "a → b", tv.Buffer().Text())
}

func TestNoExpansionInCode(t *testing.T) {
	p, _ := setupPlugin(t, texts)
	tv := attach(t, p)

	require.NoError(t, tv.Type("`\\alpha ` \\alpha \n```\n\\alpha \n```\n\\alpha "))
	assert.Equal(t, "`\\alpha ` α \n```\n\\alpha \n```\nα ", tv.Buffer().Text())
}

func TestLazyLoad(t *testing.T) {
	p, _ := setupPlugin(t, texts)
	assert.Nil(t, p.Table())

	attach(t, p)
	require.NotNil(t, p.Table())
	assert.Equal(t, 5, p.Table().Len())

	text, ok := p.Get(`\b`)
	assert.True(t, ok)
	assert.Equal(t, "β", text)
}

func TestMissingFile(t *testing.T) {
	p, _ := setupPlugin(t, "")
	tv := attach(t, p)

	require.NoError(t, tv.Type(`\alpha `))
	assert.Equal(t, `\alpha `, tv.Buffer().Text())
	assert.Equal(t, 0, p.Table().Len())
}

func TestDetach(t *testing.T) {
	p, _ := setupPlugin(t, texts)
	tv := attach(t, p)
	// attaching twice connects once
	require.NoError(t, p.Attach(nil, tv))

	p.Detach(tv)
	require.NoError(t, tv.Type(`\alpha `))
	assert.Equal(t, `\alpha `, tv.Buffer().Text())
}

func TestReload(t *testing.T) {
	p, path := setupPlugin(t, texts)
	tv := attach(t, p)

	require.NoError(t, os.WriteFile(path, []byte("\\alpha\tALPHA\nnew\tNEW\n"), 0644))
	diags, err := p.Load()
	require.NoError(t, err)
	assert.Empty(t, diags)

	require.NoError(t, tv.Type(`\alpha new \b `))
	assert.Equal(t, `ALPHA NEW \b `, tv.Buffer().Text())
}

func TestReloadFailureKeepsTable(t *testing.T) {
	p, path := setupPlugin(t, texts)
	attach(t, p)

	require.NoError(t, os.Remove(path))
	require.NoError(t, os.Mkdir(path, 0755))

	_, err := p.Load()
	assert.Error(t, err)
	assert.Equal(t, 5, p.Table().Len())
}

func TestMsgListenReloads(t *testing.T) {
	p, path := setupPlugin(t, texts)
	attach(t, p)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	queue := make(chan modules.ModMsg, 1)
	go p.MsgListen(ctx, queue)

	require.NoError(t, os.WriteFile(path, []byte("only\tone\n"), 0644))
	queue <- modules.ModMsg{Type: modules.MsgReload, To: ID, Payload: path}

	require.Eventually(t, func() bool {
		return p.Table().Len() == 1
	}, 5*time.Second, 10*time.Millisecond)
}

func TestRunWithoutDispatcher(t *testing.T) {
	p, path := setupPlugin(t, texts)
	attach(t, p)

	require.NoError(t, os.WriteFile(path, []byte("only\tone\n"), 0644))
	p.Run()
	assert.Equal(t, 1, p.Table().Len())
}

func TestInsertTextAction(t *testing.T) {
	p, _ := setupPlugin(t, texts)

	action, ok := modules.FindAction(ActionInsertText, p)
	require.True(t, ok)
	assert.Equal(t, "Text...", action.Label)
	assert.Equal(t, "insert", action.MenuHint)

	err := action.Run(&modules.Context{Context: context.Background()}, textview.New(textview.NewBuffer("")))
	assert.ErrorIs(t, err, ErrNoTerminal)
}

func TestRegistered(t *testing.T) {
	mod, ok := modules.GetModule(ID)
	require.True(t, ok)
	assert.Equal(t, "Insert Text", mod.ModInfo().Name)
}
