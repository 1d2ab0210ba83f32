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

package modules

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snipper-dev/snipper/pkg/manager"
	"github.com/snipper-dev/snipper/pkg/textview"
)

type fakeMod struct {
	id       ModID
	steps    []string
	received chan ModMsg
}

func (m *fakeMod) ModInfo() ModInfo {
	return ModInfo{
		ID:   m.id,
		Name: "Fake",
		New:  func() Module { return &fakeMod{id: m.id} },
	}
}

func (m *fakeMod) Init(*Context) error {
	m.steps = append(m.steps, "init")
	return nil
}

func (m *fakeMod) PreLoad(*Context) error {
	m.steps = append(m.steps, "preload")
	return nil
}

func (m *fakeMod) Attach(_ *Context, tv *textview.TextView) error {
	m.steps = append(m.steps, "attach")
	tv.ConnectEndOfWord(func(_ *textview.TextView, ev *textview.WordBoundary) {
		m.steps = append(m.steps, "word:"+ev.Word)
	})
	return nil
}

func (m *fakeMod) Actions() []Action {
	return []Action{{
		ID:    "fake_action",
		Label: "Fake...",
		Run: func(*Context, *textview.TextView) error {
			m.steps = append(m.steps, "action")
			return nil
		},
	}}
}

func (m *fakeMod) MsgListen(ctx context.Context, queue <-chan ModMsg) {
	for {
		select {
		case msg := <-queue:
			m.received <- msg
		case <-ctx.Done():
			return
		}
	}
}

func TestLifecycle(t *testing.T) {
	c := &Context{Context: context.Background()}
	mod := &fakeMod{id: "fake"}

	require.NoError(t, SetupModule(mod, c))

	tv := textview.New(textview.NewBuffer(""))
	require.NoError(t, AttachAll(c, tv, mod))

	action, ok := FindAction("fake_action", mod)
	require.True(t, ok)
	require.NoError(t, action.Run(c, tv))

	require.NoError(t, tv.Type("hi "))
	assert.Equal(t, []string{"init", "preload", "attach", "action", "word:hi"}, mod.steps)

	_, ok = FindAction("missing", mod)
	assert.False(t, ok)
}

func TestRegistry(t *testing.T) {
	RegisterModule(&fakeMod{id: "registry-test"})
	assert.Panics(t, func() { RegisterModule(&fakeMod{id: "registry-test"}) })
	assert.Panics(t, func() { RegisterModule(&fakeMod{}) })

	_, ok := GetModule("registry-test")
	assert.True(t, ok)

	Disable("registry-test")
	assert.True(t, Disabled("registry-test"))
	for _, m := range GetModules() {
		assert.NotEqual(t, ModID("registry-test"), m.ModInfo().ID)
	}
}

func TestDispatcher(t *testing.T) {
	ctx := context.Background()
	d := NewDispatcher()
	mod := &fakeMod{id: "listener", received: make(chan ModMsg, 1)}

	m := manager.NewManager()
	m.AddUnit(d, DispatcherID)
	m.AddUnit(d.Listen(ctx, "listener", mod), "listener")
	go m.Run()
	defer func() {
		m.Stop()
		<-m.Quit
	}()

	require.NoError(t, d.Send(ctx, ModMsg{Type: MsgReload, To: "listener", Payload: "/tmp/x"}))
	require.NoError(t, d.Send(ctx, ModMsg{Type: MsgHello, To: "nobody"}))

	select {
	case msg := <-mod.received:
		assert.Equal(t, MsgReload, msg.Type)
		assert.Equal(t, "/tmp/x", msg.Payload)
	case <-time.After(5 * time.Second):
		t.Fatal("message not delivered")
	}
}
