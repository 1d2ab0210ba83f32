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

// Package inserttext expands snippet shortcuts while typing and offers the
// Insert > Text... dialog to browse and insert snippets.
//
// Snippets are read from a texts.list file (see package snippets). Typing a
// shortcut followed by a space or a semicolon replaces it with its text. A
// terminating semicolon is consumed, so `\alpha;` becomes `α` while
// `\alpha ` becomes `α `. Words inside code spans and code blocks are left
// alone. A word such as `a\b` expands its `\b` part when the whole word is
// not a shortcut itself.
package inserttext

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/snipper-dev/snipper/internal/utils"
	"github.com/snipper-dev/snipper/pkg/config"
	"github.com/snipper-dev/snipper/pkg/events"
	"github.com/snipper-dev/snipper/pkg/expand"
	"github.com/snipper-dev/snipper/pkg/logging"
	"github.com/snipper-dev/snipper/pkg/manager"
	"github.com/snipper-dev/snipper/pkg/modules"
	"github.com/snipper-dev/snipper/pkg/snippets"
	"github.com/snipper-dev/snipper/pkg/textview"
	"github.com/snipper-dev/snipper/pkg/watch"
)

const (
	ID = "insert-text"

	// ActionInsertText opens the snippet dialog.
	ActionInsertText = "insert_text"

	reducerLen = 100
)

var (
	Config = &InsertTextConfig{
		ReloadDelay: 300 * time.Millisecond,
	}
	log = logging.GetLogger(ID)

	ErrNoTerminal = errors.New("the insert text dialog needs a terminal")
)

type InsertTextConfig struct {
	// TextsPath is the snippet file. Empty means texts.list in the config
	// dir.
	TextsPath string `toml:"texts_path" mapstructure:"texts_path"`

	// ReloadDelay is how long the file must stay quiet before a reload.
	ReloadDelay time.Duration `toml:"reload_delay" mapstructure:"reload_delay"`
}

// Plugin holds the snippet table shared by every attached view.
type Plugin struct {
	mu    sync.RWMutex
	path  string
	table *snippets.Table

	conns   map[*textview.TextView]*textview.Connection
	watcher *watch.WatchDescriptor
	tui     bool
}

func New() *Plugin {
	return &Plugin{conns: make(map[*textview.TextView]*textview.Connection)}
}

func (p *Plugin) ModInfo() modules.ModInfo {
	return modules.ModInfo{
		ID:          ID,
		Name:        "Insert Text",
		Description: "Adds the Insert Text dialog and auto-replaces text snippets.",
		Author:      "Snipper contributors",
		New: func() modules.Module {
			return New()
		},
	}
}

// Init resolves the snippet file path.
func (p *Plugin) Init(c *modules.Context) error {
	path := Config.TextsPath
	if path == "" {
		path = snippets.DefaultPath()
	}
	expanded, err := utils.ExpandPath(path)
	if err != nil {
		return fmt.Errorf("texts path: %w", err)
	}

	p.mu.Lock()
	p.path = expanded
	p.tui = c != nil && c.IsTUI
	p.mu.Unlock()

	log.Debug("texts file", "path", utils.Shorten(expanded))
	return nil
}

func (p *Plugin) Path() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.path
}

// Table returns the current snippet table, nil before the first load.
func (p *Plugin) Table() *snippets.Table {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.table
}

// Get looks a shortcut up in the current table.
func (p *Plugin) Get(shortcut string) (string, bool) {
	return p.Table().Get(shortcut)
}

// Load reads the snippet file and replaces the table. On error the previous
// table is kept.
func (p *Plugin) Load() (snippets.Diagnostics, error) {
	p.mu.RLock()
	path, tui := p.path, p.tui
	p.mu.RUnlock()

	table, diags, err := snippets.LoadFile(path)
	if err != nil {
		if tui {
			events.Post(events.ReloadFailedMsg{ID: ID, Path: path, Err: err})
		}
		return diags, err
	}

	p.mu.Lock()
	p.table = table
	p.mu.Unlock()

	if tui {
		events.Post(events.ReloadedMsg{
			ID:          ID,
			Path:        path,
			Count:       table.Len(),
			Diagnostics: len(diags),
		})
	}
	return diags, nil
}

// ensureLoaded loads the table on first use.
func (p *Plugin) ensureLoaded() error {
	if p.Table() != nil {
		return nil
	}
	_, err := p.Load()
	return err
}

// Attach connects the expansion handler to the end-of-word signal of tv.
func (p *Plugin) Attach(_ *modules.Context, tv *textview.TextView) error {
	if err := p.ensureLoaded(); err != nil {
		log.Error(err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.conns[tv]; ok {
		return nil
	}
	p.conns[tv] = tv.ConnectEndOfWord(p.onEndOfWord)
	return nil
}

func (p *Plugin) Detach(tv *textview.TextView) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if conn, ok := p.conns[tv]; ok {
		conn.Disconnect()
		delete(p.conns, tv)
	}
}

func (p *Plugin) onEndOfWord(tv *textview.TextView, ev *textview.WordBoundary) {
	res, ok := expand.Match(p.Table(), ev, expand.SnippetRules)
	if !ok {
		return
	}

	log.Debug("expanding", "word", ev.Word)
	err := expand.Apply(tv, ev, res, expand.ApplyOptions{ConsumeSemicolon: true})
	if err != nil {
		log.Error(err)
	}
}

func (p *Plugin) Actions() []modules.Action {
	return []modules.Action{{
		ID:       ActionInsertText,
		Label:    "Text...",
		MenuHint: "insert",
		Run: func(c *modules.Context, tv *textview.TextView) error {
			if c == nil || !c.IsTUI {
				return ErrNoTerminal
			}
			return RunDialog(c, p, tv)
		},
	}}
}

// Watch implements watch.Watcher.
func (p *Plugin) Watch() *watch.WatchDescriptor {
	return p.watcher
}

// Run is called by the watcher when the snippet file changed. The reload
// request goes through the module dispatcher, or straight to Load when no
// dispatcher is running.
func (p *Plugin) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	msg := modules.ModMsg{Type: modules.MsgReload, To: ID, Payload: p.Path()}
	if err := modules.MsgDispatcher.Send(ctx, msg); err != nil {
		log.Debug("dispatcher not available, reloading directly")
		p.reload()
	}
}

// MsgListen implements modules.MsgListener.
func (p *Plugin) MsgListen(ctx context.Context, queue <-chan modules.ModMsg) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-queue:
			switch msg.Type {
			case modules.MsgReload:
				p.reload()
			default:
				log.Debug("ignoring message", "msg", msg.Type)
			}
		}
	}
}

func (p *Plugin) reload() {
	diags, err := p.Load()
	if err != nil {
		log.Error("reload failed, keeping previous texts", "err", err)
		return
	}
	log.Info("texts reloaded", "count", p.Table().Len(), "problems", len(diags))
}

// WorkUnits returns the units that keep the table in sync with the snippet
// file: the module dispatcher, the reload listener and the file watcher.
func (p *Plugin) WorkUnits(ctx context.Context) ([]manager.WorkUnit, error) {
	path := p.Path()
	if err := utils.MkDir(filepath.Dir(path)); err != nil {
		return nil, err
	}

	w, err := watch.NewWatcherWithReducer(ID, reducerLen, Config.ReloadDelay, watch.File(path))
	if err != nil {
		return nil, fmt.Errorf("watching %s: %w", path, err)
	}
	p.watcher = w

	return []manager.WorkUnit{
		modules.MsgDispatcher,
		modules.MsgDispatcher.Listen(ctx, ID, p),
		watch.Worker(p),
	}, nil
}

func init() {
	config.RegisterConfigurator(ID, config.AsConfigurator(Config))
	modules.RegisterModule(New())
}

// interface guards
var (
	_ modules.Initializer    = (*Plugin)(nil)
	_ modules.Extender       = (*Plugin)(nil)
	_ modules.Detacher       = (*Plugin)(nil)
	_ modules.ActionProvider = (*Plugin)(nil)
	_ modules.MsgListener    = (*Plugin)(nil)
	_ watch.WatchRunner      = (*Plugin)(nil)
	_ expand.Lookup          = (*Plugin)(nil)
)
