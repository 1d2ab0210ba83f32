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
	"slices"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/snipper-dev/snipper/pkg/textview"
)

// Item is one entry of the dialog list.
type Item struct {
	Text     string
	Shortcut string
}

// FilterValue implements list.Item of the bubbles list.
func (i Item) FilterValue() string {
	return i.Shortcut + " " + i.Text
}

// Editor opens a file for editing and reports whether it changed.
type Editor interface {
	Edit(ctx context.Context, path string) (bool, error)
}

// Dialog is the state of the Insert Text dialog: the snippet list and a
// staging input that collects text before it is inserted in the document.
type Dialog struct {
	plugin *Plugin
	view   *textview.TextView
	editor Editor

	items   []Item
	staging []rune
	caret   int
}

// NewDialog loads the snippets if needed and fills the list.
func NewDialog(p *Plugin, tv *textview.TextView, ed Editor) *Dialog {
	if err := p.ensureLoaded(); err != nil {
		log.Error(err)
	}
	d := &Dialog{plugin: p, view: tv, editor: ed}
	d.Refresh()
	return d
}

// Refresh rebuilds the list from the current table.
func (d *Dialog) Refresh() {
	entries := d.plugin.Table().Entries()
	d.items = make([]Item, len(entries))
	for i, e := range entries {
		d.items[i] = Item{Text: e.Text, Shortcut: e.Shortcut}
	}
}

// Items returns the (text, shortcut) pairs in file order.
func (d *Dialog) Items() []Item {
	return slices.Clone(d.items)
}

// Filter returns the indexes of the items matching query, best match first.
// An empty query matches everything in file order.
func (d *Dialog) Filter(query string) []int {
	targets := make([]string, len(d.items))
	for i, it := range d.items {
		targets[i] = it.FilterValue()
	}
	return rank(query, targets)
}

func rank(query string, targets []string) []int {
	if query == "" {
		out := make([]int, len(targets))
		for i := range out {
			out[i] = i
		}
		return out
	}

	ranks := fuzzy.RankFindNormalizedFold(query, targets)
	sort.Stable(ranks)

	out := make([]int, len(ranks))
	for i, r := range ranks {
		out[i] = r.OriginalIndex
	}
	return out
}

// Preview returns the full text of item i.
func (d *Dialog) Preview(i int) (string, bool) {
	if i < 0 || i >= len(d.items) {
		return "", false
	}
	return d.items[i].Text, true
}

// Activate inserts the text of item i in the staging input at the caret and
// moves the caret after it.
func (d *Dialog) Activate(i int) bool {
	text, ok := d.Preview(i)
	if !ok {
		return false
	}

	ins := []rune(text)
	d.staging = slices.Insert(d.staging, d.caret, ins...)
	d.caret += len(ins)
	return true
}

// Staging returns the content of the staging input.
func (d *Dialog) Staging() string {
	return string(d.staging)
}

func (d *Dialog) Caret() int {
	return d.caret
}

// SetStaging replaces the staging input, as when the user types in it. The
// caret is clamped to the text.
func (d *Dialog) SetStaging(s string, caret int) {
	d.staging = []rune(s)
	d.caret = max(0, min(caret, len(d.staging)))
}

// Edit opens the snippet file in the editor. When the file changed the
// snippets are reloaded and the list refreshed.
func (d *Dialog) Edit(ctx context.Context) error {
	changed, err := d.editor.Edit(ctx, d.plugin.Path())
	if err != nil {
		return err
	}
	return d.afterEdit(changed)
}

func (d *Dialog) afterEdit(changed bool) error {
	if !changed {
		log.Debug("texts file unchanged")
		return nil
	}
	if _, err := d.plugin.Load(); err != nil {
		return err
	}
	d.Refresh()
	return nil
}

// Confirm inserts the staging input at the document cursor.
func (d *Dialog) Confirm() error {
	return d.view.Buffer().InsertAtCursor(d.Staging())
}
