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

package snippets

import (
	"github.com/snipper-dev/snipper"
)

// Table maps shortcuts to their text and remembers the order in which the
// shortcuts were first defined. A Table is never modified after loading, a
// reload builds a new one.
type Table struct {
	texts map[string]string
	order []string
}

func newTable() *Table {
	return &Table{texts: make(map[string]string)}
}

// NewTable builds a table from entries with the same first-wins rule as
// Parse.
func NewTable(entries ...snipper.Snippet) *Table {
	t := newTable()
	for _, e := range entries {
		t.add(e.Shortcut, e.Text)
	}
	return t
}

func (t *Table) add(shortcut, text string) bool {
	if _, ok := t.texts[shortcut]; ok {
		return false
	}
	t.texts[shortcut] = text
	t.order = append(t.order, shortcut)
	return true
}

// Get returns the text of shortcut. It is safe to call on a nil table.
func (t *Table) Get(shortcut string) (string, bool) {
	if t == nil {
		return "", false
	}
	text, ok := t.texts[shortcut]
	return text, ok
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.order)
}

// Shortcuts returns the shortcuts in definition order.
func (t *Table) Shortcuts() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Entries returns the snippets in definition order.
func (t *Table) Entries() []snipper.Snippet {
	if t == nil {
		return nil
	}
	out := make([]snipper.Snippet, len(t.order))
	for i, s := range t.order {
		out[i] = snipper.Snippet{Shortcut: s, Text: t.texts[s]}
	}
	return out
}

// At returns the i-th snippet in definition order.
func (t *Table) At(i int) (snipper.Snippet, bool) {
	if t == nil || i < 0 || i >= len(t.order) {
		return snipper.Snippet{}, false
	}
	s := t.order[i]
	return snipper.Snippet{Shortcut: s, Text: t.texts[s]}, true
}
