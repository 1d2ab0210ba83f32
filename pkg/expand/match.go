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

// Package expand matches just typed words against a shortcut table and
// replaces them in the text buffer.
package expand

import (
	"strings"
	"unicode"

	"github.com/snipper-dev/snipper/pkg/textview"
)

// Lookup is a read only shortcut table.
type Lookup interface {
	Get(shortcut string) (string, bool)
}

// MapLookup adapts a plain map to Lookup.
type MapLookup map[string]string

func (m MapLookup) Get(shortcut string) (string, bool) {
	text, ok := m[shortcut]
	return text, ok
}

// Rules select the guards applied before a lookup.
type Rules struct {
	// SkipVerbatim disables matching inside code spans and code blocks.
	SkipVerbatim bool

	// Trigger reports whether a terminating character may trigger a match.
	// A nil Trigger accepts every character.
	Trigger func(rune) bool

	// BackslashFallback enables the `prefix\key` lookup of `\key`.
	BackslashFallback bool

	// AllowEmpty accepts shortcuts mapped to the empty string, which delete
	// the word.
	AllowEmpty bool
}

var (
	// SnippetRules are the rules of the insert text plugin.
	SnippetRules = Rules{
		SkipVerbatim:      true,
		Trigger:           SpaceOrSemicolon,
		BackslashFallback: true,
	}

	// ExactRules only look up the word as typed.
	ExactRules = Rules{AllowEmpty: true}
)

// SpaceOrSemicolon accepts whitespace and ';'. Other punctuation does not
// trigger: typing "-->" ends the word "--" with '>' and must not expand it.
func SpaceOrSemicolon(r rune) bool {
	return unicode.IsSpace(r) || r == ';'
}

// Result is a successful match.
type Result struct {
	Text string

	// PrefixLen is the number of runes at the start of the word that are kept
	// when only a trailing `\key` matched.
	PrefixLen int
}

// Match looks up the word of ev in table. When it returns false the caller
// must leave the buffer and the emission alone.
func Match(table Lookup, ev *textview.WordBoundary, rules Rules) (Result, bool) {
	if table == nil || ev.Word == "" {
		return Result{}, false
	}

	if rules.SkipVerbatim &&
		(ev.Modes.Has(textview.ModeVerbatim) || ev.Modes.Has(textview.ModeVerbatimBlock)) {
		return Result{}, false
	}

	if rules.Trigger != nil && !rules.Trigger(ev.Char) {
		return Result{}, false
	}

	if text, ok := table.Get(ev.Word); ok && (text != "" || rules.AllowEmpty) {
		return Result{Text: text}, true
	}

	// Only a single backslash: the end of "C:\foo\bar\left" is not a shortcut.
	if rules.BackslashFallback && strings.Count(ev.Word, `\`) == 1 {
		prefix, key, _ := strings.Cut(ev.Word, `\`)
		if text, ok := table.Get(`\` + key); ok && text != "" {
			return Result{Text: text, PrefixLen: textview.RuneLen(prefix)}, true
		}
	}

	return Result{}, false
}
