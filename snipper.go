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

// Package snipper expands typed shortcuts into longer text.
//
// Two plugins live under mods/: inserttext expands shortcuts from a line
// oriented texts.list file and offers a snippet browser, textreplacer does
// exact word replacement from a flat JSON object. Both attach to a
// [textview.TextView] and react to its end-of-word signal.
//
// [textview.TextView]: https://pkg.go.dev/github.com/snipper-dev/snipper/pkg/textview
package snipper

// Snippet is a shortcut and the text it expands to.
type Snippet struct {
	Shortcut string
	Text     string
}

func (s Snippet) String() string {
	return s.Shortcut + " -> " + s.Text
}
