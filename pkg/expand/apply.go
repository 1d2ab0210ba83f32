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

package expand

import (
	"fmt"

	"github.com/snipper-dev/snipper/pkg/textview"
)

// ApplyOptions tune how a match is written into the buffer.
type ApplyOptions struct {
	// ConsumeSemicolon deletes a terminating ';' along with the word.
	ConsumeSemicolon bool
}

// Apply replaces the matched word of ev with res.Text. The text is inserted
// where the word ended so that the cursor stays after the terminating
// character. The buffer is marked modified and the emission is stopped.
func Apply(tv *textview.TextView, ev *textview.WordBoundary, res Result, opts ApplyOptions) error {
	buf := tv.Buffer()

	start := ev.Start + res.PrefixLen
	end := ev.End

	mark, err := buf.CreateMark(end, false)
	if err != nil {
		return fmt.Errorf("replacing %q: %w", ev.Word, err)
	}
	defer buf.DeleteMark(mark)

	if opts.ConsumeSemicolon && ev.Char == ';' {
		end++
	}

	if err = buf.Delete(start, end); err != nil {
		return fmt.Errorf("replacing %q: %w", ev.Word, err)
	}
	if err = buf.InsertAtMark(mark, res.Text); err != nil {
		return fmt.Errorf("replacing %q: %w", ev.Word, err)
	}

	buf.SetModified(true)
	ev.StopEmission()
	return nil
}

// ApplyAtCursor replaces the word of ev with text using a temporary cursor at
// the start of the word. There is no semicolon handling.
func ApplyAtCursor(tv *textview.TextView, ev *textview.WordBoundary, text string) error {
	buf := tv.Buffer()

	err := buf.TmpCursor(ev.Start, func() error {
		if err := buf.Delete(ev.Start, ev.End); err != nil {
			return err
		}
		return buf.InsertAtCursor(text)
	})
	if err != nil {
		return fmt.Errorf("replacing %q: %w", ev.Word, err)
	}

	buf.SetModified(true)
	ev.StopEmission()
	return nil
}
