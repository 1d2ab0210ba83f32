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

package textview

import (
	"errors"
	"fmt"
	"sync"
	"unicode/utf8"
)

// Errors returned by buffer operations.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrRangeInvalid     = errors.New("invalid range")
	ErrMarkDeleted      = errors.New("mark was deleted")
)

// Mark is a position in a Buffer that follows edits. When text is inserted
// exactly at the mark, a mark with left gravity stays before the new text and
// a mark with right gravity moves after it.
type Mark struct {
	offset      int
	leftGravity bool
	deleted     bool
}

// Offset returns the current rune offset of the mark.
func (m *Mark) Offset() int {
	return m.offset
}

// Buffer is a text buffer addressed by rune offsets. It keeps a cursor (the
// insert mark), user marks and a modified flag.
// All methods are thread-safe.
type Buffer struct {
	mu       sync.RWMutex
	text     []rune
	cursor   *Mark
	marks    map[*Mark]struct{}
	modified bool
}

// NewBuffer creates a buffer holding s with the cursor at the end.
func NewBuffer(s string) *Buffer {
	text := []rune(s)
	b := &Buffer{
		text:  text,
		marks: make(map[*Mark]struct{}),
	}
	b.cursor = &Mark{offset: len(text)}
	b.marks[b.cursor] = struct{}{}
	return b
}

// Text returns the full buffer content.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return string(b.text)
}

// Slice returns the text in [start, end).
func (b *Buffer) Slice(start, end int) (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.checkRange(start, end); err != nil {
		return "", err
	}
	return string(b.text[start:end]), nil
}

// Len returns the length of the buffer in runes.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.text)
}

// Cursor returns the cursor offset.
func (b *Buffer) Cursor() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.cursor.offset
}

// PlaceCursor moves the cursor to pos.
func (b *Buffer) PlaceCursor(pos int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkOffset(pos); err != nil {
		return err
	}
	b.cursor.offset = pos
	return nil
}

// CreateMark creates a mark at pos.
func (b *Buffer) CreateMark(pos int, leftGravity bool) (*Mark, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkOffset(pos); err != nil {
		return nil, err
	}
	m := &Mark{offset: pos, leftGravity: leftGravity}
	b.marks[m] = struct{}{}
	return m, nil
}

// DeleteMark removes a mark from the buffer. The mark stops following edits.
func (b *Buffer) DeleteMark(m *Mark) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if m == b.cursor {
		return
	}
	delete(b.marks, m)
	m.deleted = true
}

// Insert inserts text at pos.
func (b *Buffer) Insert(pos int, text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.insert(pos, text)
}

// InsertAtMark inserts text at the current offset of m.
func (b *Buffer) InsertAtMark(m *Mark, text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if m.deleted {
		return ErrMarkDeleted
	}
	return b.insert(m.offset, text)
}

// InsertAtCursor inserts text at the cursor. The cursor ends up after the
// inserted text.
func (b *Buffer) InsertAtCursor(text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.insert(b.cursor.offset, text)
}

func (b *Buffer) insert(pos int, text string) error {
	if err := b.checkOffset(pos); err != nil {
		return err
	}
	if text == "" {
		return nil
	}

	ins := []rune(text)
	n := len(ins)

	out := make([]rune, 0, len(b.text)+n)
	out = append(out, b.text[:pos]...)
	out = append(out, ins...)
	out = append(out, b.text[pos:]...)
	b.text = out

	for m := range b.marks {
		if m.offset > pos || (m.offset == pos && !m.leftGravity) {
			m.offset += n
		}
	}
	b.modified = true
	return nil
}

// Delete removes the text in [start, end). Marks inside the range move to
// start.
func (b *Buffer) Delete(start, end int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkRange(start, end); err != nil {
		return err
	}
	if start == end {
		return nil
	}

	n := end - start
	b.text = append(b.text[:start], b.text[end:]...)

	for m := range b.marks {
		switch {
		case m.offset >= end:
			m.offset -= n
		case m.offset > start:
			m.offset = start
		}
	}
	b.modified = true
	return nil
}

// TmpCursor places the cursor at pos while fn runs and restores it after.
// The saved position follows the edits done by fn.
func (b *Buffer) TmpCursor(pos int, fn func() error) error {
	saved, err := b.CreateMark(b.Cursor(), false)
	if err != nil {
		return err
	}
	defer func() {
		b.mu.Lock()
		b.cursor.offset = saved.offset
		b.mu.Unlock()
		b.DeleteMark(saved)
	}()

	if err = b.PlaceCursor(pos); err != nil {
		return err
	}
	return fn()
}

// Modified reports whether the buffer changed since the flag was last reset.
func (b *Buffer) Modified() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.modified
}

func (b *Buffer) SetModified(modified bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.modified = modified
}

func (b *Buffer) checkOffset(pos int) error {
	if pos < 0 || pos > len(b.text) {
		return fmt.Errorf("%w: %d (len %d)", ErrOffsetOutOfRange, pos, len(b.text))
	}
	return nil
}

func (b *Buffer) checkRange(start, end int) error {
	if start > end {
		return fmt.Errorf("%w: [%d, %d)", ErrRangeInvalid, start, end)
	}
	if err := b.checkOffset(start); err != nil {
		return err
	}
	return b.checkOffset(end)
}

// RuneLen returns the number of runes in s. Buffer offsets count runes.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}
