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

// Package textview is a headless text view: a Buffer plus the word boundary
// signal editor extensions subscribe to.
//
// Typing goes through [TextView.Type]. Each rune is inserted at the cursor.
// When the rune ends a word, the view emits an end-of-word event carrying the
// range of the word, the word itself, the terminating character and the
// editing modes active at the word. Handlers run synchronously in connection
// order until one of them stops the emission.
package textview

import (
	"slices"
	"strings"
	"sync"
	"unicode"

	"github.com/snipper-dev/snipper/pkg/logging"
)

var log = logging.GetLogger("VIEW")

// Editing modes.
const (
	ModeVerbatim      = "code" // inline code span
	ModeVerbatimBlock = "pre"  // code block
)

// Modes is the set of editing modes active at a position.
type Modes []string

func (m Modes) Has(mode string) bool {
	return slices.Contains(m, mode)
}

// WordBoundary is the payload of the end-of-word signal. Start and End are
// rune offsets of the word; the terminating character sits at End.
type WordBoundary struct {
	Start int
	End   int
	Word  string
	Char  rune
	Modes Modes

	stopped bool
}

// StopEmission prevents the remaining handlers from seeing the event.
func (ev *WordBoundary) StopEmission() {
	ev.stopped = true
}

func (ev *WordBoundary) Stopped() bool {
	return ev.stopped
}

// Handler is called for every end-of-word event.
type Handler func(*TextView, *WordBoundary)

// Connection is a handler registration returned by ConnectEndOfWord.
type Connection struct {
	tv      *TextView
	handler Handler
}

// Disconnect removes the handler from the view.
func (c *Connection) Disconnect() {
	c.tv.mu.Lock()
	defer c.tv.mu.Unlock()
	c.tv.handlers = slices.DeleteFunc(c.tv.handlers, func(h *Connection) bool {
		return h == c
	})
}

// ModeDetector returns the editing modes active at pos in text.
type ModeDetector func(text []rune, pos int) Modes

type TextView struct {
	buf      *Buffer
	detector ModeDetector

	mu       sync.Mutex
	handlers []*Connection
}

type Option func(*TextView)

// WithModeDetector replaces the default fence/backtick mode detection.
func WithModeDetector(d ModeDetector) Option {
	return func(tv *TextView) {
		tv.detector = d
	}
}

// WithModes forces a fixed set of modes for every event.
func WithModes(modes ...string) Option {
	return WithModeDetector(func([]rune, int) Modes {
		return Modes(modes)
	})
}

func New(buf *Buffer, opts ...Option) *TextView {
	tv := &TextView{
		buf:      buf,
		detector: DetectModes,
	}
	for _, opt := range opts {
		opt(tv)
	}
	return tv
}

func (tv *TextView) Buffer() *Buffer {
	return tv.buf
}

// ConnectEndOfWord subscribes h to end-of-word events.
func (tv *TextView) ConnectEndOfWord(h Handler) *Connection {
	tv.mu.Lock()
	defer tv.mu.Unlock()
	c := &Connection{tv: tv, handler: h}
	tv.handlers = append(tv.handlers, c)
	return c
}

// EmitEndOfWord runs the connected handlers until one stops the emission.
func (tv *TextView) EmitEndOfWord(ev *WordBoundary) {
	tv.mu.Lock()
	handlers := slices.Clone(tv.handlers)
	tv.mu.Unlock()

	for _, c := range handlers {
		c.handler(tv, ev)
		if ev.Stopped() {
			log.Debug("emission stopped", "word", ev.Word)
			return
		}
	}
}

// Type inserts s at the cursor one rune at a time, emitting end-of-word
// events as a user typing the same text would.
func (tv *TextView) Type(s string) error {
	for _, r := range s {
		if err := tv.buf.InsertAtCursor(string(r)); err != nil {
			return err
		}
		if !IsEndOfWordChar(r) {
			continue
		}
		if ev := tv.boundaryAt(tv.buf.Cursor() - 1); ev != nil {
			ev.Char = r
			tv.EmitEndOfWord(ev)
		}
	}
	return nil
}

// boundaryAt builds the event for a terminating character at pos. The word is
// the run of non space characters before pos.
func (tv *TextView) boundaryAt(pos int) *WordBoundary {
	tv.buf.mu.RLock()
	text := slices.Clone(tv.buf.text)
	tv.buf.mu.RUnlock()

	if pos < 0 || pos >= len(text) {
		return nil
	}

	start := pos
	for start > 0 && !unicode.IsSpace(text[start-1]) {
		start--
	}
	if start == pos {
		return nil
	}

	return &WordBoundary{
		Start: start,
		End:   pos,
		Word:  string(text[start:pos]),
		Modes: tv.detector(text, pos),
	}
}

// IsEndOfWordChar reports whether typing r ends the current word. Backslash
// and underscore are part of words.
func IsEndOfWordChar(r rune) bool {
	if r == '\\' || r == '_' {
		return false
	}
	return unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r)
}

// DetectModes is the default ModeDetector. A position after an odd number of
// lines starting with ``` is inside a code block. Otherwise a position after
// an odd number of backticks on its line is inside an inline code span.
func DetectModes(text []rune, pos int) Modes {
	var modes Modes

	fences := 0
	lineStart := 0
	for i := 0; i < pos; i++ {
		if text[i] != '\n' {
			continue
		}
		if isFence(text[lineStart:i]) {
			fences++
		}
		lineStart = i + 1
	}
	if fences%2 == 1 {
		return append(modes, ModeVerbatimBlock)
	}

	ticks := 0
	for _, r := range text[lineStart:pos] {
		if r == '`' {
			ticks++
		}
	}
	if ticks%2 == 1 {
		modes = append(modes, ModeVerbatim)
	}
	return modes
}

func isFence(line []rune) bool {
	return strings.HasPrefix(strings.TrimLeftFunc(string(line), unicode.IsSpace), "```")
}
