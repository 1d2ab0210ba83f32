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

package logging

import (
	"strings"
	"sync"
)

// TailBuffer keeps the last N complete lines written to it. It is used as the
// log output while a TUI owns the terminal.
type TailBuffer struct {
	partial string     // trailing data not yet terminated by a newline
	que     []string   // last n lines
	n       int        // number of lines to keep
	mu      sync.Mutex
}

func NewTailBuffer(n int) *TailBuffer {
	return &TailBuffer{n: n}
}

func (t *TailBuffer) Lines() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.que...)
}

func (t *TailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	lines := strings.Split(t.partial+string(p), "\n")
	t.partial = lines[len(lines)-1]

	for _, line := range lines[:len(lines)-1] {
		if line == "" {
			continue
		}
		t.que = append(t.que, line)
	}
	if len(t.que) > t.n {
		t.que = t.que[len(t.que)-t.n:]
	}

	return len(p), nil
}
