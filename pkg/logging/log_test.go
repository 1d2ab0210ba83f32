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
	"bytes"
	"testing"

	log "github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDebugLevels(t *testing.T) {
	lg := GetLogger("test-unit")
	other := GetLogger("test-other")
	t.Cleanup(func() {
		mu.Lock()
		delete(loggerLevels, "test-unit")
		mu.Unlock()
		SetLevel(DefaultLogLevels[LoggingMode])
	})

	require.NoError(t, ParseDebugLevels("error,test-unit=debug"))
	assert.Equal(t, log.DebugLevel, lg.GetLevel())
	assert.Equal(t, log.ErrorLevel, other.GetLevel())

	// unit overrides survive a global change
	SetLevel(log.InfoLevel)
	assert.Equal(t, log.DebugLevel, lg.GetLevel())
	assert.Equal(t, log.InfoLevel, other.GetLevel())
}

func TestParseDebugLevelsErrors(t *testing.T) {
	t.Cleanup(func() { SetLevel(DefaultLogLevels[LoggingMode]) })

	assert.ErrorIs(t, ParseDebugLevels("loud"), ErrUnknownLevel)
	assert.ErrorIs(t, ParseDebugLevels("info,unit"), ErrParseSubLevel)
	assert.ErrorIs(t, ParseDebugLevels("info,unit=loud"), ErrUnknownLevel)
}

func TestGetLoggerShared(t *testing.T) {
	assert.Same(t, GetLogger("shared"), GetLogger("shared"))
}

func TestSetOutput(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(&bytes.Buffer{}) })

	lg := GetLogger("out")
	lg.SetLevel(log.InfoLevel)
	lg.Info("hello", "key", "value")
	assert.Contains(t, buf.String(), "hello")
	assert.Contains(t, buf.String(), "[OUT]")
}

func TestTailBuffer(t *testing.T) {
	tb := NewTailBuffer(2)

	_, err := tb.Write([]byte("one\ntw"))
	require.NoError(t, err)
	assert.Equal(t, []string{"one"}, tb.Lines())

	_, err = tb.Write([]byte("o\nthree\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"two", "three"}, tb.Lines())
}
