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

package watch

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snipper-dev/snipper/pkg/manager"
)

type counter struct {
	desc *WatchDescriptor
	runs atomic.Int32
}

func (c *counter) Watch() *WatchDescriptor { return c.desc }
func (c *counter) Run()                    { c.runs.Add(1) }

func TestFileWatch(t *testing.T) {
	w := File("/tmp/x/../y/texts.list")
	assert.Equal(t, "/tmp/y", w.Path)
	assert.Equal(t, []string{"/tmp/y/texts.list"}, w.EventNames)
}

func TestReducerRunsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "texts.list")
	require.NoError(t, os.WriteFile(path, []byte("a\t1\n"), 0644))

	desc, err := NewWatcherWithReducer("test", 100, 50*time.Millisecond, File(path))
	require.NoError(t, err)
	c := &counter{desc: desc}

	m := manager.NewManager()
	m.AddUnit(Worker(c), "watch")
	go m.Run()
	t.Cleanup(func() {
		m.Stop()
		<-m.Quit
	})

	// let the loop start
	time.Sleep(50 * time.Millisecond)

	for _, s := range []string{"a\t2\n", "a\t3\n", "a\t4\n"} {
		require.NoError(t, os.WriteFile(path, []byte(s), 0644))
	}
	require.Eventually(t, func() bool { return c.runs.Load() == 1 }, 5*time.Second, 10*time.Millisecond)

	// same content again does not trigger a run
	require.NoError(t, os.WriteFile(path, []byte("a\t4\n"), 0644))
	time.Sleep(300 * time.Millisecond)
	assert.EqualValues(t, 1, c.runs.Load())

	// other files in the directory are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other"), []byte("x"), 0644))
	time.Sleep(300 * time.Millisecond)
	assert.EqualValues(t, 1, c.runs.Load())
}

func TestWatcherNoReducer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "replacements.json")

	desc, err := NewWatcher("plain", File(path))
	require.NoError(t, err)
	c := &counter{desc: desc}
	go WatchLoop(c)
	t.Cleanup(func() { desc.Close() })

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(`{"a":"b"}`), 0644))
	require.Eventually(t, func() bool { return c.runs.Load() >= 1 }, 5*time.Second, 10*time.Millisecond)
}
