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

package manager

import (
	"errors"
	"os"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Worker struct {
	ticks    atomic.Int32
	shutdown atomic.Bool
}

// Example loop, it will be spawned in a goroutine
func (w *Worker) Run(um UnitManager) {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.ticks.Add(1)

		// Read from channel if this worker unit should stop
		case <-um.ShouldStop():
			w.shutdown.Store(true)
			um.Done()
			return
		}
	}
}

type panicker struct{}

func (panicker) Run(um UnitManager) {
	um.Panic(errors.New("boom"))
}

func waitQuit(t *testing.T, m *Manager) {
	t.Helper()
	select {
	case <-m.Quit:
	case <-time.After(5 * time.Second):
		t.Fatal("manager did not quit")
	}
}

func TestStop(t *testing.T) {
	m := NewManager()
	w1, w2 := &Worker{}, &Worker{}
	m.AddUnit(w1, "one")
	m.AddUnit(w2, "two")

	assert.Equal(t, []string{"one[Worker#0]", "two[Worker#0]"}, m.Units())

	go m.Run()
	require.Eventually(t, func() bool {
		return w1.ticks.Load() > 0 && w2.ticks.Load() > 0
	}, 5*time.Second, 10*time.Millisecond)

	m.Stop()
	waitQuit(t, m)
	assert.True(t, w1.shutdown.Load())
	assert.True(t, w2.shutdown.Load())
}

func TestShutdownOnSignal(t *testing.T) {
	m := NewManager()
	m.ShutdownOn(syscall.SIGUSR1)
	w := &Worker{}
	m.AddUnit(w, "sig")

	go m.Run()
	require.Eventually(t, func() bool { return w.ticks.Load() > 0 }, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGUSR1))
	waitQuit(t, m)
	assert.True(t, w.shutdown.Load())
}

func TestPanicStopsOthers(t *testing.T) {
	m := NewManager()
	w := &Worker{}
	m.AddUnit(w, "worker")
	m.AddUnit(panicker{}, "bad")

	go m.Run()
	waitQuit(t, m)
	assert.True(t, w.shutdown.Load())
}
