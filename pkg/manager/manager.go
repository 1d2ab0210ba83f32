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

// Package manager runs long lived work units, such as file watchers, until a
// shutdown signal arrives or a unit panics.
package manager

import (
	"fmt"
	"os"
	"os/signal"
	"reflect"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/snipper-dev/snipper/pkg/logging"
)

var log = logging.GetLogger("MNGR")

// The WorkUnit interface is used to define a unit of work.
// The Run method will be called in a goroutine.
type WorkUnit interface {
	Run(UnitManager)
}

// The UnitManager interface is used to manage a unit of work.
// The ShouldStop method returns a channel that will receive a value when the
// unit should stop.
// The Done method should be called when the unit is done.
type UnitManager interface {
	ShouldStop() <-chan bool
	Done()
	Panic(err error)
}

type WorkUnitManager struct {
	stop       chan bool
	workerQuit chan bool
	unit       WorkUnit
	panic      chan error
	isPaniced  atomic.Bool
}

func (w *WorkUnitManager) ShouldStop() <-chan bool {
	return w.stop
}

func (w *WorkUnitManager) Done() {
	w.workerQuit <- true
}

func (w *WorkUnitManager) Panic(err error) {
	w.isPaniced.Store(true)
	w.workerQuit <- true
	w.panic <- err
}

type Manager struct {
	signalIn chan os.Signal

	shutdownSigs []os.Signal

	workers map[string]*WorkUnitManager
	names   []string

	// Quit receives a value once every unit is down
	Quit chan bool

	panic chan error // Used for panicing goroutines

	stopOnce sync.Once
	stop     chan struct{}
}

// Run starts all units and blocks until they are shut down.
func (m *Manager) Run() {
	log.Debug("starting manager")

	for _, name := range m.names {
		log.Debugf("starting <%s>", name)
		w := m.workers[name]
		go w.unit.Run(w)
	}

	for {
		select {
		case sig := <-m.signalIn:
			if !slices.Contains(m.shutdownSigs, sig) {
				continue
			}
			log.Debug("shutdown signal received", "signal", sig)
			m.shutdown()
			return

		case <-m.stop:
			log.Debug("shutdown requested")
			m.shutdown()
			return

		case p := <-m.panic:
			for name, w := range m.workers {
				if w.isPaniced.Load() {
					log.Errorf("panic in <%s>: %s", name, p)
				}
			}
			m.shutdown()
			return
		}
	}
}

// Stop shuts down all units as a shutdown signal would.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() { close(m.stop) })
}

func (m *Manager) shutdown() {
	// send shutdown event to all worker units
	for _, name := range m.names {
		w := m.workers[name]
		if w.isPaniced.Load() {
			continue
		}
		log.Debugf("shutting down <%s>", name)
		w.stop <- true
	}

	// Wait for all units to quit
	for _, name := range m.names {
		<-m.workers[name].workerQuit
		log.Debugf("<%s> down", name)
	}

	signal.Stop(m.signalIn)
	log.Debug("all units down, shutting down manager")
	m.Quit <- true
}

func (m *Manager) ShutdownOn(sig ...os.Signal) {
	for _, s := range sig {
		log.Debugf("registering shutdown signal: %s", s)
	}
	signal.Notify(m.signalIn, sig...)
	m.shutdownSigs = append(m.shutdownSigs, sig...)
}

type IDGenerator func(string) int

func genID() IDGenerator {
	var mu sync.Mutex
	ids := make(map[string]int)

	return func(unit string) int {
		mu.Lock()
		defer mu.Unlock()
		ret := ids[unit]
		ids[unit]++
		return ret
	}
}

var idGenerator = genID()

// AddUnit registers a unit. Units start in the order they were added.
func (m *Manager) AddUnit(unit WorkUnit, name string) {
	workUnitManager := &WorkUnitManager{
		workerQuit: make(chan bool, 1),
		stop:       make(chan bool, 1),
		unit:       unit,
		panic:      m.panic,
	}

	unitClass := reflect.TypeOf(unit).String()
	if i := strings.LastIndex(unitClass, "."); i != -1 {
		unitClass = unitClass[i+1:]
	}
	unitName := fmt.Sprintf("%s[%s", name, unitClass)
	unitID := idGenerator(unitName)
	unitName = fmt.Sprintf("%s#%d]", unitName, unitID)

	log.Debug("adding unit", "unit", unitName)
	m.workers[unitName] = workUnitManager
	m.names = append(m.names, unitName)
}

// Units returns the names of the registered units in start order.
func (m *Manager) Units() []string {
	return slices.Clone(m.names)
}

func NewManager() *Manager {
	return &Manager{
		signalIn: make(chan os.Signal, 1),
		Quit:     make(chan bool, 1),
		workers:  make(map[string]*WorkUnitManager),
		panic:    make(chan error, 1),
		stop:     make(chan struct{}),
	}
}
