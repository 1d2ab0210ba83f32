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

package modules

// Channel based inter module communication

import (
	"context"
	"fmt"
	"sync"

	"github.com/snipper-dev/snipper/pkg/manager"
)

const DispatcherID = "dispatcher"

var MsgDispatcher = NewDispatcher()

type ModMsgType int

// types of messages passed between modules
const (
	// MsgReload asks a module to reload its data file. The payload is the
	// path that changed.
	MsgReload ModMsgType = iota
	MsgHello
)

func (t ModMsgType) String() string {
	switch t {
	case MsgReload:
		return "reload"
	case MsgHello:
		return "hello"
	default:
		return fmt.Sprintf("ModMsgType(%d)", int(t))
	}
}

// ModMsg is a message exchanged between modules
type ModMsg struct {
	Type    ModMsgType
	To      ModID
	Payload any
}

// MsgListener is a module that can listen to messages from other mods
type MsgListener interface {
	MsgListen(context.Context, <-chan ModMsg)
}

// Listener is a work unit for modules that implement the MsgListener interface
type Listener struct {
	Ctx   context.Context
	Queue chan ModMsg
	MsgListener
}

func (lw Listener) Run(m manager.UnitManager) {
	ctx, cancel := context.WithCancel(lw.Ctx)
	go func() {
		defer func() {
			if err := recover(); err != nil {
				m.Panic(fmt.Errorf("%v", err))
			}
		}()
		lw.MsgListen(ctx, lw.Queue)
	}()

	<-m.ShouldStop()
	cancel()
	m.Done()
}

type listener struct {
	id    ModID
	queue chan<- ModMsg
}

// Dispatcher routes messages sent on its bus to the listening modules.
type Dispatcher struct {
	bus chan ModMsg

	mu        sync.RWMutex
	listeners map[ModID]listener
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		bus:       make(chan ModMsg),
		listeners: map[ModID]listener{},
	}
}

// Send queues msg for dispatching. It blocks until the dispatcher picks it
// up or ctx is done.
func (d *Dispatcher) Send(ctx context.Context, msg ModMsg) error {
	select {
	case d.bus <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) AddListener(id ModID, queue chan<- ModMsg) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners[id] = listener{id, queue}
}

// Listen registers mod as a listener and returns the work unit that feeds
// it.
func (d *Dispatcher) Listen(ctx context.Context, id ModID, mod MsgListener) Listener {
	queue := make(chan ModMsg, 8)
	d.AddListener(id, queue)
	return Listener{Ctx: ctx, Queue: queue, MsgListener: mod}
}

func (d *Dispatcher) dispatch(msg ModMsg) {
	d.mu.RLock()
	dst, ok := d.listeners[msg.To]
	d.mu.RUnlock()

	if !ok {
		log.Debugf("target %s not available, discarding msg=%s", msg.To, msg.Type)
		return
	}
	log.Debug("dispatching", "msg", msg.Type, "to", msg.To)
	dst.queue <- msg
}

func (d *Dispatcher) Run(m manager.UnitManager) {
	done := make(chan struct{})
	go func() {
		log.Debug("dispatching module messages")
		for {
			select {
			case msg := <-d.bus:
				d.dispatch(msg)
			case <-done:
				return
			}
		}
	}()

	<-m.ShouldStop()
	close(done)
	m.Done()
}

var _ manager.WorkUnit = (*Dispatcher)(nil)
