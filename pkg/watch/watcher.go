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

// Package watch runs a callback when watched files change on disk.
//
// Files are watched through their parent directory so that editors which
// save by writing a new file and renaming it over the old one are noticed.
// Events are matched against the watched file names and, when a reducer is
// used, collapsed so that a burst of writes triggers a single Run. A Run is
// only triggered when the content checksum of a watched file changed.
package watch

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/snipper-dev/snipper/internal/utils"
	"github.com/snipper-dev/snipper/pkg/logging"
	"github.com/snipper-dev/snipper/pkg/manager"
)

var log = logging.GetLogger("WATCH")

type WatchRunner interface {
	Watcher
	Runner
}

// Watcher is implemented by types that want to use the fsnotify event loop.
type Watcher interface {
	Watch() *WatchDescriptor
}

type Runner interface {
	Run()
}

type Shutdowner interface {
	Shutdown() error
}

// Wrapper around fsnotify watcher
type WatchDescriptor struct {
	ID      string
	W       *fsnotify.Watcher // underlying fsnotify watcher
	Watches []*Watch

	// Interval is the quiet period of the reducer
	Interval time.Duration

	// channel used to communicate watched events to the reducer
	eventsChan chan fsnotify.Event
	isWatching bool

	mu   sync.Mutex
	sums map[string]uint64

	done      chan struct{}
	closeOnce sync.Once
}

func (w *WatchDescriptor) hasReducer() bool {
	return w.eventsChan != nil
}

// NewWatcherWithReducer creates a watcher whose events are collapsed over
// interval before Run is called.
func NewWatcherWithReducer(name string, reducerLen int, interval time.Duration, watches ...*Watch) (*WatchDescriptor, error) {
	w, err := NewWatcher(name, watches...)
	if err != nil {
		return nil, err
	}
	w.eventsChan = make(chan fsnotify.Event, reducerLen)
	w.Interval = interval

	return w, nil
}

func NewWatcher(name string, watches ...*Watch) (*WatchDescriptor, error) {
	fswatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	watcher := &WatchDescriptor{
		ID:      name,
		W:       fswatcher,
		Watches: watches,
		sums:    make(map[string]uint64),
		done:    make(chan struct{}),
	}

	// Add all watched paths
	for _, v := range watches {
		if err = watcher.W.Add(v.Path); err != nil {
			fswatcher.Close()
			return nil, err
		}
		for _, name := range v.EventNames {
			sum, err := utils.ChecksumFile(name)
			if err != nil {
				log.Warn("checksum", "file", name, "err", err)
			}
			watcher.sums[name] = sum
		}
	}
	return watcher, nil
}

// Close stops the watch loop and the reducer and releases the fsnotify
// watcher.
func (w *WatchDescriptor) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.W.Close()
	})
	return err
}

// changed reports whether any watched file has a new checksum since the last
// call and records the new checksums.
func (w *WatchDescriptor) changed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	changed := false
	for _, watched := range w.Watches {
		for _, name := range watched.EventNames {
			sum, err := utils.ChecksumFile(name)
			if err != nil {
				log.Warn("checksum", "file", name, "err", err)
				continue
			}
			if sum != w.sums[name] {
				w.sums[name] = sum
				changed = true
			}
		}
	}
	return changed
}

// Watch is a filesystem object that can be watched for changes.
type Watch struct {
	Path       string        // Path to watch for events
	EventTypes []fsnotify.Op // events to watch for
	EventNames []string      // full paths of the files to watch for
}

// File returns a Watch on the directory of path that matches the events
// produced by saving path.
func File(path string) *Watch {
	path = filepath.Clean(path)
	return &Watch{
		Path:       filepath.Dir(path),
		EventTypes: []fsnotify.Op{fsnotify.Write, fsnotify.Create, fsnotify.Rename},
		EventNames: []string{path},
	}
}

func (wt *Watch) matches(event fsnotify.Event) bool {
	name := filepath.Clean(event.Name)
	for _, watchedEv := range wt.EventTypes {
		if !event.Op.Has(watchedEv) {
			continue
		}
		for _, watchedName := range wt.EventNames {
			if name == watchedName {
				return true
			}
		}
	}
	return false
}

// Implement work unit for watchers
type WatcherWork struct {
	wr WatchRunner
}

func Worker(wr WatchRunner) WatcherWork {
	return WatcherWork{wr}
}

func (w WatcherWork) Run(m manager.UnitManager) {
	watcher := w.wr.Watch()
	if !watcher.isWatching {
		go WatchLoop(w.wr)
		if watcher.hasReducer() {
			go ReduceEvents(watcher.Interval, w.wr)
		}
		watcher.isWatching = true

		for _, watch := range watcher.Watches {
			log.Debugf("watching %s", utils.Shorten(watch.Path))
		}
	}

	// wait for stop signal
	<-m.ShouldStop()
	if sht, ok := w.wr.(Shutdowner); ok {
		if err := sht.Shutdown(); err != nil {
			log.Error(err)
		}
	}
	if err := watcher.Close(); err != nil {
		log.Error(err)
	}
	m.Done()
}

func runIfChanged(w WatchRunner) {
	if !w.Watch().changed() {
		log.Debug("content unchanged, skipping run", "watcher", w.Watch().ID)
		return
	}
	w.Run()
}

// WatchLoop forwards the watched events until the descriptor is closed.
func WatchLoop(w WatchRunner) {
	watcher := w.Watch()
	log.Debugf("<%s> started watcher", watcher.ID)

	for {
		select {
		case <-watcher.done:
			log.Debugf("<%s> watcher stopped", watcher.ID)
			return

		case event, ok := <-watcher.W.Events:
			if !ok {
				return
			}
			log.Debug("event", "op", event.Op, "name", event.Name)

			for _, watched := range watcher.Watches {
				if !watched.matches(event) {
					continue
				}

				// For watchers who use a reducer forward the event
				// to the reducer channel
				if watcher.hasReducer() {
					select {
					case watcher.eventsChan <- event:
					case <-watcher.done:
						return
					}
				} else {
					runIfChanged(w)
				}
				break
			}

		case err, ok := <-watcher.W.Errors:
			if !ok {
				return
			}
			log.Error(err)
		}
	}
}
