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

import "time"

// ReduceEvents collapses the events of a reducer watcher: Run is called once
// after no event arrived for interval.
func ReduceEvents(interval time.Duration, w WatchRunner) {
	watch := w.Watch()
	log.Debugf("starting reducer service for %s", watch.ID)

	timer := time.NewTimer(interval)
	defer timer.Stop()
	pending := false

	for {
		select {
		case <-watch.done:
			return

		case <-watch.eventsChan:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(interval)
			pending = true

		case <-timer.C:
			if pending {
				log.Debug("<reduce>: calling Run()")
				runIfChanged(w)
				pending = false
			}
		}
	}
}
