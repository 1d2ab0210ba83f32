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

// Package events carries status messages from modules to the terminal UI.
package events

import (
	"github.com/snipper-dev/snipper/pkg/modules"
)

// TUIBus is a channel for sending messages to the Text User Interface (TUI).
// Modules use it to signal that their data was reloaded.
var TUIBus = make(chan any, 16)

// Post sends msg on the TUIBus without blocking. Messages are dropped when
// nobody is listening.
func Post(msg any) bool {
	select {
	case TUIBus <- msg:
		return true
	default:
		return false
	}
}

// ReloadedMsg is sent after a module reloaded its data file.
type ReloadedMsg struct {
	ID          modules.ModID
	Path        string
	Count       int
	Diagnostics int
}

// ReloadFailedMsg is sent when reloading a data file failed. The module keeps
// its previous data.
type ReloadFailedMsg struct {
	ID   modules.ModID
	Path string
	Err  error
}
