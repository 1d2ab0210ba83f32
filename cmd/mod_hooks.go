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

package cmd

import (
	"github.com/snipper-dev/snipper/pkg/config"
)

// Map module id to the hook run in the root command's Before
var modCmdBeforeHooks = map[string]config.Hook{}

// RegBeforeHook registers a module hook to be run before any command, once
// the config file is loaded.
func RegBeforeHook(modID string, hook config.Hook) {
	if hook == nil {
		log.Fatalf("cannot register nil hook for <%s>", modID)
	}

	if _, ok := modCmdBeforeHooks[modID]; ok {
		log.Warnf("a hook was already registered for module <%s>", modID)
	}
	modCmdBeforeHooks[modID] = hook
}

// Return the registered Before hook for module
func BeforeHook(modID string) config.Hook {
	return modCmdBeforeHooks[modID]
}
