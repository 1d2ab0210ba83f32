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
	"github.com/urfave/cli/v3"
)

var modFlags = map[string][]cli.Flag{}

// RegGlobalFlag registers a global flag owned by a module
func RegGlobalFlag(modID string, flag cli.Flag) {
	if flag == nil {
		log.Fatal("registering nil flag", "module", modID)
	}

	log.Debugf("<%s> registering global flag: %s", modID, flag.Names()[0])
	modFlags[modID] = append(modFlags[modID], flag)
}

// return registered global flags for module
func GlobalFlags(modID string) []cli.Flag {
	return modFlags[modID]
}
