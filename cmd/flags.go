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

	"github.com/snipper-dev/snipper/internal/utils"
	"github.com/snipper-dev/snipper/pkg/config"
	"github.com/snipper-dev/snipper/pkg/logging"
)

var MainFlags = []cli.Flag{
	logging.DebugFlag,
	logging.SilentFlag,

	&cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Value:       config.DefaultConfPath(),
		Usage:       "config `path`",
		DefaultText: utils.Shorten(config.DefaultConfPath()),
		Destination: &config.ConfigFileFlag,
	},
}
