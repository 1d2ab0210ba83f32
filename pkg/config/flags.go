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

package config

import (
	"context"

	"github.com/gobuffalo/flect"
	"github.com/urfave/cli/v3"
)

func setGlobal[T any](key string) func(context.Context, *cli.Command, T) error {
	return func(_ context.Context, _ *cli.Command, val T) error {
		mu.Lock()
		defer mu.Unlock()
		return configs[GlobalConfigName].Set(key, val)
	}
}

// SetupGlobalFlags returns a cli flag for each global option. Setting the
// flag overrides the option.
func SetupGlobalFlags() []cli.Flag {
	log.Debugf("setting up global flags")
	flags := []cli.Flag{}

	mu.RLock()
	defer mu.RUnlock()
	for k, v := range configs[GlobalConfigName].Dump() {
		optName := flect.Dasherize(k)

		log.Debugf("registering global flag %s = %v", optName, v)

		switch val := v.(type) {
		case string:
			flags = append(flags, &cli.StringFlag{
				Category: "_",
				Name:     optName,
				Value:    val,
				Action:   setGlobal[string](k),
			})

		case int:
			flags = append(flags, &cli.IntFlag{
				Category: "_",
				Name:     optName,
				Value:    val,
				Action:   setGlobal[int](k),
			})

		case bool:
			flags = append(flags, &cli.BoolFlag{
				Category: "_",
				Name:     optName,
				Value:    val,
				Action:   setGlobal[bool](k),
			})

		default:
			log.Warnf("unsupported type for global option %s", optName)
		}
	}

	return flags
}
