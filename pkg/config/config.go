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

// Package config holds the configuration of snipper and of its modules.
//
// Every module registers a [Configurator] under its own name. The name is the
// table of the module in the toml config file:
//
//	[text-replacer]
//	json_path = "~/notes/replacements.json"
package config

import (
	"context"
	"fmt"
	"sync"

	"github.com/fatih/structs"
	"github.com/urfave/cli/v3"

	"github.com/snipper-dev/snipper/pkg/logging"
)

type Hook func(context.Context, *cli.Command) error

var (
	log            = logging.GetLogger("CONF")
	ConfReadyHooks []Hook

	mu      sync.RWMutex
	configs = make(map[string]Configurator)
)

const (
	GlobalConfigName = "global"
)

// A Configurator allows multiple packages and modules to set and access configs
// which can be mapped to any output format (toml, cli flags, env variables ...)
type Configurator interface {
	Set(opt string, v any) error
	Get(opt string) (any, error)
	Dump() map[string]any
	MapFrom(any) error
}

// Config is a free form configurator used for the global scope and for
// modules that do not register their own.
type Config map[string]any

func (c Config) Set(opt string, v any) error {
	c[opt] = v
	return nil
}

func (c Config) Get(opt string) (any, error) {
	v, ok := c[opt]
	if !ok {
		return nil, fmt.Errorf("%s option not defined", opt)
	}
	return v, nil
}

func (c Config) Dump() map[string]any {
	return c
}

func (c Config) MapFrom(src any) error {
	m, ok := src.(map[string]any)
	if !ok {
		return fmt.Errorf("expected a table, got %T", src)
	}
	for k, v := range m {
		c[k] = v
	}
	return nil
}

// AutoConfigurator exposes the exported fields of a struct pointer as options.
type AutoConfigurator struct {
	c any
}

func (ac AutoConfigurator) Set(opt string, v any) error {
	s := structs.New(ac.c)
	f, ok := s.FieldOk(opt)
	if !ok {
		return fmt.Errorf("%s option not defined", opt)
	}

	return f.Set(v)
}

func (ac AutoConfigurator) Get(opt string) (any, error) {
	s := structs.New(ac.c)
	f, ok := s.FieldOk(opt)
	if !ok {
		return nil, fmt.Errorf("%s option not defined", opt)
	}

	return f.Value(), nil
}

func (ac AutoConfigurator) Dump() map[string]any {
	return structs.New(ac.c).Map()
}

func (ac AutoConfigurator) MapFrom(src any) error {
	log.Debugf("mapping from:  %#v ", src)
	return decode(src, ac.c)
}

// AsConfigurator returns a default Configurator for a struct pointer. Use this
// to handle module options.
func AsConfigurator(c any) Configurator {
	return AutoConfigurator{c}
}

// RegisterGlobalOption registers an option under [global] in the toml file.
func RegisterGlobalOption(key string, val any) {
	log.Debugf("registering global option %s = %v", key, val)
	mu.Lock()
	defer mu.Unlock()
	_ = configs[GlobalConfigName].Set(key, val)
}

// GetModOpt returns a module option value given a module name and option name
func GetModOpt(module string, opt string) (any, error) {
	mu.RLock()
	defer mu.RUnlock()
	if c, ok := configs[module]; ok {
		return c.Get(opt)
	}
	return nil, fmt.Errorf("module %s not found", module)
}

// RegisterModuleOpt sets a module option, creating a free form config for
// modules without a registered configurator.
func RegisterModuleOpt(module string, opt string, val any) error {
	log.Debugf("setting option for module <%s>: %s = %v", module, opt, val)
	mu.Lock()
	defer mu.Unlock()
	if _, ok := configs[module]; !ok {
		log.Debugf("creating new default config for module <%s>", module)
		configs[module] = make(Config)
	}
	return configs[module].Set(opt, val)
}

// GetAll returns all configs keyed by module name. Struct configurators are
// returned as their underlying struct so that encoders see the field tags.
func GetAll() Config {
	mu.RLock()
	defer mu.RUnlock()
	result := make(Config)
	for k, c := range configs {
		if ac, ok := c.(AutoConfigurator); ok {
			result[k] = ac.c
		} else {
			result[k] = c
		}
	}
	return result
}

func GetModule(module string) Configurator {
	mu.RLock()
	defer mu.RUnlock()
	return configs[module]
}

// RegisterConfReadyHooks registers hooks executed once the config file has
// been loaded.
func RegisterConfReadyHooks(hooks ...Hook) {
	ConfReadyHooks = append(ConfReadyHooks, hooks...)
}

// RunConfHooks runs all registered config hooks.
func RunConfHooks(ctx context.Context, c *cli.Command) error {
	log.Debug("running config hooks")
	for _, f := range ConfReadyHooks {
		if err := f(ctx, c); err != nil {
			return fmt.Errorf("config hook: %w", err)
		}
	}
	return nil
}

// RegisterConfigurator registers the configurator of a module under name.
func RegisterConfigurator(name string, c Configurator) {
	log.Debugf("registering configurator %s", name)
	mu.Lock()
	defer mu.Unlock()
	configs[name] = c
}

func init() {
	configs[GlobalConfigName] = make(Config)
}
