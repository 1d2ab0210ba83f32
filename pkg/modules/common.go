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

// Modules extend snipper with editor plugins. A plugin registers a [Module]
// in the init function of its package and implements the optional
// interfaces below to take part in the editor lifecycle.
//
// # Lifecycle
//
//  1. [Initializer].Init: state initialization
//  2. [PreLoader].PreLoad: first loading of data files
//  3. [Extender].Attach: connect to a text view
//  4. [ActionProvider].Actions: menu entries offered to the host
package modules

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/urfave/cli/v3"

	"github.com/snipper-dev/snipper/pkg/logging"
	"github.com/snipper-dev/snipper/pkg/textview"
)

var (
	log = logging.GetLogger("MODS")

	mu                sync.RWMutex
	registeredModules []Module
	disabledMods      = map[ModID]bool{}
)

type Context struct {
	context.Context

	Cli *cli.Command

	IsTUI bool
}

// Every new module needs to register as a Module using this interface
type Module interface {
	ModInfo() ModInfo
}

// Information related to a module
type ModInfo struct {
	ID ModID // Id of this module

	Name        string
	Description string
	Author      string

	// New returns a pointer to a new instance of the module.
	New func() Module
}

type ModID string

// Initializer prepares module state before any data is loaded.
type Initializer interface {
	Init(*Context) error
}

// PreLoader loads the data files of a module once, before it is attached to
// a view.
type PreLoader interface {
	PreLoad(*Context) error
}

// Extender is a module that connects to the signals of a text view.
type Extender interface {
	Attach(*Context, *textview.TextView) error
}

// Detacher undoes Attach.
type Detacher interface {
	Detach(*textview.TextView)
}

// Action is a menu entry a module offers to the host, e.g. Insert > Text...
type Action struct {
	ID       string
	Label    string
	MenuHint string
	Run      func(*Context, *textview.TextView) error
}

type ActionProvider interface {
	Actions() []Action
}

// Modules which implement this interface need to handle all shutting down and
// cleanup logic in the defined methods.
type Shutdowner interface {
	Shutdown() error
}

// SetupModule is called for each module instance. The following methods, if
// implemented, are called in order:
//
// 1. [Initializer].Init(): state initialization
//
// 2. [PreLoader].PreLoad(): initial loading of data
func SetupModule(mod Module, c *Context) error {
	modID := mod.ModInfo().ID
	log.Info("setting up", "module", modID)

	if initializer, ok := mod.(Initializer); ok {
		log.Debug("custom init", "module", modID)
		if err := initializer.Init(c); err != nil {
			return fmt.Errorf("<%s> initialization error: %w", modID, err)
		}
	}

	if preloader, ok := mod.(PreLoader); ok {
		log.Debug("preloading", "module", modID)
		if err := preloader.PreLoad(c); err != nil {
			return fmt.Errorf("<%s> preloading error: %w", modID, err)
		}
	}

	return nil
}

// Instances creates and sets up a new instance of every enabled module.
func Instances(c *Context) ([]Module, error) {
	var out []Module
	for _, mod := range GetModules() {
		inst := mod.ModInfo().New()
		if err := SetupModule(inst, c); err != nil {
			return nil, err
		}
		out = append(out, inst)
	}
	return out, nil
}

// AttachAll attaches every Extender in mods to tv, in order. Handlers
// connected first see end-of-word events first.
func AttachAll(c *Context, tv *textview.TextView, mods ...Module) error {
	for _, mod := range mods {
		ext, ok := mod.(Extender)
		if !ok {
			continue
		}
		log.Debug("attaching", "module", mod.ModInfo().ID)
		if err := ext.Attach(c, tv); err != nil {
			return fmt.Errorf("<%s> attach: %w", mod.ModInfo().ID, err)
		}
	}
	return nil
}

// FindAction returns the action with the given id among mods.
func FindAction(id string, mods ...Module) (Action, bool) {
	for _, mod := range mods {
		ap, ok := mod.(ActionProvider)
		if !ok {
			continue
		}
		for _, a := range ap.Actions() {
			if a.ID == id {
				return a, true
			}
		}
	}
	return Action{}, false
}

func verifyModule(module Module) error {
	mod := module.ModInfo()
	if mod.ID == "" {
		return errors.New("snipper module ID is missing")
	}
	if mod.New == nil {
		return errors.New("missing ModInfo.New")
	}
	if val := mod.New(); val == nil {
		return errors.New("ModInfo.New must return a non-nil module instance")
	}
	return nil
}

func RegisterModule(module Module) {
	if err := verifyModule(module); err != nil {
		panic(err)
	}

	mu.Lock()
	defer mu.Unlock()
	for _, m := range registeredModules {
		if m.ModInfo().ID == module.ModInfo().ID {
			panic(fmt.Sprintf("module <%s> registered twice", m.ModInfo().ID))
		}
	}
	registeredModules = append(registeredModules, module)
}

// Returns a list of registered modules, disabled ones excluded
func GetModules() []Module {
	mu.RLock()
	defer mu.RUnlock()
	var result []Module
	for _, mod := range registeredModules {
		if !disabledMods[mod.ModInfo().ID] {
			result = append(result, mod)
		}
	}
	return result
}

// All returns every registered module in registration order, disabled ones
// included.
func All() []Module {
	mu.RLock()
	defer mu.RUnlock()
	return slices.Clone(registeredModules)
}

// GetModule returns the registered module with the given id, disabled or not.
func GetModule(id ModID) (Module, bool) {
	mu.RLock()
	defer mu.RUnlock()
	for _, mod := range registeredModules {
		if mod.ModInfo().ID == id {
			return mod, true
		}
	}
	return nil, false
}

func Disable(id ModID) {
	mu.Lock()
	defer mu.Unlock()
	disabledMods[id] = true
}

// Enable reverts Disable.
func Enable(id ModID) {
	mu.Lock()
	defer mu.Unlock()
	delete(disabledMods, id)
}

func Disabled(id ModID) bool {
	mu.RLock()
	defer mu.RUnlock()
	return disabledMods[id]
}
