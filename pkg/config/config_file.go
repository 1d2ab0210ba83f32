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
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/snipper-dev/snipper/internal/utils"
)

const (
	ConfigFileName = "config.toml"
	ConfigDirName  = "snipper"
)

// ConfigFileFlag holds the config file path given on the command line. It is
// also the path used by flags sourced from the toml file.
var ConfigFileFlag string

// ConfigDir returns the snipper directory under the user config dir.
func ConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("could not get config dir: %w", err)
	}
	if configDir == "" {
		return "", errors.New("could not get config dir")
	}

	return filepath.Join(configDir, ConfigDirName), nil
}

func DefaultConfPath() string {
	configDir, err := ConfigDir()
	if err != nil {
		log.Error(err)
		return ConfigFileName
	}
	return filepath.Join(configDir, ConfigFileName)
}

// Encode writes all registered configs as toml.
func Encode(w io.Writer) error {
	allConf := GetAll()
	tomlEncoder := toml.NewEncoder(w)
	tomlEncoder.Indent = ""
	return tomlEncoder.Encode(&allConf)
}

// InitConfigFile writes the current configuration to path, creating parent
// directories as needed.
func InitConfigFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("could not create config dir: %w", err)
	}

	configFile, err := os.Create(path)
	if err != nil {
		return err
	}
	defer configFile.Close()

	return Encode(configFile)
}

// LoadFromTomlFile loads the config file at path into the registered
// configurators. Tables without a configurator become free form configs.
func LoadFromTomlFile(path string) error {
	buffer := make(Config)
	if _, err := toml.DecodeFile(path, &buffer); err != nil {
		return fmt.Errorf("loading config file: %w", err)
	}

	for k, val := range buffer {
		mu.Lock()
		if _, ok := configs[k]; !ok {
			log.Debugf("creating module config [%s]", k)
			configs[k] = make(Config)
		}
		dest := configs[k]
		mu.Unlock()

		if err := dest.MapFrom(val); err != nil {
			return fmt.Errorf("parsing config <%s>: %w", k, err)
		}
	}

	return nil
}

// Init loads the config file at path if it exists. A missing file keeps the
// defaults registered by the modules.
func Init(path string) error {
	log.Debugf("snipper init config")
	ConfigFileFlag = path

	path, err := utils.ExpandPath(path)
	if err != nil {
		return err
	}

	exists, err := utils.CheckFileExists(path)
	if err != nil {
		return err
	}
	if !exists {
		log.Debug("no config file, using defaults", "path", path)
		return nil
	}

	return LoadFromTomlFile(path)
}
