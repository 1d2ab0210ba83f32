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

package logging

import (
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	log "github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

const EnvSnipperDebug = "SNIPPER_DEBUG"

const (
	Release = iota
	Dev
)

// Silent is the level used to discard all output of a logger.
const Silent = log.Level(math.MaxInt32)

var (
	//RELEASE: Change to Release for release mode
	LoggingMode = Release
	TUIMode     bool
	SilentMode  bool

	DefaultLogLevels = map[int]log.Level{
		Release: log.WarnLevel,
		Dev:     log.DebugLevel,
	}

	levels = map[string]log.Level{
		"debug": log.DebugLevel,
		"info":  log.InfoLevel,
		"warn":  log.WarnLevel,
		"error": log.ErrorLevel,
		"fatal": log.FatalLevel,
		"none":  Silent,
	}
	allLevels = []string{"debug", "info", "warn", "error", "fatal", "none"}

	mu           sync.Mutex
	output       io.Writer = os.Stderr
	globalLevel            = DefaultLogLevels[LoggingMode]
	loggers                = make(map[string]*log.Logger)
	loggerLevels           = make(map[string]log.Level)

	logTextStyle = lipgloss.NewStyle().Foreground(
		lipgloss.AdaptiveColor{Light: "245", Dark: "252"},
	)
	logTextFaintStyle = lipgloss.NewStyle().Foreground(
		lipgloss.AdaptiveColor{Light: "240", Dark: "246"},
	)
	logLevelStyles = map[log.Level]lipgloss.Style{
		log.DebugLevel: lipgloss.NewStyle().
			SetString(strings.ToUpper(log.DebugLevel.String())).
			MaxWidth(4).
			Foreground(lipgloss.Color("63")),
		log.InfoLevel: lipgloss.NewStyle().
			SetString(strings.ToUpper(log.InfoLevel.String())).
			MaxWidth(4).
			Foreground(lipgloss.Color("36")),
		log.WarnLevel: lipgloss.NewStyle().
			SetString(strings.ToUpper(log.WarnLevel.String())).
			MaxWidth(4).
			Foreground(lipgloss.Color("178")),
		log.ErrorLevel: lipgloss.NewStyle().
			SetString(strings.ToUpper(log.ErrorLevel.String())).
			MaxWidth(4).
			Foreground(lipgloss.Color("204")),
		log.FatalLevel: lipgloss.NewStyle().
			SetString(strings.ToUpper(log.FatalLevel.String())).
			MaxWidth(4).
			Foreground(lipgloss.Color("134")),
	}
)

// GetLogger returns the logger of a unit, creating it on first use. Loggers
// are shared: two packages asking for the same unit get the same logger.
func GetLogger(unit string) *log.Logger {
	mu.Lock()
	defer mu.Unlock()

	if lg, ok := loggers[unit]; ok {
		return lg
	}

	lg := log.NewWithOptions(output, log.Options{})
	if len(unit) > 0 {
		lg.SetPrefix(fmt.Sprintf("[%.4s]", strings.ToUpper(unit)))
	}

	if LoggingMode == Dev {
		lg.SetTimeFormat(time.TimeOnly)
		lg.SetReportTimestamp(true)
		lg.SetReportCaller(true)
	}

	lg.SetLevel(levelFor(unit))
	if SilentMode {
		lg.SetLevel(Silent)
	}

	loggers[unit] = lg
	return lg
}

func levelFor(unit string) log.Level {
	if lvl, ok := loggerLevels[unit]; ok {
		return lvl
	}
	return globalLevel
}

// SetLevel sets the level of every logger that has no unit level override.
func SetLevel(lvl log.Level) {
	mu.Lock()
	defer mu.Unlock()

	globalLevel = lvl
	for unit, lg := range loggers {
		if _, ok := loggerLevels[unit]; !ok {
			lg.SetLevel(lvl)
		}
	}
}

// SetUnitLevel overrides the level of a single unit.
func SetUnitLevel(unit string, lvl log.Level) {
	mu.Lock()
	defer mu.Unlock()

	loggerLevels[unit] = lvl
	if lg, ok := loggers[unit]; ok {
		lg.SetLevel(lvl)
	}
}

// SetSilent discards the output of all loggers.
func SetSilent() {
	SilentMode = true
	SetLevel(Silent)
}

// SetOutput redirects all loggers to w.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	output = w
	for _, lg := range loggers {
		lg.SetOutput(w)
	}
}

func listLoggers() []string {
	mu.Lock()
	defer mu.Unlock()

	var units []string
	for unit := range loggers {
		if unit != "" {
			units = append(units, unit)
		}
	}
	slices.Sort(units)
	return units
}

// SetTUI switches all loggers to TUI mode: output goes to w with a reduced
// style and no caller or timestamp.
func SetTUI(w io.Writer) {
	TUIMode = true

	tuiLogStyles := log.DefaultStyles()
	tuiLogStyles.Levels = logLevelStyles
	tuiLogStyles.Message = logTextStyle
	tuiLogStyles.Value = logTextStyle
	tuiLogStyles.Prefix = logTextFaintStyle
	tuiLogStyles.Key = logTextFaintStyle
	tuiLogStyles.Separator = logTextFaintStyle

	mu.Lock()
	defer mu.Unlock()

	output = w
	for _, lg := range loggers {
		lg.SetOutput(w)
		// see https://github.com/charmbracelet/log?tab=readme-ov-file#styles
		lg.SetStyles(tuiLogStyles)
		lg.SetColorProfile(termenv.ANSI256)
		lg.SetReportCaller(false)
		lg.SetReportTimestamp(false)
		if lg.GetLevel() < log.InfoLevel {
			lg.SetLevel(log.InfoLevel)
		}
	}
}

func init() {
	if envDebug := os.Getenv(EnvSnipperDebug); envDebug != "" {
		if err := ParseDebugLevels(envDebug); err != nil {
			fmt.Fprintf(os.Stderr, "%s=%v: %v\n", EnvSnipperDebug, envDebug, err)
		}
	}
}
