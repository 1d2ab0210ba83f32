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

// Package snippets reads and writes texts.list files, the shortcut table of
// the insert text plugin.
//
// # Format
//
// Each line defines one snippet: a shortcut, a run of whitespace and the text
// the shortcut expands to.
//
//	#  *        *
//	#  |        |_____ text, the two characters \n become a newline
//	#  |______________ shortcut typed in the editor
//
// Example:
//
//	\alpha	α
//	-->	→
//	\sig	Best regards,\nJane  # signature
//
// Everything after the first # of a line is a comment, so the text itself
// cannot contain #. Blank lines are ignored. The first definition of a
// shortcut wins and later ones are reported as duplicates.
package snippets

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/snipper-dev/snipper/pkg/logging"
)

const (
	FileName = "texts.list"

	maxLineSize = 1024 * 1024
)

var log = logging.GetLogger("snippets")

var ErrNoText = errors.New("missing text after shortcut")

type Kind int

const (
	// KindParse is a line that could not be split into shortcut and text.
	KindParse Kind = iota

	// KindDuplicate is a shortcut already defined on an earlier line.
	KindDuplicate
)

func (k Kind) String() string {
	switch k {
	case KindParse:
		return "parse"
	case KindDuplicate:
		return "duplicate"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Diagnostic is a problem found on one line. The line is skipped and loading
// goes on.
type Diagnostic struct {
	Line     int
	Kind     Kind
	Shortcut string
	Text     string // the offending line, comment removed
	Err      error
}

func (d Diagnostic) Error() string {
	switch d.Kind {
	case KindDuplicate:
		return fmt.Sprintf("line %d: shortcut defined twice: %s", d.Line, d.Shortcut)
	default:
		return fmt.Sprintf("line %d: could not parse text %q: %v", d.Line, d.Text, d.Err)
	}
}

func (d Diagnostic) Unwrap() error {
	return d.Err
}

type Diagnostics []Diagnostic

// Of returns the diagnostics of the given kind.
func (ds Diagnostics) Of(kind Kind) Diagnostics {
	var out Diagnostics
	for _, d := range ds {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

// Err joins all diagnostics into one error, nil if there are none.
func (ds Diagnostics) Err() error {
	errs := make([]error, len(ds))
	for i, d := range ds {
		errs[i] = d
	}
	return errors.Join(errs...)
}

// Parse reads a texts.list file. Bad lines end up in the diagnostics, the
// returned error is only set when reading fails.
func Parse(r io.Reader) (*Table, Diagnostics, error) {
	table := newTable()
	var diags Diagnostics

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimSpace(skipComments(line))

		shortcut, text, err := parseLine(line)
		if err != nil {
			d := Diagnostic{Line: lineNo, Kind: KindParse, Text: line, Err: err}
			log.Error(d.Error())
			diags = append(diags, d)
			continue
		}

		if !table.add(shortcut, text) {
			d := Diagnostic{Line: lineNo, Kind: KindDuplicate, Shortcut: shortcut, Text: line}
			log.Warn(d.Error())
			diags = append(diags, d)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, diags, fmt.Errorf("reading snippets: %w", err)
	}

	return table, diags, nil
}

// LoadFile parses the file at path. A missing file is an empty table.
func LoadFile(path string) (*Table, Diagnostics, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Debug("no snippet file", "path", path)
		return newTable(), nil, nil
	} else if err != nil {
		return nil, nil, fmt.Errorf("opening snippets: %w", err)
	}
	defer f.Close()

	table, diags, err := Parse(f)
	if err != nil {
		return nil, diags, fmt.Errorf("%s: %w", path, err)
	}

	log.Info("loaded snippets", "count", table.Len(), "path", path)
	return table, diags, nil
}

func parseLine(line string) (shortcut, text string, err error) {
	idx := strings.IndexFunc(line, unicode.IsSpace)
	if idx == -1 {
		return "", "", ErrNoText
	}

	shortcut = line[:idx]
	text = strings.TrimLeftFunc(line[idx:], unicode.IsSpace)
	if text == "" {
		return "", "", ErrNoText
	}

	return shortcut, strings.ReplaceAll(text, `\n`, "\n"), nil
}

func skipComments(line string) string {
	if idx := strings.Index(line, "#"); idx != -1 {
		return line[:idx]
	}
	return line
}
