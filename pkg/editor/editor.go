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

// Package editor opens files in the user's external editor.
//
// The command is taken from the global "editor" option, then $VISUAL, then
// $EDITOR. It is split like a shell would, so "code --wait" works. Without
// any of them the file is handed to the desktop opener.
package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/mattn/go-shellwords"
	"github.com/skratchdot/open-golang/open"

	"github.com/snipper-dev/snipper/internal/utils"
	"github.com/snipper-dev/snipper/pkg/config"
	"github.com/snipper-dev/snipper/pkg/logging"
)

// OptEditor is the global option holding the editor command.
const OptEditor = "editor"

var (
	log = logging.GetLogger("EDIT")

	ErrEmptyCommand = errors.New("empty editor command")
)

// Command returns the configured editor command split into arguments. It
// returns nil when no editor is configured.
func Command() ([]string, error) {
	var line string
	if v, err := config.GetModOpt(config.GlobalConfigName, OptEditor); err == nil {
		line, _ = v.(string)
	}
	if line == "" {
		line = os.Getenv("VISUAL")
	}
	if line == "" {
		line = os.Getenv("EDITOR")
	}
	if line == "" {
		return nil, nil
	}

	args, err := shellwords.Parse(line)
	if err != nil {
		return nil, fmt.Errorf("parsing editor command %q: %w", line, err)
	}
	if len(args) == 0 {
		return nil, ErrEmptyCommand
	}
	return args, nil
}

// Editor edits files and reports whether they changed.
type Editor struct {
	// Command is the editor command, the path is appended as last argument.
	// An empty command uses Open.
	Command []string

	// Template is written to files that do not exist yet.
	Template string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Open hands the file to the desktop. Defaults to open.Run.
	Open func(path string) error
}

// New returns an editor using the configured command attached to the
// process terminal.
func New() (*Editor, error) {
	cmd, err := Command()
	if err != nil {
		return nil, err
	}
	return &Editor{
		Command: cmd,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Open:    open.Run,
	}, nil
}

// Session is a pending edit of one file.
type Session struct {
	Path string

	// Cmd runs the editor. It is nil when the file is handed to the desktop
	// opener instead.
	Cmd *exec.Cmd

	before   uint64
	open     func(string) error
	detached bool
}

// Start prepares the edit of path, creating the file from the template when
// it does not exist. The caller runs Cmd, or calls Open when Cmd is nil, and
// then asks Changed.
func (e *Editor) Start(ctx context.Context, path string) (*Session, error) {
	if err := e.ensureFile(path); err != nil {
		return nil, err
	}

	before, err := utils.ChecksumFile(path)
	if err != nil {
		return nil, err
	}

	s := &Session{Path: path, before: before, open: e.Open}
	if s.open == nil {
		s.open = open.Run
	}

	if len(e.Command) > 0 {
		args := append(e.Command[1:len(e.Command):len(e.Command)], path)
		log.Debug("editor command", "cmd", e.Command[0], "args", args)

		s.Cmd = exec.CommandContext(ctx, e.Command[0], args...)
		s.Cmd.Stdin = e.Stdin
		s.Cmd.Stdout = e.Stdout
		s.Cmd.Stderr = e.Stderr
	}
	return s, nil
}

// Open hands the file to the desktop opener.
func (s *Session) Open() error {
	log.Debug("opening with desktop handler", "path", s.Path)
	if err := s.open(s.Path); err != nil {
		return fmt.Errorf("opening %s: %w", s.Path, err)
	}
	s.detached = true
	return nil
}

// Changed reports whether the content of the file changed since Start. The
// desktop opener returns before the user is done, so a file handed to it is
// always reported as changed.
func (s *Session) Changed() (bool, error) {
	if s.detached {
		return true, nil
	}
	after, err := utils.ChecksumFile(s.Path)
	if err != nil {
		return false, err
	}
	return s.before != after, nil
}

// Edit opens path and waits for the editor to exit. It returns true if the
// content of the file changed.
func (e *Editor) Edit(ctx context.Context, path string) (bool, error) {
	s, err := e.Start(ctx, path)
	if err != nil {
		return false, err
	}

	if s.Cmd == nil {
		if err = s.Open(); err != nil {
			return false, err
		}
	} else if err = s.Cmd.Run(); err != nil {
		return false, fmt.Errorf("running editor: %w", err)
	}

	return s.Changed()
}

func (e *Editor) ensureFile(path string) error {
	exists, err := utils.CheckFileExists(path)
	if err != nil || exists {
		return err
	}

	if err = utils.MkDir(filepath.Dir(path)); err != nil {
		return err
	}
	log.Info("creating", "path", utils.Shorten(path))
	return os.WriteFile(path, []byte(e.Template), 0644)
}

func init() {
	config.RegisterGlobalOption(OptEditor, "")
}
