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

package snippets

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/snipper-dev/snipper"
	"github.com/snipper-dev/snipper/internal/utils"
	"github.com/snipper-dev/snipper/pkg/config"
)

var ErrNotRepresentable = errors.New("snippet cannot be written to a texts.list file")

const Header = `# Snipper texts
#
# One snippet per line: the shortcut, whitespace, then the text.
# Use \n for a line break. Everything after # is a comment.
#
`

// DefaultPath returns the texts.list path in the snipper config dir.
func DefaultPath() string {
	dir, err := config.ConfigDir()
	if err != nil {
		log.Error(err)
		return FileName
	}
	return filepath.Join(dir, FileName)
}

// Write serializes entries to w in the format read by Parse. Entries that
// would not survive a reload are rejected.
func Write(w io.Writer, entries []snipper.Snippet) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(Header); err != nil {
		return err
	}

	for _, e := range entries {
		if err := checkWritable(e); err != nil {
			return err
		}
		text := strings.ReplaceAll(e.Text, "\n", `\n`)
		if _, err := fmt.Fprintf(bw, "%s\t%s\n", e.Shortcut, text); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// WriteFile writes entries to path, creating its directory.
func WriteFile(path string, entries []snipper.Snippet) error {
	if err := utils.MkDir(filepath.Dir(path)); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err = Write(f, entries); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

func checkWritable(e snipper.Snippet) error {
	if e.Shortcut == "" ||
		strings.IndexFunc(e.Shortcut, unicode.IsSpace) != -1 ||
		strings.Contains(e.Shortcut, "#") {
		return fmt.Errorf("%w: bad shortcut %q", ErrNotRepresentable, e.Shortcut)
	}

	// a literal backslash-n would come back as a newline
	escaped := strings.ReplaceAll(e.Text, "\n", `\n`)
	if escaped == "" ||
		strings.TrimSpace(escaped) != escaped ||
		strings.Contains(e.Text, `\n`) ||
		strings.Contains(escaped, "#") {
		return fmt.Errorf("%w: bad text for %q", ErrNotRepresentable, e.Shortcut)
	}
	return nil
}
