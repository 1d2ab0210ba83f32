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
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/snipper-dev/snipper/pkg/modules"
	"github.com/snipper-dev/snipper/pkg/textview"
)

// ModContext wraps the command context for module calls.
func ModContext(ctx context.Context, c *cli.Command, tui bool) *modules.Context {
	return &modules.Context{Context: ctx, Cli: c, IsTUI: tui}
}

// NewView sets up every enabled module and attaches the extenders to a new
// view holding initial.
func NewView(ctx context.Context, c *cli.Command, initial string, tui bool, opts ...textview.Option) (*textview.TextView, []modules.Module, error) {
	mc := ModContext(ctx, c, tui)
	mods, err := modules.Instances(mc)
	if err != nil {
		return nil, nil, err
	}

	tv := textview.New(textview.NewBuffer(initial), opts...)
	if err = modules.AttachAll(mc, tv, mods...); err != nil {
		return nil, nil, err
	}
	return tv, mods, nil
}

// readInput returns the command arguments joined by spaces, or the content
// of --file, or stdin.
func readInput(c *cli.Command) (string, error) {
	if c.NArg() > 0 {
		return strings.Join(c.Args().Slice(), " "), nil
	}

	var r io.Reader = os.Stdin
	if path := c.String("file"); path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return "", err
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return string(data), nil
}

var ExpandCmd = &cli.Command{
	Name:      "expand",
	Aliases:   []string{"x"},
	Usage:     "type text through the editor plugins and print the result",
	ArgsUsage: "[text...]",
	Description: `Each character is typed into an empty buffer with all enabled
modules attached, as if a user typed it. Shortcuts are expanded on the fly.
Without arguments the text is read from --file or stdin.`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "file",
			Aliases: []string{"f"},
			Usage:   "read text from `path` (- for stdin)",
		},
		&cli.StringSliceFlag{
			Name:  "mode",
			Usage: "force editing `mode` for every word (code, pre)",
		},
	},
	Action: func(ctx context.Context, c *cli.Command) error {
		input, err := readInput(c)
		if err != nil {
			return err
		}

		var opts []textview.Option
		if modes := c.StringSlice("mode"); len(modes) > 0 {
			opts = append(opts, textview.WithModes(modes...))
		}

		tv, _, err := NewView(ctx, c, "", false, opts...)
		if err != nil {
			return err
		}
		if err = tv.Type(input); err != nil {
			return err
		}

		_, err = fmt.Fprint(c.Root().Writer, tv.Buffer().Text())
		return err
	},
}
