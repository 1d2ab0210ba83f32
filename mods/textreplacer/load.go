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

package textreplacer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/buger/jsonparser"
)

var (
	ErrNotObject    = errors.New("invalid json object")
	ErrInvalidValue = errors.New("json contains invalid values")
	ErrTrailingData = errors.New("trailing data after json object")
	ErrMalformed    = errors.New("malformed json")
)

// Table maps exact words to their replacement.
type Table map[string]string

func (t Table) Get(word string) (string, bool) {
	text, ok := t[word]
	return text, ok
}

// Load reads a flat JSON object of strings. Any other JSON is rejected as a
// whole. When a key appears twice the last value wins.
func Load(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a flat JSON object of strings.
func Parse(data []byte) (Table, error) {
	_, dataType, end, err := jsonparser.Get(data)
	if err != nil {
		return nil, fmt.Errorf("parsing json: %w", err)
	}
	if dataType != jsonparser.Object {
		return nil, fmt.Errorf("%w: root is %s", ErrNotObject, dataType)
	}
	if len(bytes.TrimSpace(data[end:])) > 0 {
		return nil, ErrTrailingData
	}
	// jsonparser skips over syntax errors it does not need to look at
	if !json.Valid(data) || !utf8.Valid(data) {
		return nil, ErrMalformed
	}

	table := make(Table)
	err = jsonparser.ObjectEach(data, func(key, value []byte, dataType jsonparser.ValueType, _ int) error {
		// keys arrive unescaped
		k := string(key)
		if dataType != jsonparser.String {
			return fmt.Errorf("%w: %q is %s", ErrInvalidValue, k, dataType)
		}
		v, err := jsonparser.ParseString(value)
		if err != nil {
			return fmt.Errorf("value of %q: %w", k, err)
		}
		table[k] = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return table, nil
}
