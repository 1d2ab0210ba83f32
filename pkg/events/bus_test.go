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

package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPostDoesNotBlock(t *testing.T) {
	for len(TUIBus) > 0 {
		<-TUIBus
	}
	for range cap(TUIBus) {
		assert.True(t, Post(ReloadedMsg{ID: "x"}))
	}
	assert.False(t, Post(ReloadedMsg{ID: "dropped"}))

	msg := <-TUIBus
	assert.Equal(t, ReloadedMsg{ID: "x"}, msg)
}
