// Copyright 2025 The Octopus-Agile Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCivilDate(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			"winter UTC maps directly",
			time.Date(2025, 1, 15, 13, 45, 0, 0, time.UTC),
			ukTime(2025, 1, 15, 0, 0),
		},
		{
			"BST evening stays on its UK day",
			time.Date(2025, 6, 15, 22, 30, 0, 0, time.UTC), // 23:30 BST on the 15th
			ukTime(2025, 6, 15, 0, 0),
		},
		{
			"UTC just past midnight in summer rolls forward",
			time.Date(2025, 6, 14, 23, 30, 0, 0, time.UTC), // 00:30 BST on the 15th
			ukTime(2025, 6, 15, 0, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, civilDate(tt.in).Equal(tt.want))
		})
	}
}

func TestEndOfDay(t *testing.T) {
	end := endOfDay(ukTime(2025, 1, 15, 13, 45))
	assert.True(t, end.Equal(ukTime(2025, 1, 15, 23, 59).Add(59*time.Second)))
}

func TestCivilDateOnClockChange(t *testing.T) {
	// 2025-03-30: clocks go forward, a 23 hour day. Every instant of it
	// still groups under the same calendar date.
	first := time.Date(2025, 3, 30, 0, 10, 0, 0, time.UTC)
	last := time.Date(2025, 3, 30, 22, 50, 0, 0, time.UTC) // 23:50 BST

	assert.True(t, civilDate(first).Equal(civilDate(last)))
	assert.Equal(t, 30, civilDate(first).Day())
}
