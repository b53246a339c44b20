// Copyright 2021 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package io

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPulsesOf(t *testing.T) {
	ms := time.Millisecond
	trace := []Transition{
		{0, 0},
		{1, 1 * ms},
		{1, 2 * ms}, // repeated level is merged
		{0, 3 * ms},
		{1, 10 * ms},
		{0, 12 * ms},
	}
	assert.Equal(t, []Pulse{
		{High: 2 * ms, Low: 7 * ms},
		{High: 2 * ms, Low: 3 * ms},
	}, PulsesOf(trace, 15*ms))
}

func TestPulsesOfEndsHigh(t *testing.T) {
	trace := []Transition{{1, 0}}
	assert.Equal(t, []Pulse{{High: time.Second}}, PulsesOf(trace, time.Second))
	assert.Empty(t, PulsesOf(nil, time.Second))
}

func TestRecorderLevel(t *testing.T) {
	clk := NewVirtualClock()
	r := NewRecorder(clk.Elapsed)
	assert.Equal(t, -1, r.Level())
	assert.NoError(t, r.Set(1))
	assert.Equal(t, 1, r.Level())
	assert.Error(t, r.Set(3))
	r.Close()
	assert.True(t, r.Closed)
}
