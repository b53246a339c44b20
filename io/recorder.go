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
	"errors"
	"fmt"
	"time"
)

// ErrInjected is returned by a Recorder once its write budget is exhausted.
var ErrInjected = errors.New("injected write failure")

// Transition is a single level written to a Recorder.
type Transition struct {
	Level int
	At    time.Duration
}

// Pulse is one high phase and the low phase that follows it.
type Pulse struct {
	High time.Duration
	Low  time.Duration
}

// Recorder is an in-memory Pin that records every level written,
// stamped with the time from a clock.
type Recorder struct {
	stamp       func() time.Duration
	transitions []Transition
	FailAfter   int // If > 0, writes after this many succeed will fail
	Closed      bool
}

// NewRecorder creates a Recorder. stamp supplies the time of each write
// and must not advance the clock e.g VirtualClock.Elapsed.
func NewRecorder(stamp func() time.Duration) *Recorder {
	return &Recorder{stamp: stamp}
}

func (r *Recorder) Set(v int) error {
	if v != 0 && v != 1 {
		return fmt.Errorf("recorder: illegal value %d", v)
	}
	if r.FailAfter > 0 && len(r.transitions) >= r.FailAfter {
		return &IOError{Op: "write", Path: "recorder", Err: ErrInjected}
	}
	r.transitions = append(r.transitions, Transition{Level: v, At: r.stamp()})
	return nil
}

func (r *Recorder) Close() {
	r.Closed = true
}

// Transitions returns a copy of the levels written so far.
func (r *Recorder) Transitions() []Transition {
	return append([]Transition(nil), r.transitions...)
}

// Level returns the last level written, or -1 if nothing has been written.
func (r *Recorder) Level() int {
	if len(r.transitions) == 0 {
		return -1
	}
	return r.transitions[len(r.transitions)-1].Level
}

// Pulses converts the recorded trace into high/low pulse pairs.
// The low phase runs until the next high, or until the current time
// for the final pulse. Repeated writes of the same level are merged.
func (r *Recorder) Pulses() []Pulse {
	return PulsesOf(r.transitions, r.stamp())
}

// PulsesOf converts a trace ending at time end into pulses.
func PulsesOf(trace []Transition, end time.Duration) []Pulse {
	var pulses []Pulse
	var rise, fall time.Duration
	level := 0
	inPulse := false
	for _, t := range trace {
		if t.Level == level {
			continue
		}
		level = t.Level
		if level == 1 {
			if inPulse {
				pulses = append(pulses, Pulse{High: fall - rise, Low: t.At - fall})
			}
			rise = t.At
			inPulse = true
		} else {
			fall = t.At
		}
	}
	if inPulse {
		if level == 1 {
			fall = end
		}
		pulses = append(pulses, Pulse{High: fall - rise, Low: end - fall})
	}
	return pulses
}
