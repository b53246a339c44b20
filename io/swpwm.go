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
	"fmt"
)

// Profile describes one s/w PWM waveform segment. All values are
// in microseconds. The duty cycle (high time) is ramped linearly from
// Start to End across the pulse train; Start == End gives a fixed duty.
type Profile struct {
	Period   uint32 `yaml:"period"`   // Cycle period
	Start    uint32 `yaml:"start"`    // High time of the first cycle
	End      uint32 `yaml:"end"`      // High time the ramp heads towards
	Duration uint32 `yaml:"duration"` // Total length of the segment
}

// Fixed returns a profile with a constant duty.
func Fixed(period, duty, duration uint32) Profile {
	return Profile{Period: period, Start: duty, End: duty, Duration: duration}
}

// Ramp returns a profile with the duty ramping from start to end.
func Ramp(period, start, end, duration uint32) Profile {
	return Profile{Period: period, Start: start, End: end, Duration: duration}
}

// Validate checks that every emitted cycle has a high time no longer than
// the period. Since the ramp is linear, only the first and last cycles need
// checking. End itself is never emitted, and a profile with no whole
// cycles emits nothing, so neither is checked.
func (p Profile) Validate() error {
	if p.Period == 0 {
		return fmt.Errorf("pwm: zero period")
	}
	n := p.Cycles()
	if n == 0 {
		return nil
	}
	if first, last := p.Duty(0), p.Duty(n-1); first > p.Period || last > p.Period {
		return fmt.Errorf("pwm: duty %d..%d exceeds period %d", first, last, p.Period)
	}
	return nil
}

// Cycles returns the number of whole cycles that fit in the duration.
// Any remainder is dropped.
func (p Profile) Cycles() int {
	if p.Period == 0 {
		return 0
	}
	return int(p.Duration / p.Period)
}

// Duty returns the high time of cycle i. Integer division truncates
// toward zero, so a falling ramp rounds up towards Start.
func (p Profile) Duty(i int) uint32 {
	n := int64(p.Cycles())
	if n == 0 {
		return p.Start
	}
	s := int64(p.Start)
	return uint32(s + (int64(p.End)-s)*int64(i)/n)
}

func (p Profile) String() string {
	if p.Start == p.End {
		return fmt.Sprintf("%dus/%dus for %dus", p.Start, p.Period, p.Duration)
	}
	return fmt.Sprintf("%d->%dus/%dus for %dus", p.Start, p.End, p.Period, p.Duration)
}

// Emit drives the pin through the waveform, one high/low pair per cycle.
// A profile shorter than one period emits nothing.
// A write failure aborts the remaining cycles and is returned; the
// pin is left at the last level written.
func Emit(pin Setter, d Delayer, p Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	n := p.Cycles()
	for i := 0; i < n; i++ {
		duty := p.Duty(i)
		if err := pin.Set(1); err != nil {
			return err
		}
		d.Delay(duty)
		if err := pin.Set(0); err != nil {
			return err
		}
		d.Delay(p.Period - duty)
	}
	return nil
}
