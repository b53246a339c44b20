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

// Package actuate composes s/w PWM waveforms and holds into physical actions.

package actuate

import (
	"fmt"
	"time"

	"github.com/aamcrae/gpiopwm/io"
)

// Step is one element of a plan: either a waveform segment,
// or (when PWM is nil) a plain delay that leaves the pin untouched.
type Step struct {
	PWM   *io.Profile
	Delay uint32 // microseconds
}

// Waveform returns a waveform step.
func Waveform(p io.Profile) Step {
	return Step{PWM: &p}
}

// Hold returns a delay step. d must be within MaxHold; use Micros to check.
func Hold(d time.Duration) Step {
	return Step{Delay: uint32(d / time.Microsecond)}
}

// Duration returns the time the step takes, excluding any dropped remainder.
func (s Step) Duration() time.Duration {
	if s.PWM != nil {
		return time.Duration(s.PWM.Cycles()) * time.Duration(s.PWM.Period) * time.Microsecond
	}
	return time.Duration(s.Delay) * time.Microsecond
}

func (s Step) String() string {
	if s.PWM != nil {
		return "pwm " + s.PWM.String()
	}
	return fmt.Sprintf("hold %dus", s.Delay)
}

// Plan is an ordered, immutable list of steps making up one action.
type Plan struct {
	name  string
	steps []Step
}

// NewPlan creates a plan from a copy of the steps.
func NewPlan(name string, steps ...Step) *Plan {
	p := &Plan{name: name, steps: make([]Step, len(steps))}
	for i, s := range steps {
		if s.PWM != nil {
			pr := *s.PWM
			s.PWM = &pr
		}
		p.steps[i] = s
	}
	return p
}

func (p *Plan) Name() string {
	return p.name
}

// Steps returns a copy of the steps.
func (p *Plan) Steps() []Step {
	return NewPlan(p.name, p.steps...).steps
}

// Len returns the number of steps.
func (p *Plan) Len() int {
	return len(p.steps)
}

// Duration returns the total time the plan takes to run.
func (p *Plan) Duration() time.Duration {
	var d time.Duration
	for _, s := range p.steps {
		d += s.Duration()
	}
	return d
}

// Validate checks every waveform segment of the plan.
func (p *Plan) Validate() error {
	for i, s := range p.steps {
		if s.PWM != nil {
			if err := s.PWM.Validate(); err != nil {
				return fmt.Errorf("%s: step %d: %v", p.name, i, err)
			}
		}
	}
	return nil
}
