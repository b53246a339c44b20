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

package actuate

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/aamcrae/gpiopwm/io"
)

// ServoPeriod is the 50Hz period common to hobby servos, in microseconds.
const ServoPeriod = 20000

// MaxHold is the longest hold a single step can express.
const MaxHold = time.Duration(math.MaxUint32) * time.Microsecond

// Settings is the per-invocation configuration passed to a preset.
type Settings struct {
	Gpio int
	Hold time.Duration
}

// Validate checks the settings are usable.
func (s Settings) Validate() error {
	if s.Gpio < 0 {
		return fmt.Errorf("invalid gpio %d", s.Gpio)
	}
	if s.Hold < 0 || s.Hold > MaxHold {
		return fmt.Errorf("hold %s out of range (max %s)", s.Hold, MaxHold)
	}
	return nil
}

// Placement selects where the configurable hold time goes in a press.
type Placement int

const (
	PreRelease Placement = iota // Plain delay between press and release
	MidHold                     // Extends the time the press position is driven
	PostSequence                // Plain delay after the servo returns to rest
)

var placementNames = map[string]Placement{
	"pre-release": PreRelease,
	"mid":         MidHold,
	"post":        PostSequence,
}

// ParsePlacement converts a placement name.
func ParsePlacement(s string) (Placement, error) {
	p, ok := placementNames[s]
	if !ok {
		return 0, fmt.Errorf("%s: unknown placement", s)
	}
	return p, nil
}

func (p Placement) String() string {
	for k, v := range placementNames {
		if v == p {
			return k
		}
	}
	return fmt.Sprintf("placement(%d)", int(p))
}

// Press describes a press-and-release action. Duties are in microseconds.
// With a zero Move window, the press and release are fixed-duty
// segments of length Dwell; otherwise the duty is ramped over Move,
// the press is driven for Dwell, and after the return ramp the rest
// position is driven for Settle.
type Press struct {
	Period    uint32
	Rest      uint32
	Pressed   uint32
	Move      time.Duration
	Dwell     time.Duration
	Settle    time.Duration
	Placement Placement
}

// Micros converts a duration to whole microseconds, rejecting
// values that a step cannot hold.
func Micros(d time.Duration) (uint32, error) {
	if d < 0 || d > MaxHold {
		return 0, fmt.Errorf("%s out of range (max %s)", d, MaxHold)
	}
	return uint32(d / time.Microsecond), nil
}

// Plan builds the steps for the press with the given hold.
func (pr Press) Plan(name string, hold time.Duration) (*Plan, error) {
	dwell := pr.Dwell
	if pr.Placement == MidHold {
		dwell += hold
	}
	var us [5]uint32
	for i, d := range []struct {
		key string
		v   time.Duration
	}{
		{"hold", hold},
		{"dwell", pr.Dwell},
		{"pressed dwell", dwell},
		{"move", pr.Move},
		{"settle", pr.Settle},
	} {
		var err error
		if us[i], err = Micros(d.v); err != nil {
			return nil, fmt.Errorf("%s: %s: %v", name, d.key, err)
		}
	}
	holdUs, releaseUs, pressUs, moveUs, settleUs := us[0], us[1], us[2], us[3], us[4]
	var steps []Step
	delay := Step{Delay: holdUs}
	if pr.Move == 0 {
		steps = append(steps, Waveform(io.Fixed(pr.Period, pr.Pressed, pressUs)))
		if pr.Placement == PreRelease {
			steps = append(steps, delay)
		}
		steps = append(steps, Waveform(io.Fixed(pr.Period, pr.Rest, releaseUs)))
	} else {
		steps = append(steps, Waveform(io.Ramp(pr.Period, pr.Rest, pr.Pressed, moveUs)))
		steps = append(steps, Waveform(io.Fixed(pr.Period, pr.Pressed, pressUs)))
		if pr.Placement == PreRelease {
			steps = append(steps, delay)
		}
		steps = append(steps, Waveform(io.Ramp(pr.Period, pr.Pressed, pr.Rest, moveUs)))
		steps = append(steps, Waveform(io.Fixed(pr.Period, pr.Rest, settleUs)))
	}
	if pr.Placement == PostSequence {
		steps = append(steps, delay)
	}
	return NewPlan(name, steps...), nil
}

// Preset is a named action with its default pin and hold time.
type Preset struct {
	Name        string
	Description string
	Gpio        int
	Hold        time.Duration
	Press       Press
}

// Plan builds the plan for the preset using the settings provided.
func (p *Preset) Plan(s Settings) (*Plan, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	pl, err := p.Press.Plan(p.Name, s.Hold)
	if err != nil {
		return nil, err
	}
	if err := pl.Validate(); err != nil {
		return nil, err
	}
	return pl, nil
}

// Defaults returns the preset's default settings.
func (p *Preset) Defaults() Settings {
	return Settings{Gpio: p.Gpio, Hold: p.Hold}
}

// Presets holds the built-in actions, keyed by name.
var Presets = map[string]*Preset{
	"relay": {
		Name:        "relay",
		Description: "relay pulse: 0.5s at 2.5ms, hold, 0.5s at 1.5ms",
		Gpio:        7,
		Hold:        1000 * time.Millisecond,
		Press: Press{
			Period:    ServoPeriod,
			Rest:      1500,
			Pressed:   2500,
			Dwell:     500 * time.Millisecond,
			Placement: PreRelease,
		},
	},
	"press": {
		Name:        "press",
		Description: "key press: 0.4s at 2.5ms, hold, 0.4s at 1.5ms",
		Gpio:        7,
		Hold:        500 * time.Millisecond,
		Press: Press{
			Period:    ServoPeriod,
			Rest:      1500,
			Pressed:   2500,
			Dwell:     400 * time.Millisecond,
			Placement: PreRelease,
		},
	},
	"ramp": {
		Name:        "ramp",
		Description: "ramped key press, hold extends the pressed position",
		Gpio:        27,
		Hold:        0,
		Press: Press{
			Period:    ServoPeriod,
			Rest:      1500,
			Pressed:   2500,
			Move:      200 * time.Millisecond,
			Dwell:     300 * time.Millisecond,
			Settle:    300 * time.Millisecond,
			Placement: MidHold,
		},
	},
	"ramp-settle": {
		Name:        "ramp-settle",
		Description: "ramped key press, hold is a delay after returning to rest",
		Gpio:        27,
		Hold:        500 * time.Millisecond,
		Press: Press{
			Period:    ServoPeriod,
			Rest:      1500,
			Pressed:   2500,
			Move:      200 * time.Millisecond,
			Dwell:     300 * time.Millisecond,
			Settle:    300 * time.Millisecond,
			Placement: PostSequence,
		},
	},
}

// Lookup returns the named preset from the built-ins, or the extra presets if
// non-nil. Extra presets take priority.
func Lookup(name string, extra map[string]*Preset) (*Preset, error) {
	if p, ok := extra[name]; ok {
		return p, nil
	}
	if p, ok := Presets[name]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("%s: unknown preset", name)
}

// Names returns the sorted names of the built-in and extra presets.
func Names(extra map[string]*Preset) []string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range []map[string]*Preset{Presets, extra} {
		for n := range m {
			if !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
	}
	sort.Strings(names)
	return names
}
