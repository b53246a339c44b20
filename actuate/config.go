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
	"time"

	"github.com/aamcrae/config"
)

// Config reads and validates a press preset from a config file section.
// Any keyword that is missing takes the value of the 'ramp' preset.
// Sample config:
//  [doorbell]               # name of preset
//  gpio=27                  # default GPIO
//  period=20ms              # PWM cycle period
//  rest=1500                # duty in microseconds at rest
//  press=2500               # duty in microseconds when pressed
//  move=200ms               # ramp window, 0 for a fixed-duty press
//  dwell=300ms              # time the press position is driven
//  settle=300ms             # time the rest position is driven after a ramp
//  hold=500ms               # default hold time
//  placement=mid            # where the hold goes: pre-release, mid or post
func Config(conf *config.Config, name string) (*Preset, error) {
	s := conf.GetSection(name)
	if s == nil {
		return nil, fmt.Errorf("no config for %s", name)
	}
	// intArg parses an optional integer keyword, leaving v unchanged if absent.
	intArg := func(key string, v *int) error {
		if a, err := s.GetArg(key); err != nil || a == "" {
			return nil
		}
		n, err := s.Parse(key, "%d", v)
		if err != nil {
			return fmt.Errorf("%s: %v", key, err)
		}
		if n != 1 {
			return fmt.Errorf("%s: argument count", key)
		}
		if *v < 0 {
			return fmt.Errorf("%s: negative value", key)
		}
		return nil
	}
	// durationArg parses an optional duration keyword, leaving v unchanged if absent.
	durationArg := func(key string, v *time.Duration) error {
		a, err := s.GetArg(key)
		if err != nil || a == "" {
			return nil
		}
		d, err := time.ParseDuration(a)
		if err != nil {
			return fmt.Errorf("%s: %v", key, err)
		}
		if _, err := Micros(d); err != nil {
			return fmt.Errorf("%s: %v", key, err)
		}
		*v = d
		return nil
	}
	p := *Presets["ramp"]
	p.Name = name
	p.Description = fmt.Sprintf("preset %s from config", name)
	var err error
	if err = intArg("gpio", &p.Gpio); err != nil {
		return nil, err
	}
	var period time.Duration
	if err = durationArg("period", &period); err != nil {
		return nil, err
	}
	if period != 0 {
		p.Press.Period = uint32(period / time.Microsecond)
	}
	for _, d := range []struct {
		key string
		v   *uint32
	}{
		{"rest", &p.Press.Rest},
		{"press", &p.Press.Pressed},
	} {
		duty := int(*d.v)
		if err = intArg(d.key, &duty); err != nil {
			return nil, err
		}
		if int64(duty) > math.MaxUint32 {
			return nil, fmt.Errorf("%s: %d out of range", d.key, duty)
		}
		*d.v = uint32(duty)
	}
	for _, d := range []struct {
		key string
		v   *time.Duration
	}{
		{"move", &p.Press.Move},
		{"dwell", &p.Press.Dwell},
		{"settle", &p.Press.Settle},
		{"hold", &p.Hold},
	} {
		if err = durationArg(d.key, d.v); err != nil {
			return nil, err
		}
	}
	if pl, err := s.GetArg("placement"); err == nil && pl != "" {
		p.Press.Placement, err = ParsePlacement(pl)
		if err != nil {
			return nil, fmt.Errorf("%s: placement: %v", name, err)
		}
	}
	if _, err := p.Plan(p.Defaults()); err != nil {
		return nil, fmt.Errorf("%s: %v", name, err)
	}
	return &p, nil
}

// ConfigFile parses the named sections of a config file as presets.
// Names without a section are skipped.
func ConfigFile(file string, names ...string) (map[string]*Preset, error) {
	conf, err := config.ParseFile(file)
	if err != nil {
		return nil, err
	}
	m := make(map[string]*Preset)
	for _, n := range names {
		if conf.GetSection(n) == nil {
			continue
		}
		p, err := Config(conf, n)
		if err != nil {
			return nil, err
		}
		m[n] = p
	}
	return m, nil
}
