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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aamcrae/gpiopwm/io"
)

func stepStrings(p *Plan) []string {
	var s []string
	for _, st := range p.Steps() {
		s = append(s, st.String())
	}
	return s
}

func TestPresetLayouts(t *testing.T) {
	hold := 250 * time.Millisecond
	cases := map[string][]string{
		"relay": {
			"pwm 2500us/20000us for 500000us",
			"hold 250000us",
			"pwm 1500us/20000us for 500000us",
		},
		"press": {
			"pwm 2500us/20000us for 400000us",
			"hold 250000us",
			"pwm 1500us/20000us for 400000us",
		},
		"ramp": {
			"pwm 1500->2500us/20000us for 200000us",
			"pwm 2500us/20000us for 550000us",
			"pwm 2500->1500us/20000us for 200000us",
			"pwm 1500us/20000us for 300000us",
		},
		"ramp-settle": {
			"pwm 1500->2500us/20000us for 200000us",
			"pwm 2500us/20000us for 300000us",
			"pwm 2500->1500us/20000us for 200000us",
			"pwm 1500us/20000us for 300000us",
			"hold 250000us",
		},
	}
	for name, want := range cases {
		p, err := Lookup(name, nil)
		require.NoError(t, err)
		pl, err := p.Plan(Settings{Gpio: p.Gpio, Hold: hold})
		require.NoError(t, err, name)
		assert.Equal(t, want, stepStrings(pl), name)
		assert.Equal(t, name, pl.Name())
	}
}

func TestPresetDefaults(t *testing.T) {
	assert.Equal(t, Settings{Gpio: 7, Hold: time.Second}, Presets["relay"].Defaults())
	assert.Equal(t, Settings{Gpio: 7, Hold: 500 * time.Millisecond}, Presets["press"].Defaults())
	assert.Equal(t, 27, Presets["ramp"].Gpio)
	assert.Equal(t, 27, Presets["ramp-settle"].Gpio)
}

func TestPresetSettingsValidation(t *testing.T) {
	p := Presets["press"]
	_, err := p.Plan(Settings{Gpio: -1})
	assert.Error(t, err)
	_, err = p.Plan(Settings{Gpio: 7, Hold: -time.Second})
	assert.Error(t, err)
	_, err = p.Plan(Settings{Gpio: 7, Hold: MaxHold + time.Microsecond})
	assert.Error(t, err)
	_, err = p.Plan(Settings{Gpio: 7, Hold: MaxHold})
	assert.NoError(t, err)
}

func TestPresetHoldOverflow(t *testing.T) {
	// Mid placement adds the hold to the pressed dwell.
	r := Presets["ramp"]
	_, err := r.Plan(Settings{Gpio: 27, Hold: MaxHold})
	assert.ErrorContains(t, err, "pressed dwell")
	pl, err := r.Plan(Settings{Gpio: 27, Hold: MaxHold - r.Press.Dwell})
	require.NoError(t, err)
	assert.Equal(t, "pwm 2500us/20000us for 4294967295us", stepStrings(pl)[1])

	_, err = Presets["ramp-settle"].Plan(Settings{Gpio: 27, Hold: MaxHold})
	assert.NoError(t, err)

	pr := Presets["press"].Press
	pr.Settle = MaxHold + time.Microsecond
	_, err = pr.Plan("long settle", 0)
	assert.ErrorContains(t, err, "settle")
}

func TestMicros(t *testing.T) {
	us, err := Micros(1500 * time.Nanosecond)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), us)
	us, err = Micros(MaxHold)
	require.NoError(t, err)
	assert.Equal(t, uint32(4294967295), us)
	_, err = Micros(MaxHold + time.Microsecond)
	assert.Error(t, err)
	_, err = Micros(-time.Microsecond)
	assert.Error(t, err)
}

func TestLookup(t *testing.T) {
	extra := map[string]*Preset{"relay": {Name: "custom relay"}, "bell": {Name: "bell"}}
	p, err := Lookup("relay", extra)
	require.NoError(t, err)
	assert.Equal(t, "custom relay", p.Name)
	_, err = Lookup("nothing", extra)
	assert.Error(t, err)
	assert.Equal(t, []string{"bell", "press", "ramp", "ramp-settle", "relay"}, Names(extra))
}

func TestPlacement(t *testing.T) {
	for _, n := range []string{"pre-release", "mid", "post"} {
		p, err := ParsePlacement(n)
		require.NoError(t, err)
		assert.Equal(t, n, p.String())
	}
	_, err := ParsePlacement("sideways")
	assert.Error(t, err)
}

func TestPlanIsImmutable(t *testing.T) {
	prof := io.Fixed(20000, 1500, 100000)
	steps := []Step{Waveform(prof), Hold(time.Second)}
	p := NewPlan("imm", steps...)
	steps[0].PWM.Start = 0
	steps[1].Delay = 1

	got := p.Steps()
	got[0].PWM.End = 0
	got[1].Delay = 2

	again := p.Steps()
	assert.Equal(t, prof, *again[0].PWM)
	assert.Equal(t, uint32(1000000), again[1].Delay)
	assert.Equal(t, 2, p.Len())
	assert.Equal(t, 1100*time.Millisecond, p.Duration())
}

func TestStepDurationDropsRemainder(t *testing.T) {
	s := Waveform(io.Fixed(20000, 1500, 59999))
	assert.Equal(t, 40*time.Millisecond, s.Duration())
}
