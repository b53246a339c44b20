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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aamcrae/gpiopwm/io"
)

const samplePlan = `
name: custom
steps:
  - pwm: {period: 20000, start: 1000, end: 2000, duration: 200000}
  - delay: 500000
  - pwm: {period: 20000, start: 2000, end: 2000, duration: 100000}
`

func TestParsePlan(t *testing.T) {
	p, err := ParsePlan([]byte(samplePlan))
	require.NoError(t, err)
	assert.Equal(t, "custom", p.Name())
	steps := p.Steps()
	require.Len(t, steps, 3)
	assert.Equal(t, io.Ramp(20000, 1000, 2000, 200000), *steps[0].PWM)
	assert.Nil(t, steps[1].PWM)
	assert.Equal(t, uint32(500000), steps[1].Delay)
	assert.Equal(t, io.Fixed(20000, 2000, 100000), *steps[2].PWM)
}

func TestParsePlanErrors(t *testing.T) {
	cases := map[string]string{
		"empty":    "name: x\n",
		"both":     "steps:\n  - pwm: {period: 20000, start: 1, end: 1, duration: 20000}\n    delay: 5\n",
		"overduty": "steps:\n  - pwm: {period: 20000, start: 1, end: 30000, duration: 20000}\n",
		"syntax":   "steps: [\n",
	}
	for name, src := range cases {
		_, err := ParsePlan([]byte(src))
		assert.Error(t, err, name)
	}
}

func TestDumpRoundTrip(t *testing.T) {
	p, err := Presets["ramp-settle"].Plan(Presets["ramp-settle"].Defaults())
	require.NoError(t, err)
	b, err := Dump(p)
	require.NoError(t, err)
	assert.Contains(t, string(b), "name: ramp-settle")

	f := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(f, b, 0o644))
	back, err := LoadPlan(f)
	require.NoError(t, err)
	assert.Equal(t, p.Steps(), back.Steps())
	assert.Equal(t, p.Name(), back.Name())
}

func TestLoadPlanMissing(t *testing.T) {
	_, err := LoadPlan(filepath.Join(t.TempDir(), "none.yaml"))
	assert.Error(t, err)
}
