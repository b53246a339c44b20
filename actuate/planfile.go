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
	"os"

	"gopkg.in/yaml.v3"

	"github.com/aamcrae/gpiopwm/io"
)

// planFile is the YAML form of a plan.
type planFile struct {
	Name  string     `yaml:"name"`
	Steps []stepFile `yaml:"steps"`
}

type stepFile struct {
	PWM   *io.Profile `yaml:"pwm,omitempty"`
	Delay uint32      `yaml:"delay,omitempty"`
}

// LoadPlan reads a plan from a YAML file.
func LoadPlan(path string) (*Plan, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := ParsePlan(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", path, err)
	}
	return p, nil
}

// ParsePlan decodes and validates a YAML plan.
func ParsePlan(b []byte) (*Plan, error) {
	var pf planFile
	if err := yaml.Unmarshal(b, &pf); err != nil {
		return nil, err
	}
	if pf.Name == "" {
		pf.Name = "plan"
	}
	if len(pf.Steps) == 0 {
		return nil, fmt.Errorf("no steps")
	}
	steps := make([]Step, len(pf.Steps))
	for i, s := range pf.Steps {
		if s.PWM != nil && s.Delay != 0 {
			return nil, fmt.Errorf("step %d: both pwm and delay set", i)
		}
		steps[i] = Step{PWM: s.PWM, Delay: s.Delay}
	}
	p := NewPlan(pf.Name, steps...)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// MarshalYAML encodes the plan in the same form that ParsePlan reads.
func (p *Plan) MarshalYAML() (interface{}, error) {
	pf := planFile{Name: p.name}
	for _, s := range p.steps {
		pf.Steps = append(pf.Steps, stepFile{PWM: s.PWM, Delay: s.Delay})
	}
	return pf, nil
}

// Dump writes the plan as YAML.
func Dump(p *Plan) ([]byte, error) {
	return yaml.Marshal(p)
}
