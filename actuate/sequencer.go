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

	"github.com/sirupsen/logrus"

	"github.com/aamcrae/gpiopwm/io"
)

// Sequencer runs plans against a single pin, one step at a time.
// Each step completes, delays included, before the next one starts.
// There is no cancellation; an interrupted run leaves the pin at
// whatever level it was last set to.
type Sequencer struct {
	pin   io.Setter
	delay io.Delayer
	log   *logrus.Logger
}

// NewSequencer creates a Sequencer. A nil logger discards output.
func NewSequencer(pin io.Setter, delay io.Delayer, log *logrus.Logger) *Sequencer {
	if log == nil {
		log = logrus.New()
		log.SetLevel(logrus.PanicLevel)
	}
	return &Sequencer{pin: pin, delay: delay, log: log}
}

// Run executes the plan. The whole plan is validated before the pin is
// touched; after that, the first failure aborts the remaining steps.
func (s *Sequencer) Run(p *Plan) error {
	if err := p.Validate(); err != nil {
		return err
	}
	log := s.log.WithField("plan", p.Name())
	log.WithField("duration", p.Duration()).Info("starting")
	for i, st := range p.steps {
		log.WithField("step", i).Debug(st.String())
		if st.PWM != nil {
			if err := io.Emit(s.pin, s.delay, *st.PWM); err != nil {
				return fmt.Errorf("%s: step %d (%s): %w", p.Name(), i, st, err)
			}
		} else {
			s.delay.Delay(st.Delay)
		}
	}
	log.Info("done")
	return nil
}
