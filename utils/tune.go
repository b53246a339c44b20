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

// Servo tuning utility, used to find the rest and press duty values
// for a preset.

package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/aamcrae/gpiopwm/actuate"
	"github.com/aamcrae/gpiopwm/io"
)

var gpio = flag.Int("gpio", 27, "GPIO for the servo")
var period = flag.Uint("period", actuate.ServoPeriod, "PWM period in microseconds")
var move = flag.Duration("move", 0, "Ramp between duties over this time (0 to step)")
var drive = flag.Uint("drive", 500000, "Time to drive each position, in microseconds")

func main() {
	flag.Parse()
	log := logrus.New()
	moveUs, err := actuate.Micros(*move)
	if err != nil {
		log.Fatalf("move: %v", err)
	}
	pin, err := io.OutputPin(*gpio)
	if err != nil {
		log.Fatalf("Pin %d: %v", *gpio, err)
	}
	defer pin.Close()
	seq := actuate.NewSequencer(pin, io.NewPreciseDelay(nil), log)
	reader := bufio.NewReader(os.Stdin)
	current := uint32(0)
	for {
		fmt.Printf("Duty %dus of %dus\n", current, *period)
		fmt.Print("Enter duty or command ('help' for help) ")
		text, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		text = strings.TrimSuffix(text, "\n")
		switch text {
		case "help":
			fmt.Println("  help - print help")
			fmt.Println("  NNN - drive the servo with a duty of NNN microseconds")
			fmt.Println("  r - repeat the current duty")
			fmt.Println("  q - quit")
		case "q":
			return
		case "r":
			run(seq, log, moveUs, current, current)
		default:
			var duty uint32
			n, err := fmt.Sscanf(text, "%d", &duty)
			if err != nil || n != 1 {
				fmt.Printf("Unrecognised input\n")
			} else {
				from := current
				if from == 0 || *move == 0 {
					from = duty
				}
				if run(seq, log, moveUs, from, duty) {
					current = duty
				}
			}
		}
	}
}

// run ramps (or steps) from one duty to another, then drives the new position.
func run(seq *actuate.Sequencer, log *logrus.Logger, moveUs, from, to uint32) bool {
	p := uint32(*period)
	var steps []actuate.Step
	if from != to {
		steps = append(steps, actuate.Waveform(io.Ramp(p, from, to, moveUs)))
	}
	steps = append(steps, actuate.Waveform(io.Fixed(p, to, uint32(*drive))))
	if err := seq.Run(actuate.NewPlan("tune", steps...)); err != nil {
		log.Errorf("%v", err)
		return false
	}
	return true
}
