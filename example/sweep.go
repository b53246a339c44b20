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

// Program to demonstrate how to sweep a servo with the s/w PWM library

package main

import (
	"flag"
	"log"
	"time"

	"github.com/aamcrae/gpiopwm/io"
)

var gpio = flag.Int("gpio", 27, "GPIO for the servo")
var low = flag.Uint("low", 1000, "Duty at one end of the sweep, in microseconds")
var high = flag.Uint("high", 2000, "Duty at the other end of the sweep, in microseconds")
var sweep = flag.Duration("sweep", time.Second, "Time for one sweep")
var count = flag.Int("count", 5, "Number of back and forth sweeps")

func main() {
	flag.Parse()
	pin, err := io.OutputPin(*gpio)
	if err != nil {
		log.Fatalf("Pin %d: %v", *gpio, err)
	}
	defer pin.Close()
	d := io.NewPreciseDelay(nil)
	us := uint32(sweep.Microseconds())
	for i := 0; i < *count; i++ {
		up := io.Ramp(20000, uint32(*low), uint32(*high), us)
		down := io.Ramp(20000, uint32(*high), uint32(*low), us)
		for _, p := range []io.Profile{up, down} {
			if err := io.Emit(pin, d, p); err != nil {
				log.Fatalf("Emit %s: %v", p, err)
			}
		}
	}
}
