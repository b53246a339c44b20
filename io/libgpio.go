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

	lib "github.com/aamcrae/gpio"
)

// LibGpio is an output pin driven through the aamcrae/gpio sysfs library.
// The library always uses /sys/class/gpio, so SysfsBase does not apply.
type LibGpio struct {
	number int
	gpio   *lib.Gpio
}

// LibPin exports and opens a GPIO as an output using the library.
func LibPin(gpio int) (*LibGpio, error) {
	g, err := lib.OutputPin(gpio)
	if err != nil {
		return nil, &IOError{Op: "open", Path: fmt.Sprintf("gpio%d", gpio), Err: err}
	}
	return &LibGpio{number: gpio, gpio: g}, nil
}

// Set the output of the GPIO.
func (l *LibGpio) Set(v int) error {
	if v != 0 && v != 1 {
		return fmt.Errorf("gpio%d: illegal value %d", l.number, v)
	}
	if err := l.gpio.Set(v); err != nil {
		return &IOError{Op: "write", Path: fmt.Sprintf("gpio%d", l.number), Err: err}
	}
	return nil
}

func (l *LibGpio) Close() {
	l.gpio.Close()
}
