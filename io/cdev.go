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

	"github.com/warthog618/go-gpiocdev"
)

const consumer = "gpiopwm"

// Cdev is a GPIO output line requested through the GPIO character device.
// It needs no export step, and the line is released on Close.
type Cdev struct {
	name string
	chip *gpiocdev.Chip
	line *gpiocdev.Line
}

// CdevPin requests a line on a chip (e.g "gpiochip0") as an output, initially low.
func CdevPin(chip string, offset int) (*Cdev, error) {
	c := new(Cdev)
	c.name = fmt.Sprintf("%s:%d", chip, offset)
	var err error
	c.chip, err = gpiocdev.NewChip(chip)
	if err != nil {
		return nil, &IOError{Op: "open", Path: chip, Err: err}
	}
	c.line, err = c.chip.RequestLine(offset, gpiocdev.AsOutput(0), gpiocdev.WithConsumer(consumer))
	if err != nil {
		c.chip.Close()
		return nil, &IOError{Op: "open", Path: c.name, Err: err}
	}
	return c, nil
}

// Set the output of the line.
func (c *Cdev) Set(v int) error {
	if v != 0 && v != 1 {
		return fmt.Errorf("%s: illegal value %d", c.name, v)
	}
	if err := c.line.SetValue(v); err != nil {
		return &IOError{Op: "write", Path: c.name, Err: err}
	}
	return nil
}

// Close releases the line and the chip.
func (c *Cdev) Close() {
	c.line.Close()
	c.chip.Close()
}
