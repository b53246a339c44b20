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

// Package io manages GPIO pins

package io

import (
	"fmt"
	"os"
)

// SysfsBase is the root of the sysfs GPIO tree.
var SysfsBase = "/sys/class/gpio/"

const (
	exportFile    = "export"
	directionFile = "/direction"
	valueFile     = "/value"
)

var levels = [2][]byte{[]byte("0\n"), []byte("1\n")}

// Gpio represents one sysfs GPIO output pin.
type Gpio struct {
	number int
	path   string
	value  *os.File
}

// OutputPin opens a GPIO pin as an output, initially low.
// The pin is exported first if its direction file does not exist.
func OutputPin(gpio int) (*Gpio, error) {
	g := new(Gpio)
	g.number = gpio
	base := fmt.Sprintf("%sgpio%d", SysfsBase, gpio)
	dir := base + directionFile
	err := export(dir, SysfsBase+exportFile, gpio)
	if err != nil {
		return nil, err
	}
	err = writeFile(dir, "low\n")
	if err != nil {
		return nil, err
	}
	g.path = base + valueFile
	g.value, err = os.OpenFile(g.path, os.O_WRONLY, 0600)
	if err != nil {
		return nil, &IOError{Op: "open", Path: g.path, Err: err}
	}
	return g, nil
}

// Number returns the GPIO id.
func (g *Gpio) Number() int {
	return g.number
}

// Set the output of the GPIO pin.
func (g *Gpio) Set(v int) error {
	if v != 0 && v != 1 {
		return fmt.Errorf("gpio%d: illegal value %d", g.number, v)
	}
	_, err := g.value.WriteAt(levels[v], 0)
	if err != nil {
		return &IOError{Op: "write", Path: g.path, Err: err}
	}
	return nil
}

// Close releases the value file. The pin is left exported and at
// whatever level it was last set to.
func (g *Gpio) Close() {
	g.value.Close()
}
