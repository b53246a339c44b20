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

// GPIO relay and servo key press program

package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/aamcrae/gpiopwm/actuate"
	"github.com/aamcrae/gpiopwm/io"
)

// Exit codes
const (
	exitOK = iota
	exitSetup
	exitActuate
)

// options holds the parsed command line.
type options struct {
	gpio     uint
	holdMs   uint
	preset   string
	config   string
	plan     string
	backend  string
	chip     string
	dump     bool
	verbose  bool
	explicit map[string]bool // Flags given on the command line
}

func main() {
	os.Exit(run(os.Args[1:], logrus.New()))
}

func run(args []string, log *logrus.Logger) int {
	opts, code, ok := parseArgs(args)
	if !ok {
		return code
	}
	if opts.verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	settings, plan, err := resolve(opts)
	if err != nil {
		log.Errorf("%v", err)
		return exitSetup
	}
	if opts.dump {
		b, err := actuate.Dump(plan)
		if err != nil {
			log.Errorf("dump: %v", err)
			return exitSetup
		}
		os.Stdout.Write(b)
		return exitOK
	}
	pin, err := openPin(opts, settings.Gpio)
	if err != nil {
		log.Errorf("gpio %d: %v", settings.Gpio, err)
		return exitSetup
	}
	defer pin.Close()
	log.WithFields(logrus.Fields{"gpio": settings.Gpio, "hold": settings.Hold}).Debug("pin ready")
	seq := actuate.NewSequencer(pin, io.NewPreciseDelay(nil), log)
	if err := seq.Run(plan); err != nil {
		log.Errorf("%v", err)
		return exitActuate
	}
	return exitOK
}

// parseArgs parses the command line. If ok is false, the program should
// exit with the code returned.
func parseArgs(args []string) (opts *options, code int, ok bool) {
	opts = &options{explicit: make(map[string]bool)}
	fs := flag.NewFlagSet("gpiopwm", flag.ContinueOnError)
	fs.UintVar(&opts.gpio, "d", 0, "GPIO ID (default depends on the preset)")
	fs.UintVar(&opts.holdMs, "t", 0, "hold time in ms (default depends on the preset)")
	fs.StringVar(&opts.preset, "preset", "relay", "Action: "+strings.Join(actuate.Names(nil), ", ")+" or a config section")
	fs.StringVar(&opts.config, "config", "", "Preset configuration file")
	fs.StringVar(&opts.plan, "plan", "", "YAML plan file to run instead of a preset")
	fs.StringVar(&opts.backend, "backend", "sysfs", "GPIO backend: sysfs, cdev or gpio")
	fs.StringVar(&opts.chip, "chip", "gpiochip0", "GPIO chip for the cdev backend")
	fs.BoolVar(&opts.dump, "dump", false, "Print the plan as YAML and exit")
	fs.BoolVar(&opts.verbose, "v", false, "Verbose logging")
	fs.Usage = func() {
		w := fs.Output()
		fmt.Fprintf(w, "GPIO relay control CLI.\nUsage:\n  gpiopwm [options]\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, exitOK, false
		}
		return nil, exitSetup, false
	}
	if fs.NArg() != 0 {
		fmt.Fprintf(fs.Output(), "unexpected argument %q\n", fs.Arg(0))
		fs.Usage()
		return nil, exitSetup, false
	}
	fs.Visit(func(f *flag.Flag) {
		opts.explicit[f.Name] = true
	})
	return opts, exitOK, true
}

// resolve builds the settings and the plan from the options.
func resolve(opts *options) (actuate.Settings, *actuate.Plan, error) {
	var s actuate.Settings
	if opts.plan != "" {
		plan, err := actuate.LoadPlan(opts.plan)
		if err != nil {
			return s, nil, err
		}
		if !opts.explicit["d"] {
			return s, nil, fmt.Errorf("-plan requires -d")
		}
		s.Gpio = int(opts.gpio)
		return s, plan, s.Validate()
	}
	var extra map[string]*actuate.Preset
	if opts.config != "" {
		var err error
		extra, err = actuate.ConfigFile(opts.config, opts.preset)
		if err != nil {
			return s, nil, fmt.Errorf("%s: %v", opts.config, err)
		}
	}
	p, err := actuate.Lookup(opts.preset, extra)
	if err != nil {
		return s, nil, err
	}
	s = p.Defaults()
	if opts.explicit["d"] {
		s.Gpio = int(opts.gpio)
	}
	if opts.explicit["t"] {
		if opts.holdMs > uint(actuate.MaxHold/time.Millisecond) {
			return s, nil, fmt.Errorf("-t %d: hold out of range (max %s)", opts.holdMs, actuate.MaxHold)
		}
		s.Hold = time.Duration(opts.holdMs) * time.Millisecond
	}
	plan, err := p.Plan(s)
	return s, plan, err
}

func openPin(opts *options, gpio int) (io.Pin, error) {
	switch opts.backend {
	case "sysfs":
		return io.OutputPin(gpio)
	case "cdev":
		return io.CdevPin(opts.chip, gpio)
	case "gpio":
		return io.LibPin(gpio)
	}
	return nil, fmt.Errorf("%s: unknown backend", opts.backend)
}
