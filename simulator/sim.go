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

// Simulator for actuation plans.
// The plan is run against an in-memory pin on a virtual clock, so it
// completes instantly and the recorded pulses are exact.

package main

import (
	"bytes"
	"flag"
	"fmt"
	"image/png"
	"net/http"
	"os"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"

	"github.com/aamcrae/gpiopwm/actuate"
	"github.com/aamcrae/gpiopwm/io"
)

var preset = flag.String("preset", "ramp", "Preset to simulate")
var planFile = flag.String("plan", "", "YAML plan file to simulate instead of a preset")
var hold = flag.Duration("hold", 0, "Hold time (default is the preset's)")
var out = flag.String("out", "", "PNG file for the timing diagram")
var width = flag.Int("width", 1200, "Diagram width")
var height = flag.Int("height", 400, "Diagram height")
var port = flag.Int("port", 0, "If non-zero, serve the diagram on this port")

func main() {
	flag.Parse()
	log := logrus.New()
	plan, err := loadPlan()
	if err != nil {
		log.Fatalf("%v", err)
	}
	clk := io.NewVirtualClock()
	pin := io.NewRecorder(clk.Elapsed)
	seq := actuate.NewSequencer(pin, io.NewPreciseDelay(clk), log)
	if err := seq.Run(plan); err != nil {
		log.Fatalf("%v", err)
	}
	for i, p := range pin.Pulses() {
		fmt.Printf("%4d: high %8s low %10s\n", i, p.High, p.Low)
	}
	fmt.Printf("%d transitions, elapsed %s\n", len(pin.Transitions()), clk.Elapsed())
	if *out != "" {
		if err := actuate.SavePlot(*out, pin.Transitions(), clk.Elapsed(), *width, *height); err != nil {
			log.Fatalf("%s: %v", *out, err)
		}
		log.WithField("file", *out).Info("diagram written")
	}
	if *port != 0 {
		serve(log, pin.Transitions(), clk.Elapsed())
	}
}

func loadPlan() (*actuate.Plan, error) {
	if *planFile != "" {
		return actuate.LoadPlan(*planFile)
	}
	p, err := actuate.Lookup(*preset, nil)
	if err != nil {
		return nil, err
	}
	s := p.Defaults()
	if *hold != 0 {
		s.Hold = *hold
	}
	return p.Plan(s)
}

// serve renders the diagram once and serves it until the process is killed.
func serve(log *logrus.Logger, trace []io.Transition, end time.Duration) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, actuate.Plot(trace, end, *width, *height)); err != nil {
		log.Fatalf("png: %v", err)
	}
	img := buf.Bytes()
	mux := httprouter.New()
	mux.HandlerFunc(http.MethodGet, "/waveform.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		if _, err := w.Write(img); err != nil {
			log.Warnf("Error writing image: %v", err)
		}
	})
	addr := fmt.Sprintf(":%d", *port)
	log.WithField("addr", addr).Info("serving http")
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 15 * time.Second}
	if err := server.ListenAndServe(); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}
