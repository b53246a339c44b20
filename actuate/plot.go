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

// Timing diagram of a recorded waveform

package actuate

import (
	"fmt"
	"image"
	"time"

	"github.com/fogleman/gg"

	"github.com/aamcrae/gpiopwm/io"
)

const margin = 20

// Plot draws the recorded trace up to time end as a timing diagram.
// The upper half shows the pin level; the lower half shows the duty
// of each pulse as a fraction of the longest pulse period, which makes
// ramps visible even when the individual edges are too dense to resolve.
func Plot(trace []io.Transition, end time.Duration, width, height int) image.Image {
	c := gg.NewContext(width, height)
	c.SetRGB(1, 1, 1)
	c.Clear()
	if end <= 0 {
		return c.Image()
	}
	w := float64(width - 2*margin)
	h := float64(height-3*margin) / 2
	x := func(t time.Duration) float64 {
		return margin + w*float64(t)/float64(end)
	}
	// Axes
	c.SetRGB(0.7, 0.7, 0.7)
	c.SetLineWidth(1)
	c.DrawLine(margin, margin+h, margin+w, margin+h)
	c.DrawLine(margin, float64(height-margin), margin+w, float64(height-margin))
	c.Stroke()

	// Level trace
	c.SetRGB(0, 0, 1)
	c.SetLineWidth(1)
	y := func(level int) float64 {
		return margin + h - float64(level)*h*0.9
	}
	level := 0
	c.MoveTo(x(0), y(level))
	for _, t := range trace {
		if t.Level == level {
			continue
		}
		c.LineTo(x(t.At), y(level))
		c.LineTo(x(t.At), y(t.Level))
		level = t.Level
	}
	c.LineTo(x(end), y(level))
	c.Stroke()

	// Duty of each pulse
	pulses := io.PulsesOf(trace, end)
	var longest time.Duration
	for _, p := range pulses {
		if p.High+p.Low > longest {
			longest = p.High + p.Low
		}
	}
	if longest == 0 {
		return c.Image()
	}
	base := float64(height - margin)
	c.SetRGB(1, 0, 1)
	c.SetLineWidth(2)
	var at time.Duration
	for _, t := range trace {
		if t.Level == 1 {
			at = t.At
			break
		}
	}
	for _, p := range pulses {
		d := float64(p.High) / float64(longest)
		c.DrawLine(x(at), base-d*h, x(at+p.High+p.Low), base-d*h)
		at += p.High + p.Low
	}
	c.Stroke()
	c.SetRGB(0, 0, 0)
	c.DrawString(fmt.Sprintf("%d pulses, %s", len(pulses), end), margin, float64(margin)*0.75)
	return c.Image()
}

// SavePlot renders the trace to a PNG file.
func SavePlot(file string, trace []io.Transition, end time.Duration, width, height int) error {
	c := gg.NewContextForImage(Plot(trace, end, width, height))
	return c.SavePNG(file)
}
