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
	"time"

	"golang.org/x/sys/unix"
)

// SpinThreshold is the delay (in microseconds) below which PreciseDelay
// busy-waits instead of sleeping. OS sleeps this short are rounded up
// far enough to distort the waveform.
const SpinThreshold = 100

// Delayer waits for a number of microseconds.
type Delayer interface {
	Delay(us uint32)
}

// Clock provides a monotonic time source and a relative sleep.
type Clock interface {
	Now() time.Duration
	Sleep(time.Duration)
}

// PreciseDelay is a microsecond delay that spins on the clock for short
// intervals and sleeps for longer ones.
// Timing is best effort: the host scheduler may preempt the process at any
// point, stretching a delay arbitrarily on a non-realtime kernel.
type PreciseDelay struct {
	clock Clock
}

// NewPreciseDelay creates a PreciseDelay using the clock provided.
// A nil clock selects the system clock.
func NewPreciseDelay(c Clock) *PreciseDelay {
	if c == nil {
		c = NewSystemClock()
	}
	return &PreciseDelay{clock: c}
}

// Delay waits for at least us microseconds.
func (p *PreciseDelay) Delay(us uint32) {
	if us == 0 {
		return
	}
	d := time.Duration(us) * time.Microsecond
	if us < SpinThreshold {
		start := p.clock.Now()
		for p.clock.Now()-start < d {
		}
		return
	}
	p.clock.Sleep(d)
}

// SystemClock uses the Go monotonic clock and nanosleep(2).
type SystemClock struct {
	epoch time.Time
}

func NewSystemClock() *SystemClock {
	return &SystemClock{epoch: time.Now()}
}

// Now returns the monotonic time since the clock was created.
func (c *SystemClock) Now() time.Duration {
	return time.Since(c.epoch)
}

// Sleep blocks on a relative timer, resuming with the remaining
// time if interrupted by a signal.
func (c *SystemClock) Sleep(d time.Duration) {
	ts := unix.NsecToTimespec(d.Nanoseconds())
	var left unix.Timespec
	for {
		err := unix.Nanosleep(&ts, &left)
		if err != unix.EINTR {
			return
		}
		ts = left
	}
}

// VirtualClock is a deterministic Clock for tests and simulation.
// Sleep advances the clock by the requested duration, and every
// call to Now advances it by Tick so that spin loops terminate.
// A Tick of zero or less advances by 1µs.
type VirtualClock struct {
	Tick    time.Duration
	now     time.Duration
	Samples int // Number of calls to Now
	Sleeps  int // Number of calls to Sleep
}

// NewVirtualClock creates a VirtualClock with a 1µs tick.
func NewVirtualClock() *VirtualClock {
	return &VirtualClock{Tick: time.Microsecond}
}

func (c *VirtualClock) Now() time.Duration {
	c.Samples++
	t := c.now
	tick := c.Tick
	if tick <= 0 {
		tick = time.Microsecond
	}
	c.now += tick
	return t
}

func (c *VirtualClock) Sleep(d time.Duration) {
	c.Sleeps++
	c.now += d
}

// Elapsed returns the current virtual time without advancing it.
func (c *VirtualClock) Elapsed() time.Duration {
	return c.now
}
