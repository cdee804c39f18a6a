// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package project implements the typed intermediate representation of a
// system-dynamics project: simulation specs, models, variables, equations,
// graphical functions and views.
package project

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// IntegrationMethod selects the numerical integrator used by the VM.
type IntegrationMethod int

const (
	// Euler is the first-order explicit Euler method.
	Euler IntegrationMethod = iota
	// RungeKutta4 is the classic fourth-order Runge-Kutta method.
	RungeKutta4
)

// String returns a human-readable name of the integration method.
func (m IntegrationMethod) String() string {
	switch m {
	case Euler:
		return "euler"
	case RungeKutta4:
		return "rk4"
	default:
		return "unknown"
	}
}

// SimSpecs holds simulation time and integration settings (§3.2).
type SimSpecs struct {
	Start      float64           `json:"start" yaml:"start"`
	Stop       float64           `json:"stop" yaml:"stop"`
	Dt         float64           `json:"dt" yaml:"dt"`
	DtIsReciprocal bool          `json:"dt_is_reciprocal" yaml:"dt_is_reciprocal"`
	SaveStep   float64           `json:"save_step" yaml:"save_step"`
	Method     IntegrationMethod `json:"method" yaml:"method"`
	TimeUnits  string            `json:"time_units" yaml:"time_units"`
}

// DtValue returns the effective dt, resolving the reciprocal form if set.
func (s *SimSpecs) DtValue() float64 {
	if s.DtIsReciprocal && s.Dt != 0 {
		return 1.0 / s.Dt
	}
	return s.Dt
}

// SaveStepValue returns the effective save_step, defaulting to dt.
func (s *SimSpecs) SaveStepValue() float64 {
	if s.SaveStep <= 0 {
		return s.DtValue()
	}
	return s.SaveStep
}

// Validate checks the SimSpecs invariants of §3.2: stop > start, dt > 0,
// save_step is an integer multiple of dt (within tolerance), and the
// resulting step count is finite and positive.
func (s *SimSpecs) Validate() error {
	dt := s.DtValue()
	if dt <= 0 {
		return chk.Err("SimSpecs: dt must be positive, got %g", dt)
	}
	if s.Stop <= s.Start {
		return chk.Err("SimSpecs: stop (%g) must be greater than start (%g)", s.Stop, s.Start)
	}
	save := s.SaveStepValue()
	if save <= 0 {
		return chk.Err("SimSpecs: save_step must be positive, got %g", save)
	}
	ratio := save / dt
	if math.Abs(ratio-math.Round(ratio)) > 1e-6 {
		return chk.Err("SimSpecs: save_step (%g) must be an integer multiple of dt (%g)", save, dt)
	}
	n := StepCount(s.Start, s.Stop, dt)
	if n <= 0 || math.IsInf(float64(n), 0) {
		return chk.Err("SimSpecs: computed step count is not finite and positive: %d", n)
	}
	return nil
}

// StepCount returns N = round((stop-start)/dt), the number of simulation steps.
func StepCount(start, stop, dt float64) int {
	return int(math.Round((stop - start) / dt))
}
