// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package results holds the output of a simulation run (§3.9): the
// save-grid time series and the on-disk forms (CSV for humans, a small
// binary record for programmatic consumers, §6.3). LTM diagnostics, when
// requested, are returned alongside as a *ltm.Report rather than embedded
// here, so this package never imports ltm.
package results

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// RunError is the closed set of ways a run can terminate abnormally (§7).
type RunErrorKind int

const (
	NumericFailure RunErrorKind = iota
	Cancelled
	ResourceExhausted
)

func (k RunErrorKind) String() string {
	switch k {
	case NumericFailure:
		return "NumericFailure"
	case Cancelled:
		return "Cancelled"
	case ResourceExhausted:
		return "ResourceExhausted"
	}
	return "Unknown"
}

// RunError reports a non-successful run termination.
type RunError struct {
	Kind  RunErrorKind
	Step  int
	Ident string
}

func (e *RunError) Error() string {
	if e.Ident != "" {
		return chk.Err("sim: %s at step %d (%s)", e.Kind, e.Step, e.Ident).Error()
	}
	return chk.Err("sim: %s at step %d", e.Kind, e.Step).Error()
}

// Results is a completed (or partially completed) run's save-grid series
// (§3.9). Data is row-major by variable: Data[row][step].
type Results struct {
	Idents  []string // save-grid variable idents, in row order
	Offsets map[string]int

	Time []float64   // n_save_steps sampled time points
	Data [][]float64  // len(Idents) rows, each len(Time)

	FailedAtStep    int // -1 if the run completed cleanly
	CancelledAtStep int // -1 if the run was not cancelled
}

// NewResults allocates an empty Results over the given save-grid idents.
func NewResults(idents []string) *Results {
	r := &Results{
		Idents:          append([]string(nil), idents...),
		Offsets:         make(map[string]int, len(idents)),
		FailedAtStep:    -1,
		CancelledAtStep: -1,
	}
	for i, id := range idents {
		r.Offsets[id] = i
		r.Data = append(r.Data, nil)
	}
	return r
}

// AppendRow appends one save-grid row: t plus the value of every ident in
// Idents order (vals must be the same length and order as Idents).
func (r *Results) AppendRow(t float64, vals []float64) {
	r.Time = append(r.Time, t)
	for i, v := range vals {
		r.Data[i] = append(r.Data[i], v)
	}
}

// Series returns the saved time series for ident, or nil if ident was not
// part of the save grid.
func (r *Results) Series(ident string) []float64 {
	i, ok := r.Offsets[ident]
	if !ok {
		return nil
	}
	return r.Data[i]
}

// NSteps is the number of saved rows (including t0).
func (r *Results) NSteps() int { return len(r.Time) }

// canonicalNaN is the IEEE-754 canonical quiet NaN bit pattern used by the
// binary wire format (§6.3), independent of whichever NaN payload Go's
// runtime happens to produce.
const canonicalNaNBits = 0x7FF8000000000000

func canonicalizeNaN(v float64) float64 {
	if math.IsNaN(v) {
		return math.Float64frombits(canonicalNaNBits)
	}
	return v
}
