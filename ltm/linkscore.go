// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ltm implements the Loops-That-Matter diagnostic pipeline (§2
// G-J, §4.5-§4.8): per-step link scores, loop discovery, per-timestep
// relative scoring, and simplified-CLD projection. It consumes live VM
// buffers during a run (§4.4.1 item 4) rather than a finished Results
// bundle, the "live VM state per step" mode §2's data-flow description
// allows as an alternative to a post-hoc pass over Results.
package ltm

import (
	"math"

	"github.com/bpowers/simlin-sub002/compiler"
)

// LinkScore is one active (non-zero) ceteris-paribus link at a step
// (§4.5.1).
type LinkScore struct {
	Source       int
	Target       int
	Magnitude    float64
	PolaritySign float64
	PolarityKnown bool
}

// StepScores is every active link score produced at one simulation step.
type StepScores struct {
	Step   int
	T      float64
	Links  []LinkScore
}

// Computer re-evaluates every non-stock variable's compiled expression
// with each input substituted one at a time, per §4.5.2, and the
// corrected flow-to-stock formula, per §4.5.3.
type Computer struct {
	cp *compiler.CompiledProject
}

// NewComputer returns a Computer bound to cp's compiled structure. cp does
// not change across steps, so the Computer can be reused for an entire run.
func NewComputer(cp *compiler.CompiledProject) *Computer {
	return &Computer{cp: cp}
}

// Step computes the link scores for the transition prev -> curr over dt
// (§4.5.1). prevPrev is nil on the run's first scored step (step 1); no
// flow-to-stock link scores are emitted for that step, so those links
// score 0 in aggregation, per §4.5.3 and the note in §9 ("second
// difference on step 1").
func (c *Computer) Step(stepIndex int, t float64, prevPrev, prev, curr []float64, dt float64) StepScores {
	ss := StepScores{Step: stepIndex, T: t}
	for _, v := range c.cp.Vars {
		switch v.Kind {
		case compiler.SlotFlow, compiler.SlotAux:
			ss.Links = append(ss.Links, nonStockLinks(v, prev, curr, t, dt)...)
		case compiler.SlotStock:
			ss.Links = append(ss.Links, flowToStockLinks(v, prevPrev, prev, curr)...)
		case compiler.SlotModuleCopy:
			if dz := curr[v.Slot] - prev[v.Slot]; dz != 0 {
				ss.Links = append(ss.Links, LinkScore{Source: v.CopyFrom, Target: v.Slot, Magnitude: 1, PolaritySign: 1, PolarityKnown: true})
			}
		}
	}
	return ss
}

// nonStockLinks implements §4.5.2 for one flow/aux variable z.
func nonStockLinks(v compiler.CompiledVar, prev, curr []float64, t, dt float64) []LinkScore {
	if v.Expr == nil || len(v.Inputs) == 0 {
		return nil
	}
	z := v.Slot
	dz := curr[z] - prev[z]
	if dz == 0 {
		return nil
	}
	var out []LinkScore
	scratch := make([]float64, len(prev))
	for _, xi := range v.Inputs {
		dxi := curr[xi] - prev[xi]
		if dxi == 0 {
			continue
		}
		copy(scratch, prev)
		scratch[xi] = curr[xi]
		zPrime := compiler.Eval(v.Expr, scratch, t, dt)
		dxiz := zPrime - prev[z]
		mag := math.Abs(dxiz / dz)
		sign := sign(dxiz / dxi)
		out = append(out, LinkScore{Source: xi, Target: z, Magnitude: mag, PolaritySign: sign, PolarityKnown: true})
	}
	return out
}

// flowToStockLinks implements the corrected flow-to-stock formula of
// §4.5.3, needing one additional retained frame (prevPrev).
func flowToStockLinks(v compiler.CompiledVar, prevPrev, prev, curr []float64) []LinkScore {
	if prevPrev == nil {
		return nil
	}
	s := v.Slot
	dsT := curr[s] - prev[s]
	dsTPrev := prev[s] - prevPrev[s]
	d := dsT - dsTPrev
	if d == 0 {
		return nil
	}
	var out []LinkScore
	for _, in := range v.Inflows {
		mag := math.Abs((curr[in.Slot] - prev[in.Slot]) / d)
		out = append(out, LinkScore{Source: in.Slot, Target: s, Magnitude: mag, PolaritySign: 1, PolarityKnown: true})
	}
	for _, out2 := range v.Outflows {
		mag := math.Abs((curr[out2.Slot] - prev[out2.Slot]) / d)
		out = append(out, LinkScore{Source: out2.Slot, Target: s, Magnitude: mag, PolaritySign: -1, PolarityKnown: true})
	}
	return out
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
