// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"math"

	"github.com/cpmech/gosl/la"

	"github.com/bpowers/simlin-sub002/compiler"
	"github.com/bpowers/simlin-sub002/ltm"
	"github.com/bpowers/simlin-sub002/project"
	"github.com/bpowers/simlin-sub002/results"
)

// RunOptions configures a Run (§6.1, §6.2).
type RunOptions struct {
	// EnableLTM turns on per-step link scoring and final aggregation
	// (§4.5-§4.7). It roughly doubles the cost of a run, since every
	// flow/aux is re-evaluated once per active input.
	EnableLTM bool

	// RegisteredLoops are scored in addition to whatever DiscoverLoops
	// finds (§4.6.2's "side-channel"); a loop naming an unknown ident is
	// dropped. RegisteredPaths is accepted but not scored: Run never reads
	// it.
	RegisteredLoops []ltm.LoopSpec
	RegisteredPaths []ltm.PathSpec

	// EnumerationCeiling overrides ltm.DefaultEnumerationCeiling; 0 means
	// use the default.
	EnumerationCeiling int

	// Cancel, if non-nil, stops the run at the next step boundary and
	// reports RunError{Kind: Cancelled} (§7).
	Cancel <-chan struct{}
}

// saveIdents returns, in a stable order, the idents of every non-synthetic
// slot (§3.9: the save grid is every user-authored variable, stocks
// included).
func saveIdents(cp *compiler.CompiledProject) (idents []string, slots []int) {
	for i, v := range cp.Vars {
		if v.Synthetic || v.Kind == compiler.SlotModuleCopy {
			continue
		}
		idents = append(idents, v.Ident)
		slots = append(slots, i)
	}
	return idents, slots
}

// Run executes proj's compiled form end to end (§4.4), returning the
// save-grid Results and, if opts.EnableLTM, the aggregated LTM Report.
func Run(proj *project.Project, cp *compiler.CompiledProject, opts RunOptions) (*results.Results, *ltm.Report, error) {
	dt := proj.Sim.DtValue()
	saveStep := proj.Sim.SaveStepValue()
	saveEvery := int(math.Round(saveStep / dt))
	if saveEvery < 1 {
		saveEvery = 1
	}
	n := project.StepCount(proj.Sim.Start, proj.Sim.Stop, dt)

	idents, saveSlots := saveIdents(cp)
	res := results.NewResults(idents)

	curr := make([]float64, cp.NSlots)
	prev := make([]float64, cp.NSlots)
	la.VecFill(curr, 0)
	la.VecFill(prev, 0)
	var prevPrev []float64

	var computer *ltm.Computer
	var steps []ltm.StepScores
	if opts.EnableLTM {
		computer = ltm.NewComputer(cp)
	}

	saveRow := func(t float64, buf []float64) {
		vals := make([]float64, len(saveSlots))
		for i, s := range saveSlots {
			vals[i] = buf[s]
		}
		res.AppendRow(t, vals)
	}

	evalInitials(cp, curr, proj.Sim.Start, dt)
	evalSteps(cp, curr, proj.Sim.Start, dt)
	if s := anyNaNStock(cp, curr); s >= 0 {
		res.FailedAtStep = 0
		return res, finishReport(cp, opts, nil), &results.RunError{Kind: results.NumericFailure, Step: 0, Ident: cp.IdentOf(s)}
	}
	saveRow(proj.Sim.Start, curr)
	copy(prev, curr)

	for k := 1; k <= n; k++ {
		select {
		case <-opts.Cancel:
			res.CancelledAtStep = k
			return res, finishReport(cp, opts, steps), &results.RunError{Kind: results.Cancelled, Step: k}
		default:
		}

		t := proj.Sim.Start + float64(k)*dt
		switch proj.Sim.Method {
		case project.RungeKutta4:
			stepRK4(cp, prev, curr, t-dt, dt)
		default:
			stepEuler(cp, prev, curr, dt)
			evalSteps(cp, curr, t, dt)
		}

		if s := anyNaNStock(cp, curr); s >= 0 {
			res.FailedAtStep = k
			return res, finishReport(cp, opts, steps), &results.RunError{Kind: results.NumericFailure, Step: k, Ident: cp.IdentOf(s)}
		}

		if computer != nil {
			var pp []float64
			if k >= 2 {
				pp = prevPrev
			}
			steps = append(steps, computer.Step(k, t, pp, prev, curr, dt))
		}

		if k%saveEvery == 0 {
			saveRow(t, curr)
		}

		prevPrev, prev, curr = prev, curr, prevPrev
		if curr == nil {
			curr = make([]float64, cp.NSlots)
			la.VecFill(curr, 0)
		}
	}

	return res, finishReport(cp, opts, steps), nil
}

func finishReport(cp *compiler.CompiledProject, opts RunOptions, steps []ltm.StepScores) *ltm.Report {
	if !opts.EnableLTM {
		return nil
	}
	extra := registeredLoops(cp, opts.RegisteredLoops)
	return ltm.Aggregate(cp, steps, extra, opts.EnumerationCeiling)
}

// registeredLoops resolves each LoopSpec's idents to slots via cp.SlotByName,
// silently dropping any loop that names an unknown ident (a run should not
// fail just because a caller's registered loop predates a model edit).
func registeredLoops(cp *compiler.CompiledProject, specs []ltm.LoopSpec) []ltm.Loop {
	var out []ltm.Loop
	for _, spec := range specs {
		slots := make([]int, 0, len(spec.Idents))
		ok := true
		for _, id := range spec.Idents {
			s, found := cp.SlotByName[id]
			if !found {
				ok = false
				break
			}
			slots = append(slots, s)
		}
		if ok && len(slots) > 0 {
			out = append(out, ltm.Loop{Slots: slots})
		}
	}
	return out
}
