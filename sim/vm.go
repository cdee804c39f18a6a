// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sim is the simulation VM (§4.4): a single-threaded, deterministic
// time-stepped evaluator over a compiler.CompiledProject, supporting
// Euler and RK4 integration, module instancing, and NaN failure handling.
// Grounded in fem/solver.go's time-loop shape and in bfix-dynamo's
// Model.Run() two-phase (levels-then-rates) step order.
package sim

import (
	"math"

	"github.com/bpowers/simlin-sub002/compiler"
)

// evalSteps runs cp.Steps (the flows_then_auxes pass) against buf in
// place, reading and writing buf directly. Module-copy slots are copied
// rather than evaluated.
func evalSteps(cp *compiler.CompiledProject, buf []float64, t, dt float64) {
	for _, slot := range cp.Steps {
		v := &cp.Vars[slot]
		var val float64
		if v.Kind == compiler.SlotModuleCopy {
			val = buf[v.CopyFrom]
		} else {
			val = compiler.Eval(v.Expr, buf, t, dt)
			if v.NonNegative && val < 0 {
				val = 0
			}
		}
		buf[slot] = val
	}
}

// evalInitials runs cp.Initials (stocks only) against buf in place.
func evalInitials(cp *compiler.CompiledProject, buf []float64, t0, dt float64) {
	for _, slot := range cp.Initials {
		v := &cp.Vars[slot]
		buf[slot] = compiler.Eval(v.Init, buf, t0, dt)
	}
}

// netFlow computes Σinflow-Σoutflow for stock s, reading flow values from
// buf (§4.4.1 step 2).
func netFlow(cp *compiler.CompiledProject, s int, buf []float64) float64 {
	v := &cp.Vars[s]
	var n float64
	for _, f := range v.Inflows {
		n += f.Sign * buf[f.Slot]
	}
	for _, f := range v.Outflows {
		n += f.Sign * buf[f.Slot]
	}
	return n
}

// stepEuler advances every stock from prev to curr by one dt (§4.4.1 step
// 2), using the previous step's flow values.
func stepEuler(cp *compiler.CompiledProject, prev, curr []float64, dt float64) {
	for i, v := range cp.Vars {
		if v.Kind != compiler.SlotStock {
			continue
		}
		val := prev[i] + dt*netFlow(cp, i, prev)
		if v.NonNegative && val < 0 {
			val = 0
		}
		curr[i] = val
	}
}

// stepRK4 advances every stock using the classic fourth-order Runge-Kutta
// method (§4.4.2): the net-flow function is evaluated four times against
// intermediate stock estimates, with flows/auxes re-evaluated fresh at
// each sub-stage.
func stepRK4(cp *compiler.CompiledProject, prev, curr []float64, t, dt float64) {
	n := len(prev)
	stockIdx := make([]int, 0)
	for i, v := range cp.Vars {
		if v.Kind == compiler.SlotStock {
			stockIdx = append(stockIdx, i)
		}
	}

	evalStage := func(stockVals map[int]float64, stageT float64) []float64 {
		scratch := make([]float64, n)
		copy(scratch, prev)
		for s, val := range stockVals {
			scratch[s] = val
		}
		evalSteps(cp, scratch, stageT, dt)
		return scratch
	}

	k1buf := evalStage(nil, t)
	k1 := make(map[int]float64, len(stockIdx))
	for _, s := range stockIdx {
		k1[s] = netFlow(cp, s, k1buf)
	}

	y1 := make(map[int]float64, len(stockIdx))
	for _, s := range stockIdx {
		y1[s] = prev[s] + dt/2*k1[s]
	}
	k2buf := evalStage(y1, t+dt/2)
	k2 := make(map[int]float64, len(stockIdx))
	for _, s := range stockIdx {
		k2[s] = netFlow(cp, s, k2buf)
	}

	y2 := make(map[int]float64, len(stockIdx))
	for _, s := range stockIdx {
		y2[s] = prev[s] + dt/2*k2[s]
	}
	k3buf := evalStage(y2, t+dt/2)
	k3 := make(map[int]float64, len(stockIdx))
	for _, s := range stockIdx {
		k3[s] = netFlow(cp, s, k3buf)
	}

	y3 := make(map[int]float64, len(stockIdx))
	for _, s := range stockIdx {
		y3[s] = prev[s] + dt*k3[s]
	}
	k4buf := evalStage(y3, t+dt)
	k4 := make(map[int]float64, len(stockIdx))
	for _, s := range stockIdx {
		k4[s] = netFlow(cp, s, k4buf)
	}

	finalStocks := make(map[int]float64, len(stockIdx))
	for _, s := range stockIdx {
		val := prev[s] + dt/6*(k1[s]+2*k2[s]+2*k3[s]+k4[s])
		if cp.Vars[s].NonNegative && val < 0 {
			val = 0
		}
		finalStocks[s] = val
	}

	// Final flows_then_auxes pass at the advanced stocks and t_k: this is
	// the "net advance" state LTM link scores are computed against
	// (§4.4.2), never an intermediate RK4 stage.
	copy(curr, prev)
	for s, val := range finalStocks {
		curr[s] = val
	}
	evalSteps(cp, curr, t+dt, dt)
}

// anyNaNStock reports the slot of the first stock holding NaN, or -1.
func anyNaNStock(cp *compiler.CompiledProject, buf []float64) int {
	for i, v := range cp.Vars {
		if v.Kind == compiler.SlotStock && math.IsNaN(buf[i]) {
			return i
		}
	}
	return -1
}
