// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ltm

import (
	"github.com/bpowers/simlin-sub002/compiler"
)

// MacroPathScore is the per-step composite score of a stateful-builtin
// lowering's internal pathway (§4.5.4, §4.7): because DELAY/SMTH macros
// always lower to a single linear chain (no branching), the "pathway of
// maximum absolute magnitude" is simply the product along that chain.
type MacroPathScore struct {
	Macro     compiler.MacroGroup
	PathScore []float64 // one per step, signed
}

// CollapseMacros computes, for every MacroGroup the compiler recorded, the
// per-step signed path score of its unique internal Input->Output pathway.
// DiscoverLoops itself keeps a macro's purely internal loops (they pass
// through a synthetic stock); Aggregate removes them from Report.Loops with
// dropPureMacroLoops and reports these composite path scores in their place.
func CollapseMacros(macros []compiler.MacroGroup, steps []StepScores) []MacroPathScore {
	out := make([]MacroPathScore, len(macros))
	for mi, m := range macros {
		out[mi] = MacroPathScore{Macro: m, PathScore: make([]float64, len(steps))}
	}
	for si, step := range steps {
		links := make(map[[2]int]float64, len(step.Links))
		for _, l := range step.Links {
			links[[2]int{l.Source, l.Target}] = l.Magnitude * l.PolaritySign
		}
		for mi, m := range macros {
			out[mi].PathScore[si] = chainPathScore(m, links)
		}
	}
	return out
}

// chainPathScore walks a macro's recorded chain from Input through each
// Chain slot to Output, multiplying signed link scores; a missing link
// (inactive that step) zeroes the whole pathway.
func chainPathScore(m compiler.MacroGroup, links map[[2]int]float64) float64 {
	nodes := append([]int{m.Input}, m.Chain...)
	score := 1.0
	for i := 0; i+1 < len(nodes); i++ {
		v, ok := links[[2]int{nodes[i], nodes[i+1]}]
		if !ok {
			return 0
		}
		score *= v
	}
	return score
}
