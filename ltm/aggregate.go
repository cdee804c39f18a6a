// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ltm

import (
	"math"

	"github.com/bpowers/simlin-sub002/compiler"
)

// LoopSeries is one discovered loop's per-step score series (§4.7).
type LoopSeries struct {
	Loop              Loop
	LoopScore         []float64
	RelativeLoopScore []float64
}

// Report is the complete result of the LTM pipeline over a run: the
// discovered/registered loops and their per-step scores, plus the raw
// link-score series the loops were built from (§6.1 analyze_ltm).
type Report struct {
	Steps       []StepScores
	Loops       []LoopSeries
	Partitions  [][]int // each entry: stock slots of one cycle partition
	Macros      []MacroPathScore
	Diagnostics []string
}

// Aggregate runs loop discovery and per-step scoring (§4.6, §4.7) over an
// accumulated run of StepScores. extra are explicitly registered loops
// (§4.6.2's "side-channel") scored in addition to whatever discovery
// finds. Purely internal macro loops (a DELAY/SMTH cascade's own
// stock<->flow feedback, never leaving the macro) are suppressed from the
// public loop list per §4.5.4; their composite pathway is reported instead
// via Report.Macros.
func Aggregate(cp *compiler.CompiledProject, steps []StepScores, extra []Loop, ceiling int) *Report {
	loops := DiscoverLoops(cp, steps, ceiling)
	loops = dropPureMacroLoops(cp, loops)
	loops = append(loops, extra...)
	loops = dedupeLoops(loops)

	partitions := partitionLoops(cp, loops)
	partitionOf := make(map[int]int) // stock slot -> partition index
	for pi, p := range partitions {
		for _, s := range p {
			partitionOf[s] = pi
		}
	}

	linkIndex := make([]map[[2]int]float64, len(steps))
	for i, s := range steps {
		m := make(map[[2]int]float64, len(s.Links))
		for _, l := range s.Links {
			m[[2]int{l.Source, l.Target}] = l.Magnitude * l.PolaritySign
		}
		linkIndex[i] = m
	}

	series := make([]LoopSeries, len(loops))
	for li, loop := range loops {
		ls := LoopSeries{Loop: loop, LoopScore: make([]float64, len(steps)), RelativeLoopScore: make([]float64, len(steps))}
		for i := range steps {
			ls.LoopScore[i] = loopScoreAt(loop, linkIndex[i])
		}
		series[li] = ls
	}

	// RelativeLoopScore needs, per step and per partition, the sum of
	// |LoopScore| across every loop sharing that partition (§4.7).
	partitionSum := make([][]float64, len(partitions))
	for pi := range partitions {
		partitionSum[pi] = make([]float64, len(steps))
	}
	for li, loop := range loops {
		pi, ok := loopPartition(loop, partitionOf)
		if !ok {
			continue
		}
		for i := range steps {
			partitionSum[pi][i] += math.Abs(series[li].LoopScore[i])
		}
	}
	for li, loop := range loops {
		pi, ok := loopPartition(loop, partitionOf)
		if !ok {
			continue
		}
		for i := range steps {
			denom := partitionSum[pi][i]
			if denom == 0 {
				series[li].RelativeLoopScore[i] = 0
				continue
			}
			series[li].RelativeLoopScore[i] = series[li].LoopScore[i] / denom
		}
	}

	return &Report{
		Steps:      steps,
		Loops:      series,
		Partitions: partitions,
		Macros:     CollapseMacros(cp.Macros, steps),
	}
}

// dropPureMacroLoops implements §4.5.4's "purely internal loops (not
// leaving the macro) are suppressed in reported loops": a discovered loop
// whose every slot is synthetic state of a stateful-builtin lowering
// (DELAY/SMTH/CONVEYOR/QUEUE/PREVIOUS) never surfaces as a public loop;
// its composite pathway is reported via CollapseMacros instead.
func dropPureMacroLoops(cp *compiler.CompiledProject, loops []Loop) []Loop {
	var out []Loop
	for _, l := range loops {
		internal := true
		for _, s := range l.Slots {
			if s < 0 || s >= len(cp.Vars) || !cp.Vars[s].Synthetic {
				internal = false
				break
			}
		}
		if !internal {
			out = append(out, l)
		}
	}
	return out
}

func loopScoreAt(loop Loop, links map[[2]int]float64) float64 {
	if len(loop.Slots) < 2 {
		return 0
	}
	score := 1.0
	for i := 0; i < len(loop.Slots); i++ {
		from := loop.Slots[i]
		to := loop.Slots[(i+1)%len(loop.Slots)]
		v, ok := links[[2]int{from, to}]
		if !ok {
			return 0
		}
		score *= v
	}
	return score
}

func loopPartition(loop Loop, partitionOf map[int]int) (int, bool) {
	for _, s := range loop.Slots {
		if pi, ok := partitionOf[s]; ok {
			return pi, true
		}
	}
	return 0, false
}

// partitionLoops groups stocks into maximal cycle partitions: union-find
// over stocks that co-occur in a discovered loop (§4.6.1, GLOSSARY "cycle
// partition").
func partitionLoops(cp *compiler.CompiledProject, loops []Loop) [][]int {
	parent := make(map[int]int)
	var find func(int) int
	find = func(x int) int {
		if p, ok := parent[x]; ok && p != x {
			parent[x] = find(p)
			return parent[x]
		}
		parent[x] = x
		return x
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}

	for _, loop := range loops {
		var first int
		have := false
		for _, s := range loop.Slots {
			if s < 0 || s >= len(cp.Vars) || cp.Vars[s].Kind != compiler.SlotStock {
				continue
			}
			if !have {
				first = s
				have = true
				find(s)
				continue
			}
			union(first, s)
		}
	}

	groups := make(map[int][]int)
	for s := range parent {
		r := find(s)
		groups[r] = append(groups[r], s)
	}
	var out [][]int
	for _, g := range groups {
		out = append(out, g)
	}
	return out
}

func dedupeLoops(loops []Loop) []Loop {
	seen := make(map[string]bool)
	var out []Loop
	for _, l := range loops {
		k := key(l.Slots)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, l)
	}
	return out
}

// PolarityConfidence computes §4.7's per-composite-link confidence from
// the signed path-score series observed over a run: r is the sum of the
// best positive path score per step, b the sum of the best |negative|
// path score per step.
func PolarityConfidence(signedScoresPerStep [][]float64) float64 {
	var r, b float64
	for _, scores := range signedScoresPerStep {
		var bestPos, bestNeg float64
		for _, s := range scores {
			if s > bestPos {
				bestPos = s
			}
			if -s > bestNeg {
				bestNeg = -s
			}
		}
		r += bestPos
		b += bestNeg
	}
	if r+b == 0 {
		return 1
	}
	return math.Abs(r-b) / (r + b)
}
