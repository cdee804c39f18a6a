// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ltm

import (
	"math"

	"github.com/cpmech/gosl/utl"

	"github.com/bpowers/simlin-sub002/compiler"
)

// SimplifyOptions carries the two thresholds of §4.8.
type SimplifyOptions struct {
	LinkInclusionThreshold float64
	LoopInclusionThreshold float64
	KeepFlows              bool
}

// SimplifiedLink is one projected causal-loop-diagram edge.
type SimplifiedLink struct {
	Source, Target int
	Confidence     float64
	MixedPolarity  bool
}

// SimplifiedCld is the output of projecting a Report down to a
// human-scale causal-loop diagram (§4.8).
type SimplifiedCld struct {
	Stocks []int
	Flows  []int
	Links  []SimplifiedLink

	// LoopMapping maps a simplified loop (by its representative Loop) to
	// the set of indices into the source Report.Loops it was composited
	// from.
	LoopMapping map[int][]int
}

// ProjectSimplifiedCLD implements §4.8: filters variables by
// RelativeLinkVariance, filters loops by mean |RelativeLoopScore| over
// the loop's active range, and materializes simplified links along each
// kept loop's strongest pathway.
func ProjectSimplifiedCLD(cp *compiler.CompiledProject, report *Report, opts SimplifyOptions) *SimplifiedCld {
	variance := relativeLinkVariance(report)

	keptLoopIdx := make([]int, 0, len(report.Loops))
	for i, ls := range report.Loops {
		if meanActiveRelativeScore(ls.RelativeLoopScore) >= opts.LoopInclusionThreshold {
			keptLoopIdx = append(keptLoopIdx, i)
		}
	}

	cld := &SimplifiedCld{LoopMapping: make(map[int][]int)}
	stockSet := make(map[int]bool)
	flowSet := make(map[int]bool)
	linkSet := make(map[[2]int]bool)

	for _, idx := range keptLoopIdx {
		loop := report.Loops[idx].Loop
		cld.LoopMapping[idx] = append(cld.LoopMapping[idx], idx)
		for i, s := range loop.Slots {
			if s < 0 || s >= len(cp.Vars) {
				continue
			}
			switch cp.Vars[s].Kind {
			case compiler.SlotStock:
				stockSet[s] = true
			case compiler.SlotFlow:
				if opts.KeepFlows {
					flowSet[s] = true
				}
			}
			to := loop.Slots[(i+1)%len(loop.Slots)]
			linkSet[[2]int{s, to}] = true
		}
	}

	for pair := range linkSet {
		if variance[pair] < opts.LinkInclusionThreshold {
			continue
		}
		signed := signedSeriesForLink(report, pair)
		conf := PolarityConfidence([][]float64{signed})
		cld.Links = append(cld.Links, SimplifiedLink{
			Source: pair[0], Target: pair[1],
			Confidence:    conf,
			MixedPolarity: conf < 0.99,
		})
	}
	for s := range stockSet {
		cld.Stocks = append(cld.Stocks, s)
	}
	for s := range flowSet {
		cld.Flows = append(cld.Flows, s)
	}
	return cld
}

// relativeLinkVariance computes, per structural edge, max-min of
// |RelativeLinkScore_t| across the run (§4.8). The link-level "relative"
// score re-uses each step's raw link magnitude normalized by the sum of
// magnitudes at that variable for that step, since §4.8 defines it in
// exactly those terms ("RelativeLinkVariance(x→y) = max_t|RelativeLinkScore_t|
// - min_t|RelativeLinkScore_t|").
func relativeLinkVariance(report *Report) map[[2]int]float64 {
	// perTargetTotal[step][target] = sum of |magnitude| over all of
	// target's active inputs at that step.
	result := make(map[[2]int]float64)
	minSeen := make(map[[2]int]float64)
	maxSeen := make(map[[2]int]float64)
	seenAny := make(map[[2]int]bool)

	for _, step := range report.Steps {
		totals := make(map[int]float64)
		for _, l := range step.Links {
			totals[l.Target] += math.Abs(l.Magnitude)
		}
		for _, l := range step.Links {
			total := totals[l.Target]
			if total == 0 {
				continue
			}
			rel := math.Abs(l.Magnitude) / total
			pair := [2]int{l.Source, l.Target}
			if !seenAny[pair] {
				minSeen[pair], maxSeen[pair] = rel, rel
			} else {
				minSeen[pair] = utl.Min(minSeen[pair], rel)
				maxSeen[pair] = utl.Max(maxSeen[pair], rel)
			}
			seenAny[pair] = true
		}
	}
	for pair := range seenAny {
		result[pair] = maxSeen[pair] - minSeen[pair]
	}
	return result
}

// meanActiveRelativeScore is the mean of |RelativeLoopScore_t| starting at
// the first step where the loop had a nonzero score (§4.8).
func meanActiveRelativeScore(series []float64) float64 {
	start := -1
	for i, v := range series {
		if v != 0 {
			start = i
			break
		}
	}
	if start == -1 {
		return 0
	}
	var sum float64
	n := 0
	for _, v := range series[start:] {
		sum += math.Abs(v)
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func signedSeriesForLink(report *Report, pair [2]int) []float64 {
	out := make([]float64, len(report.Steps))
	for i, step := range report.Steps {
		for _, l := range step.Links {
			if l.Source == pair[0] && l.Target == pair[1] {
				out[i] = l.Magnitude * l.PolaritySign
				break
			}
		}
	}
	return out
}
