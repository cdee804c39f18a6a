// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ltm

import (
	"sort"
	"strconv"

	"github.com/katalvlaran/lvlath/core"
	"github.com/katalvlaran/lvlath/dfs"

	"github.com/bpowers/simlin-sub002/compiler"
)

// Loop is a discovered elementary feedback loop: an ordered sequence of
// slots, closing back on the first.
type Loop struct {
	Slots []int
}

// LoopSpec lets a caller register an explicit loop to be scored regardless
// of whether discovery finds it (§4.6.2 "side-channel").
type LoopSpec struct {
	Idents []string
}

// PathSpec is the open-path analogue of LoopSpec.
type PathSpec struct {
	Idents []string
}

// DefaultEnumerationCeiling is the default loop count above which discovery
// falls back from exhaustive enumeration to the strongest-path heuristic
// (§4.6.1, §9 "loop enumeration ceiling").
const DefaultEnumerationCeiling = 1000

// structuralEdge is a causal dependency union'd across every scored step: a
// link is present if its magnitude was non-zero at any step (§4.6.1).
type structuralEdge struct{ from, to int }

func buildStructuralEdges(steps []StepScores) map[structuralEdge]bool {
	edges := make(map[structuralEdge]bool)
	for _, s := range steps {
		for _, l := range s.Links {
			if l.Magnitude != 0 {
				edges[structuralEdge{l.Source, l.Target}] = true
			}
		}
	}
	return edges
}

// DiscoverLoops finds the feedback loops of a compiled project given its
// accumulated per-step link scores, choosing exhaustive enumeration
// (§4.6.1) when the result count would stay within ceiling, and the
// strongest-path heuristic (§4.6.2) otherwise.
func DiscoverLoops(cp *compiler.CompiledProject, steps []StepScores, ceiling int) []Loop {
	if ceiling <= 0 {
		ceiling = DefaultEnumerationCeiling
	}
	edges := buildStructuralEdges(steps)
	loops := enumerateLoops(edges)
	if len(loops) <= ceiling {
		return keepLoopsWithStock(cp, loops)
	}
	return strongestPathLoops(cp, steps)
}

// enumerateLoops runs exhaustive elementary-circuit enumeration via
// lvlath's DFS-based cycle detector (§4.6.1).
func enumerateLoops(edges map[structuralEdge]bool) []Loop {
	g := core.NewGraph(core.WithDirected(true), core.WithLoops())
	slotOf := make(map[string]int)
	for e := range edges {
		fromID, toID := strconv.Itoa(e.from), strconv.Itoa(e.to)
		_ = g.AddVertex(fromID)
		_ = g.AddVertex(toID)
		_, _ = g.AddEdge(fromID, toID, 0)
		slotOf[fromID] = e.from
		slotOf[toID] = e.to
	}
	found, cycles, err := dfs.DetectCycles(g)
	if err != nil || !found {
		return nil
	}
	var out []Loop
	for _, cyc := range cycles {
		if len(cyc) < 2 {
			continue
		}
		slots := make([]int, 0, len(cyc)-1)
		for _, id := range cyc[:len(cyc)-1] {
			slots = append(slots, slotOf[id])
		}
		out = append(out, Loop{Slots: slots})
	}
	return out
}

func keepLoopsWithStock(cp *compiler.CompiledProject, loops []Loop) []Loop {
	var out []Loop
	for _, l := range loops {
		hasStock := false
		for _, s := range l.Slots {
			if s >= 0 && s < len(cp.Vars) && cp.Vars[s].Kind == compiler.SlotStock {
				hasStock = true
				break
			}
		}
		if hasStock {
			out = append(out, l)
		}
	}
	return out
}

// strongestPathLoops implements §4.6.2: for each timestep, sort each
// node's outgoing edges by magnitude descending, then for each stock do a
// pruned DFS that records a loop whenever it returns to that stock.
// best_score is per-step and persists across the whole pass over all
// stocks in that step, per spec.
func strongestPathLoops(cp *compiler.CompiledProject, steps []StepScores) []Loop {
	seen := make(map[string]bool)
	var out []Loop

	stocks := make([]int, 0)
	for i, v := range cp.Vars {
		if v.Kind == compiler.SlotStock {
			stocks = append(stocks, i)
		}
	}
	sort.Ints(stocks)

	for _, step := range steps {
		adj := make(map[int][]LinkScore)
		for _, l := range step.Links {
			adj[l.Source] = append(adj[l.Source], l)
		}
		for src := range adj {
			sort.Slice(adj[src], func(i, j int) bool {
				return adj[src][i].Magnitude > adj[src][j].Magnitude
			})
		}

		bestScore := make(map[int]float64)
		for _, target := range stocks {
			visiting := make(map[int]bool)
			var path []int
			var walk func(node int, score float64)
			walk = func(node int, score float64) {
				if score < bestScore[node] {
					return
				}
				bestScore[node] = score
				visiting[node] = true
				path = append(path, node)
				for _, l := range adj[node] {
					if l.Target == target && visiting[l.Target] {
						recordLoop(append(append([]int(nil), path...), target), seen, &out)
					} else if !visiting[l.Target] {
						walk(l.Target, score*l.Magnitude)
					}
				}
				path = path[:len(path)-1]
				visiting[node] = false
			}
			walk(target, 1)
		}
	}
	return out
}

func recordLoop(path []int, seen map[string]bool, out *[]Loop) {
	sig := canonicalSig(path)
	if seen[sig] {
		return
	}
	seen[sig] = true
	*out = append(*out, Loop{Slots: canonicalRotation(path)})
}

// canonicalSig and canonicalRotation dedupe a closed loop (first==last
// slot) up to rotation, following the minimal-rotation idea lvlath's
// dfs.canonical uses for cycle signatures.
func canonicalRotation(closed []int) []int {
	base := closed[:len(closed)-1]
	best := base
	bestKey := key(base)
	for i := 1; i < len(base); i++ {
		rot := append(append([]int(nil), base[i:]...), base[:i]...)
		if k := key(rot); k < bestKey {
			bestKey = k
			best = rot
		}
	}
	return append(append([]int(nil), best...), best[0])
}

func canonicalSig(closed []int) string {
	return key(canonicalRotation(closed)[:len(closed)-1])
}

func key(s []int) string {
	b := make([]byte, 0, len(s)*6)
	for i, v := range s {
		if i > 0 {
			b = append(b, ',')
		}
		b = strconv.AppendInt(b, int64(v), 10)
	}
	return string(b)
}
