package ltm_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bpowers/simlin-sub002/compiler"
	"github.com/bpowers/simlin-sub002/ltm"
	"github.com/bpowers/simlin-sub002/project"
	"github.com/bpowers/simlin-sub002/sim"
)

func mustCompile(t *testing.T, p *project.Project) *compiler.CompiledProject {
	t.Helper()
	cp, errs := compiler.Compile(p)
	require.Empty(t, errs)
	require.NotNil(t, cp)
	return cp
}

// birthsOnlyProject is S2: a single reinforcing loop with no competing
// feedback acting on the stock.
func birthsOnlyProject() *project.Project {
	p := project.NewProject()
	p.Sim = project.SimSpecs{Start: 0, Stop: 5, Dt: 1, SaveStep: 1, Method: project.Euler}
	m := project.NewModel("main")
	_ = m.AddVariable(project.NewStock("population", project.NewScalar("100"), []string{"births"}, nil, false))
	_ = m.AddVariable(project.NewFlow("births", project.NewScalar("population*birth_fraction"), false))
	_ = m.AddVariable(project.NewAux("birth_fraction", project.NewScalar("0.05")))
	_ = p.AddModel(m)
	return p
}

// birthsAndDeathsProject is S3: births and deaths are equal fractions of
// population, so the net flow is exactly zero and the stock never moves.
func birthsAndDeathsProject() *project.Project {
	p := project.NewProject()
	p.Sim = project.SimSpecs{Start: 0, Stop: 5, Dt: 1, SaveStep: 1, Method: project.Euler}
	m := project.NewModel("main")
	_ = m.AddVariable(project.NewStock("population", project.NewScalar("100"), []string{"births"}, []string{"deaths"}, false))
	_ = m.AddVariable(project.NewFlow("births", project.NewScalar("population*rate"), false))
	_ = m.AddVariable(project.NewFlow("deaths", project.NewScalar("population*rate"), false))
	_ = m.AddVariable(project.NewAux("rate", project.NewScalar("0.05")))
	_ = p.AddModel(m)
	return p
}

// TestIsolatedLoopIdentity exercises testable property 3 (spec §8): a stock
// with exactly one active loop acting on it has |RelativeLoopScore_t| = 1 at
// every step where any stock is changing.
func TestIsolatedLoopIdentity(t *testing.T) {
	p := birthsOnlyProject()
	cp := mustCompile(t, p)

	_, report, err := sim.Run(p, cp, sim.RunOptions{EnableLTM: true})
	require.NoError(t, err)
	require.NotNil(t, report)
	require.Len(t, report.Loops, 1, "births-only has exactly one structural loop")

	rel := report.Loops[0].RelativeLoopScore
	require.NotEmpty(t, rel)
	for i, v := range rel {
		if i == 0 {
			continue // index 0 is step 1: no prev-prev frame, so no flow-to-stock link and a 0 loop score
		}
		require.InDelta(t, 1.0, v, 1e-9, "step %d", i)
	}
}

// TestEquilibriumZeroing exercises testable property 5 (spec §8) via S3: if
// every stock is unchanging at t, every link score and loop score at t is 0.
func TestEquilibriumZeroing(t *testing.T) {
	p := birthsAndDeathsProject()
	cp := mustCompile(t, p)

	_, report, err := sim.Run(p, cp, sim.RunOptions{EnableLTM: true})
	require.NoError(t, err)
	require.NotNil(t, report)

	for _, step := range report.Steps {
		for _, l := range step.Links {
			require.Zero(t, l.Magnitude)
		}
	}
	for _, ls := range report.Loops {
		for i, v := range ls.LoopScore {
			require.Zero(t, v, "loop score at step %d", i)
		}
		for i, v := range ls.RelativeLoopScore {
			require.Zero(t, v, "relative loop score at step %d", i)
		}
	}
}

// TestPartitionSumIdentity exercises testable property 4 (spec §8): for
// every step and every cycle partition, the sum of |RelativeLoopScore|
// across loops in that partition is either 0 or 1.
func TestPartitionSumIdentity(t *testing.T) {
	p := birthsOnlyProject()
	cp := mustCompile(t, p)

	_, report, err := sim.Run(p, cp, sim.RunOptions{EnableLTM: true})
	require.NoError(t, err)

	partitionOf := make(map[int]int)
	for pi, slots := range report.Partitions {
		for _, s := range slots {
			partitionOf[s] = pi
		}
	}

	for i := range report.Steps {
		perPartition := make(map[int]float64)
		for _, ls := range report.Loops {
			pi := -1
			for _, s := range ls.Loop.Slots {
				if p, ok := partitionOf[s]; ok {
					pi = p
					break
				}
			}
			if pi < 0 || i >= len(ls.RelativeLoopScore) {
				continue
			}
			perPartition[pi] += abs(ls.RelativeLoopScore[i])
		}
		for _, sum := range perPartition {
			require.True(t, sum == 0 || almostOne(sum), "step %d partition sum %v", i, sum)
		}
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func almostOne(v float64) bool {
	const eps = 1e-9
	return v > 1-eps && v < 1+eps
}

// delay3StepProject is S5: y = DELAY3(STEP(1,2), 6). The internal DELAY3
// cascade is a pure stock/flow chain with its own stock<->flow feedback at
// every stage (§4.5.4): none of that may surface in the public loop list.
func delay3StepProject() *project.Project {
	p := project.NewProject()
	p.Sim = project.SimSpecs{Start: 0, Stop: 10, Dt: 0.25, SaveStep: 1, Method: project.Euler}
	m := project.NewModel("main")
	_ = m.AddVariable(project.NewAux("y", project.NewScalar("DELAY3(STEP(1,2), 6)")))
	_ = p.AddModel(m)
	return p
}

// TestMacroInternalLoopsSuppressed exercises §4.5.4/S5: a DELAY3 expansion
// introduces synthetic stock<->flow feedback internal to the macro, which
// must never appear in Report.Loops, and the macro's composite pathway is
// reported separately via Report.Macros.
func TestMacroInternalLoopsSuppressed(t *testing.T) {
	p := delay3StepProject()
	cp := mustCompile(t, p)
	require.NotEmpty(t, cp.Macros, "DELAY3 should record a MacroGroup")

	_, report, err := sim.Run(p, cp, sim.RunOptions{EnableLTM: true})
	require.NoError(t, err)
	require.NotNil(t, report)

	syntheticSlots := make(map[int]bool)
	for _, mg := range cp.Macros {
		for _, s := range mg.Chain {
			syntheticSlots[s] = true
		}
	}
	for _, ls := range report.Loops {
		allSynthetic := true
		for _, s := range ls.Loop.Slots {
			if !syntheticSlots[s] {
				allSynthetic = false
				break
			}
		}
		require.False(t, allSynthetic, "purely internal macro loop leaked into public loop list: %v", ls.Loop.Slots)
	}

	require.Len(t, report.Macros, 1)
	require.Len(t, report.Macros[0].PathScore, len(report.Steps))
}

// TestPolarityConfidenceAllPositive checks the degenerate all-positive case
// from §4.7: confidence is 1 when every observed path score shares a sign.
func TestPolarityConfidenceAllPositive(t *testing.T) {
	scores := [][]float64{{1.0}, {2.0}, {0.5}}
	require.Equal(t, 1.0, ltm.PolarityConfidence(scores))
}

// TestPolarityConfidenceMixed checks a mixed-sign series yields a confidence
// strictly between 0 and 1.
func TestPolarityConfidenceMixed(t *testing.T) {
	scores := [][]float64{{1.0}, {-1.0}, {1.0}, {-0.5}}
	c := ltm.PolarityConfidence(scores)
	require.True(t, c > 0 && c < 1, "confidence %v", c)
}

// TestProjectSimplifiedCLDKeepsDominantLoop exercises §4.8: with thresholds
// at 0, the isolated reinforcing loop of birthsOnlyProject survives
// projection with its stock and a high-confidence link.
func TestProjectSimplifiedCLDKeepsDominantLoop(t *testing.T) {
	p := birthsOnlyProject()
	cp := mustCompile(t, p)

	_, report, err := sim.Run(p, cp, sim.RunOptions{EnableLTM: true})
	require.NoError(t, err)

	cld := ltm.ProjectSimplifiedCLD(cp, report, ltm.SimplifyOptions{})
	require.NotEmpty(t, cld.Stocks)
	require.Equal(t, cp.SlotByName["population"], cld.Stocks[0])
	require.NotEmpty(t, cld.Links)
	for _, l := range cld.Links {
		require.GreaterOrEqual(t, l.Confidence, 0.0)
		require.LessOrEqual(t, l.Confidence, 1.0)
	}
}

// TestProjectSimplifiedCLDDropsQuietLoop checks §4.8's projection of the
// equilibrium run of birthsAndDeathsProject at a positive loop-inclusion
// threshold: no link ever has a nonzero score, so discovery reports no
// loop and the projection keeps no stock and no link.
func TestProjectSimplifiedCLDDropsQuietLoop(t *testing.T) {
	p := birthsAndDeathsProject()
	cp := mustCompile(t, p)

	_, report, err := sim.Run(p, cp, sim.RunOptions{EnableLTM: true})
	require.NoError(t, err)

	cld := ltm.ProjectSimplifiedCLD(cp, report, ltm.SimplifyOptions{LoopInclusionThreshold: 0.01})
	require.Empty(t, cld.Stocks)
	require.Empty(t, cld.Links)
}
