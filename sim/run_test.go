package sim_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bpowers/simlin-sub002/compiler"
	"github.com/bpowers/simlin-sub002/project"
	"github.com/bpowers/simlin-sub002/sim"
)

// birthsOnlyProject is S2: an isolated reinforcing loop. With no outflow,
// population(t) = population(0) * (1+fraction)^t under Euler stepping with
// dt=1.
func birthsOnlyProject() *project.Project {
	p := project.NewProject()
	p.Sim = project.SimSpecs{Start: 0, Stop: 5, Dt: 1, SaveStep: 1, Method: project.Euler}
	m := project.NewModel("main")
	_ = m.AddVariable(project.NewStock("population", project.NewScalar("100"), []string{"births"}, nil, false))
	_ = m.AddVariable(project.NewFlow("births", project.NewScalar("population*birth_fraction"), false))
	_ = m.AddVariable(project.NewAux("birth_fraction", project.NewScalar("0.1")))
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

func mustCompile(t *testing.T, p *project.Project) *compiler.CompiledProject {
	t.Helper()
	cp, errs := compiler.Compile(p)
	require.Empty(t, errs)
	require.NotNil(t, cp)
	return cp
}

func TestRunBirthsOnlyExponentialGrowth(t *testing.T) {
	p := birthsOnlyProject()
	cp := mustCompile(t, p)

	res, report, err := sim.Run(p, cp, sim.RunOptions{})
	require.NoError(t, err)
	require.Nil(t, report)

	series := res.Series("population")
	require.Len(t, series, 6) // t=0..5 inclusive at save_step=1

	want := 100.0
	require.InDelta(t, want, series[0], 1e-9)
	for k := 1; k < len(series); k++ {
		want *= 1.1
		require.InDelta(t, want, series[k], 1e-6, "step %d", k)
	}
}

func TestRunBirthsAndDeathsEquilibrium(t *testing.T) {
	p := birthsAndDeathsProject()
	cp := mustCompile(t, p)

	res, _, err := sim.Run(p, cp, sim.RunOptions{})
	require.NoError(t, err)

	series := res.Series("population")
	for k, v := range series {
		require.InDelta(t, 100.0, v, 1e-9, "step %d", k)
	}
}

func TestRunRK4MatchesEulerAtEquilibrium(t *testing.T) {
	p := birthsAndDeathsProject()
	p.Sim.Method = project.RungeKutta4
	cp := mustCompile(t, p)

	res, _, err := sim.Run(p, cp, sim.RunOptions{})
	require.NoError(t, err)
	for _, v := range res.Series("population") {
		require.InDelta(t, 100.0, v, 1e-9)
	}
}

func TestRunNumericFailureReported(t *testing.T) {
	p := project.NewProject()
	p.Sim = project.SimSpecs{Start: 0, Stop: 3, Dt: 1, SaveStep: 1, Method: project.Euler}
	m := project.NewModel("main")
	_ = m.AddVariable(project.NewStock("s", project.NewScalar("1"), []string{"grow"}, nil, false))
	_ = m.AddVariable(project.NewFlow("grow", project.NewScalar("s/zero"), false))
	_ = m.AddVariable(project.NewAux("zero", project.NewScalar("0")))
	_ = p.AddModel(m)
	cp := mustCompile(t, p)

	_, _, err := sim.Run(p, cp, sim.RunOptions{})
	require.Error(t, err)
}

func TestRunNumericFailureKind(t *testing.T) {
	p := project.NewProject()
	p.Sim = project.SimSpecs{Start: 0, Stop: 3, Dt: 1, SaveStep: 1, Method: project.Euler}
	m := project.NewModel("main")
	_ = m.AddVariable(project.NewStock("s", project.NewScalar("1"), []string{"grow"}, nil, false))
	_ = m.AddVariable(project.NewFlow("grow", project.NewScalar("s/zero"), false))
	_ = m.AddVariable(project.NewAux("zero", project.NewScalar("0")))
	_ = p.AddModel(m)
	cp := mustCompile(t, p)

	res, _, err := sim.Run(p, cp, sim.RunOptions{})
	require.Error(t, err)
	require.GreaterOrEqual(t, res.FailedAtStep, 0)
	// The failing step's row is not saved: the last saved value is the
	// finite one from the step before the failure.
	require.False(t, math.IsInf(res.Series("s")[len(res.Series("s"))-1], 0) || math.IsNaN(res.Series("s")[len(res.Series("s"))-1]))
}

func TestRunCancellation(t *testing.T) {
	p := birthsOnlyProject()
	cp := mustCompile(t, p)
	cancel := make(chan struct{})
	close(cancel)

	res, _, err := sim.Run(p, cp, sim.RunOptions{Cancel: cancel})
	require.Error(t, err)
	require.Equal(t, 1, res.CancelledAtStep)
}

func TestRunLTMEnabledProducesReport(t *testing.T) {
	p := birthsOnlyProject()
	cp := mustCompile(t, p)

	_, report, err := sim.Run(p, cp, sim.RunOptions{EnableLTM: true})
	require.NoError(t, err)
	require.NotNil(t, report)
}
