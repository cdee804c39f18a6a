package projectio_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bpowers/simlin-sub002/project"
	"github.com/bpowers/simlin-sub002/projectio"
)

func sampleProject() *project.Project {
	p := project.NewProject()
	p.Sim = project.SimSpecs{Start: 0, Stop: 10, Dt: 0.25, SaveStep: 1, Method: project.RungeKutta4, TimeUnits: "years"}
	m := project.NewModel("main")
	_ = m.AddVariable(project.NewStock("population", project.NewScalar("100"), []string{"births"}, []string{"deaths"}, true))
	_ = m.AddVariable(project.NewFlow("births", project.NewScalar("population*birth_fraction"), false))
	_ = m.AddVariable(project.NewFlow("deaths", project.NewScalar("population*death_fraction"), false))
	_ = m.AddVariable(project.NewAux("birth_fraction", project.NewScalar("0.05")))
	_ = m.AddVariable(project.NewAux("death_fraction", project.NewScalar("0.03")))
	_ = p.AddModel(m)
	return p
}

// TestFromToProjectRoundTrip exercises the serialize/deserialize round-trip
// law of spec §8 at the DTO layer: FromProject then ToProject reproduces
// the original project's observable structure.
func TestFromToProjectRoundTrip(t *testing.T) {
	p := sampleProject()

	f, err := projectio.FromProject(p)
	require.NoError(t, err)

	got, err := projectio.ToProject(f)
	require.NoError(t, err)

	require.Equal(t, p.Sim.Start, got.Sim.Start)
	require.Equal(t, p.Sim.Stop, got.Sim.Stop)
	require.Equal(t, p.Sim.Dt, got.Sim.Dt)
	require.Equal(t, p.Sim.Method, got.Sim.Method)
	require.Equal(t, p.Sim.TimeUnits, got.Sim.TimeUnits)

	wantModel := p.Models["main"]
	gotModel := got.Models["main"]
	require.Equal(t, len(wantModel.Variables), len(gotModel.Variables))
	for ident := range wantModel.Variables {
		_, ok := gotModel.Variables[ident]
		require.True(t, ok, "missing variable %q after round trip", ident)
	}

	require.NoError(t, got.Validate())
}

func TestMarshalJSONAndYAML(t *testing.T) {
	p := sampleProject()

	jb, err := projectio.Marshal(p, "json")
	require.NoError(t, err)
	require.Contains(t, string(jb), "\"population\"")

	yb, err := projectio.Marshal(p, "yaml")
	require.NoError(t, err)
	require.Contains(t, string(yb), "population:")

	_, err = projectio.Marshal(p, "protobuf")
	require.Error(t, err)
}

func TestLoadYAMLRoundTrip(t *testing.T) {
	p := sampleProject()
	yb, err := projectio.Marshal(p, "yaml")
	require.NoError(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "model.yaml")
	require.NoError(t, os.WriteFile(path, yb, 0o644))

	got, err := projectio.Load(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, p.Sim.Dt, got.Sim.Dt)
	require.Len(t, got.Models["main"].Variables, len(p.Models["main"].Variables))
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.txt")
	require.NoError(t, os.WriteFile(path, []byte("not a project"), 0o644))

	_, err := projectio.Load(context.Background(), path)
	require.Error(t, err)
}

func TestParseXMILEAndVensimAreExternalBoundaries(t *testing.T) {
	_, err := projectio.ParseXMILE([]byte("<xmile/>"))
	require.Error(t, err)

	_, err = projectio.ParseVensim([]byte("some vensim text"))
	require.Error(t, err)
}
