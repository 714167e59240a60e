package design

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/TuftsBCB/structure"
	"github.com/stretchr/testify/require"

	"github.com/BurntSushi/voxfold/apps/chroma"
	"github.com/BurntSushi/voxfold/pdb"
)

// stubGenerator stands in for a loaded model. It records every request and
// returns a conditioner with two target points and a straight backbone.
type stubGenerator struct {
	requests []chroma.ConditionRequest
	samples  int
	sdf      float64
	err      error
}

func (g *stubGenerator) Condition(
	req chroma.ConditionRequest,
) (*chroma.Conditioner, error) {
	g.requests = append(g.requests, req)
	if g.err != nil {
		return nil, g.err
	}
	n := req.Length
	if req.AutoLength() {
		n = 3
	}
	return &chroma.Conditioner{
		Request:     req,
		LengthMin:   2,
		LengthMax:   7,
		NumResidues: n,
		Target: []structure.Coords{
			{X: 1, Y: 2, Z: 3},
			{X: -4, Y: 5, Z: 6},
		},
	}, nil
}

func (g *stubGenerator) Sample(
	cond *chroma.Conditioner,
) (*chroma.Sample, error) {
	g.samples++
	backbone := make([]structure.Coords, 4*cond.NumResidues)
	for i := range backbone {
		backbone[i] = structure.Coords{X: float64(i)}
	}
	return &chroma.Sample{
		Backbone:  backbone,
		SDFLosses: []float64{10, g.sdf},
		DwLosses:  []float64{3, 0.75},
	}, nil
}

func testOptions() Options {
	opts := DefaultOptions
	opts.Summarize = false
	opts.Now = func() time.Time {
		return time.Date(2026, time.March, 4, 15, 6, 7, 0, time.UTC)
	}
	return opts
}

// voxelFile creates an empty voxel file in a temporary directory.
func voxelFile(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "shape.voxel")
	require.NoError(t, os.WriteFile(path, nil, 0644))
	return path
}

func run(t *testing.T, gen Generator, opts Options, input string) string {
	out := new(bytes.Buffer)
	s := NewSession(gen, opts, strings.NewReader(input), out)
	require.NoError(t, s.Run())
	return out.String()
}

func TestMissingPathReprompts(t *testing.T) {
	gen := &stubGenerator{}
	text := run(t, gen, testOptions(), "/no/such.voxel\nEXIT\n")

	require.Contains(t, text, "Could not found '/no/such.voxel', try again.")
	require.Equal(t, 2, strings.Count(text, "Enter new input VOXEL path"))
	require.NotContains(t, text, "Enter new length")
	require.NotContains(t, text, "Setting a conditioner")
	require.Empty(t, gen.requests)
	require.Contains(t, text, "Exiting program...")
}

func TestBlankDefaults(t *testing.T) {
	voxel := voxelFile(t)
	gen := &stubGenerator{sdf: 0.5}
	out := run(t, gen, testOptions(), voxel+"\n\n\n\nexit\n")

	require.Len(t, gen.requests, 1)
	req := gen.requests[0]
	require.Equal(t, voxel, req.Voxel)
	require.Equal(t, 0, req.Length)
	require.True(t, req.AutoLength())
	require.Equal(t, 2, req.Step)
	require.Equal(t, 0.0, req.Threshold)

	require.Contains(t, out, "> auto\n")
	require.Contains(t, out, "Recommended amino acid length range is [2, 7].")
	require.Contains(t, out, "3 was chosen from the range.")
	require.Contains(t, out, "SDF loss:0.50 "+Indicator(0.5))
	require.Contains(t, out, "D_w loss:0.75")
	require.Equal(t, 1, gen.samples)
}

func TestExplicitParameters(t *testing.T) {
	voxel := voxelFile(t)
	gen := &stubGenerator{}
	out := run(t, gen, testOptions(), "  "+voxel+"  \n40\n5\n1.5\n")

	require.Len(t, gen.requests, 1)
	require.Equal(t, chroma.ConditionRequest{
		Voxel:     voxel,
		Length:    40,
		Step:      5,
		Threshold: 1.5,
	}, gen.requests[0])
	require.NotContains(t, out, "Recommended amino acid length range")
}

func TestNoThresholdPrompt(t *testing.T) {
	voxel := voxelFile(t)
	gen := &stubGenerator{}
	out := new(bytes.Buffer)
	s := NewSession(gen, testOptions(),
		strings.NewReader(voxel+"\n10\n\n"+voxel+"\n"), out)
	s.Collector.AskThreshold = false
	require.NoError(t, s.Run())

	require.NotContains(t, out.String(), "SDF threshold")
	require.Len(t, gen.requests, 1)
	require.Equal(t, 10, gen.requests[0].Length)
	require.Equal(t, 0.0, gen.requests[0].Threshold)

	// End of input after the second path ends the loop before the length
	// is answered, so nothing more is generated.
	require.Equal(t, 1, gen.samples)
}

func TestNonNumericFailsFast(t *testing.T) {
	voxel := voxelFile(t)
	for _, input := range []string{
		voxel + "\nten\n",
		voxel + "\n\n2.5\n",
		voxel + "\n\n\nzero\n",
	} {
		gen := &stubGenerator{}
		s := NewSession(gen, testOptions(), strings.NewReader(input),
			new(bytes.Buffer))
		require.Error(t, s.Run(), "input %q", input)
		require.Empty(t, gen.requests)
	}
}

func TestGeneratorErrorStops(t *testing.T) {
	voxel := voxelFile(t)
	gen := &stubGenerator{err: errors.New("out of memory")}
	s := NewSession(gen, testOptions(),
		strings.NewReader(voxel+"\n\n\n\n"+voxel+"\n\n\n\n"),
		new(bytes.Buffer))
	require.EqualError(t, s.Run(), "out of memory")
	require.Len(t, gen.requests, 1)
}

func TestOutputFiles(t *testing.T) {
	voxel := voxelFile(t)
	opts := testOptions()
	opts.Targets = append(opts.Targets,
		TargetDump{Name: "center,swap-xz", Transform: pdb.Compose(
			pdb.Center, pdb.SwapXZ)})
	out := run(t, &stubGenerator{}, opts, voxel+"\n2\n\n\n")

	dir := filepath.Dir(voxel)
	samplePath := filepath.Join(dir, "shape_0304_150607.pdb")
	targetPath := filepath.Join(dir, "shape_X_target.pdb")
	rotPath := filepath.Join(dir, "shape_X_target_center_swap-xz.pdb")
	require.Contains(t, out, "Saved the output to\n> "+samplePath)
	require.Contains(t, out, "Saved the target shape to\n> "+targetPath)
	require.Contains(t, out, "Saved the target shape to\n> "+rotPath)

	sample, err := os.ReadFile(samplePath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(sample)), "\n")
	require.Len(t, lines, 2*4+1)
	require.Equal(t, "END", lines[len(lines)-1])
	require.Equal(t, "N", strings.TrimSpace(lines[4][12:16]))
	require.Equal(t, "2", strings.TrimSpace(lines[4][22:26]))

	target, err := os.ReadFile(targetPath)
	require.NoError(t, err)
	require.Equal(t,
		"ATOM      1  CA  GLY A   1       1.000   2.000   3.000"+
			"  1.00  0.00      C\n"+
			"ATOM      2  CA  GLY A   2      -4.000   5.000   6.000"+
			"  1.00  0.00      C\n"+
			"END\n",
		string(target))

	// Centering moves (1, 2, 3) to (2.5, -1.5, -1.5), and the rotation
	// then gives (-1.5, -1.5, -2.5).
	rot, err := os.ReadFile(rotPath)
	require.NoError(t, err)
	require.Contains(t, string(rot), "  -1.500  -1.500  -2.500")
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		voxel, suffix, want string
	}{
		{"/data/shape.voxel", "X_target", "/data/shape_X_target.pdb"},
		{"shape.npy", "0102_030405", "shape_0102_030405.pdb"},
		{"shape", "X_target", "shape_X_target.pdb"},
		{"/data/v1.2/shape", "X_target", "/data/v1.2/shape_X_target.pdb"},
	}
	for _, test := range tests {
		require.Equal(t, test.want, OutputPath(test.voxel, test.suffix))
	}
}

func TestIndicator(t *testing.T) {
	kiss, smile, blank, frown := Indicator(0), Indicator(1.5),
		Indicator(2.5), Indicator(10)
	require.Len(t, map[string]bool{
		kiss: true, smile: true, blank: true, frown: true,
	}, 4)

	tests := []struct {
		loss float64
		want string
	}{
		{-1, kiss},
		{0.999, kiss},
		{1.0, smile},
		{1.999, smile},
		{2.0, blank},
		{2.999, blank},
		{3.0, frown},
		{100, frown},
	}
	for _, test := range tests {
		require.Equal(t, test.want, Indicator(test.loss), "loss %f", test.loss)
	}
}

func TestDescribeFit(t *testing.T) {
	cas := []structure.Coords{
		{X: 0, Y: 0, Z: 0},
		{X: 3.8, Y: 0, Z: 0},
		{X: 3.8, Y: 3.8, Z: 0},
		{X: 3.8, Y: 3.8, Z: 3.8},
	}
	require.Equal(t, "Alpha-carbons:4 (target points:4)\n"+
		"Target RMSD (in point order):0.00",
		describeFit(cas, cas))
	require.Equal(t, "Alpha-carbons:4 (target points:2)",
		describeFit(cas, cas[:2]))
}

// fitGenerator samples backbones whose alpha-carbons sit exactly on the
// target points, one residue per point.
type fitGenerator struct {
	stubGenerator
	target []structure.Coords
}

func (g *fitGenerator) Condition(
	req chroma.ConditionRequest,
) (*chroma.Conditioner, error) {
	cond, err := g.stubGenerator.Condition(req)
	if err != nil {
		return nil, err
	}
	cond.NumResidues = len(g.target)
	cond.Target = g.target
	return cond, nil
}

func (g *fitGenerator) Sample(
	cond *chroma.Conditioner,
) (*chroma.Sample, error) {
	sample, err := g.stubGenerator.Sample(cond)
	if err != nil {
		return nil, err
	}
	for i, ca := range g.target {
		sample.Backbone[4*i+0] = structure.Coords{X: ca.X - 1, Y: ca.Y, Z: ca.Z}
		sample.Backbone[4*i+1] = ca
		sample.Backbone[4*i+2] = structure.Coords{X: ca.X + 1, Y: ca.Y, Z: ca.Z}
		sample.Backbone[4*i+3] = structure.Coords{X: ca.X + 1, Y: ca.Y + 1, Z: ca.Z}
	}
	return sample, nil
}

func TestSummaryReadsBackBackbone(t *testing.T) {
	voxel := voxelFile(t)
	opts := testOptions()
	opts.Summarize = true
	gen := &fitGenerator{target: []structure.Coords{
		{X: 0, Y: 0, Z: 0},
		{X: 3.8, Y: 0, Z: 0},
		{X: 3.8, Y: 3.8, Z: 0},
		{X: 3.8, Y: 3.8, Z: 3.8},
	}}
	out := run(t, gen, opts, voxel+"\n\n\n\n")

	require.Contains(t, out, "Alpha-carbons:4 (target points:4)\n"+
		"Target RMSD (in point order):0.00\n")
}

func TestSummaryCountMismatch(t *testing.T) {
	voxel := voxelFile(t)
	opts := testOptions()
	opts.Summarize = true
	out := run(t, &stubGenerator{}, opts, voxel+"\n3\n\n\n")

	// Three residues against the two target points of the stub.
	require.Contains(t, out, "Alpha-carbons:3 (target points:2)\n")
	require.NotContains(t, out, "Target RMSD")
}

func TestLoadReportsDeviceFirst(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("The stub bridge is a shell script.")
	}
	dir := t.TempDir()
	exec := filepath.Join(dir, "chroma-bridge")
	require.NoError(t, os.WriteFile(exec, []byte("#!/bin/sh\nexit 0\n"), 0755))
	conf := chroma.DefaultConfig
	conf.Exec = exec
	conf.Key = "secret"
	conf.Device = "cpu"
	for _, w := range []*string{&conf.WeightsBackbone, &conf.WeightsDesign} {
		*w = filepath.Join(dir, "weights.pt")
	}
	require.NoError(t, os.WriteFile(conf.WeightsBackbone, nil, 0644))

	out := new(bytes.Buffer)
	model, err := Load(conf, out)
	require.NoError(t, err)
	require.Equal(t, "cpu", model.Device())

	lines := strings.Split(out.String(), "\n")
	require.Equal(t, "Device is cpu", lines[0])
	require.Equal(t, "Loading weights", lines[1])
	require.True(t, strings.HasPrefix(lines[2], "Weights loading time: "))

	conf.WeightsDesign = filepath.Join(dir, "missing.pt")
	out.Reset()
	_, err = Load(conf, out)
	require.Error(t, err)
	require.NotContains(t, out.String(), "Weights loading time")
}
