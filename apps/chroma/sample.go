package chroma

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/TuftsBCB/structure"
	"github.com/pkg/errors"
)

// Sample is a single structure sampled from the model.
type Sample struct {
	// Backbone coordinates, four atoms (N, CA, C, O) per residue.
	Backbone []structure.Coords

	// Per-step loss traces recorded by the conditioner while sampling.
	// SDF measures the fit to the target shape.
	SDFLosses []float64
	DwLosses  []float64
}

type sampleOutput struct {
	Backbone [][][]float64 `json:"backbone"`
	SDFs     []float64     `json:"sdfs"`
	DWs      []float64     `json:"d_ws"`
}

// Sample generates one structure guided by cond.
func (m *Model) Sample(cond *Conditioner) (*Sample, error) {
	if _, err := os.Stat(cond.state()); err != nil {
		return nil, errors.Wrap(err, "The conditioner has no state")
	}

	out := filepath.Join(cond.dir, "sample.json")
	args := append(m.loadArgs(),
		"-state", cond.state(),
		"-length", strconv.Itoa(cond.NumResidues),
		"-steps", strconv.Itoa(m.conf.Steps),
		"-samples", "1",
		"-o", out,
	)
	if err := m.run("sample", args...); err != nil {
		return nil, err
	}

	var result sampleOutput
	if err := readJSON(out, &result); err != nil {
		return nil, err
	}
	backbone, err := unbatch(result.Backbone)
	if err != nil {
		return nil, errors.Wrap(err, "Bad sampled backbone")
	}
	if want := 4 * cond.NumResidues; len(backbone) != want {
		return nil, errors.Errorf("Expected %d backbone atoms for %d "+
			"residues, but got %d.", want, cond.NumResidues, len(backbone))
	}
	return &Sample{
		Backbone:  backbone,
		SDFLosses: result.SDFs,
		DwLosses:  result.DWs,
	}, nil
}

// FinalLosses returns the last recorded SDF and D_w losses.
func (s *Sample) FinalLosses() (sdf, dw float64, err error) {
	if len(s.SDFLosses) == 0 || len(s.DwLosses) == 0 {
		return 0, 0, errors.New("No losses were recorded while sampling.")
	}
	return s.SDFLosses[len(s.SDFLosses)-1], s.DwLosses[len(s.DwLosses)-1], nil
}
