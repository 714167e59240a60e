package chroma

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/TuftsBCB/structure"
	"github.com/pkg/errors"
)

// ConditionRequest holds the parameters of an SDF conditioner.
type ConditionRequest struct {
	// Path to the voxel grid describing the target shape.
	Voxel string

	// The number of residues to generate. Zero lets the conditioner choose
	// a length from the volume of the shape.
	Length int

	// The step size used to parse the voxel grid. It is closely related to
	// the resolution of the grid.
	Step int

	// The SDF threshold used to extract the target shape.
	Threshold float64
}

// AutoLength reports whether the conditioner picks the residue count.
func (req ConditionRequest) AutoLength() bool {
	return req.Length == 0
}

// Conditioner corresponds to an SDF conditioner built by the bridge.
type Conditioner struct {
	Request ConditionRequest

	// The range of residue counts recommended for the shape. Only set when
	// the request asked for an automatic length.
	LengthMin, LengthMax int

	// The number of residues that will be sampled.
	NumResidues int

	// The points of the target shape.
	Target []structure.Coords

	dir string
}

type conditionOutput struct {
	AutoLengthMin int           `json:"autolength_min"`
	AutoLengthMax int           `json:"autolength_max"`
	NumResidues   int           `json:"num_residues"`
	XTarget       [][][]float64 `json:"x_target"`
}

// Condition builds an SDF conditioner for the voxel grid in req.
//
// The returned conditioner owns a temporary directory. Call Clean once the
// conditioner has been used for sampling.
func (m *Model) Condition(req ConditionRequest) (*Conditioner, error) {
	if req.Length < 0 {
		return nil, errors.Errorf("Length must not be negative, but got %d.",
			req.Length)
	}
	if req.Step <= 0 {
		return nil, errors.Errorf("Step must be positive, but got %d.",
			req.Step)
	}

	dir, err := os.MkdirTemp("", "voxfold-chroma")
	if err != nil {
		return nil, err
	}
	cond := &Conditioner{Request: req, dir: dir}

	out := filepath.Join(dir, "condition.json")
	args := append(m.loadArgs(),
		"-voxel", req.Voxel,
		"-length", strconv.Itoa(req.Length),
		"-step", strconv.Itoa(req.Step),
		"-threshold", strconv.FormatFloat(req.Threshold, 'f', -1, 64),
		"-state", cond.state(),
		"-o", out,
	)
	if err := m.run("condition", args...); err != nil {
		cond.Clean()
		return nil, err
	}

	var result conditionOutput
	if err := readJSON(out, &result); err != nil {
		cond.Clean()
		return nil, err
	}
	if cond.Target, err = unbatch(result.XTarget); err != nil {
		cond.Clean()
		return nil, errors.Wrap(err, "Bad target shape")
	}
	cond.NumResidues = result.NumResidues
	if req.AutoLength() {
		cond.LengthMin = result.AutoLengthMin
		cond.LengthMax = result.AutoLengthMax
	} else if cond.NumResidues == 0 {
		cond.NumResidues = req.Length
	}
	if cond.NumResidues <= 0 {
		cond.Clean()
		return nil, errors.Errorf("The conditioner for '%s' chose %d "+
			"residues.", req.Voxel, cond.NumResidues)
	}
	return cond, nil
}

// Clean removes the conditioner's temporary directory. Errors, if they
// occur, are suppressed.
func (cond *Conditioner) Clean() {
	if len(cond.dir) > 0 {
		os.RemoveAll(cond.dir)
	}
}

func (cond *Conditioner) state() string {
	return filepath.Join(cond.dir, "conditioner.state")
}

// unbatch strips the leading batch dimension from a coordinate array. Every
// point must have exactly three components.
func unbatch(batch [][][]float64) ([]structure.Coords, error) {
	if len(batch) != 1 {
		return nil, fmt.Errorf("Expected a batch of size 1, but got %d.",
			len(batch))
	}
	coords := make([]structure.Coords, len(batch[0]))
	for i, xyz := range batch[0] {
		if len(xyz) != 3 {
			return nil, fmt.Errorf("Point %d has %d components, but "+
				"expected 3.", i, len(xyz))
		}
		coords[i] = structure.Coords{X: xyz[0], Y: xyz[1], Z: xyz[2]}
	}
	return coords, nil
}
