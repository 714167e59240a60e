package pdb

import (
	"fmt"
	"strings"

	"github.com/TuftsBCB/structure"

	matrix "github.com/skelterjohn/go.matrix"
)

// Transform maps a set of coordinates to a new set of coordinates of the same
// length. A Transform must not modify its input.
type Transform func(coords []structure.Coords) []structure.Coords

// Identity returns a copy of its input.
func Identity(coords []structure.Coords) []structure.Coords {
	out := make([]structure.Coords, len(coords))
	copy(out, coords)
	return out
}

// swapXZ is the rotation used to bring target shapes into the frame of
// generated structures: (x, y, z) becomes (z, y, -x).
var swapXZ = []float64{
	0, 0, 1,
	0, 1, 0,
	-1, 0, 0,
}

// SwapXZ rotates the coordinate axes so that new_x = z, new_y = y and
// new_z = -x.
var SwapXZ = Rotate(swapXZ)

// Rotate returns a transform that applies the 3x3 row-major matrix rot to
// every coordinate. Rotate panics if rot does not have 9 elements.
func Rotate(rot []float64) Transform {
	if len(rot) != 9 {
		panic(fmt.Sprintf("A rotation matrix must have 9 elements, but "+
			"%d were given.", len(rot)))
	}
	R := matrix.MakeDenseMatrix(append([]float64(nil), rot...), 3, 3)
	return func(coords []structure.Coords) []structure.Coords {
		if len(coords) == 0 {
			return []structure.Coords{}
		}

		// Build a 3xN matrix with one column per coordinate.
		cols := len(coords)
		X := make([]float64, 3*cols)
		for i, c := range coords {
			X[0*cols+i] = c.X
			X[1*cols+i] = c.Y
			X[2*cols+i] = c.Z
		}
		RX, err := R.TimesDense(matrix.MakeDenseMatrix(X, 3, cols))
		if err != nil {
			// Only possible with mismatched dimensions.
			panic(err)
		}

		out := make([]structure.Coords, cols)
		for i := range out {
			out[i] = structure.Coords{
				X: RX.Get(0, i),
				Y: RX.Get(1, i),
				Z: RX.Get(2, i),
			}
		}
		return out
	}
}

// Center translates coordinates so that their centroid is at the origin.
func Center(coords []structure.Coords) []structure.Coords {
	out := make([]structure.Coords, len(coords))
	if len(coords) == 0 {
		return out
	}
	cx, cy, cz := Centroid(coords)
	for i, c := range coords {
		out[i] = structure.Coords{X: c.X - cx, Y: c.Y - cy, Z: c.Z - cz}
	}
	return out
}

// Centroid calculates the average position of a set of coordinates.
func Centroid(coords []structure.Coords) (float64, float64, float64) {
	var xs, ys, zs float64
	for _, c := range coords {
		xs += c.X
		ys += c.Y
		zs += c.Z
	}
	n := float64(len(coords))
	return xs / n, ys / n, zs / n
}

// Compose returns a transform that applies each of the given transforms in
// order (left to right). With no transforms, Compose returns Identity.
func Compose(tfs ...Transform) Transform {
	if len(tfs) == 0 {
		return Identity
	}
	return func(coords []structure.Coords) []structure.Coords {
		for _, tf := range tfs {
			coords = tf(coords)
		}
		return coords
	}
}

var namedTransforms = map[string]Transform{
	"identity": Identity,
	"swap-xz":  SwapXZ,
	"center":   Center,
}

// ParseTransform builds a transform from a comma separated list of transform
// names. Valid names are "identity", "swap-xz" and "center". An empty string
// is the identity.
func ParseTransform(names string) (Transform, error) {
	tfs := make([]Transform, 0)
	for _, name := range strings.Split(names, ",") {
		name = strings.ToLower(strings.TrimSpace(name))
		if len(name) == 0 {
			continue
		}
		tf, ok := namedTransforms[name]
		if !ok {
			return nil, fmt.Errorf("Unknown coordinate transform '%s'.", name)
		}
		tfs = append(tfs, tf)
	}
	return Compose(tfs...), nil
}
