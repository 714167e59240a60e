package pdb

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/TuftsBCB/structure"
)

// The widest values that fit in the 8 character coordinate columns.
const (
	minCoord = -999.999
	maxCoord = 9999.999
)

// Writer writes coordinates as ATOM records in the fixed column PDB format.
type Writer struct {
	Layout    Layout
	Transform Transform

	buf *bufio.Writer
}

// NewWriter creates a new Writer that applies tf to every set of coordinates
// before laying them out with lay. If tf is nil, Identity is used.
func NewWriter(w io.Writer, lay Layout, tf Transform) *Writer {
	if tf == nil {
		tf = Identity
	}
	return &Writer{
		Layout:    lay,
		Transform: tf,
		buf:       bufio.NewWriter(w),
	}
}

// WriteAll writes one ATOM record per coordinate followed by an END record.
// Atom serial numbers start at 1 and residue numbers advance every
// len(Layout.AtomNames) coordinates.
//
// An error is returned if the layout is invalid, if the number of coordinates
// is not a multiple of the number of atoms per residue, or if any coordinate
// (after the transform) is not finite or does not fit in its column.
func (w *Writer) WriteAll(coords []structure.Coords) error {
	if err := w.Layout.validate(); err != nil {
		return err
	}
	perResidue := len(w.Layout.AtomNames)
	if len(coords)%perResidue != 0 {
		return fmt.Errorf("%d coordinates cannot be split into residues of "+
			"%d atoms each.", len(coords), perResidue)
	}

	transformed := w.Transform(coords)
	for i, c := range transformed {
		if err := checkCoords(i, c); err != nil {
			return err
		}
	}
	for i, c := range transformed {
		name := w.Layout.AtomNames[i%perResidue]
		if err := w.writeAtom(i+1, name, i/perResidue+1, c); err != nil {
			return err
		}
	}
	if _, err := w.buf.WriteString("END\n"); err != nil {
		return err
	}
	return w.buf.Flush()
}

// writeAtom writes a single ATOM record. The columns follow the legacy
// layout exactly, since downstream tools read them by position.
func (w *Writer) writeAtom(serial int, name string, resi int,
	c structure.Coords) error {

	_, err := fmt.Fprintf(w.buf,
		"ATOM  %5d  %-3s %3s %c%4d    %8.3f%8.3f%8.3f%6.2f%6.2f      %s\n",
		serial, name, w.Layout.Residue, w.Layout.Chain, resi,
		c.X, c.Y, c.Z, w.Layout.Occupancy, w.Layout.BFactor, element(name))
	return err
}

func checkCoords(i int, c structure.Coords) error {
	for _, v := range [3]float64{c.X, c.Y, c.Z} {
		switch {
		case math.IsNaN(v) || math.IsInf(v, 0):
			return fmt.Errorf("Atom %d has a non-finite coordinate "+
				"(%f, %f, %f).", i+1, c.X, c.Y, c.Z)
		case v < minCoord || v > maxCoord:
			return fmt.Errorf("Atom %d has a coordinate that does not fit "+
				"in a PDB column (%f, %f, %f).", i+1, c.X, c.Y, c.Z)
		}
	}
	return nil
}

// WriteFile creates (or truncates) the file at path and writes coords to it
// using the given layout and transform.
func WriteFile(path string, coords []structure.Coords,
	lay Layout, tf Transform) error {

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := NewWriter(f, lay, tf).WriteAll(coords); err != nil {
		f.Close()
		return fmt.Errorf("Could not write '%s': %s", path, err)
	}
	return f.Close()
}
