package pdb

import (
	"fmt"
	"strings"
)

// AminoThreeToOne is a map from three letter amino acids to their
// corresponding single letter representation.
var AminoThreeToOne = map[string]byte{
	"ALA": 'A', "ARG": 'R', "ASN": 'N', "ASP": 'D', "CYS": 'C',
	"GLU": 'E', "GLN": 'Q', "GLY": 'G', "HIS": 'H', "ILE": 'I',
	"LEU": 'L', "LYS": 'K', "MET": 'M', "PHE": 'F', "PRO": 'P',
	"SER": 'S', "THR": 'T', "TRP": 'W', "TYR": 'Y', "VAL": 'V',
	"SEC": 'U', "PYL": 'O',
}

// Backbone is the ordered set of main-chain atom names for a single residue.
var Backbone = []string{"N", "CA", "C", "O"}

// Layout describes how a flat list of coordinates is laid out as ATOM
// records. Every residue gets one record per name in AtomNames, so the
// number of coordinates written must be a multiple of len(AtomNames).
//
// Since generated backbones have no sequence yet, every residue carries the
// same placeholder residue name.
type Layout struct {
	AtomNames []string
	Residue   string
	Chain     byte
	Occupancy float64
	BFactor   float64
}

// CarbonAlpha writes one alpha-carbon record per coordinate.
var CarbonAlpha = Layout{
	AtomNames: []string{"CA"},
	Residue:   "GLY",
	Chain:     'A',
	Occupancy: 1.0,
	BFactor:   0.0,
}

// BackboneQuartet writes four records (N, CA, C, O) per residue.
var BackboneQuartet = Layout{
	AtomNames: Backbone,
	Residue:   "GLY",
	Chain:     'A',
	Occupancy: 1.0,
	BFactor:   0.0,
}

// ParseLayout returns the layout corresponding to name, which is either
// "ca" or "backbone".
func ParseLayout(name string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "ca":
		return CarbonAlpha, nil
	case "backbone":
		return BackboneQuartet, nil
	}
	return Layout{}, fmt.Errorf("Unknown atom layout '%s'. Use 'ca' or "+
		"'backbone'.", name)
}

// validate checks that a layout can produce well formed ATOM records.
func (lay Layout) validate() error {
	if len(lay.AtomNames) == 0 {
		return fmt.Errorf("A layout must name at least one atom per residue.")
	}
	for _, name := range lay.AtomNames {
		if len(name) == 0 || len(name) > 3 {
			return fmt.Errorf("The atom name '%s' does not fit in an ATOM "+
				"record.", name)
		}
	}
	if _, ok := AminoThreeToOne[lay.Residue]; !ok {
		return fmt.Errorf("The residue '%s' is not a known amino acid.",
			lay.Residue)
	}
	return nil
}

// element returns the element symbol for a protein atom name. (For the
// backbone, this is always the first letter.)
func element(atomName string) string {
	return atomName[0:1]
}
