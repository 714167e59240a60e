package design

import (
	"fmt"
	"log"

	iopdb "github.com/TuftsBCB/io/pdb"
	"github.com/TuftsBCB/structure"
)

// summarize reads back a written structure and reports its alpha-carbon
// count. Failures only produce a warning, since the structure has already
// been saved.
func (s *Session) summarize(path string, target []structure.Coords) {
	entry, err := iopdb.ReadPDB(path)
	if err != nil {
		log.Printf("WARNING: Could not read back '%s': %s.", path, err)
		return
	}

	cas := make([]structure.Coords, 0)
	for _, chain := range entry.Chains {
		for _, model := range chain.Models {
			cas = append(cas, model.CaAtoms()...)
		}
	}
	if len(cas) == 0 {
		log.Printf("WARNING: No alpha-carbons found in '%s'.", path)
		return
	}
	s.printf("%s\n", describeFit(cas, target))
}

// describeFit reports the number of alpha-carbons in a structure and, when
// the target shape has exactly one point per alpha-carbon, the RMSD between
// them after optimal superposition.
//
// The target points carry no residue order, so the RMSD pairs the i-th
// alpha-carbon with the i-th target point. It changes when the target points
// are permuted and is labeled as such.
func describeFit(cas, target []structure.Coords) string {
	desc := fmt.Sprintf("Alpha-carbons:%d (target points:%d)",
		len(cas), len(target))
	if len(cas) > 0 && len(cas) == len(target) {
		desc += fmt.Sprintf("\nTarget RMSD (in point order):%.2f",
			structure.RMSD(cas, target))
	}
	return desc
}
