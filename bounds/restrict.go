package bounds

import (
	"gonum.org/v1/gonum/floats"

	"github.com/notargets/parthenon-forest/mesh"
)

// Restrict averages src's fine data within the given fine window down into
// dst's coarse buffer window coarse — 2x2 (2D, k fixed) or 2x2x2 (3D) cell
// groups per coarse cell, the operation the send side of a finer-to-coarser
// exchange applies before loading the coarse buffer (spec.md §4.E/§4.F),
// grounded on the cell-centered restriction averaging Parthenon's
// bvals_cc_in_one.cpp performs. dst is ordinarily the block's separate
// coarse buffer, not src itself.
func Restrict(src, dst *mesh.Variable, varIdx int, fine, coarse mesh.CellBounds, ndim int) {
	group := make([]float64, 0, 8)
	ci := coarse.X3.S
	for fi3 := fine.X3.S; fi3 <= fine.X3.E; fi3 += stride3(ndim) {
		cj := coarse.X2.S
		for fj2 := fine.X2.S; fj2 <= fine.X2.E; fj2 += 2 {
			ck := coarse.X1.S
			for fk1 := fine.X1.S; fk1 <= fine.X1.E; fk1 += 2 {
				group = group[:0]
				for d3 := 0; d3 < stride3(ndim); d3++ {
					for d2 := 0; d2 < 2; d2++ {
						for d1 := 0; d1 < 2; d1++ {
							group = append(group, src.At(varIdx, fi3+d3, fj2+d2, fk1+d1))
						}
					}
				}
				dst.Set(varIdx, ci, cj, ck, floats.Sum(group)/float64(len(group)))
				ck++
			}
			cj++
		}
		ci++
	}
}

func stride3(ndim int) int {
	if ndim == 3 {
		return 2
	}
	return 1
}
