package boundary

import "github.com/notargets/parthenon-forest/mesh"

// SweepDeallocation implements the deallocation sweep spec.md §4.H
// describes as separate from the P1/P2/P3 receive-side protocol: a
// sparse variable is deallocated iff every cell it holds — interior and
// ghost alike — has a magnitude no greater than threshold when the sweep
// runs. Only the values present at that moment are examined; values that
// exceeded threshold earlier in the timestep are not tracked. Callers run
// this once per block per timestep, after both the physics update and the
// boundary exchange for that step have completed.
func SweepDeallocation(block *mesh.MeshBlock, threshold float64) {
	for _, v := range block.Variables() {
		if !v.Meta.Has(mesh.Sparse) || !v.Allocated {
			continue
		}
		if allBelowThreshold(v, threshold) {
			v.Deallocate()
		}
	}
}

func allBelowThreshold(v *mesh.Variable, threshold float64) bool {
	for varIdx := 0; varIdx < v.Nv; varIdx++ {
		for k := 0; k < v.Nk; k++ {
			for j := 0; j < v.Nj; j++ {
				for i := 0; i < v.Ni; i++ {
					x := v.At(varIdx, k, j, i)
					if x < 0 {
						x = -x
					}
					if x > threshold {
						return false
					}
				}
			}
		}
	}
	return true
}
