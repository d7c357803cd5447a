package boundary

import "github.com/notargets/parthenon-forest/mesh"

// windowSize returns the number of (varIdx,k,j,i) cells a window covers
// for a variable with nv components.
func windowSize(w mesh.CellBounds, nv int) int {
	return nv * w.X3.Len() * w.X2.Len() * w.X1.Len()
}

// packWindow flattens v's data within window w into dst, in
// (varIdx,k,j,i) row-major order — the same nesting Variable.index uses,
// so unpackWindow run against the matching window on the receiving block
// reconstructs the identical layout.
func packWindow(v *mesh.Variable, w mesh.CellBounds, dst []float64) {
	n := 0
	for varIdx := 0; varIdx < v.Nv; varIdx++ {
		for k := w.X3.S; k <= w.X3.E; k++ {
			for j := w.X2.S; j <= w.X2.E; j++ {
				for i := w.X1.S; i <= w.X1.E; i++ {
					dst[n] = v.At(varIdx, k, j, i)
					n++
				}
			}
		}
	}
}

// zeroWindow fills dst with windowSize(w, nv) zeros — used in place of
// packWindow when the source variable is unallocated, since Variable.At
// panics on unallocated storage (spec.md §4.G step 3: an unallocated
// source still sends a zero-filled buffer with AllocTag=false, it never
// skips the send).
func zeroWindow(dst []float64) {
	for i := range dst {
		dst[i] = 0
	}
}

// unpackWindow is packWindow's inverse: it scatters src back into v's
// cells within window w.
func unpackWindow(v *mesh.Variable, w mesh.CellBounds, src []float64) {
	n := 0
	for varIdx := 0; varIdx < v.Nv; varIdx++ {
		for k := w.X3.S; k <= w.X3.E; k++ {
			for j := w.X2.S; j <= w.X2.E; j++ {
				for i := w.X1.S; i <= w.X1.E; i++ {
					v.Set(varIdx, k, j, i, src[n])
					n++
				}
			}
		}
	}
}
