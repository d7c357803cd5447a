// Package mesh holds the concrete per-rank mesh block instances: their
// cell index ranges, their variables, and the neighbor descriptors the
// boundary-exchange pipeline packs and unpacks against.
package mesh

import "fmt"

// Metadata is a bit set of per-variable flags (spec.md §3).
type Metadata uint8

const (
	FillGhost Metadata = 1 << iota
	WithFluxes
	Sparse
	Independent
)

func (m Metadata) Has(flag Metadata) bool { return m&flag != 0 }

// Variable is a 4-D (v,k,j,i) field on one block, with a name, a metadata
// flag set, a per-variable allocation flag (sparse variables may be
// unallocated on a given block), and per-neighbor send/recv buffers keyed
// by BufID/TargetID.
type Variable struct {
	Name     string
	Meta     Metadata
	Nv, Nk, Nj, Ni int

	data      []float64 // nil when Allocated == false
	Allocated bool

	Send map[int][]float64 // keyed by BufID
	Recv map[int][]float64 // keyed by TargetID
}

// NewVariable creates a variable with the given dimensions, unallocated
// unless alloc is true.
func NewVariable(name string, meta Metadata, nv, nk, nj, ni int, alloc bool) *Variable {
	v := &Variable{
		Name: name, Meta: meta,
		Nv: nv, Nk: nk, Nj: nj, Ni: ni,
		Send: make(map[int][]float64),
		Recv: make(map[int][]float64),
	}
	if alloc {
		v.Allocate()
	}
	return v
}

// Allocate reserves the dense data array. No-op if already allocated.
func (v *Variable) Allocate() {
	if v.Allocated {
		return
	}
	v.data = make([]float64, v.Nv*v.Nk*v.Nj*v.Ni)
	v.Allocated = true
}

// Deallocate frees the dense data array. Part of the deallocation sweep
// described in spec.md §4.H — callers are responsible for having already
// verified the variable observed only zero values this timestep.
func (v *Variable) Deallocate() {
	v.data = nil
	v.Allocated = false
}

// index computes the flat offset into data for cell (varIdx,k,j,i).
func (v *Variable) index(varIdx, k, j, i int) int {
	return i + v.Ni*(j+v.Nj*(k+v.Nk*varIdx))
}

// At returns the value at (varIdx,k,j,i). Panics if unallocated — callers
// must check Allocated first; this mirrors the "sparse variable may be
// unallocated" contract rather than silently returning zero, which would
// mask a logic error in packing code that forgot to check allocation.
func (v *Variable) At(varIdx, k, j, i int) float64 {
	if !v.Allocated {
		panic(fmt.Sprintf("mesh: read of unallocated variable %q", v.Name))
	}
	return v.data[v.index(varIdx, k, j, i)]
}

// Set writes a value at (varIdx,k,j,i). Like At, it panics if the
// variable is unallocated; it never allocates, so callers that want to
// write into a sparse variable call Allocate first.
func (v *Variable) Set(varIdx, k, j, i int, val float64) {
	if !v.Allocated {
		panic(fmt.Sprintf("mesh: write to unallocated variable %q", v.Name))
	}
	v.data[v.index(varIdx, k, j, i)] = val
}

// Fill sets every cell to val. Requires the variable already be allocated.
func (v *Variable) Fill(val float64) {
	for i := range v.data {
		v.data[i] = val
	}
}
