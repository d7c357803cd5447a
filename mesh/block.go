package mesh

import (
	"sort"

	"github.com/notargets/parthenon-forest/forest"
)

// Range is an inclusive cell index range [S,E].
type Range struct{ S, E int }

// Len returns the number of cells covered by the range.
func (r Range) Len() int { return r.E - r.S + 1 }

// CellBounds holds the per-direction interior cell index ranges for one
// resolution (fine interior+ghost, or the coarse buffer used across
// refinement boundaries), plus the ghost width that was used to derive
// them.
type CellBounds struct {
	X1, X2, X3 Range
	Ghost      int
}

// MeshBlock is a concrete, owned mesh block instance: its logical
// location, its index ranges at both its own resolution and the coarse
// buffer resolution used for restriction, its variables (in declaration
// order — the order the boundary-exchange cache iterates, spec.md §4.F),
// and its neighbor descriptors.
type MeshBlock struct {
	GID  int
	Rank int
	Loc  forest.LogicalLocation
	Face forest.FaceID

	Bounds       CellBounds // interior + fine ghost, width NGHOST
	CoarseBounds CellBounds // coarse buffer, width NGHOST (cg)

	variables    []*Variable
	variableByName map[string]*Variable

	Neighbors []NeighborBlock
}

// NewMeshBlock constructs an empty block at the given location with the
// given interior size and ghost widths.
func NewMeshBlock(gid, rank int, face forest.FaceID, loc forest.LogicalLocation, nx1, nx2, nx3, nghost, cghost int) *MeshBlock {
	b := &MeshBlock{
		GID: gid, Rank: rank, Face: face, Loc: loc,
		Bounds: CellBounds{
			X1:    Range{S: nghost, E: nghost + nx1 - 1},
			X2:    Range{S: nghost, E: nghost + nx2 - 1},
			X3:    Range{S: nghost, E: nghost + nx3 - 1},
			Ghost: nghost,
		},
		CoarseBounds: CellBounds{
			X1:    Range{S: cghost, E: cghost + nx1/2 - 1},
			X2:    Range{S: cghost, E: cghost + nx2/2 - 1},
			X3:    Range{S: cghost, E: cghost + maxInt(nx3/2, 1) - 1},
			Ghost: cghost,
		},
		variableByName: make(map[string]*Variable),
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// AddVariable appends v to the block's declaration-ordered variable list.
func (b *MeshBlock) AddVariable(v *Variable) {
	b.variables = append(b.variables, v)
	b.variableByName[v.Name] = v
}

// Variables returns the block's variables in declaration order.
func (b *MeshBlock) Variables() []*Variable { return b.variables }

// Variable looks a variable up by name.
func (b *MeshBlock) Variable(name string) (*Variable, bool) {
	v, ok := b.variableByName[name]
	return v, ok
}

// FillGhostVariables returns the subset of Variables with the FillGhost
// flag set, in declaration order — the iteration spec.md §4.F requires.
func (b *MeshBlock) FillGhostVariables() []*Variable {
	out := make([]*Variable, 0, len(b.variables))
	for _, v := range b.variables {
		if v.Meta.Has(FillGhost) {
			out = append(out, v)
		}
	}
	return out
}

// SortedNeighbors returns Neighbors ordered by BufID, the order spec.md
// §4.F's cache iteration requires.
func (b *MeshBlock) SortedNeighbors() []NeighborBlock {
	out := make([]NeighborBlock, len(b.Neighbors))
	copy(out, b.Neighbors)
	sort.Slice(out, func(i, j int) bool { return out[i].BufID < out[j].BufID })
	return out
}

// AllocStatus returns one bit per variable (in declaration order)
// recording its current allocation state, used by the boundary cache to
// detect staleness (spec.md §4.F).
func (b *MeshBlock) AllocStatus() []bool {
	out := make([]bool, len(b.variables))
	for i, v := range b.variables {
		out[i] = v.Allocated
	}
	return out
}
