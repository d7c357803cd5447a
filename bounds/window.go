// Package bounds computes the source/destination index windows the
// boundary-exchange pipeline packs from and unpacks into — spec.md §4.E.
// Every routine here must agree bit-exactly between the block that loads
// a window and the neighbor that sets the matching one (spec.md §8,
// invariant 1); that symmetry is by construction: both sides call the
// same functions with the same (ox,fi,level,lx,bounds) inputs derived
// from the shared NeighborBlock descriptor.
package bounds

import (
	"github.com/notargets/parthenon-forest/forest"
	"github.com/notargets/parthenon-forest/mesh"
)

// LoadSame computes the source window on the sending side of a
// same-level exchange: the full interior when ox==0, or a ghost-width
// slab from the near edge of the interior otherwise.
func LoadSame(ox int, b mesh.Range, g int) mesh.Range {
	switch {
	case ox == 0:
		return b
	case ox > 0:
		return mesh.Range{S: b.E - g + 1, E: b.E}
	default:
		return mesh.Range{S: b.S, E: b.S + g - 1}
	}
}

// SetSame computes the destination window on the receiving side of a
// same-level exchange: symmetric across the boundary from LoadSame —
// ox>0 writes just beyond the interior's far edge, ox<0 just before its
// near edge.
func SetSame(ox int, b mesh.Range, g int) mesh.Range {
	switch {
	case ox == 0:
		return b
	case ox > 0:
		return mesh.Range{S: b.E + 1, E: b.E + g}
	default:
		return mesh.Range{S: b.S - g, E: b.S - 1}
	}
}

// SetFromCoarser computes the destination window when the block is finer
// than the neighbor supplying the data, for one axis. lxParity is the
// even/odd-ness of this block's logical coordinate along the axis — it
// decides which half of a coarser neighbor's shared interior this block's
// own ghost extension aligns with when ox==0 and includeDim is set.
func SetFromCoarser(ox int, b mesh.Range, lxParity int64, cg int, includeDim bool) mesh.Range {
	if ox == 0 {
		if !includeDim {
			return b
		}
		if lxParity&1 == 0 {
			return mesh.Range{S: b.S, E: b.E + cg}
		}
		return mesh.Range{S: b.S - cg, E: b.E}
	}
	if ox > 0 {
		return mesh.Range{S: b.E + 1, E: b.E + cg}
	}
	return mesh.Range{S: b.S - cg, E: b.S - 1}
}

// halfRange splits r into its lower (half==0) or upper (half==1) half,
// used to restrict a free (tangential) axis to the portion a single
// finer sibling occupies.
func halfRange(r mesh.Range, half int) mesh.Range {
	n := r.Len()
	mid := n / 2
	if half == 0 {
		return mesh.Range{S: r.S, E: r.S + mid - 1}
	}
	return mesh.Range{S: r.S + mid, E: r.E}
}

// axisTriplet decomposes a NeighborBlock's offset/fine-index fields into
// per-axis ox values and the ordered list of fi values that govern the
// free (ox==0) axes, in priority order (axis1, then axis2, then axis3) —
// spec.md §4.E's exact rule: the highest-priority free axis takes fi1,
// the next free axis takes fi2.
func axisTriplet(nb mesh.NeighborBlock) (ox [3]int, fi [2]int) {
	return [3]int{nb.Ox1, nb.Ox2, nb.Ox3}, [2]int{nb.Fi1, nb.Fi2}
}

// SetFromFiner computes the destination window when the block is coarser
// than the neighbor supplying the data: normal (ox!=0) axes use the
// standard ghost-width SetSame window, and each free (ox==0) axis is
// restricted to the half its fi value selects, since only one finer
// sibling's worth of data arrives per NeighborBlock.
func SetFromFiner(nb mesh.NeighborBlock, b mesh.CellBounds, g int) mesh.CellBounds {
	ox, fi := axisTriplet(nb)
	bnds := [3]mesh.Range{b.X1, b.X2, b.X3}
	var axes [3]mesh.Range
	freeIdx := 0
	for d := 0; d < 3; d++ {
		if ox[d] != 0 {
			axes[d] = SetSame(ox[d], bnds[d], g)
			continue
		}
		axes[d] = halfRange(bnds[d], fi[freeIdx])
		freeIdx++
	}
	return mesh.CellBounds{X1: axes[0], X2: axes[1], X3: axes[2], Ghost: g}
}

// LoadToFiner is the source-side mirror of SetFromFiner: a coarser block
// preparing data to send to a finer neighbor loads a slab cnghost-1 cells
// wide (instead of g) along the normal axes, to supply the
// prolongation stencil the finer side will later apply, and the same
// per-axis half selection along free axes.
func LoadToFiner(nb mesh.NeighborBlock, b mesh.CellBounds, cnghost int) mesh.CellBounds {
	width := cnghost - 1
	ox, fi := axisTriplet(nb)
	bnds := [3]mesh.Range{b.X1, b.X2, b.X3}
	var axes [3]mesh.Range
	freeIdx := 0
	for d := 0; d < 3; d++ {
		if ox[d] != 0 {
			axes[d] = LoadSame(ox[d], bnds[d], width)
			continue
		}
		axes[d] = halfRange(bnds[d], fi[freeIdx])
		freeIdx++
	}
	return mesh.CellBounds{X1: axes[0], X2: axes[1], X3: axes[2], Ghost: width}
}

// LoadWindow and SetWindow apply the 3-axis same-level routines across an
// entire CellBounds in one call — the common case the send/recv pipeline
// uses for every same-level NeighborBlock.
func LoadWindow(ox1, ox2, ox3 int, b mesh.CellBounds, g int) mesh.CellBounds {
	return mesh.CellBounds{
		X1:    LoadSame(ox1, b.X1, g),
		X2:    LoadSame(ox2, b.X2, g),
		X3:    LoadSame(ox3, b.X3, g),
		Ghost: g,
	}
}

func SetWindow(ox1, ox2, ox3 int, b mesh.CellBounds, g int) mesh.CellBounds {
	return mesh.CellBounds{
		X1:    SetSame(ox1, b.X1, g),
		X2:    SetSame(ox2, b.X2, g),
		X3:    SetSame(ox3, b.X3, g),
		Ghost: g,
	}
}

// SetFromCoarserWindow applies SetFromCoarser across all three axes for a
// neighbor nb that is coarser than loc: axes with ox!=0 get the plain
// cg-width ghost slab, axes with ox==0 get extended only on the side
// loc's own parity along that axis selects, so that two fine siblings
// sharing the same coarser neighbor end up with non-overlapping extended
// windows.
func SetFromCoarserWindow(nb mesh.NeighborBlock, loc forest.LogicalLocation, b mesh.CellBounds, cg int) mesh.CellBounds {
	lx := [3]int64{loc.Lx1, loc.Lx2, loc.Lx3}
	ox := [3]int{nb.Ox1, nb.Ox2, nb.Ox3}
	bnds := [3]mesh.Range{b.X1, b.X2, b.X3}
	var axes [3]mesh.Range
	for d := 0; d < 3; d++ {
		axes[d] = SetFromCoarser(ox[d], bnds[d], lx[d], cg, ox[d] == 0)
	}
	return mesh.CellBounds{X1: axes[0], X2: axes[1], X3: axes[2], Ghost: cg}
}
