package mesh

import "github.com/notargets/parthenon-forest/forest"

// directions2D lists the 8 von-Neumann-plus-corner offsets a 2D block
// can have a neighbor across: 4 edges and 4 corners. Face (ox3) offsets
// and their cross-face resolution are out of scope for this module — see
// DESIGN.md's "3D scope" entry: a block's Lx3 motion never crosses a
// Face boundary in this forest model (Face is fundamentally a 2D quad),
// so an out-of-range Lx3 request is a domain boundary, not a forest
// lookup, and is simply skipped (no NeighborBlock emitted).
var directions2D = [][2]int{
	{0, -1}, {0, 1}, {-1, 0}, {1, 0}, // S, N, W, E
	{-1, -1}, {1, -1}, {-1, 1}, {1, 1}, // SW, SE, NW, NE
}

// edgeForAxis maps a single-axis direction to the Face EdgeLoc it crosses.
func edgeForAxis(ox1, ox2 int) (forest.EdgeLoc, bool) {
	switch {
	case ox1 == 0 && ox2 == -1:
		return forest.South, true
	case ox1 == 0 && ox2 == 1:
		return forest.North, true
	case ox1 == -1 && ox2 == 0:
		return forest.West, true
	case ox1 == 1 && ox2 == 0:
		return forest.East, true
	default:
		return 0, false
	}
}

// nearChildOffset returns, for a neighbor located across offset ox along
// one axis, which of that neighbor's two children (at the next finer
// level) sits adjacent to the querying block: the child on the opposite
// side from the direction of travel.
func nearChildOffset(ox int) int64 {
	if ox > 0 {
		return 0
	}
	return 1
}

// EnumerateNeighbors implements spec.md §4.D for a 2D forest: for block b
// (owned by f.Faces[b.Face]), emit exactly one NeighborBlock for each
// (ox1,ox2,fi1,fi2) actually occupied — same-level, finer, or coarser —
// respecting the tree boundary and rotating cross-face queries by the
// shared edge's relative orientation.
func EnumerateNeighbors(f *forest.Forest, b *MeshBlock) []NeighborBlock {
	face := f.Faces[b.Face]
	if face == nil {
		return nil
	}

	var out []NeighborBlock
	for _, d := range directions2D {
		out = append(out, neighborsInDirection(f, face, b.Loc, d[0], d[1])...)
	}
	return out
}

func neighborsInDirection(f *forest.Forest, face *forest.Face, loc forest.LogicalLocation, ox1, ox2 int) []NeighborBlock {
	candidate := loc.Neighbor(int64(ox1), int64(ox2), 0)

	if candidate.InFace() {
		return withinFaceNeighbors(face, loc, candidate, ox1, ox2, 0)
	}

	edgeLoc, isEdge := edgeForAxis(ox1, ox2)
	if !isEdge {
		// Corner direction crossing a face boundary: compose two edge
		// hops (first resolve the ox1 edge, then from the neighboring
		// face resolve the ox2 edge in its rotated frame). Documented
		// simplification — see DESIGN.md "corner cross-face" entry.
		return cornerCrossFaceNeighbors(f, face, loc, ox1, ox2)
	}

	neighbors := f.FindEdgeNeighbors(face.ID, edgeLoc)
	var out []NeighborBlock
	for _, en := range neighbors {
		otherFace := f.Faces[en.Face]
		rotated := forest.Rotate(candidate, en.Loc, en.Orientation)
		out = append(out, withinFaceNeighbors(otherFace, loc, rotated, ox1, ox2, en.Orientation)...)
	}
	return out
}

func cornerCrossFaceNeighbors(f *forest.Forest, face *forest.Face, loc forest.LogicalLocation, ox1, ox2 int) []NeighborBlock {
	// First hop along ox1's edge if it crosses; fall back to ox2.
	var firstOx1, firstOx2 int
	if loc.Neighbor(int64(ox1), 0, 0).InFace() {
		firstOx1, firstOx2 = 0, ox2
	} else {
		firstOx1, firstOx2 = ox1, 0
	}
	edgeLoc, ok := edgeForAxis(firstOx1, firstOx2)
	if !ok {
		return nil
	}
	edgeNeighbors := f.FindEdgeNeighbors(face.ID, edgeLoc)
	var out []NeighborBlock
	for _, en := range edgeNeighbors {
		otherFace := f.Faces[en.Face]
		mid := loc.Neighbor(int64(firstOx1), int64(firstOx2), 0)
		rotatedMid := forest.Rotate(mid, en.Loc, en.Orientation)
		secondOx1, secondOx2 := ox1-firstOx1, ox2-firstOx2
		final := rotatedMid.Neighbor(int64(secondOx1), int64(secondOx2), 0)
		if final.InFace() {
			out = append(out, withinFaceNeighbors(otherFace, loc, final, ox1, ox2, en.Orientation)...)
		}
	}
	return out
}

// withinFaceNeighbors resolves a (now same-face) candidate location
// against face's local refinement tree, emitting a same-level, coarser,
// or finer NeighborBlock (or several, for a finer neighbor with multiple
// children touching the shared edge).
func withinFaceNeighbors(face *forest.Face, queryLoc, candidate forest.LogicalLocation, ox1, ox2, relOrient int) []NeighborBlock {
	if entry, ok := face.Lookup(candidate); ok {
		return []NeighborBlock{NewNeighborBlock(entry.GID, entry.OwnerRank, candidate.Level, ox1, ox2, 0, 0, 0, relOrient)}
	}

	if candidate.Level > 0 {
		parent := candidate.Parent()
		if entry, ok := face.Lookup(parent); ok {
			fi1 := siblingIndex(queryLoc, ox1, ox2)
			return []NeighborBlock{NewNeighborBlock(entry.GID, entry.OwnerRank, parent.Level, ox1, ox2, 0, fi1, 0, relOrient)}
		}
	}

	// Finer neighbor: the relevant child(ren) of candidate at level+1
	// touch the shared boundary. A corner direction has exactly one
	// near child; an edge direction has two, selected by fi1.
	var out []NeighborBlock
	switch {
	case ox1 != 0 && ox2 != 0: // corner: single near child
		child := candidate.Child(nearChildOffset(ox1), nearChildOffset(ox2), 0)
		if entry, ok := face.Lookup(child); ok {
			out = append(out, NewNeighborBlock(entry.GID, entry.OwnerRank, child.Level, ox1, ox2, 0, 0, 0, relOrient))
		}
	case ox1 != 0: // edge along axis1: free axis is axis2
		near := nearChildOffset(ox1)
		for fi1, free := range []int64{0, 1} {
			child := candidate.Child(near, free, 0)
			if entry, ok := face.Lookup(child); ok {
				out = append(out, NewNeighborBlock(entry.GID, entry.OwnerRank, child.Level, ox1, ox2, 0, fi1, 0, relOrient))
			}
		}
	case ox2 != 0: // edge along axis2: free axis is axis1
		near := nearChildOffset(ox2)
		for fi1, free := range []int64{0, 1} {
			child := candidate.Child(free, near, 0)
			if entry, ok := face.Lookup(child); ok {
				out = append(out, NewNeighborBlock(entry.GID, entry.OwnerRank, child.Level, ox1, ox2, 0, fi1, 0, relOrient))
			}
		}
	}
	return out
}

// siblingIndex identifies which of a parent's children queryLoc is, along
// the tangential axis of the offset direction (axis2 when ox1 != 0, else
// axis1 when ox2 != 0) — this becomes the
// coarser neighbor's fi1, letting the coarse side know which fine sibling
// is talking.
func siblingIndex(queryLoc forest.LogicalLocation, ox1, ox2 int) int {
	switch {
	case ox1 != 0:
		return int(queryLoc.Lx2 & 1)
	case ox2 != 0:
		return int(queryLoc.Lx1 & 1)
	default:
		return 0
	}
}
