package forest

import (
	"fmt"

	metis "github.com/notargets/go-metis"
)

// Forest composes faces into the macro topology graph and resolves
// cross-face neighbor relationships (component C, spec.md §4.C).
type Forest struct {
	NDim  int
	Nodes map[NodeID]*Node
	Faces map[FaceID]*Face

	nextNodeID NodeID
	nextFaceID FaceID
}

// NewForest creates an empty forest of the given dimensionality (2 or 3).
func NewForest(ndim int) *Forest {
	if ndim != 2 && ndim != 3 {
		panic(fmt.Sprintf("forest: unsupported dimensionality %d", ndim))
	}
	return &Forest{
		NDim:  ndim,
		Nodes: make(map[NodeID]*Node),
		Faces: make(map[FaceID]*Face),
	}
}

// AddNode creates and registers a new node at the given coordinate,
// returning its stable id.
func (f *Forest) AddNode(coord ...float64) NodeID {
	id := f.nextNodeID
	f.nextNodeID++
	f.Nodes[id] = NewNode(id, coord...)
	return id
}

// AddFace creates and registers a new face from four corner node ids in
// canonical [SW,SE,NW,NE] order.
func (f *Forest) AddFace(corners [4]NodeID) FaceID {
	id := f.nextFaceID
	f.nextFaceID++
	face := NewFace(id, f.NDim, corners, f.Nodes)
	face.Set(NewRootLocation(), TreeEntry{GID: -1, OwnerRank: -1})
	f.Faces[id] = face
	return id
}

// Build resolves every face edge's relative orientation against its
// forest-level counterpart and verifies the closure invariant of §8.3:
// every face edge either lies on the domain boundary or has at least one
// counterpart edge with orientation != 0 in a different face.
func (f *Forest) Build() error {
	for _, face := range f.Faces {
		if err := face.ValidateCover(); err != nil {
			return err
		}
		for loc := EdgeLoc(0); loc < 4; loc++ {
			neighbors := f.FindEdgeNeighbors(face.ID, loc)
			if len(neighbors) > 0 {
				// Cache the first counterpart's orientation; additional
				// counterparts at non-manifold junctions are resolved
				// on demand by FindEdgeNeighbors, not cached here.
				face.RelOrient[loc] = neighbors[0].Orientation
			}
		}
	}
	return nil
}

// EdgeNeighbor is one counterpart of a queried edge: the face on the
// other side, which of its own edges is the match, and the relative
// orientation between the two.
type EdgeNeighbor struct {
	Face        FaceID
	Loc         EdgeLoc
	Orientation int
}

// FindEdgeNeighbors implements spec.md §4.C: collect the union of the
// associated-face sets of the queried edge's two endpoints (excluding the
// querying face itself), and for each candidate face's four edges, emit a
// neighbor entry wherever RelativeOrientation is nonzero. An edge may have
// more than two incident faces (non-manifold junctions); the result is
// order-independent, so callers must not rely on its ordering beyond
// determinism within one build.
func (f *Forest) FindEdgeNeighbors(faceID FaceID, loc EdgeLoc) []EdgeNeighbor {
	face, ok := f.Faces[faceID]
	if !ok {
		return nil
	}
	edge := face.Edge(loc)

	candidates := make(map[FaceID]bool)
	for _, nodeID := range edge.Nodes {
		node, ok := f.Nodes[nodeID]
		if !ok {
			continue
		}
		for _, fid := range node.Faces() {
			if fid != faceID {
				candidates[fid] = true
			}
		}
	}

	var out []EdgeNeighbor
	// Deterministic iteration: candidates map keys converted to a sorted
	// slice before use.
	ids := make([]FaceID, 0, len(candidates))
	for id := range candidates {
		ids = append(ids, id)
	}
	for i := 1; i < len(ids); i++ {
		v := ids[i]
		j := i - 1
		for j >= 0 && ids[j] > v {
			ids[j+1] = ids[j]
			j--
		}
		ids[j+1] = v
	}

	for _, candID := range ids {
		cand := f.Faces[candID]
		for candLoc := EdgeLoc(0); candLoc < 4; candLoc++ {
			candEdge := cand.Edge(candLoc)
			if orient := edge.RelativeOrientation(candEdge); orient != 0 {
				out = append(out, EdgeNeighbor{Face: candID, Loc: candLoc, Orientation: orient})
			}
		}
	}
	return out
}

// Rotate expresses a query location from this face's coordinate frame in
// the neighboring face's frame, by applying the cached relative
// orientation for the edge the query crossed. orientation == -1 mirrors
// the coordinate along the edge's axis; +1 leaves it unchanged.
func Rotate(loc LogicalLocation, loc2 EdgeLoc, orientation int) LogicalLocation {
	if orientation >= 0 {
		return loc
	}
	bound := int64(1) << loc.Level
	mirror := func(lx int64) int64 { return bound - 1 - lx }
	switch loc2 {
	case South, North:
		return LogicalLocation{Level: loc.Level, Lx1: mirror(loc.Lx1), Lx2: loc.Lx2, Lx3: loc.Lx3}
	default: // West, East
		return LogicalLocation{Level: loc.Level, Lx1: loc.Lx1, Lx2: mirror(loc.Lx2), Lx3: loc.Lx3}
	}
}

// AssignOwnership performs a one-shot, static assignment of every leaf
// location in the forest to a global block id and owning rank, using
// METIS to balance the element-to-rank graph partition at build time.
// This is initial ownership assignment, not repartitioning: spec.md's
// non-goal excludes *dynamic* load balancing, not the one-time split a
// forest needs before it can run at all.
func (f *Forest) AssignOwnership(numRanks int) error {
	if numRanks <= 0 {
		return fmt.Errorf("forest: numRanks must be positive, got %d", numRanks)
	}

	type leaf struct {
		face *Face
		loc  LogicalLocation
	}
	var leaves []leaf
	faceIDs := make([]FaceID, 0, len(f.Faces))
	for id := range f.Faces {
		faceIDs = append(faceIDs, id)
	}
	for i := 1; i < len(faceIDs); i++ {
		v := faceIDs[i]
		j := i - 1
		for j >= 0 && faceIDs[j] > v {
			faceIDs[j+1] = faceIDs[j]
			j--
		}
		faceIDs[j+1] = v
	}
	for _, id := range faceIDs {
		face := f.Faces[id]
		for _, loc := range face.Leaves() {
			leaves = append(leaves, leaf{face: face, loc: loc})
		}
	}
	if len(leaves) == 0 {
		return nil
	}
	if numRanks == 1 || len(leaves) <= numRanks {
		for i, l := range leaves {
			rank := i % numRanks
			l.face.Set(l.loc, TreeEntry{GID: i, OwnerRank: rank})
		}
		return nil
	}

	// Build a trivial chain adjacency (each leaf adjacent to its Morton
	// successor) purely so METIS has a connected graph to balance; the
	// real communication-minimizing adjacency would come from neighbor
	// enumeration, which is a later phase than ownership assignment.
	xadj := make([]int32, len(leaves)+1)
	adjncy := make([]int32, 0, 2*len(leaves))
	for i := range leaves {
		if i > 0 {
			adjncy = append(adjncy, int32(i-1))
		}
		if i < len(leaves)-1 {
			adjncy = append(adjncy, int32(i+1))
		}
		xadj[i+1] = int32(len(adjncy))
	}

	part, err := metis.PartGraphKway(xadj, adjncy, int32(numRanks))
	if err != nil {
		return fmt.Errorf("forest: metis partition failed: %w", err)
	}
	for i, l := range leaves {
		l.face.Set(l.loc, TreeEntry{GID: i, OwnerRank: int(part[i])})
	}
	return nil
}
