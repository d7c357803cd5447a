package forest

import "fmt"

// FaceID is a stable identifier for a forest face (a quadrilateral element
// of the macro topology, not a cell face — see GLOSSARY).
type FaceID uint32

// Corner names the four canonical corners of a face.
type Corner uint8

const (
	SW Corner = iota
	SE
	NW
	NE
)

// TreeEntry is the payload a face's local refinement tree maps a
// LogicalLocation to: which block owns that location and on which rank.
type TreeEntry struct {
	GID       int
	OwnerRank int
}

// Face is a quadrilateral element of the macro topology: four corner
// nodes in canonical [SW,SE,NW,NE] order, the four edges derived from
// those corners, and a local refinement tree mapping LogicalLocation to
// (gid, owner_rank). Face owns its edges and is the sole owner of its
// local tree; it shared-owns its corner nodes (spec.md §3, §9).
type Face struct {
	ID      FaceID
	Corners [4]NodeID // SW, SE, NW, NE

	// edges[loc] is the ordered node pair (canonical orientation) for
	// each of the four sides, derived once from Corners at registration.
	edges [4]Edge

	// RelOrient[loc] caches the orientation of the forest-level neighbor
	// across that edge, filled in by Forest.Build. 0 means
	// "not yet resolved" or "no neighbor" (domain boundary).
	RelOrient [4]int

	// tree is the local refinement tree: the set of keys forms a valid
	// quad/oct-tree cover (no ancestor-descendant overlap; siblings are
	// all present or all absent).
	tree map[LogicalLocation]TreeEntry

	ndim int
}

// NewFace registers a face with ndim (2 or 3) dimensions and its four
// corner nodes, in canonical [SW,SE,NW,NE] order. Registration mutates
// each node's face set (Node.addFace), establishing the weak back
// reference described in spec.md §9.
func NewFace(id FaceID, ndim int, corners [4]NodeID, nodes map[NodeID]*Node) *Face {
	f := &Face{
		ID:      id,
		Corners: corners,
		tree:    make(map[LogicalLocation]TreeEntry),
		ndim:    ndim,
	}
	f.edges = [4]Edge{
		South: {Nodes: [2]NodeID{corners[SW], corners[SE]}, Axis: 0},
		North: {Nodes: [2]NodeID{corners[NW], corners[NE]}, Axis: 0},
		West:  {Nodes: [2]NodeID{corners[SW], corners[NW]}, Axis: 1},
		East:  {Nodes: [2]NodeID{corners[SE], corners[NE]}, Axis: 1},
	}
	for _, id := range corners {
		if n, ok := nodes[id]; ok {
			n.addFace(f.ID)
		}
	}
	return f
}

// Edge returns the ordered node pair for one of the face's four sides.
func (f *Face) Edge(loc EdgeLoc) Edge {
	return f.edges[loc]
}

// Set inserts or overwrites the tree entry at loc.
func (f *Face) Set(loc LogicalLocation, entry TreeEntry) {
	f.tree[loc] = entry
}

// Lookup returns the tree entry at loc, if present.
func (f *Face) Lookup(loc LogicalLocation) (TreeEntry, bool) {
	e, ok := f.tree[loc]
	return e, ok
}

// Delete removes loc from the tree (used when coarsening replaces
// children with their parent).
func (f *Face) Delete(loc LogicalLocation) {
	delete(f.tree, loc)
}

// Leaves returns every LogicalLocation currently present in the tree,
// ordered by level and then by Morton key (LogicalLocation.Less).
func (f *Face) Leaves() []LogicalLocation {
	out := make([]LogicalLocation, 0, len(f.tree))
	for loc := range f.tree {
		out = append(out, loc)
	}
	sortLocations(out)
	return out
}

func sortLocations(locs []LogicalLocation) {
	// insertion sort: trees are small (one face's leaf set), and this
	// keeps the package free of a sort.Slice closure allocation per call.
	for i := 1; i < len(locs); i++ {
		v := locs[i]
		j := i - 1
		for j >= 0 && v.Less(locs[j]) {
			locs[j+1] = locs[j]
			j--
		}
		locs[j+1] = v
	}
}

// ValidateCover checks the quad/oct-tree cover invariant: no ancestor is
// present alongside one of its descendants, and siblings are either all
// present or all absent.
func (f *Face) ValidateCover() error {
	for loc := range f.tree {
		cur := loc
		for cur.Level > 0 {
			cur = cur.Parent()
			if _, ok := f.tree[cur]; ok {
				return fmt.Errorf("forest: face %d has ancestor %v overlapping descendant %v", f.ID, cur, loc)
			}
		}
	}
	for loc := range f.tree {
		if loc.Level == 0 {
			continue
		}
		parent := loc.Parent()
		siblings := parent.Children(f.ndim)
		present := 0
		for _, s := range siblings {
			if _, ok := f.tree[s]; ok {
				present++
			}
		}
		if present != 0 && present != len(siblings) {
			return fmt.Errorf("forest: face %d has partial sibling set under %v (%d/%d present)",
				f.ID, parent, present, len(siblings))
		}
	}
	return nil
}
