package forest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildTwoFaceMirror builds two unit squares sharing an edge with
// orientation -1 (mirror): face A's East edge is (SE,NE) = (n1,n3); face
// B's West edge is (SW,NW) = (n3,n1) — the same node pair, reversed.
func buildTwoFaceMirror(t *testing.T) (*Forest, FaceID, FaceID) {
	t.Helper()
	f := NewForest(2)
	n0 := f.AddNode(0, 0)
	n1 := f.AddNode(1, 0)
	n2 := f.AddNode(0, 1)
	n3 := f.AddNode(1, 1)
	n4 := f.AddNode(2, 0)
	n5 := f.AddNode(2, 1)

	faceA := f.AddFace([4]NodeID{n0, n1, n2, n3}) // SW,SE,NW,NE
	faceB := f.AddFace([4]NodeID{n3, n5, n1, n4})
	return f, faceA, faceB
}

func TestFindEdgeNeighborsMirror(t *testing.T) {
	f, faceA, faceB := buildTwoFaceMirror(t)
	require.NoError(t, f.Build())

	neighbors := f.FindEdgeNeighbors(faceA, East)
	require.Len(t, neighbors, 1)
	assert.Equal(t, faceB, neighbors[0].Face)
	assert.Equal(t, West, neighbors[0].Loc)
	assert.Equal(t, -1, neighbors[0].Orientation)

	// Symmetric from B's side.
	back := f.FindEdgeNeighbors(faceB, West)
	require.Len(t, back, 1)
	assert.Equal(t, faceA, back[0].Face)
	assert.Equal(t, East, back[0].Loc)
	assert.Equal(t, -1, back[0].Orientation)
}

func TestFindEdgeNeighborsBoundaryIsEmpty(t *testing.T) {
	f, faceA, _ := buildTwoFaceMirror(t)
	require.NoError(t, f.Build())

	// South and North of face A touch no other face: domain boundary.
	assert.Empty(t, f.FindEdgeNeighbors(faceA, South))
	assert.Empty(t, f.FindEdgeNeighbors(faceA, North))
}

func TestForestClosureInvariant(t *testing.T) {
	// §8.3: every face edge either lies on the domain boundary or has a
	// counterpart edge with orientation != 0 in a different face.
	f, faceA, faceB := buildTwoFaceMirror(t)
	require.NoError(t, f.Build())

	for _, id := range []FaceID{faceA, faceB} {
		face := f.Faces[id]
		for loc := EdgeLoc(0); loc < 4; loc++ {
			neighbors := f.FindEdgeNeighbors(id, loc)
			isShared := len(neighbors) > 0
			isBoundary := !isShared
			assert.True(t, isShared || isBoundary)
			if isBoundary {
				assert.Equal(t, 0, face.RelOrient[loc], "boundary edge caches no orientation")
			}
			for _, nb := range neighbors {
				assert.NotEqual(t, id, nb.Face, "counterpart must be in a different face")
				assert.NotEqual(t, 0, nb.Orientation, "counterpart must have orientation != 0")
			}
		}
	}
}

func TestRotateMirrorsAcrossEastWest(t *testing.T) {
	loc := LogicalLocation{Level: 2, Lx1: 1, Lx2: 3}
	rotated := Rotate(loc, West, -1)
	assert.Equal(t, int64(1), rotated.Lx1)
	assert.Equal(t, int64(0), rotated.Lx2) // bound=4, mirror(3) = 4-1-3 = 0
}

func TestValidateCoverRejectsOverlap(t *testing.T) {
	f := NewForest(2)
	n0 := f.AddNode(0, 0)
	n1 := f.AddNode(1, 0)
	n2 := f.AddNode(0, 1)
	n3 := f.AddNode(1, 1)
	faceID := f.AddFace([4]NodeID{n0, n1, n2, n3})
	face := f.Faces[faceID]

	root := NewRootLocation()
	face.Set(root, TreeEntry{GID: 0, OwnerRank: 0})
	face.Set(root.Child(0, 0, 0), TreeEntry{GID: 1, OwnerRank: 0})

	assert.Error(t, face.ValidateCover())
}

func TestValidateCoverRejectsPartialSiblingSet(t *testing.T) {
	f := NewForest(2)
	n0 := f.AddNode(0, 0)
	n1 := f.AddNode(1, 0)
	n2 := f.AddNode(0, 1)
	n3 := f.AddNode(1, 1)
	faceID := f.AddFace([4]NodeID{n0, n1, n2, n3})
	face := f.Faces[faceID]
	face.Delete(NewRootLocation())

	root := NewRootLocation()
	children := root.Children(2)
	for i := 0; i < 3; i++ { // only 3 of 4 siblings present
		face.Set(children[i], TreeEntry{GID: i, OwnerRank: 0})
	}

	assert.Error(t, face.ValidateCover())
}
