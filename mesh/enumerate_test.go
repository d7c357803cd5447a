package mesh

import (
	"testing"

	"github.com/notargets/parthenon-forest/forest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func singleFaceForest(t *testing.T) (*forest.Forest, forest.FaceID) {
	t.Helper()
	f := forest.NewForest(2)
	n0 := f.AddNode(0, 0)
	n1 := f.AddNode(1, 0)
	n2 := f.AddNode(0, 1)
	n3 := f.AddNode(1, 1)
	faceID := f.AddFace([4]forest.NodeID{n0, n1, n2, n3})
	require.NoError(t, f.Build())
	return f, faceID
}

func TestEnumerateNeighborsSameLevel(t *testing.T) {
	f, faceID := singleFaceForest(t)
	face := f.Faces[faceID]
	face.Delete(forest.NewRootLocation())

	root := forest.NewRootLocation()
	children := root.Children(2) // [ (0,0) (1,0) (0,1) (1,1) ] level1
	for i, c := range children {
		face.Set(c, forest.TreeEntry{GID: i, OwnerRank: i})
	}

	b := NewMeshBlock(0, 0, faceID, children[0], 4, 4, 1, 2, 1)
	neighbors := EnumerateNeighbors(f, b)

	foundEast := false
	for _, nb := range neighbors {
		if nb.Ox1 == 1 && nb.Ox2 == 0 {
			foundEast = true
			assert.Equal(t, 1, nb.OwnerGID) // child (1,0)
			assert.Equal(t, 0, nb.Fi1)
			assert.Equal(t, 0, nb.Fi2)
		}
	}
	assert.True(t, foundEast, "expected an east same-level neighbor")
}

func TestEnumerateNeighborsCoarser(t *testing.T) {
	f, faceID := singleFaceForest(t)
	face := f.Faces[faceID]
	// Build a two-level cover: root split into 4 level-1 quadrants, with
	// quadrant (0,0) split again into 4 level-2 blocks, and enumerate the
	// neighbors of one level-2 block through EnumerateNeighbors.
	face.Delete(forest.NewRootLocation())
	root := forest.NewRootLocation()
	children := root.Children(2)
	for i, c := range children {
		if i == 0 {
			continue // leave (0,0) subdivided further below
		}
		face.Set(c, forest.TreeEntry{GID: 10 + i, OwnerRank: 0})
	}
	grandchildren := children[0].Children(2)
	for i, gc := range grandchildren {
		face.Set(gc, forest.TreeEntry{GID: i, OwnerRank: 0})
	}

	// grandchildren[2] is (0,1) at level 2. Its south (0,0) and east (1,1)
	// neighbor candidates stay inside children[0]'s level-2 subdivision
	// (same level), but its north candidate (0,2) at level 2 falls inside
	// children[2] == (0,1) at level 1, which is present only at level 1:
	// a coarser neighbor (as is the north-east candidate (1,2)).
	b := NewMeshBlock(0, 0, faceID, grandchildren[2], 4, 4, 1, 2, 1)
	neighbors := EnumerateNeighbors(f, b)

	foundCoarser := false
	for _, nb := range neighbors {
		if nb.Level == 1 {
			foundCoarser = true
		}
	}
	assert.True(t, foundCoarser, "expected at least one coarser neighbor")
}
