package forest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogicalLocationParentChild(t *testing.T) {
	root := NewRootLocation()
	child := root.Child(1, 0, 1)
	require.Equal(t, uint32(1), child.Level)
	assert.Equal(t, root, child.Parent())
}

func TestLogicalLocationChildrenCount(t *testing.T) {
	root := NewRootLocation()
	assert.Len(t, root.Children(2), 4)
	assert.Len(t, root.Children(3), 8)
}

func TestLogicalLocationContains(t *testing.T) {
	a := LogicalLocation{Level: 1, Lx1: 1, Lx2: 0, Lx3: 0}
	b := a.Child(1, 1, 0)
	assert.True(t, a.Contains(b))
	assert.True(t, a.Contains(a))
	assert.False(t, b.Contains(a))
}

func TestLogicalLocationValid(t *testing.T) {
	assert.True(t, NewRootLocation().Valid())
	bad := LogicalLocation{Level: 1, Lx1: 2, Lx2: 0, Lx3: 0}
	assert.False(t, bad.Valid())
}

func TestMortonTotalOrder(t *testing.T) {
	// Within one level, Morton order must be a strict total order with no
	// collisions across the full 2^level x 2^level x 2^level index space.
	const level = 3
	bound := int64(1) << level
	seen := make(map[uint64]LogicalLocation)
	for x := int64(0); x < bound; x++ {
		for y := int64(0); y < bound; y++ {
			for z := int64(0); z < bound; z++ {
				loc := LogicalLocation{Level: level, Lx1: x, Lx2: y, Lx3: z}
				key := loc.Morton()
				if other, ok := seen[key]; ok {
					t.Fatalf("morton collision between %v and %v", loc, other)
				}
				seen[key] = loc
			}
		}
	}
}

func TestLogicalLocationLessOrdersByLevelThenMorton(t *testing.T) {
	coarse := LogicalLocation{Level: 0}
	fine := LogicalLocation{Level: 1, Lx1: 1}
	assert.True(t, coarse.Less(fine))
	assert.False(t, fine.Less(coarse))
}
