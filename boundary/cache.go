package boundary

import "github.com/notargets/parthenon-forest/mesh"

// BufferCache memoizes the BoundaryBuffer slots a block exchanges with
// its neighbors, keyed by variable name and NeighborBlock.BufID — the
// same two-level indexing utils.FaceConnector's PickIndices/PlaceIndices
// use per (sourcePartition, targetPartition) pair, generalized here to
// per (variable, bufID) since a block's neighbor set is fixed once built
// but its variable set can grow.
//
// The cache is invalidated wholesale whenever the block's allocation
// bitmap changes (spec.md §4.F): a sparse variable's buffers are only
// valid while its allocation status matches what they were built for.
type BufferCache struct {
	buffers   map[string]map[int]*BoundaryBuffer
	lastAlloc []bool
}

// NewBufferCache creates an empty cache.
func NewBufferCache() *BufferCache {
	return &BufferCache{buffers: make(map[string]map[int]*BoundaryBuffer)}
}

// Get returns the cached buffer for (varName, bufID), allocating it with
// capacity size on first access.
func (c *BufferCache) Get(varName string, bufID, size int) *BoundaryBuffer {
	perVar, ok := c.buffers[varName]
	if !ok {
		perVar = make(map[int]*BoundaryBuffer)
		c.buffers[varName] = perVar
	}
	buf, ok := perVar[bufID]
	if !ok {
		buf = NewBoundaryBuffer(size)
		perVar[bufID] = buf
	}
	return buf
}

// InvalidateAll drops every cached buffer, forcing the next Get to
// reallocate.
func (c *BufferCache) InvalidateAll() {
	c.buffers = make(map[string]map[int]*BoundaryBuffer)
}

// RefreshAllocation compares block's current AllocStatus against the
// bitmap the cache was last built for; on any mismatch it invalidates the
// whole cache and records the new bitmap, reporting whether it did so.
func (c *BufferCache) RefreshAllocation(block *mesh.MeshBlock) bool {
	current := block.AllocStatus()
	if allocEqual(c.lastAlloc, current) {
		return false
	}
	c.InvalidateAll()
	c.lastAlloc = current
	return true
}

func allocEqual(a, b []bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
