// Package globals holds the process-wide context constructed once at
// startup (spec.md §9): the local rank and the sparse-allocation policy
// every package that touches sparse variables reads from.
package globals

import "github.com/notargets/parthenon-forest/boundary"

// SparseConfig is the sparse-allocation policy shared across the process.
type SparseConfig struct {
	AllocationThreshold float64
}

// DefaultSparseConfig mirrors boundary.DefaultAllocationThreshold — the
// same magnitude cutoff spec.md §4.H uses for both the P1 allocate-on-
// receipt test and boundary.SweepDeallocation's single-timestep
// below-threshold test.
func DefaultSparseConfig() SparseConfig {
	return SparseConfig{
		AllocationThreshold: boundary.DefaultAllocationThreshold,
	}
}

// Context is the process-wide state constructed once, before any block
// or communicator is created, and threaded read-only through the rest of
// the process.
type Context struct {
	MyRank       int
	SparseConfig SparseConfig
}

// NewContext constructs the process context for the given rank.
func NewContext(myRank int, sparse SparseConfig) *Context {
	return &Context{MyRank: myRank, SparseConfig: sparse}
}
