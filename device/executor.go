// Package device provides the parallel execution abstraction the
// boundary-exchange pipeline's restriction/prolongation kernels run
// through: a device-parallel OCCA backend when one is available, and a
// host-parallel Go fallback otherwise. Both satisfy the same Executor
// interface so calling code never branches on which backend it has.
package device

import "context"

// Executor runs the fixed set of elementwise kernels the boundary
// pipeline needs across device memory, without exposing a general
// arbitrary-kernel launch surface — the PDE physics kernels the mesh
// ultimately computes are out of this module's scope (spec.md
// Non-goals); only the exchange-adjacent restrict/prolong primitives are
// modeled here.
type Executor interface {
	Name() string

	// Restrict averages groups of groupSize contiguous src values into
	// each dst value: dst[i] = mean(src[i*groupSize : (i+1)*groupSize]).
	Restrict(ctx context.Context, src, dst []float64, groupSize int) error

	// Fence blocks until every previously-issued operation on this
	// executor has completed.
	Fence(ctx context.Context) error
}
