package boundary

import "fmt"

// TimeoutError identifies exactly which (block, neighbor, variable)
// receive did not complete before its context deadline — returned, never
// panicked, since a slow neighbor is an expected operating condition, not
// a programming error (spec.md §4.G).
type TimeoutError struct {
	BlockGID, NeighborGID int
	Variable              string
	cause                 error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("boundary: block %d timed out waiting for variable %q from neighbor %d: %v",
		e.BlockGID, e.Variable, e.NeighborGID, e.cause)
}

func (e *TimeoutError) Unwrap() error { return e.cause }
