// Package comm provides the non-blocking send/receive abstraction the
// boundary-exchange engine drives (spec.md §5). It is modeled directly on
// the rank==-1-means-local convention partitions.RemotePartition uses:
// a destination whose Rank equals the local Communicator's own Rank never
// leaves the process and is delivered by a buffered channel instead of a
// wire protocol, while any other rank is routed through the same
// Communicator interface so callers never branch on locality themselves.
package comm

import (
	"context"
	"fmt"
)

// Message is one boundary buffer in flight, tagged so the receiver can
// match it against the right NeighborBlock slot without a handshake.
type Message struct {
	SrcRank, DstRank int
	Tag              int
	Data             []float64
}

// Communicator is the non-blocking point-to-point interface the
// boundary-exchange engine uses. It deliberately mirrors an MPI
// rank/tag/Isend/Iprobe vocabulary so the engine's code would translate
// almost mechanically onto a real MPI binding if one were ever wired in;
// LocalRing is the only implementation this module ships, since the
// corpus carries no cgo MPI binding to depend on (see DESIGN.md).
type Communicator interface {
	Rank() int
	Size() int

	// Isend queues msg for delivery to msg.DstRank and returns
	// immediately; the send is complete (buffer reusable) once the
	// returned func reports true.
	Isend(ctx context.Context, msg Message) (done func() bool, err error)

	// Iprobe reports whether a message matching (srcRank, tag) has
	// arrived without consuming it.
	Iprobe(srcRank, tag int) bool

	// Recv blocks until a message matching (srcRank, tag) is available
	// and returns its payload.
	Recv(ctx context.Context, srcRank, tag int) ([]float64, error)

	// Barrier blocks until every rank in the communicator has called it.
	Barrier(ctx context.Context) error
}

// TimeoutError is returned by Recv when ctx expires before a matching
// message arrives.
type TimeoutError struct {
	SrcRank, Tag int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("comm: timed out waiting for message from rank %d tag %d", e.SrcRank, e.Tag)
}
