// Package boundary implements the buffer cache, send/recv state machines,
// and sparse-allocation protocol of the ghost-zone exchange pipeline
// (spec.md §4.F/§4.G/§4.H), built on the pick/place buffer bookkeeping
// utils.FaceConnector performs and the comm.Communicator transport.
package boundary

// SendStatus is the state of one outbound boundary buffer, advanced by
// the block that owns it (spec.md §4.G).
type SendStatus int

const (
	SendUninitialized SendStatus = iota
	SendPending
	SendFilled
	SendCompleted
	SendArrivedAtPeer
)

func (s SendStatus) String() string {
	switch s {
	case SendUninitialized:
		return "uninitialized"
	case SendPending:
		return "pending"
	case SendFilled:
		return "filled"
	case SendCompleted:
		return "completed"
	case SendArrivedAtPeer:
		return "arrived_at_peer"
	default:
		return "unknown"
	}
}

// RecvStatus is the state of one inbound boundary buffer.
type RecvStatus int

const (
	RecvPending RecvStatus = iota
	RecvArrived
	RecvCompleted
)

func (s RecvStatus) String() string {
	switch s {
	case RecvPending:
		return "pending"
	case RecvArrived:
		return "arrived"
	case RecvCompleted:
		return "completed"
	default:
		return "unknown"
	}
}
