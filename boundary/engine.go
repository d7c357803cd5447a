package boundary

import (
	"context"
	"fmt"

	"github.com/notargets/parthenon-forest/bounds"
	"github.com/notargets/parthenon-forest/comm"
	"github.com/notargets/parthenon-forest/logging"
	"github.com/notargets/parthenon-forest/mesh"
)

// Engine drives the send/recv state machines for a set of locally-owned
// blocks over a comm.Communicator, with one send cache and one recv cache
// per block (spec.md §4.F/§4.G).
type Engine struct {
	Comm      comm.Communicator
	Threshold float64

	sendCaches map[int]*BufferCache
	recvCaches map[int]*BufferCache
}

// NewEngine creates an Engine over c, using threshold as the sparse
// allocate/deallocate magnitude cutoff.
func NewEngine(c comm.Communicator, threshold float64) *Engine {
	return &Engine{
		Comm:       c,
		Threshold:  threshold,
		sendCaches: make(map[int]*BufferCache),
		recvCaches: make(map[int]*BufferCache),
	}
}

func (e *Engine) sendCache(gid int) *BufferCache {
	c, ok := e.sendCaches[gid]
	if !ok {
		c = NewBufferCache()
		e.sendCaches[gid] = c
	}
	return c
}

func (e *Engine) recvCache(gid int) *BufferCache {
	c, ok := e.recvCaches[gid]
	if !ok {
		c = NewBufferCache()
		e.recvCaches[gid] = c
	}
	return c
}

// loadWindowFor computes the window block loads from when sending to nb.
func loadWindowFor(block *mesh.MeshBlock, nb mesh.NeighborBlock) mesh.CellBounds {
	switch {
	case nb.Level == block.Loc.Level:
		return bounds.LoadWindow(nb.Ox1, nb.Ox2, nb.Ox3, block.Bounds, block.Bounds.Ghost)
	case nb.Level > block.Loc.Level:
		return bounds.LoadToFiner(nb, block.Bounds, block.Bounds.Ghost+1)
	default:
		return bounds.LoadWindow(nb.Ox1, nb.Ox2, nb.Ox3, block.Bounds, block.Bounds.Ghost)
	}
}

// setWindowFor computes the window block writes into when receiving from nb.
func setWindowFor(block *mesh.MeshBlock, nb mesh.NeighborBlock) mesh.CellBounds {
	switch {
	case nb.Level == block.Loc.Level:
		return bounds.SetWindow(nb.Ox1, nb.Ox2, nb.Ox3, block.Bounds, block.Bounds.Ghost)
	case nb.Level > block.Loc.Level:
		return bounds.SetFromFiner(nb, block.Bounds, block.Bounds.Ghost)
	default:
		return bounds.SetFromCoarserWindow(nb, block.Loc, block.Bounds, block.CoarseBounds.Ghost)
	}
}

// SendBoundaries loads and issues every FillGhost variable's buffer for
// every neighbor of block. A sparse, currently-unallocated variable is
// never skipped: per spec.md §4.G step 3, its window is sent zero-filled
// with AllocTag=false so the receiver's tag-byte inspection (protocols
// P1/P2/P3, boundary/engine.go's RecvBoundaries) has something to
// observe — skipping the send entirely would leave a receiver blocked on
// Recv forever when its own copy is still allocated (spec.md §8 scenario 3).
func (e *Engine) SendBoundaries(ctx context.Context, block *mesh.MeshBlock) error {
	log := logging.Component("boundary").Sugar()
	cache := e.sendCache(block.GID)
	cache.RefreshAllocation(block)

	var reqs []comm.Message
	var bufs []*BoundaryBuffer

	for slot, v := range block.FillGhostVariables() {
		for _, nb := range block.SortedNeighbors() {
			win := loadWindowFor(block, nb)
			n := windowSize(win, v.Nv)
			buf := cache.Get(v.Name, nb.BufID, n)
			if len(buf.Data) != n {
				buf.Data = make([]float64, n)
			}
			if v.Allocated {
				packWindow(v, win, buf.Data)
			} else {
				zeroWindow(buf.Data)
			}
			buf.AllocTag = v.Allocated && buf.MaxAbs() > e.Threshold
			buf.SendStatus = SendFilled

			tag := TagFor(block.GID, nb.OwnerGID, slotBufID(nb.TargetID, slot))
			payload := append(append([]float64(nil), buf.Data...), allocTagValue(buf.AllocTag))
			reqs = append(reqs, comm.Message{DstRank: nb.OwnerRank, Tag: tag, Data: payload})
			bufs = append(bufs, buf)
			buf.SendStatus = SendPending
		}
	}

	if err := comm.ExchangeAll(ctx, e.Comm, reqs); err != nil {
		return fmt.Errorf("boundary: send from block %d: %w", block.GID, err)
	}
	for _, buf := range bufs {
		buf.SendStatus = SendCompleted
	}
	log.Debugw("sent boundary buffers", "block", block.GID, "count", len(reqs))
	return nil
}

// RecvBoundaries blocks (per neighbor, with ctx's deadline) until every
// FillGhost variable's buffer has arrived from every same-or-finer/coarser
// neighbor and unpacks it into block. A TimeoutError identifies exactly
// which neighbor/variable did not arrive in time.
//
// Sparse variables follow spec.md §4.H: P1, a nonzero AllocTag allocates
// an unallocated receiver before unpacking; P2, an all-zero buffer into
// an unallocated receiver is left unallocated (the unpack below is
// simply skipped); P3, an already-allocated receiver unpacks an
// all-zero buffer as zeros without deallocating.
func (e *Engine) RecvBoundaries(ctx context.Context, block *mesh.MeshBlock) error {
	log := logging.Component("boundary").Sugar()
	cache := e.recvCache(block.GID)
	cache.RefreshAllocation(block)

	for slot, v := range block.FillGhostVariables() {
		for _, nb := range block.SortedNeighbors() {
			win := setWindowFor(block, nb)
			n := windowSize(win, v.Nv)
			buf := cache.Get(v.Name, nb.BufID, n+1)

			tag := TagFor(nb.OwnerGID, block.GID, slotBufID(nb.BufID, slot))
			data, err := e.Comm.Recv(ctx, nb.OwnerRank, tag)
			if err != nil {
				return &TimeoutError{BlockGID: block.GID, NeighborGID: nb.OwnerGID, Variable: v.Name, cause: err}
			}
			if len(data) != n+1 {
				return fmt.Errorf("boundary: block %d recv from %d: expected %d floats + alloc tag, got %d", block.GID, nb.OwnerGID, n, len(data))
			}
			buf.AllocTag = data[len(data)-1] != 0
			buf.Data = data[:len(data)-1]
			buf.RecvStatus = RecvArrived

			if v.Meta.Has(mesh.Sparse) && buf.AllocTag && !v.Allocated {
				v.Allocate() // protocol P1: allocate on receipt of a nonzero AllocTag
			}
			if v.Allocated {
				unpackWindow(v, win, buf.Data)
			}
			buf.RecvStatus = RecvCompleted
		}
	}
	log.Debugw("received boundary buffers", "block", block.GID)
	return nil
}

// bufIDSpan is one more than the largest id mesh.ComputeBufID returns.
var bufIDSpan = mesh.ComputeBufID(1, 1, 1, 1, 1) + 1

// slotBufID folds a variable's position among the block's FillGhost
// variables into a buffer id, so each variable exchanged through the same
// neighbor slot gets its own message tag; slot 0 leaves the id unchanged.
func slotBufID(bufID, slot int) int {
	return bufID + slot*bufIDSpan
}

func allocTagValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
