package comm

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

type msgKey struct {
	src, dst, tag int
}

// Hub is the shared mailbox set backing a set of LocalRing communicators —
// every rank in the ring holds a pointer to the same Hub, so a send from
// rank 2 to rank 5 resolves to the same channel rank 5's Recv reads from.
// This is the in-process stand-in for the wire transport a real MPI
// binding would provide; see DESIGN.md for why no cgo MPI binding is
// wired in instead.
type Hub struct {
	mu        sync.Mutex
	queues    map[msgKey]chan Message
	queueSize int

	size       int
	barrierMu  sync.Mutex
	barrierGen int
	barrierN   int
	barrierC   *sync.Cond
}

// NewHub creates a Hub sized for numRanks ranks, each message queue
// buffered to depth queueSize before Isend falls back to a background
// goroutine.
func NewHub(numRanks, queueSize int) *Hub {
	h := &Hub{
		queues:    make(map[msgKey]chan Message),
		queueSize: queueSize,
		size:      numRanks,
	}
	h.barrierC = sync.NewCond(&h.barrierMu)
	return h
}

func (h *Hub) queueFor(k msgKey) chan Message {
	h.mu.Lock()
	defer h.mu.Unlock()
	q, ok := h.queues[k]
	if !ok {
		q = make(chan Message, h.queueSize)
		h.queues[k] = q
	}
	return q
}

// Rings returns one LocalRing per rank, all sharing h.
func (h *Hub) Rings() []*LocalRing {
	out := make([]*LocalRing, h.size)
	for r := 0; r < h.size; r++ {
		out[r] = &LocalRing{hub: h, rank: r}
	}
	return out
}

// LocalRing is a Communicator over a fixed set of in-process ranks,
// grounded on partitions.RemotePartition's Rank==-1-is-local convention:
// here every rank is "local" in the sense of sharing one process, but the
// Communicator interface is the same one a cross-process implementation
// would satisfy.
type LocalRing struct {
	hub  *Hub
	rank int
}

func (r *LocalRing) Rank() int { return r.rank }
func (r *LocalRing) Size() int { return r.hub.size }

func (r *LocalRing) Isend(ctx context.Context, msg Message) (func() bool, error) {
	msg.SrcRank = r.rank
	k := msgKey{src: r.rank, dst: msg.DstRank, tag: msg.Tag}
	q := r.hub.queueFor(k)

	select {
	case q <- msg:
		return func() bool { return true }, nil
	default:
	}

	var done int32
	go func() {
		select {
		case q <- msg:
		case <-ctx.Done():
		}
		atomic.StoreInt32(&done, 1)
	}()
	return func() bool { return atomic.LoadInt32(&done) == 1 }, nil
}

func (r *LocalRing) Iprobe(srcRank, tag int) bool {
	k := msgKey{src: srcRank, dst: r.rank, tag: tag}
	q := r.hub.queueFor(k)
	return len(q) > 0
}

func (r *LocalRing) Recv(ctx context.Context, srcRank, tag int) ([]float64, error) {
	k := msgKey{src: srcRank, dst: r.rank, tag: tag}
	q := r.hub.queueFor(k)
	select {
	case m := <-q:
		return m.Data, nil
	case <-ctx.Done():
		return nil, &TimeoutError{SrcRank: srcRank, Tag: tag}
	}
}

func (r *LocalRing) Barrier(ctx context.Context) error {
	h := r.hub
	h.barrierMu.Lock()
	gen := h.barrierGen
	h.barrierN++
	if h.barrierN == h.size {
		h.barrierN = 0
		h.barrierGen++
		h.barrierC.Broadcast()
		h.barrierMu.Unlock()
		return nil
	}
	done := make(chan struct{})
	go func() {
		h.barrierMu.Lock()
		for h.barrierGen == gen {
			h.barrierC.Wait()
		}
		h.barrierMu.Unlock()
		close(done)
	}()
	h.barrierMu.Unlock()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ExchangeAll issues every send in reqs concurrently via an errgroup and
// waits for all of them to have handed their data to the transport,
// returning the first error encountered (if any). The boundary-exchange
// engine uses this to fire a block's whole SortedNeighbors send set
// without serializing on each one's done() poll.
func ExchangeAll(ctx context.Context, c Communicator, reqs []Message) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, req := range reqs {
		req := req
		g.Go(func() error {
			done, err := c.Isend(ctx, req)
			if err != nil {
				return err
			}
			for !done() {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
			}
			return nil
		})
	}
	return g.Wait()
}
