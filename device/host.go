package device

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// HostExecutor runs kernels as plain Go goroutines, one per team, with
// the thread/vector dimensions collapsed into a sequential inner loop —
// the CPU fallback when no OCCA device is configured.
type HostExecutor struct {
	// Teams bounds how many goroutines a single ParallelFor-style call
	// fans out to; zero means runtime.GOMAXPROCS(0).
	Teams int
}

func (h *HostExecutor) Name() string { return "Host" }

func (h *HostExecutor) Restrict(ctx context.Context, src, dst []float64, groupSize int) error {
	if groupSize <= 0 {
		return fmt.Errorf("device: groupSize must be positive, got %d", groupSize)
	}
	if len(src) != len(dst)*groupSize {
		return fmt.Errorf("device: len(src)=%d must equal len(dst)*groupSize=%d", len(src), len(dst)*groupSize)
	}

	teams := h.Teams
	if teams <= 0 {
		teams = runtime.GOMAXPROCS(0)
	}
	if teams > len(dst) {
		teams = len(dst)
	}
	if teams == 0 {
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	chunk := (len(dst) + teams - 1) / teams
	for t := 0; t < teams; t++ {
		start := t * chunk
		if start >= len(dst) {
			break
		}
		end := start + chunk
		if end > len(dst) {
			end = len(dst)
		}
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			for i := start; i < end; i++ {
				sum := 0.0
				for k := 0; k < groupSize; k++ {
					sum += src[i*groupSize+k]
				}
				dst[i] = sum / float64(groupSize)
			}
			return nil
		})
	}
	return g.Wait()
}

func (h *HostExecutor) Fence(ctx context.Context) error { return nil }
