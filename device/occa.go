package device

import (
	"context"
	"fmt"
	"sync"
	"unsafe"

	"github.com/notargets/gocca"
)

// restrictKernelSource is a fixed OCCA kernel performing the same
// contiguous-group average HostExecutor.Restrict computes in Go, teamed
// over the destination array the way partition_occa_example.go's
// GradientKernel teams over partitions: one @outer team per chunk of
// destination cells, one @inner thread per cell within the chunk.
const restrictKernelSource = `
@kernel void restrictGroups(
    const double *src,
    double *dst,
    const int n,
    const int groupSize,
    const int chunk
) {
  for (int team = 0; team < (n + chunk - 1) / chunk; ++team; @outer) {
    for (int local = 0; local < chunk; ++local; @inner) {
      const int i = team * chunk + local;
      if (i < n) {
        double sum = 0.0;
        for (int k = 0; k < groupSize; ++k) {
          sum += src[i * groupSize + k];
        }
        dst[i] = sum / groupSize;
      }
    }
  }
}
`

// OCCAExecutor runs Executor operations on a real OCCA device, built the
// way builder.Builder.BuildKernel does: generate/cache the kernel once,
// then run it with freshly Malloc'd device buffers per call.
type OCCAExecutor struct {
	dev *gocca.OCCADevice

	mu     sync.Mutex
	kernel *gocca.OCCAKernel
}

// NewOCCAExecutor opens a device with the given OCCA JSON properties
// string (e.g. `{"mode": "Serial"}`), mirroring
// utils.CreateTestDevice's fallback-by-mode convention.
func NewOCCAExecutor(props string) (*OCCAExecutor, error) {
	dev, err := gocca.NewDevice(props)
	if err != nil {
		return nil, fmt.Errorf("device: opening OCCA device %q: %w", props, err)
	}
	return &OCCAExecutor{dev: dev}, nil
}

func (e *OCCAExecutor) Name() string { return "OCCA:" + e.dev.Mode() }

func (e *OCCAExecutor) buildKernel() (*gocca.OCCAKernel, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.kernel != nil {
		return e.kernel, nil
	}
	var kernel *gocca.OCCAKernel
	var err error
	if e.dev.Mode() == "OpenMP" {
		props := gocca.JsonParse(`{"compiler_flags": "-O3"}`)
		defer props.Free()
		kernel, err = e.dev.BuildKernelFromString(restrictKernelSource, "restrictGroups", props)
	} else {
		kernel, err = e.dev.BuildKernelFromString(restrictKernelSource, "restrictGroups", nil)
	}
	if err != nil {
		return nil, fmt.Errorf("device: building restrictGroups kernel: %w", err)
	}
	e.kernel = kernel
	return kernel, nil
}

func (e *OCCAExecutor) Restrict(ctx context.Context, src, dst []float64, groupSize int) error {
	if groupSize <= 0 {
		return fmt.Errorf("device: groupSize must be positive, got %d", groupSize)
	}
	n := len(dst)
	if len(src) != n*groupSize {
		return fmt.Errorf("device: len(src)=%d must equal len(dst)*groupSize=%d", len(src), n*groupSize)
	}
	if n == 0 {
		return nil
	}

	kernel, err := e.buildKernel()
	if err != nil {
		return err
	}

	const f64 = 8
	srcMem := e.dev.Malloc(int64(len(src)*f64), unsafe.Pointer(&src[0]), nil)
	defer srcMem.Free()
	dstMem := e.dev.Malloc(int64(n*f64), nil, nil)
	defer dstMem.Free()

	chunk := 64
	if chunk > n {
		chunk = n
	}

	if err := kernel.RunWithArgs(srcMem, dstMem, int32(n), int32(groupSize), int32(chunk)); err != nil {
		return fmt.Errorf("device: running restrictGroups: %w", err)
	}
	dstMem.CopyTo(unsafe.Pointer(&dst[0]), int64(n*f64))
	return nil
}

func (e *OCCAExecutor) Fence(ctx context.Context) error {
	e.dev.Finish()
	return nil
}
